package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the mapping for post documents: English text for
// content and book titles, simple text for locations, keywords for ids and
// usernames, and a numeric timestamp for recency.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = en.AnalyzerName
	contentField.Store = true
	contentField.IncludeTermVectors = true // highlighting
	docMapping.AddFieldMappingsAt("content", contentField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("book_title", titleField)

	// Place names should not be stemmed.
	locationField := bleve.NewTextFieldMapping()
	locationField.Analyzer = simple.Name
	locationField.Store = true
	docMapping.AddFieldMappingsAt("location", locationField)

	for _, name := range []string{"id", "username", "book_id"} {
		kw := bleve.NewTextFieldMapping()
		kw.Analyzer = keyword.Name
		kw.Store = true
		docMapping.AddFieldMappingsAt(name, kw)
	}

	createdAtField := bleve.NewNumericFieldMapping()
	createdAtField.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtField)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

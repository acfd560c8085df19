package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/chapteredapp/chaptered-server/internal/domain"
)

// Sort orders.
const (
	SortRelevance = "relevance"
	SortRecent    = "recent"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// SearchParams configures a post search.
type SearchParams struct {
	Query    string
	Username string // only posts by this user; matched after normalization
	Limit    int
	Offset   int
	SortBy   string // SortRelevance (default) or SortRecent
}

// SearchResult is one page of hits.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is a matching post.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Username   string            `json:"username"`
	BookID     string            `json:"book_id,omitempty"`
	BookTitle  string            `json:"book_title,omitempty"`
	Content    string            `json:"content,omitempty"`
	Location   string            `json:"location,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search runs params against the index.
func (s *PostIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, max(params.Offset, 0), false)
	if params.SortBy == SortRecent {
		req.SortBy([]string{"-created_at", "-_score"})
	} else {
		req.SortBy([]string{"-_score", "-created_at"})
	}

	if strings.TrimSpace(params.Query) != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("content")
		req.Highlight.AddField("book_title")
	}

	req.Fields = []string{"username", "book_id", "book_title", "content", "location", "created_at"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		h.Username, _ = hit.Fields["username"].(string)
		h.BookID, _ = hit.Fields["book_id"].(string)
		h.BookTitle, _ = hit.Fields["book_title"].(string)
		h.Content, _ = hit.Fields["content"].(string)
		h.Location, _ = hit.Fields["location"].(string)
		if ms, ok := hit.Fields["created_at"].(float64); ok {
			h.CreatedAt = time.UnixMilli(int64(ms)).UTC()
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery matches the text against content (highest), book title and
// location, with a fuzzy and a prefix fallback on content. A username narrows
// the result set; no text and no username matches everything.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if text := strings.TrimSpace(params.Query); text != "" {
		contentMatch := bleve.NewMatchQuery(text)
		contentMatch.SetField("content")
		contentMatch.SetBoost(2.0)

		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("book_title")
		titleMatch.SetBoost(1.5)

		locationMatch := bleve.NewMatchQuery(text)
		locationMatch.SetField("location")

		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(text))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("content")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{contentMatch, titleMatch, locationMatch, fuzzy}

		if len(text) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(text))
			prefix.SetField("content")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Username != "" {
		userQuery := bleve.NewTermQuery(domain.NormalizeUsername(params.Username))
		userQuery.SetField("username")
		queries = append(queries, userQuery)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

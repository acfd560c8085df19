package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chapteredapp/chaptered-server/internal/catalog/googlebooks"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search the book catalog",
		Description: "Searches Google Books",
		Tags:        []string{"Catalog"},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogVolume",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/volumes/{id}",
		Summary:     "Get a catalog volume",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalogVolume)
}

// CatalogSearchInput holds catalog search parameters.
type CatalogSearchInput struct {
	Query string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search text (Google Books syntax such as intitle: is allowed)"`
	Limit int    `query:"limit" default:"10" minimum:"1" maximum:"40" doc:"Maximum results"`
}

// CatalogSearchOutput wraps catalog results for Huma.
type CatalogSearchOutput struct {
	Body []googlebooks.Volume
}

// CatalogVolumeInput identifies a volume.
type CatalogVolumeInput struct {
	ID string `path:"id" maxLength:"64" doc:"Google Books volume ID"`
}

// CatalogVolumeOutput wraps a volume for Huma.
type CatalogVolumeOutput struct {
	Body googlebooks.Volume
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *CatalogSearchInput) (*CatalogSearchOutput, error) {
	volumes, err := s.services.Catalog.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	if volumes == nil {
		volumes = []googlebooks.Volume{}
	}
	return &CatalogSearchOutput{Body: volumes}, nil
}

func (s *Server) handleGetCatalogVolume(ctx context.Context, input *CatalogVolumeInput) (*CatalogVolumeOutput, error) {
	volume, err := s.services.Catalog.Volume(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CatalogVolumeOutput{Body: *volume}, nil
}

package api

import "github.com/chapteredapp/chaptered-server/internal/service"

// Services groups the business services used by the handlers.
type Services struct {
	Auth    *service.AuthService
	Profile *service.ProfileService
	Library *service.LibraryService
	Stats   *service.StatsService
	Post    *service.PostService
	Search  *service.SearchService // nil when the index failed to open
	Catalog *service.CatalogService
}

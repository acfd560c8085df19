package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/chapteredapp/chaptered-server/internal/auth"
	"github.com/chapteredapp/chaptered-server/internal/config"
	"github.com/chapteredapp/chaptered-server/internal/logger"
	"github.com/chapteredapp/chaptered-server/internal/service"
	"github.com/chapteredapp/chaptered-server/internal/validation"
)

// ProvideClock provides the wall clock every service reads time through.
func ProvideClock(i do.Injector) (service.Clock, error) {
	return time.Now, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	now := do.MustInvoke[service.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, now, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	hasher := do.MustInvoke[*auth.Hasher](i)
	validator := do.MustInvoke[*validation.Validator](i)
	now := do.MustInvoke[service.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, hasher, validator, now, log.Logger), nil
}

// ProvideCatalogService provides catalog search for API clients.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	clientHandle := do.MustInvoke[*CatalogClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// A nil *Client must stay a nil interface.
	var client service.CatalogClient
	if clientHandle.Client != nil {
		client = clientHandle.Client
	}
	return service.NewCatalogService(client, log.Logger), nil
}

// ProvideLibraryService provides the per-user book shelf service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*CatalogClientHandle](i)
	placeholdersHandle := do.MustInvoke[*PlaceholdersHandle](i)
	now := do.MustInvoke[service.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		client       service.CatalogClient
		placeholders service.PlaceholderGenerator
	)
	if clientHandle.Client != nil {
		client = clientHandle.Client
	}
	if placeholdersHandle.Placeholders != nil {
		placeholders = placeholdersHandle.Placeholders
	}

	return service.NewLibraryService(storeHandle.Store, client, placeholders, now, log.Logger), nil
}

// ProvideProfileService provides the profile and mood service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	now := do.MustInvoke[service.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, validator, now, log.Logger), nil
}

// ProvideStatsService provides the reading statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	now := do.MustInvoke[service.Clock](i)

	return service.NewStatsService(storeHandle.Store, cfg.Stats.MoodWindowDays, now), nil
}

// ProvidePostService provides the social post service.
func ProvidePostService(i do.Injector) (*service.PostService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	now := do.MustInvoke[service.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPostService(storeHandle.Store, searchService, validator, now, log.Logger), nil
}

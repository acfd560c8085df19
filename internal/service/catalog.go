package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chapteredapp/chaptered-server/internal/catalog/googlebooks"
	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
)

// CatalogClient looks up book metadata. *googlebooks.Client implements it.
type CatalogClient interface {
	Search(ctx context.Context, query string, limit int) ([]googlebooks.Volume, error)
	Volume(ctx context.Context, id string) (*googlebooks.Volume, error)
}

// CatalogService exposes catalog search to API clients.
type CatalogService struct {
	client CatalogClient // nil when lookups are disabled
	logger *slog.Logger
}

// NewCatalogService creates a catalog service. client may be nil.
func NewCatalogService(client CatalogClient, logger *slog.Logger) *CatalogService {
	return &CatalogService{client: client, logger: logger}
}

// Enabled reports whether a catalog client is configured.
func (s *CatalogService) Enabled() bool {
	return s.client != nil
}

// Search finds volumes matching query.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]googlebooks.Volume, error) {
	if s.client == nil {
		return nil, domainerrors.Unavailable("catalog lookups are disabled")
	}
	volumes, err := s.client.Search(ctx, query, limit)
	if err != nil {
		return nil, s.translate(err)
	}
	return volumes, nil
}

// Volume fetches one volume.
func (s *CatalogService) Volume(ctx context.Context, id string) (*googlebooks.Volume, error) {
	if s.client == nil {
		return nil, domainerrors.Unavailable("catalog lookups are disabled")
	}
	v, err := s.client.Volume(ctx, id)
	if err != nil {
		return nil, s.translate(err)
	}
	return v, nil
}

func (s *CatalogService) translate(err error) error {
	switch {
	case errors.Is(err, googlebooks.ErrNotFound):
		return domainerrors.NotFound("volume not found").WithCause(err)
	case errors.Is(err, googlebooks.ErrInvalidID):
		return domainerrors.Validation("invalid volume id").WithCause(err)
	case errors.Is(err, googlebooks.ErrEmptyQuery), errors.Is(err, googlebooks.ErrBadRequest):
		return domainerrors.Validation("invalid catalog query").WithCause(err)
	case errors.Is(err, googlebooks.ErrRateLimited):
		return domainerrors.RateLimited("catalog is rate limiting requests, try again shortly").WithCause(err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		s.logger.Warn("catalog lookup failed", "error", err)
		return domainerrors.Unavailable("catalog is unavailable").WithCause(err)
	}
}

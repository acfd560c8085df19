package providers

import (
	"github.com/samber/do/v2"

	"github.com/chapteredapp/chaptered-server/internal/catalog/googlebooks"
	"github.com/chapteredapp/chaptered-server/internal/config"
	"github.com/chapteredapp/chaptered-server/internal/logger"
	"github.com/chapteredapp/chaptered-server/internal/media/images"
)

// CatalogClientHandle wraps the Google Books client with shutdown capability.
// Client is nil when catalog lookups are disabled.
type CatalogClientHandle struct {
	*googlebooks.Client
}

// Shutdown implements do.Shutdownable.
func (h *CatalogClientHandle) Shutdown() error {
	if h.Client != nil {
		h.Client.Close()
	}
	return nil
}

// ProvideCatalogClient provides the Google Books client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Catalog.Enabled {
		log.Info("Catalog lookups disabled by configuration")
		return &CatalogClientHandle{}, nil
	}

	client := googlebooks.New(googlebooks.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
	}, log.Logger)
	log.Info("Catalog client initialized", "base_url", cfg.Catalog.BaseURL)

	return &CatalogClientHandle{Client: client}, nil
}

// PlaceholdersHandle carries the BlurHash generator. Placeholders is nil when disabled.
type PlaceholdersHandle struct {
	*images.Placeholders
}

// ProvidePlaceholders provides the thumbnail placeholder generator.
func ProvidePlaceholders(i do.Injector) (*PlaceholdersHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Catalog.Enabled || !cfg.Catalog.BlurHash {
		return &PlaceholdersHandle{}, nil
	}
	return &PlaceholdersHandle{Placeholders: images.NewPlaceholders(log.Logger)}, nil
}

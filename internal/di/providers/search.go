package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/chapteredapp/chaptered-server/internal/config"
	"github.com/chapteredapp/chaptered-server/internal/logger"
	"github.com/chapteredapp/chaptered-server/internal/search"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

// SearchIndexHandle wraps the post index with shutdown capability.
type SearchIndexHandle struct {
	*search.PostIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve post index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewPostIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{PostIndex: index}, nil
}

// ProvideSearchService provides the post search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.PostIndex, storeHandle.Store, log.Logger), nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index from the store in the background.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	if docCount > 0 {
		return
	}

	go func() {
		ctx := context.Background()
		if err := searchService.EnsureIndexed(ctx); err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		if count, _ := searchService.DocumentCount(); count > 0 {
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}

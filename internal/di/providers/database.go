package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/chapteredapp/chaptered-server/internal/config"
	"github.com/chapteredapp/chaptered-server/internal/logger"
	"github.com/chapteredapp/chaptered-server/internal/store"
	"github.com/chapteredapp/chaptered-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the backend selected by STORE_DRIVER under the data directory.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	var (
		db   store.Store
		path string
		err  error
	)
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		path = filepath.Join(cfg.Data.BasePath, "chaptered.db")
		db, err = sqlite.Open(path, log.Logger)
	case config.StoreDriverBadger:
		path = filepath.Join(cfg.Data.BasePath, "db")
		db, err = store.Open(path, log.Logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Ping(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	log.Info("Database initialized", "driver", cfg.Store.Driver, "path", path)

	return &StoreHandle{Store: db}, nil
}

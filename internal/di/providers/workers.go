package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/chapteredapp/chaptered-server/internal/logger"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob starts the hourly purge of expired auth sessions.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(job.done)
		runSessionCleanup(ctx, sessionService, sessionCleanupInterval, log)
	}()

	log.Info("Session cleanup job started", "interval", sessionCleanupInterval)

	return job, nil
}

func runSessionCleanup(ctx context.Context, sessions *service.SessionService, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cleanup := func(initial bool) {
		count, err := sessions.DeleteExpiredSessions(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn("Session cleanup failed", "error", err, "initial", initial)
		case count > 0:
			log.Info("Session cleanup completed", "deleted", count, "initial", initial)
		}
	}

	cleanup(true)
	for {
		select {
		case <-ticker.C:
			cleanup(false)
		case <-ctx.Done():
			return
		}
	}
}

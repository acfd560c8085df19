package providers

import "time"

const (
	// shutdownTimeout bounds graceful shutdown of the HTTP server.
	shutdownTimeout = 30 * time.Second

	// sessionCleanupInterval is how often expired auth sessions are purged.
	sessionCleanupInterval = time.Hour
)

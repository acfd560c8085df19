// Package api serves the HTTP API: huma operations on a chi router.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chapteredapp/chaptered-server/internal/http/response"
	"github.com/chapteredapp/chaptered-server/internal/ratelimit"
	"github.com/chapteredapp/chaptered-server/internal/store"
)

const authPathPrefix = "/api/v1/auth/"

// Options configures the HTTP surface.
type Options struct {
	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// CORS is off when empty.
	CORSAllowedOrigins []string
	// AuthRateLimit is the number of auth requests allowed per client IP per minute.
	AuthRateLimit int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    *Services
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	authLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a server with every route registered.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.AuthRateLimit <= 0 {
		opts.AuthRateLimit = 20
	}

	s := &Server{
		store:       st,
		services:    services,
		router:      chi.NewRouter(),
		logger:      logger,
		authLimiter: ratelimit.PerMinute(opts.AuthRateLimit),
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Chaptered API", "1.0.0")
	humaConfig.Info.Description = "Reading journal: shelves, moods, posts and stats."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(logger)

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))

	if len(opts.CORSAllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	s.router.Use(RateLimitMiddleware(s.authLimiter, authPathPrefix, s.logger))
	s.router.Use(clientInfoMiddleware)
	s.router.Use(authMiddleware(s.services.Auth))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerProfileRoutes()
	s.registerBookRoutes()
	s.registerUserRoutes()
	s.registerSocialRoutes()
	s.registerSearchRoutes()
	s.registerCatalogRoutes()
}

// bearerAuth marks an operation as requiring an access token in the OpenAPI document.
var bearerAuth = []map[string][]string{{"bearer": {}}}

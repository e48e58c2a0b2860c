package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/config"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/storefront"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "storefront"

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	redis  *redis.Client
}

// NewServer wires the storefront. redisClient may be nil, in which case
// catalog responses are cached in memory and no rate limit applies.
func NewServer(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	router.Get("/health", healthHandler(redisClient))

	source := newSource(cfg, logger, redisClient)
	storefrontService := storefront.NewService(source, cfg.Viewer.ViewTTL, logger)
	storefrontHandler := transport.NewStorefrontHandler(storefrontService, logger)

	viewerTokens := custommiddleware.NewViewerTokens(cfg.Viewer.Secret, cfg.Viewer.TokenTTL)

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.ViewerMiddleware(viewerTokens, logger))
		r.Use(custommiddleware.LoggingMiddleware(logger))
		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         redisKeyPrefix + ":ratelimit",
			}, logger))
		}
		storefrontHandler.RegisterRoutes(r)
	})

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		redis:  redisClient,
	}
}

// newSource builds the catalog client, behind a response cache unless
// the cache TTL is zero
func newSource(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client) catalog.Source {
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, logger)
	if cfg.Cache.TTL <= 0 {
		return client
	}

	var c cache.Cache
	if redisClient != nil {
		c = cache.NewRedis(redisClient, redisKeyPrefix+":cache:")
	} else {
		c = cache.NewMemory()
	}
	return catalog.NewCachedSource(client, c, cfg.Cache.TTL, logger)
}

func healthHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				status["redis"] = "down"
				status["status"] = "degraded"
			} else {
				status["redis"] = "up"
			}
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, status)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, store *repository.FileStore) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "catalog_rate_limit",
		}, logger))
	}

	// Health check endpoint reports whether the backing file is readable
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.Load(r.Context()); err != nil {
			custommiddleware.RespondWithError(w, http.StatusServiceUnavailable, "catalog file unavailable")
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"data_file": store.Path(),
		})
	})

	// Initialize services
	productService := service.NewProductService(store)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	productHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

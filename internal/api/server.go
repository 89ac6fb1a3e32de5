package api

import (
	"context"
	"fmt"
	"log/slog"

	"zeko/internal/cache"
	"zeko/internal/config"
	"zeko/internal/database"
	"zeko/internal/handlers"
	"zeko/internal/logger"
	"zeko/internal/messaging"
	"zeko/internal/middleware"
	"zeko/internal/repository"
	"zeko/internal/search"
	"zeko/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	repos := repository.NewRepositories(db)

	// Каталог концертов из Elasticsearch, если индекс настроен
	if cfg.Elasticsearch.Enabled() {
		esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			logger.Fatal("Failed to connect to Elasticsearch", "error", err)
		}
		repos = repository.NewRepositoriesWithElasticsearch(db, esClient)
		slog.Info("Concert catalog served from Elasticsearch", "index", cfg.Elasticsearch.Index)
	}

	var natsClient *messaging.NATSClient
	var publisher service.EventPublisher
	if cfg.NATS.Enabled {
		natsClient, err = messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", "error", err)
		}
		publisher = natsClient
	}

	// Valkey кэширует проверку учетных данных; без него все идет в БД
	var valkeyClient *cache.ValkeyClient
	var credentialCache middleware.CredentialCache
	if cfg.Valkey.Enabled {
		valkeyClient, err = cache.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Warn("Valkey unavailable, credential cache disabled", "error", err)
		} else {
			credentialCache = valkeyClient
		}
	}

	services := service.NewServices(repos, publisher, cfg.Location())

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes(credentialCache)

	return server
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes(credentialCache middleware.CredentialCache) {
	h := handlers.NewHandlers(s.services, s.db, s.config.RequestTimeout)

	api := s.router.Group("/api")
	// Обязательная Basic Auth для всех API роутов
	api.Use(middleware.BasicAuth(s.repos.Clients, credentialCache))
	{
		reports := api.Group("/reports")
		{
			reports.GET("", h.GetReport)
			reports.GET("/weekly", h.GetWeeklyReport)
			reports.GET("/tickets", h.GetTicketStats)
		}
	}

	s.router.GET("/health", h.Health)

	if s.config.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup(ctx context.Context) error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	logger.WithContext(ctx).Info("Connections closed")
	return nil
}

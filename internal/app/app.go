package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"remo-monitor/internal/clients"
	"remo-monitor/internal/config"
	"remo-monitor/internal/handlers"
	"remo-monitor/internal/models"
	"remo-monitor/internal/publisher"
	"remo-monitor/internal/repository"
	"remo-monitor/internal/service"
	"remo-monitor/internal/worker"
	"remo-monitor/pkg/database"
	"remo-monitor/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

// App holds every long-lived dependency of the process.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	db          *gorm.DB
	redisClient *goredis.Client
	publisher   publisher.ReadingPublisher

	IngestService    service.IngestService
	ReadingService   service.ReadingService
	DeviceService    service.DeviceService
	DashboardService service.DashboardService
	ExportService    service.ExportService

	cacheRepo repository.CacheRepository
}

// New connects the configured backends. A missing DB_URL or access token is not fatal here:
// the affected operations report a ConfigError when called.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	readingRepo, err := a.connectStore()
	if err != nil {
		return nil, err
	}

	a.cacheRepo = repository.NewNoopCacheRepository()
	if cfg.Redis.Enabled {
		client, err := redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redisClient = client
		a.cacheRepo = repository.NewCacheRepository(client)
	}

	a.publisher = publisher.NewNoopPublisher()
	if cfg.MQTT.Broker != "" {
		pub, err := publisher.NewMQTTPublisher(ctx, publisher.Config{
			Broker:      cfg.MQTT.Broker,
			Port:        cfg.MQTT.Port,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.publisher = pub
	}

	remoClient := clients.NewRemoClient(clients.RemoConfig{
		AccessToken: cfg.Remo.AccessToken,
		Endpoint:    cfg.Remo.Endpoint,
		Timeout:     cfg.Remo.Timeout,
	})
	if cfg.Remo.AccessToken == "" {
		logger.Warn("NATURE_REMO_ACCESS_TOKEN is not set, upstream endpoints will fail")
	}

	a.IngestService = service.NewIngestService(remoClient, readingRepo, a.cacheRepo, a.publisher, logger)
	a.ReadingService = service.NewReadingService(readingRepo, a.cacheRepo, logger)
	a.DeviceService = service.NewDeviceService(remoClient)
	a.DashboardService = service.NewDashboardService(a.ReadingService)
	a.ExportService = service.NewExportService(a.ReadingService)

	return a, nil
}

func (a *App) connectStore() (repository.ReadingRepository, error) {
	db, err := database.Connect(database.Config{
		Driver:    a.cfg.DB.Driver,
		URL:       a.cfg.DB.URL,
		AccessKey: a.cfg.DB.AccessKey,
	})
	var cfgErr *models.ConfigError
	if errors.As(err, &cfgErr) {
		a.logger.Warn("store is not configured, store endpoints will fail", "error", err)
		return repository.NewUnavailableReadingRepository(err), nil
	}
	if err != nil {
		return nil, err
	}
	a.db = db

	if a.cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}
	return repository.NewReadingRepository(db), nil
}

// Run serves HTTP, and the ingest worker when enabled, until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	scheduler := worker.NewScheduler(a.logger)
	if a.cfg.Workers.IngestEnabled {
		scheduler.AddWorker(worker.NewIngestWorker(a.IngestService, a.cfg.Workers.RefreshInterval, a.logger))
		a.logger.Info("ingest worker enabled", "interval", a.cfg.Workers.RefreshInterval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + a.cfg.App.Port,
		Handler:      a.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Migrate creates the schema. It fails when no store is configured.
func (a *App) Migrate() error {
	if a.db == nil {
		return &models.ConfigError{
			Setting: "DB_URL",
			Message: "Store connection is not configured. Please set DB_URL in your environment variables.",
		}
	}
	return database.Migrate(a.db)
}

func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
	}
}

func (a *App) redisStats() handlers.StatsFunc {
	if a.redisClient == nil {
		return nil
	}
	return func(ctx context.Context) (map[string]string, error) {
		return redis.GetStats(ctx, a.redisClient)
	}
}

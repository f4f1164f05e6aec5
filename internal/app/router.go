package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"remo-monitor/internal/handlers"
	"remo-monitor/internal/middleware"
)

func (a *App) Router() *gin.Engine {
	if a.cfg.Debug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(a.logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", a.cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Inbound limiting only in production
	if !a.cfg.Debug() {
		limiter := middleware.NewIPRateLimiter(rate.Limit(a.cfg.RateLimit.RequestsPerSecond), a.cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter, a.logger))
		a.logger.Info("rate limiting enabled",
			"rps", a.cfg.RateLimit.RequestsPerSecond,
			"burst", a.cfg.RateLimit.Burst,
		)
	}

	sensorHandler := handlers.NewSensorHandler(a.IngestService, a.ReadingService, a.ExportService)
	deviceHandler := handlers.NewDeviceHandler(a.DeviceService)
	dashboardHandler := handlers.NewDashboardHandler(a.DashboardService)
	systemHandler := handlers.NewSystemHandler(a.ReadingService, a.cacheRepo, a.redisStats(), handlers.WorkerSettings{
		IngestEnabled:   a.cfg.Workers.IngestEnabled,
		RefreshInterval: a.cfg.Workers.RefreshInterval.String(),
	})

	r.GET("/healthz", systemHandler.Health)

	api := r.Group("/api")

	// Wrong verbs get 405 from the handlers themselves
	api.Any("/get-sensor-data", sensorHandler.GetSensorData)
	api.Any("/save-sensor-data", sensorHandler.SaveSensorData)

	api.GET("/devices", deviceHandler.GetDevices)
	api.GET("/temperature", deviceHandler.GetTemperature)
	api.GET("/latest", sensorHandler.GetLatest)
	api.GET("/export", sensorHandler.Export)
	api.GET("/dashboard", dashboardHandler.GetDashboard)
	api.GET("/system/stats", systemHandler.Stats)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Message: "Not found"})
	})

	return r
}

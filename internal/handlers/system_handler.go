package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"remo-monitor/internal/repository"
	"remo-monitor/internal/service"
)

// StatsFunc reports cache server statistics. A nil StatsFunc means the cache is disabled.
type StatsFunc func(ctx context.Context) (map[string]string, error)

type WorkerSettings struct {
	IngestEnabled   bool   `json:"ingest_enabled"`
	RefreshInterval string `json:"refresh_interval"`
}

type SystemHandler struct {
	readingService service.ReadingService
	cacheRepo      repository.CacheRepository
	redisStats     StatsFunc
	workers        WorkerSettings
}

func NewSystemHandler(
	readingService service.ReadingService,
	cacheRepo repository.CacheRepository,
	redisStats StatsFunc,
	workers WorkerSettings,
) *SystemHandler {
	return &SystemHandler{
		readingService: readingService,
		cacheRepo:      cacheRepo,
		redisStats:     redisStats,
		workers:        workers,
	}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	database := gin.H{}
	if count, err := h.readingService.Count(ctx); err != nil {
		database["error"] = err.Error()
	} else {
		database["sensor_data"] = count
	}

	ingest := gin.H{}
	if batches, err := h.cacheRepo.Get(ctx, service.IngestBatchesKey); err == nil && batches != "" {
		if n, err := strconv.ParseInt(batches, 10, 64); err == nil {
			ingest["batches"] = n
		}
	}
	if last, err := h.cacheRepo.Get(ctx, service.IngestLastKey); err == nil && last != "" {
		ingest["last_at"] = last
	}

	var redisStats interface{} = "disabled"
	if h.redisStats != nil {
		stats, err := h.redisStats(ctx)
		if err != nil {
			redisStats = gin.H{"error": err.Error()}
		} else {
			redisStats = stats
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"database": database,
		"ingest":   ingest,
		"redis":    redisStats,
		"workers":  h.workers,
	})
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/response"
)

// SystemHandler serves liveness, readiness and the runtime metrics
// snapshot. Redis is optional, so readiness only requires the database.
type SystemHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	metrics *service.MetricsService
}

// NewSystemHandler constructs a system handler.
func NewSystemHandler(db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService) *SystemHandler {
	return &SystemHandler{db: db, redis: redisClient, metrics: metrics}
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	status := http.StatusOK

	if h.db == nil {
		checks["database"] = "unconfigured"
		status = http.StatusServiceUnavailable
	} else if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if h.redis == nil {
		checks["redis"] = "disabled"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
	}

	if status == http.StatusOK {
		c.JSON(status, gin.H{"status": "ready", "checks": checks, "time": time.Now().UTC()})
		return
	}
	c.JSON(status, gin.H{"status": "unavailable", "checks": checks})
}

// Metrics godoc
// @Summary Runtime metrics snapshot
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /system/metrics [get]
func (h *SystemHandler) Metrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/pkg/notification"
)

// Pinger reports database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsSource exposes notification dispatcher counters
type StatsSource interface {
	Stats() notification.Stats
}

// HealthController reports service health
type HealthController struct {
	db     Pinger
	stats  StatsSource
	logger zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger, stats StatsSource, logger zerolog.Logger) *HealthController {
	return &HealthController{db: db, stats: stats, logger: logger}
}

// Health reports database reachability and notification counters
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Database: "ok"}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := c.db.Ping(pingCtx); err != nil {
		c.logger.Warn().Err(err).Msg("Health check: database unreachable")
		resp.Status = "degraded"
		resp.Database = "unreachable"
	}

	if c.stats != nil {
		s := c.stats.Stats()
		resp.Notifications = dto.NotificationStats{
			Queued:  s.Queued,
			Sent:    s.Sent,
			Failed:  s.Failed,
			Dropped: s.Dropped,
			Retried: s.Retried,
		}
	}

	status := http.StatusOK
	if resp.Database != "ok" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, dto.APIResponse{Success: status == http.StatusOK, Data: resp, Timestamp: time.Now()})
}

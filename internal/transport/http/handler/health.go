package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"turbot/internal/bootstrap"
	"turbot/internal/transport/http/response"
)

type HealthHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check reports per-capability availability. The service answers requests in
// degraded form when a dependency is down, so a missing dependency keeps the
// status at "degraded" rather than failing the check.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	mysqlStatus := h.checkMySQL(ctx)
	redisStatus := h.checkRedis(ctx)
	llmStatus := h.checkLLM()

	status := "ok"
	if !mysqlStatus.OK || !redisStatus.OK || !llmStatus.OK {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"app":        h.app.Config.App.Name,
		"env":        h.app.Config.App.Env,
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
		"dependencies": gin.H{
			"mysql": mysqlStatus,
			"redis": redisStatus,
			"llm":   llmStatus,
		},
	})
}

// Stats summarizes stored state and capability availability.
func (h *HealthHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response.OK(c, gin.H{
		"total_packages":           h.app.Ingest.PackageCount(),
		"indexed_chunks":           h.app.Indexer.Count(),
		"active_sessions":          h.app.Sessions.Count(),
		"upload_folder_size_bytes": h.app.Ingest.UploadDirSize(),
		"uptime_sec":               int(time.Since(h.app.StartedAt).Seconds()),
		"availability": gin.H{
			"database": h.checkMySQL(ctx).OK,
			"redis":    h.checkRedis(ctx).OK,
			"llm":      h.app.LLMReady,
			"index":    h.app.Indexer.Available(),
		},
	})
}

func (h *HealthHandler) checkMySQL(ctx context.Context) dependencyStatus {
	if h.app.MySQL == nil {
		return dependencyStatus{OK: false, Message: "not configured"}
	}
	sqlDB, err := h.app.MySQL.DB()
	if err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if h.app.Redis == nil {
		return dependencyStatus{OK: false, Message: "not configured"}
	}
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

func (h *HealthHandler) checkLLM() dependencyStatus {
	if !h.app.LLMReady {
		return dependencyStatus{OK: false, Message: "api key not configured"}
	}
	return dependencyStatus{OK: true}
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"stocklens/internal/services"
	"stocklens/pkg/contracts"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store     *services.ArtifactStore
	pipeline  *services.PipelineService
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *services.ArtifactStore, pipeline *services.PipelineService) *HealthHandler {
	return &HealthHandler{
		store:     store,
		pipeline:  pipeline,
		startedAt: time.Now(),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	available := 0
	for _, status := range h.store.List() {
		if status.Available {
			available++
		}
	}
	render.JSON(w, r, map[string]interface{}{
		"status":              "ok",
		"uptime":              time.Since(h.startedAt).Round(time.Second).String(),
		"pipeline_running":    h.pipeline.Running(),
		"artifacts_available": available,
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version": contracts.Version,
	})
}

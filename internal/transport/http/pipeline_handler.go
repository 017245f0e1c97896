package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "stocklens/internal/errors"
	"stocklens/internal/services"
)

// PipelineHandler exposes run control for the four-stage pipeline.
type PipelineHandler struct {
	service *services.PipelineService
	logger  *slog.Logger
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(service *services.PipelineService, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "pipeline")),
	}
}

// Routes returns the pipeline routes.
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/run", h.TriggerRun)
	r.Get("/status", h.GetStatus)

	return r
}

// TriggerRun handles POST /api/pipeline/run
func (h *PipelineHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Trigger(r.Context()); err != nil {
		if errors.As(err, &services.ErrRunInProgress{}) {
			render.Render(w, r, apierrors.New(http.StatusConflict, "RUN_IN_PROGRESS", err.Error()))
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to trigger pipeline run",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrPipelineFailed)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "accepted"})
}

// GetStatus handles GET /api/pipeline/status
func (h *PipelineHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.service.Status()
	if !ok {
		render.JSON(w, r, map[string]interface{}{"status": "idle"})
		return
	}
	render.JSON(w, r, snapshot)
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "stocklens/internal/errors"
	"stocklens/internal/services"
)

// ArtifactHandler serves the pipeline's output tables to the dashboard.
type ArtifactHandler struct {
	store  *services.ArtifactStore
	logger *slog.Logger
}

// NewArtifactHandler creates a new artifact handler.
func NewArtifactHandler(store *services.ArtifactStore, logger *slog.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "artifacts")),
	}
}

// Routes returns the artifact routes.
func (h *ArtifactHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListArtifacts)
	r.Get("/{name}", h.GetArtifact)
	r.Get("/ticker/{ticker}", h.GetTickerSeries)

	return r
}

// ListArtifacts handles GET /api/artifacts
func (h *ArtifactHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"artifacts": h.store.List(),
	})
}

// GetArtifact handles GET /api/artifacts/{name}
func (h *ArtifactHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		render.Render(w, r, apierrors.ErrValidation("name", "artifact name is required"))
		return
	}

	artifact, err := h.store.Get(name)
	if err != nil {
		h.logger.WarnContext(r.Context(), "artifact lookup failed",
			slog.String("artifact", name),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ArtifactNotFoundError(name))
		return
	}
	render.JSON(w, r, artifact)
}

// GetTickerSeries handles GET /api/artifacts/ticker/{ticker}
func (h *ArtifactHandler) GetTickerSeries(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		render.Render(w, r, apierrors.ErrValidation("ticker", "ticker symbol is required"))
		return
	}

	rows, err := h.store.TickerSeries(ticker)
	if err != nil {
		render.Render(w, r, apierrors.NewWithDetails(http.StatusNotFound, "TICKER_NOT_FOUND", err.Error(), ticker))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"ticker": ticker,
		"rows":   rows,
	})
}

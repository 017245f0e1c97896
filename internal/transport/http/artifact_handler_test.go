package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/config"
	"stocklens/internal/services"
	"stocklens/pkg/contracts/domain"
)

func testStore(t *testing.T) *services.ArtifactStore {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{
		BaseDir:    t.TempDir(),
		RawDir:     "raw",
		TickersDir: "tickers",
		ReportsDir: "reports",
		LogsDir:    "logs",
		SectorFile: "sector_data.csv",
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())

	require.NoError(t, os.WriteFile(paths.ArtifactPath(domain.ArtifactYearlyReturns),
		[]byte("ticker,yearly_return\nAAA,0.21\nBBB,-0.19\n"), 0644))

	store := services.NewArtifactStore(paths, slog.Default())
	store.Load(context.Background())
	return store
}

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	handler := NewArtifactHandler(testStore(t), slog.Default())
	r := chi.NewRouter()
	r.Mount("/api/artifacts", handler.Routes())
	return r
}

func TestListArtifacts(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Artifacts []services.ArtifactStatus `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Artifacts, len(domain.DerivedArtifacts)+1)
}

func TestGetArtifact(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/yearly_returns", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var artifact services.Artifact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &artifact))
	assert.Equal(t, domain.ArtifactYearlyReturns, artifact.Name)
	assert.Equal(t, 2, artifact.RowCount)
	require.Len(t, artifact.Rows, 2)
	assert.Equal(t, []string{"AAA", "0.21"}, artifact.Rows[0])
}

func TestGetArtifactNotFound(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/volatility", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ARTIFACT_NOT_FOUND", body["error_code"])
}

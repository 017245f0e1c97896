package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"stocklens/internal/config"
	"stocklens/internal/dataset"
	"stocklens/pkg/contracts/domain"
)

// Artifact is one loaded pipeline output. Rows are the raw CSV cells; typed
// interpretation is the caller's business. Loaded artifacts are immutable:
// a reload replaces the artifact, it never mutates one in place.
type Artifact struct {
	Name     string     `json:"name"`
	FileName string     `json:"file_name"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	LoadedAt time.Time  `json:"loaded_at"`
	RowCount int        `json:"row_count"`
}

// ArtifactStatus describes one artifact's availability for the dashboard.
type ArtifactStatus struct {
	Name      string `json:"name"`
	FileName  string `json:"file_name"`
	Available bool   `json:"available"`
	RowCount  int    `json:"row_count"`
	Problem   string `json:"problem,omitempty"`
}

// ArtifactStore is the dashboard's single source of loaded artifacts. It is
// constructed once at process start and passed to each handler; there is no
// module-level table state. A missing artifact is recorded as a problem and
// never prevents the other artifacts from loading.
type ArtifactStore struct {
	paths  *config.Paths
	logger *slog.Logger

	mu        sync.RWMutex
	artifacts map[string]*Artifact
	problems  map[string]string
}

// NewArtifactStore creates an artifact store for the configured layout.
func NewArtifactStore(paths *config.Paths, logger *slog.Logger) *ArtifactStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArtifactStore{
		paths:     paths,
		logger:    logger.With(slog.String("component", "artifact_store")),
		artifacts: make(map[string]*Artifact),
		problems:  make(map[string]string),
	}
}

// Load reads every derived artifact plus the cleaned table into the cache.
// Per-artifact failures are recorded and reported; siblings keep loading.
func (s *ArtifactStore) Load(ctx context.Context) {
	names := append([]string{domain.ArtifactCleaned}, domain.DerivedArtifacts...)

	loaded := make(map[string]*Artifact, len(names))
	problems := make(map[string]string)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return
		}
		artifact, err := s.read(name)
		if err != nil {
			problems[name] = err.Error()
			s.logger.Warn("artifact unavailable",
				slog.String("artifact", name),
				slog.String("problem", err.Error()))
			continue
		}
		loaded[name] = artifact
	}

	s.mu.Lock()
	s.artifacts = loaded
	s.problems = problems
	s.mu.Unlock()

	s.logger.Info("artifacts loaded",
		slog.Int("available", len(loaded)),
		slog.Int("unavailable", len(problems)))
}

func (s *ArtifactStore) read(name string) (*Artifact, error) {
	path := s.paths.ArtifactPath(name)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("artifact file not found: %s", path)
	}
	table, err := dataset.ReadTable(path)
	if err != nil {
		return nil, err
	}
	art, ok := domain.Artifacts[name]
	fileName := name + ".csv"
	if ok {
		fileName = art.FileName
	}
	return &Artifact{
		Name:     name,
		FileName: fileName,
		Columns:  table.Columns,
		Rows:     table.Rows,
		LoadedAt: time.Now(),
		RowCount: len(table.Rows),
	}, nil
}

// Get returns a loaded artifact, or the recorded problem for it.
func (s *ArtifactStore) Get(name string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if artifact, ok := s.artifacts[name]; ok {
		return artifact, nil
	}
	if problem, ok := s.problems[name]; ok {
		return nil, fmt.Errorf("artifact %s unavailable: %s", name, problem)
	}
	return nil, fmt.Errorf("unknown artifact: %s", name)
}

// List reports every known artifact's availability.
func (s *ArtifactStore) List() []ArtifactStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := append([]string{domain.ArtifactCleaned}, domain.DerivedArtifacts...)
	statuses := make([]ArtifactStatus, 0, len(names))
	for _, name := range names {
		status := ArtifactStatus{Name: name}
		if art, ok := domain.Artifacts[name]; ok {
			status.FileName = art.FileName
		}
		if artifact, ok := s.artifacts[name]; ok {
			status.Available = true
			status.RowCount = artifact.RowCount
		} else {
			status.Problem = s.problems[name]
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// TickerSeries extracts one ticker's rows from the cleaned table. Column
// lookup is flexible (case-insensitive, ticker/symbol synonyms) so the store
// also works over externally-supplied cleaned tables.
func (s *ArtifactStore) TickerSeries(ticker string) ([][]string, error) {
	artifact, err := s.Get(domain.ArtifactCleaned)
	if err != nil {
		return nil, err
	}

	table := &dataset.Table{Columns: artifact.Columns, Rows: artifact.Rows}
	col := table.Detect(dataset.TickerCandidates...)
	if col == -1 {
		return nil, fmt.Errorf("cleaned table has no ticker column (columns: %v)", artifact.Columns)
	}

	var rows [][]string
	for _, rec := range artifact.Rows {
		if dataset.Cell(rec, col) == ticker {
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ticker %s not found in cleaned table", ticker)
	}
	return rows, nil
}

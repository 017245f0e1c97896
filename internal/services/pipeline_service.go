package services

import (
	"context"
	"log/slog"
	"sync"

	"stocklens/internal/config"
	"stocklens/internal/operations"
	"stocklens/pkg/contracts/events"
)

// PipelineService runs the four-stage pipeline on behalf of the dashboard.
// At most one run is in flight at a time; a second trigger while a run is
// active is rejected rather than queued.
type PipelineService struct {
	paths       *config.Paths
	logger      *slog.Logger
	broadcaster operations.Broadcaster
	store       *ArtifactStore

	mu      sync.Mutex
	running bool
	manager *operations.Manager
	lastRun events.RunSnapshot
	hasRun  bool
}

// NewPipelineService creates a pipeline service. The broadcaster may be nil;
// the store may be nil when nothing needs reloading after a run.
func NewPipelineService(paths *config.Paths, logger *slog.Logger, broadcaster operations.Broadcaster, store *ArtifactStore) *PipelineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineService{
		paths:       paths,
		logger:      logger.With(slog.String("component", "pipeline_service")),
		broadcaster: broadcaster,
		store:       store,
	}
}

// ErrRunInProgress reports a rejected trigger.
type ErrRunInProgress struct{}

func (ErrRunInProgress) Error() string { return "a pipeline run is already in progress" }

// Trigger starts a pipeline run in the background. It returns immediately;
// progress is observable over the broadcaster and Status.
func (s *PipelineService) Trigger(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunInProgress{}
	}
	s.running = true
	manager := operations.NewManager(operations.DefaultSteps(s.paths, s.logger), s.logger, s.broadcaster)
	s.manager = manager
	s.mu.Unlock()

	go s.execute(context.WithoutCancel(ctx), manager)
	return nil
}

func (s *PipelineService) execute(ctx context.Context, manager *operations.Manager) {
	err := manager.Run(ctx)

	status := "completed"
	if err != nil {
		status = "failed"
	}
	snap := manager.Snapshot(status, "")
	if err != nil {
		snap.Error = err.Error()
	}

	s.mu.Lock()
	s.running = false
	s.lastRun = snap
	s.hasRun = true
	s.mu.Unlock()

	if err == nil && s.store != nil {
		s.store.Load(ctx)
	}
}

// Status reports the current or most recent run. The second return is false
// when no run has been triggered yet.
func (s *PipelineService) Status() (events.RunSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && s.manager != nil {
		return s.manager.Snapshot("running", ""), true
	}
	return s.lastRun, s.hasRun
}

// Running reports whether a run is currently in flight.
func (s *PipelineService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

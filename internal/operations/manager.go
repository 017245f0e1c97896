package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stocklens/internal/errors"
	"stocklens/internal/infrastructure"
	"stocklens/pkg/contracts/events"
)

// Broadcaster receives run snapshots for live consumers. The websocket hub
// implements it; a nil broadcaster is valid for CLI runs.
type Broadcaster interface {
	BroadcastRun(snapshot events.RunSnapshot)
}

// Manager executes the pipeline steps strictly in order. Each step reads the
// previous step's artifact from disk, so a failed step halts the run: its
// partial output must not be treated as valid input downstream.
type Manager struct {
	steps       []Step
	states      []*StepState
	logger      *slog.Logger
	broadcaster Broadcaster
	runID       string
	startedAt   time.Time
}

// NewManager creates a pipeline manager for the given steps.
func NewManager(steps []Step, logger *slog.Logger, broadcaster Broadcaster) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	states := make([]*StepState, len(steps))
	for i, step := range steps {
		states[i] = NewStepState(step.ID(), step.Name())
	}
	return &Manager{
		steps:       steps,
		states:      states,
		logger:      logger.With(slog.String("component", "operations_manager")),
		broadcaster: broadcaster,
	}
}

// Run executes all steps sequentially, stopping at the first failure.
func (m *Manager) Run(ctx context.Context) error {
	m.runID = infrastructure.NewRunID()
	m.startedAt = time.Now()
	ctx = infrastructure.WithRunID(ctx, m.runID)
	ctx = infrastructure.WithTraceID(ctx, m.runID)

	m.logger.InfoContext(ctx, "pipeline run starting",
		slog.String("run_id", m.runID),
		slog.Int("steps", len(m.steps)))
	m.broadcast("running", "")

	for i, step := range m.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := m.states[i]
		state.Start()
		m.broadcast("running", step.ID())

		stepCtx, span := infrastructure.StartStageSpan(ctx, step.ID())
		start := time.Now()
		err := step.Execute(stepCtx)
		infrastructure.StageDuration.WithLabelValues(step.ID()).Observe(time.Since(start).Seconds())
		infrastructure.EndStageSpan(span, err)

		if err != nil {
			state.Fail(err)
			wrapped := errors.NewStageError(step.ID(), err)
			m.logger.ErrorContext(ctx, "pipeline step failed",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			m.broadcastError(wrapped)
			return wrapped
		}

		state.Complete(fmt.Sprintf("completed in %s", state.Duration().Round(time.Millisecond)))
		m.logger.InfoContext(ctx, "pipeline step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", state.Duration()))
		m.broadcast("running", step.ID())
	}

	m.broadcast("completed", "")
	m.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", m.runID),
		slog.Duration("duration", time.Since(m.startedAt)))
	return nil
}

// Snapshot renders the current run state.
func (m *Manager) Snapshot(status, currentStep string) events.RunSnapshot {
	steps := make([]events.StepSnapshot, len(m.states))
	for i, state := range m.states {
		steps[i] = state.Snapshot()
	}
	return events.RunSnapshot{
		RunID:       m.runID,
		Status:      status,
		CurrentStep: currentStep,
		Steps:       steps,
		StartedAt:   m.startedAt,
		UpdatedAt:   time.Now(),
	}
}

func (m *Manager) broadcast(status, currentStep string) {
	if m.broadcaster == nil {
		return
	}
	m.broadcaster.BroadcastRun(m.Snapshot(status, currentStep))
}

func (m *Manager) broadcastError(err error) {
	if m.broadcaster == nil {
		return
	}
	snap := m.Snapshot("failed", "")
	snap.Error = err.Error()
	m.broadcaster.BroadcastRun(snap)
}

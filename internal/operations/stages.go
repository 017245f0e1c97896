package operations

import (
	"context"
	"fmt"
	"log/slog"

	"stocklens/internal/analytics"
	"stocklens/internal/config"
	"stocklens/internal/dataprocessing"
)

// Stage identifiers, in dependency order.
const (
	StageNormalize   = "normalize"
	StageConsolidate = "consolidate"
	StageClean       = "clean"
	StageDerive      = "derive"
)

// NormalizeStep wraps the schema normalizer as a pipeline step.
type NormalizeStep struct {
	normalizer *dataprocessing.Normalizer
}

// NewNormalizeStep creates the normalize step.
func NewNormalizeStep(paths *config.Paths, logger *slog.Logger) *NormalizeStep {
	return &NormalizeStep{normalizer: dataprocessing.NewNormalizer(paths, logger)}
}

func (s *NormalizeStep) ID() string   { return StageNormalize }
func (s *NormalizeStep) Name() string { return "Schema Normalizer" }

func (s *NormalizeStep) Execute(ctx context.Context) error {
	_, err := s.normalizer.Run(ctx)
	return err
}

// ConsolidateStep wraps the consolidator as a pipeline step.
type ConsolidateStep struct {
	consolidator *dataprocessing.Consolidator
}

// NewConsolidateStep creates the consolidate step.
func NewConsolidateStep(paths *config.Paths, logger *slog.Logger) *ConsolidateStep {
	return &ConsolidateStep{consolidator: dataprocessing.NewConsolidator(paths, logger)}
}

func (s *ConsolidateStep) ID() string   { return StageConsolidate }
func (s *ConsolidateStep) Name() string { return "Consolidator" }

func (s *ConsolidateStep) Execute(ctx context.Context) error {
	_, err := s.consolidator.Run(ctx)
	return err
}

// CleanStep wraps the cleaner as a pipeline step.
type CleanStep struct {
	cleaner *dataprocessing.Cleaner
}

// NewCleanStep creates the clean step.
func NewCleanStep(paths *config.Paths, logger *slog.Logger) *CleanStep {
	return &CleanStep{cleaner: dataprocessing.NewCleaner(paths, logger)}
}

func (s *CleanStep) ID() string   { return StageClean }
func (s *CleanStep) Name() string { return "Cleaner" }

func (s *CleanStep) Execute(ctx context.Context) error {
	_, err := s.cleaner.Run(ctx)
	return err
}

// DeriveStep wraps the derivation engine as a pipeline step. Individual
// artifact failures are isolated inside the engine; the step fails only when
// every artifact failed or the cleaned table is unusable.
type DeriveStep struct {
	engine *analytics.Engine
}

// NewDeriveStep creates the derive step.
func NewDeriveStep(paths *config.Paths, logger *slog.Logger) *DeriveStep {
	return &DeriveStep{engine: analytics.NewEngine(paths, logger)}
}

func (s *DeriveStep) ID() string   { return StageDerive }
func (s *DeriveStep) Name() string { return "Derivation Engine" }

func (s *DeriveStep) Execute(ctx context.Context) error {
	result, err := s.engine.Run(ctx)
	if err != nil {
		return err
	}
	if failed := result.Failed(); len(failed) == len(result.Errors) && len(failed) > 0 {
		return fmt.Errorf("all derivations failed: %v", failed)
	}
	return nil
}

// DefaultSteps builds the four pipeline steps in dependency order.
func DefaultSteps(paths *config.Paths, logger *slog.Logger) []Step {
	return []Step{
		NewNormalizeStep(paths, logger),
		NewConsolidateStep(paths, logger),
		NewCleanStep(paths, logger),
		NewDeriveStep(paths, logger),
	}
}

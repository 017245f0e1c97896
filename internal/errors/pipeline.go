package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline error taxonomy. Every failure path names the file, column or
// ticker that triggered it.

// MissingInputError reports a required source file or folder that is absent.
type MissingInputError struct {
	Path   string
	Reason string
}

func (e *MissingInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing input: %s", e.Path)
	}
	return fmt.Sprintf("missing input: %s: %s", e.Path, e.Reason)
}

// NewMissingInput creates a MissingInputError for the given path.
func NewMissingInput(path, reason string) *MissingInputError {
	return &MissingInputError{Path: path, Reason: reason}
}

// SchemaError reports required columns absent after normalization attempts.
// Columns are never silently invented.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// NewSchemaError creates a SchemaError listing the missing column names.
func NewSchemaError(source string, missing []string) *SchemaError {
	return &SchemaError{Source: source, Missing: missing}
}

// StageError wraps a failure of one pipeline stage. A stage failure is fatal
// to that stage's output but never corrupts already-written upstream artifacts.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err as a failure of the named stage.
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// IsMissingInput reports whether err is a MissingInputError anywhere in its chain.
func IsMissingInput(err error) bool {
	var target *MissingInputError
	return errors.As(err, &target)
}

// IsSchemaError reports whether err is a SchemaError anywhere in its chain.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

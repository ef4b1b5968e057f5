// Package pipeline sequences the workflow stages.
//
// Stages run one at a time in the order they were selected. A stage that
// returns an error or panics becomes a Failure result and the pipeline moves
// on; only composite mode stops at the first failure.
package pipeline

import (
	"context"
	"time"

	"github.com/mrz1836/gitassist/internal/gate"
)

// Stage is one named unit of work. Stages hold no state between runs.
type Stage interface {
	// Name is the stage identity used for selection.
	Name() string
	// Run executes the stage. A returned error is turned into a Failure.
	Run(ctx context.Context) (*StageResult, error)
}

// Outcome is the terminal state of a stage.
type Outcome string

// Stage outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// StageResult records what happened to one stage.
type StageResult struct {
	Stage     string        `json:"stage"`
	Outcome   Outcome       `json:"outcome"`
	Reason    string        `json:"reason,omitempty"`
	Verdict   *gate.Verdict `json:"verdict,omitempty"`
	Decision  gate.Decision `json:"decision,omitempty"`
	Err       error         `json:"-"`
	Error     string        `json:"error,omitempty"`
	Artifacts []string      `json:"artifacts,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// Succeeded reports whether the stage finished with OutcomeSuccess.
func (r *StageResult) Succeeded() bool {
	return r != nil && r.Outcome == OutcomeSuccess
}

// Success builds a successful result.
func Success(reason string) *StageResult {
	return &StageResult{Outcome: OutcomeSuccess, Reason: reason}
}

// Failure builds a failed result carrying err.
func Failure(reason string, err error) *StageResult {
	r := &StageResult{Outcome: OutcomeFailure, Reason: reason, Err: err}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

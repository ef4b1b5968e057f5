package pipeline

import "time"

// Mode selects how failures affect the rest of a run.
type Mode string

const (
	// ModeFreeForm runs every selected stage regardless of failures.
	ModeFreeForm Mode = "free-form"
	// ModeComposite runs the canonical stage list and stops at the first failure.
	ModeComposite Mode = "composite"
)

// Run is the record of one pipeline execution.
type Run struct {
	ID          string         `json:"id"`
	Mode        Mode           `json:"mode"`
	Selected    []string       `json:"selected"`
	Results     []*StageResult `json:"results"`
	Warnings    []string       `json:"warnings,omitempty"`
	Skipped     []string       `json:"skipped,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Failed reports whether any stage failed.
func (r *Run) Failed() bool {
	for _, res := range r.Results {
		if !res.Succeeded() {
			return true
		}
	}
	return false
}

// Failures returns the failed results in run order.
func (r *Run) Failures() []*StageResult {
	var out []*StageResult
	for _, res := range r.Results {
		if !res.Succeeded() {
			out = append(out, res)
		}
	}
	return out
}

// Result returns the result for a stage name, or nil if it did not run.
func (r *Run) Result(name string) *StageResult {
	for _, res := range r.Results {
		if res.Stage == name {
			return res
		}
	}
	return nil
}

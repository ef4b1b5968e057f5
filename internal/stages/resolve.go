package stages

import (
	"fmt"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/gate"
	"github.com/mrz1836/gitassist/internal/pipeline"
)

// resolveGate turns a verdict into a stage result. A verdict routed to
// Abort becomes a Failure carrying ErrGateAborted.
func resolveGate(d Deps, verdict gate.Verdict, label, question string) *pipeline.StageResult {
	switch gate.StateOf(verdict) {
	case gate.StateBlocked:
		d.Out.Critical(fmt.Sprintf("CRITICAL: %s failed: %s", label, verdict.Summary()))
	case gate.StateNeedsConfirmation:
		d.Out.Warning(fmt.Sprintf("%s failed: %s", label, verdict.Summary()))
	case gate.StateClear:
	}

	res := gate.Resolve(verdict, d.Decision, question)

	var result *pipeline.StageResult
	if res.Action == gate.ActionAbort {
		reason := fmt.Sprintf("%s aborted: %s", label, verdict.Summary())
		result = pipeline.Failure(reason, fmt.Errorf("%s: %w", label, gaerrors.ErrGateAborted))
	} else {
		reason := label + " passed"
		if res.Decision == gate.DecisionConfirmed {
			reason = label + " failed, continued by operator"
		}
		d.Out.Success(reason)
		result = pipeline.Success(reason)
	}
	result.Verdict = &verdict
	result.Decision = res.Decision
	return result
}

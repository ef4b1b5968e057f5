// Package errors provides centralized error handling for gitassist.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrExternalToolFailure indicates that an external tool (build tool,
	// scanner) exited with a non-zero status when success was required.
	ErrExternalToolFailure = errors.New("external tool failed")

	// ErrReportMissing indicates that an expected report file was not found.
	ErrReportMissing = errors.New("report file missing")

	// ErrReportMalformed indicates that a report file could not be parsed or
	// lacks the data the gate needs.
	ErrReportMalformed = errors.New("report file malformed")

	// ErrNoBaseBranchFound indicates that none of the base branch candidates
	// exist on the remote.
	ErrNoBaseBranchFound = errors.New("no base branch found")

	// ErrUnrecognizedSelection indicates that the operator selected a stage
	// or menu option that does not exist.
	ErrUnrecognizedSelection = errors.New("unrecognized selection")

	// ErrGateAborted indicates that a gate verdict was routed to abort, either
	// automatically (critical) or by the operator declining to continue.
	ErrGateAborted = errors.New("gate aborted")

	// ErrInvalidTicket indicates that the operator did not supply a ticket id
	// carrying the configured prefix.
	ErrInvalidTicket = errors.New("invalid ticket id")

	// ErrGitOperation indicates that a git command failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotGitRepo indicates that the working directory is not inside a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrDetachedHead indicates that HEAD does not point at a branch.
	ErrDetachedHead = errors.New("detached HEAD")

	// ErrPushAuthFailed indicates that the remote rejected push credentials.
	ErrPushAuthFailed = errors.New("push authentication failed")

	// ErrPushNetworkFailed indicates that the remote could not be reached.
	ErrPushNetworkFailed = errors.New("push network failure")

	// ErrPushRejected indicates that the remote rejected a non-fast-forward push.
	ErrPushRejected = errors.New("push rejected")

	// ErrOperationCanceled indicates that the operator canceled an operation
	// at a confirmation prompt.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrMenuCanceled indicates that an interactive prompt was dismissed or
	// could not be shown.
	ErrMenuCanceled = errors.New("menu canceled")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrMissingRequiredTools indicates that one or more required external tools
	// are missing from PATH or below the minimum version.
	ErrMissingRequiredTools = errors.New("required tools are missing or outdated")

	// ErrCommandTimeout indicates that an external command exceeded its timeout.
	ErrCommandTimeout = errors.New("command timed out")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidGates indicates an invalid gate threshold configuration value.
	ErrConfigInvalidGates = errors.New("invalid gate configuration")

	// ErrConfigInvalidGit indicates an invalid Git configuration value.
	ErrConfigInvalidGit = errors.New("invalid Git configuration")

	// ErrConfigInvalidCommand indicates an empty or invalid tool command.
	ErrConfigInvalidCommand = errors.New("invalid command configuration")

	// ErrRunFailed indicates that at least one stage of a pipeline run failed.
	ErrRunFailed = errors.New("one or more stages failed")

	// ErrRunInProgress indicates another gitassist run holds the work directory lock.
	ErrRunInProgress = errors.New("another gitassist run is in progress")

	// ErrInvalidOutputFormat indicates an unsupported --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
// Exit code 2 signals invalid input rather than an execution failure.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

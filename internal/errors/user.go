package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice keeps lookup order stable for errors.Is() traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Stages & gates
	// ===================
	{
		err: ErrExternalToolFailure,
		info: ErrorInfo{
			Message: "An external tool exited with an error. Check the output above.",
			Action:  "Fix the reported problem and run the stage again.",
		},
	},
	{
		err: ErrReportMissing,
		info: ErrorInfo{
			Message: "An expected report file was not found.",
			Action:  "Run the build stage first so the coverage report is produced.",
		},
	},
	{
		err: ErrReportMalformed,
		info: ErrorInfo{
			Message: "A report file could not be parsed.",
			Action:  "Inspect the report file and rerun the tool that produced it.",
		},
	},
	{
		err: ErrGateAborted,
		info: ErrorInfo{
			Message: "A gate stopped the pipeline.",
			Action:  "Review the generated report, fix the findings, and rerun the gate.",
		},
	},
	{
		err: ErrRunFailed,
		info: ErrorInfo{
			Message: "One or more stages failed.",
			Action:  "Review the run summary above and the run log under .gitassist/logs.",
		},
	},
	{
		err: ErrRunInProgress,
		info: ErrorInfo{
			Message: "Another gitassist run is using this directory.",
			Action:  "Wait for it to finish. If no run is active, delete .gitassist/run.lock.",
		},
	},
	{
		err: ErrInvalidTicket,
		info: ErrorInfo{
			Message: "No valid ticket id was entered.",
			Action:  "Enter a ticket id that starts with the configured prefix.",
		},
	},
	{
		err: ErrCommandTimeout,
		info: ErrorInfo{
			Message: "An external command took too long and was stopped.",
			Action:  "Increase the timeout in the configuration file.",
		},
	},

	// ===================
	// Git
	// ===================
	{
		err: ErrNoBaseBranchFound,
		info: ErrorInfo{
			Message: "None of the base branches exist on the remote.",
			Action:  "Check git.base_branches in the configuration or run 'git fetch'.",
		},
	},
	{
		err: ErrNotGitRepo,
		info: ErrorInfo{
			Message: "The current directory is not a git repository.",
			Action:  "Run gitassist from inside a git working tree.",
		},
	},
	{
		err: ErrDetachedHead,
		info: ErrorInfo{
			Message: "HEAD is detached, so there is no branch to push.",
			Action:  "Check out a branch with 'git checkout <branch>'.",
		},
	},
	{
		err: ErrPushAuthFailed,
		info: ErrorInfo{
			Message: "The remote rejected your credentials.",
			Action:  "Check your SSH key or credential helper and try again.",
		},
	},
	{
		err: ErrPushNetworkFailed,
		info: ErrorInfo{
			Message: "Could not reach the remote.",
			Action:  "Check your network connection and try again.",
		},
	},
	{
		err: ErrPushRejected,
		info: ErrorInfo{
			Message: "The remote branch has commits you do not have locally.",
			Action:  "Pull and rebase, then push again.",
		},
	},
	{
		err: ErrGitOperation,
		info: ErrorInfo{
			Message: "A git command failed.",
			Action:  "See the git output in the log for details.",
		},
	},

	// ===================
	// User interaction
	// ===================
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
	{
		err: ErrMenuCanceled,
		info: ErrorInfo{
			Message: "Prompt canceled.",
		},
	},
	{
		err: ErrUnrecognizedSelection,
		info: ErrorInfo{
			Message: "Unrecognized selection.",
			Action:  "Choose one of the listed options.",
		},
	},

	// ===================
	// Setup
	// ===================
	{
		err: ErrMissingRequiredTools,
		info: ErrorInfo{
			Message: "Required tools are missing or outdated.",
			Action:  "Run 'gitassist doctor' to see what needs installing.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration could not be loaded.",
		},
	},
	{
		err: ErrConfigInvalidGates,
		info: ErrorInfo{
			Message: "The gate thresholds in the configuration are invalid.",
			Action:  "Run 'gitassist config show' and fix the gates section.",
		},
	},
	{
		err: ErrConfigInvalidGit,
		info: ErrorInfo{
			Message: "The git settings in the configuration are invalid.",
			Action:  "Run 'gitassist config show' and fix the git section.",
		},
	},
	{
		err: ErrConfigInvalidCommand,
		info: ErrorInfo{
			Message: "A tool command in the configuration is empty.",
			Action:  "Set build.command, quality.command, and vulnerability.command.",
		},
	},
}

//nolint:gochecknoglobals // Pre-built index for direct sentinel lookups
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
// The action is empty when nothing useful can be suggested.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}

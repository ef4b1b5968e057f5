package gate

// State is the confirmation state derived from a verdict.
type State int

const (
	// StateClear means the verdict passed.
	StateClear State = iota
	// StateNeedsConfirmation means the operator decides.
	StateNeedsConfirmation
	// StateBlocked means the verdict aborts without asking.
	StateBlocked
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNeedsConfirmation:
		return "needs-confirmation"
	case StateBlocked:
		return "blocked"
	case StateClear:
		return "clear"
	default:
		return "clear"
	}
}

// Action is what the pipeline does after a gate.
type Action int

const (
	// ActionProceed continues to the next stage.
	ActionProceed Action = iota
	// ActionAbort stops the gate with a failure.
	ActionAbort
)

// String returns the action name.
func (a Action) String() string {
	if a == ActionAbort {
		return "abort"
	}
	return "proceed"
}

// Decision records who decided a resolution.
type Decision string

// Decisions recorded on a Resolution.
const (
	DecisionAutomatic Decision = "automatic"
	DecisionConfirmed Decision = "operator-confirmed"
	DecisionDeclined  Decision = "operator-declined"
)

// Asker asks the operator a yes/no question. Only an explicit yes counts.
type Asker interface {
	Ask(question string) bool
}

// Resolution is the confirmation gate outcome.
type Resolution struct {
	State    State
	Action   Action
	Decision Decision
}

// StateOf maps a verdict to its confirmation state.
func StateOf(v Verdict) State {
	switch {
	case v.Passed:
		return StateClear
	case v.Severity == SeverityCritical:
		return StateBlocked
	default:
		return StateNeedsConfirmation
	}
}

// Resolve routes a verdict. Only NeedsConfirmation consults the asker; the
// question is not asked for Clear or Blocked verdicts.
func Resolve(v Verdict, asker Asker, question string) Resolution {
	state := StateOf(v)
	switch state {
	case StateClear:
		return Resolution{State: state, Action: ActionProceed, Decision: DecisionAutomatic}
	case StateBlocked:
		return Resolution{State: state, Action: ActionAbort, Decision: DecisionAutomatic}
	case StateNeedsConfirmation:
	}

	if asker != nil && asker.Ask(question) {
		return Resolution{State: state, Action: ActionProceed, Decision: DecisionConfirmed}
	}
	return Resolution{State: state, Action: ActionAbort, Decision: DecisionDeclined}
}

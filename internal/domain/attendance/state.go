package attendance

// State is the position of the attendance button for a day.
type State string

const (
	StateGoWork         State = "GO_WORK"
	StateWaitingCheckIn State = "WAITING_CHECK_IN"
	StateWorking        State = "WORKING"
	StateReadyComplete  State = "READY_COMPLETE"
	StateCompleted      State = "COMPLETED"
)

type Command string

const (
	CommandAdvance Command = "advance"
	CommandPunch   Command = "punch"
	CommandReset   Command = "reset"
)

// DeriveState projects the day's events onto a button state. Any occurrence
// of a kind counts, so duplicates and ordering do not matter.
func DeriveState(events []Event) State {
	switch {
	case hasKind(events, EventComplete):
		return StateCompleted
	case hasKind(events, EventCheckOut):
		return StateReadyComplete
	case hasKind(events, EventCheckIn):
		return StateWorking
	case hasKind(events, EventDepart):
		return StateWaitingCheckIn
	default:
		return StateGoWork
	}
}

// NextEvent returns the event the advance command appends from s.
func NextEvent(s State) (EventKind, bool) {
	switch s {
	case StateGoWork:
		return EventDepart, true
	case StateWaitingCheckIn:
		return EventCheckIn, true
	case StateWorking:
		return EventCheckOut, true
	case StateReadyComplete:
		return EventComplete, true
	default:
		return "", false
	}
}

// Transition is the outcome of applying a command to a state.
type Transition struct {
	From   State
	Next   State
	Append *EventKind // event to log, nil when nothing is logged
	// Recalculate asks for the daily status of the day to be computed
	Recalculate bool
	// ClearDay asks for the day's events to be dropped
	ClearDay bool
}

// Applied reports whether the command had any effect.
func (t Transition) Applied() bool {
	return t.Append != nil || t.ClearDay
}

// TransitionOptions carries the shift flags the table depends on.
type TransitionOptions struct {
	ShowPunch bool
}

// Apply is the transition function of the attendance button. It never
// mutates anything: invalid commands yield a no-op transition.
func Apply(s State, cmd Command, opts TransitionOptions) Transition {
	t := Transition{From: s, Next: s}

	switch cmd {
	case CommandAdvance:
		kind, ok := NextEvent(s)
		if !ok {
			return t
		}
		t.Append = &kind
		t.Next = advance(s)
		t.Recalculate = kind == EventComplete

	case CommandPunch:
		if s != StateWorking || !opts.ShowPunch {
			return t
		}
		kind := EventPunch
		t.Append = &kind

	case CommandReset:
		t.Next = StateGoWork
		t.ClearDay = true
	}

	return t
}

// ApplyAction gates a requested event kind against the current state; the
// action runs only when it is exactly what the state allows next.
func ApplyAction(s State, action EventKind, opts TransitionOptions) Transition {
	if action == EventPunch {
		return Apply(s, CommandPunch, opts)
	}
	if next, ok := NextEvent(s); !ok || next != action {
		return Transition{From: s, Next: s}
	}
	return Apply(s, CommandAdvance, opts)
}

func advance(s State) State {
	switch s {
	case StateGoWork:
		return StateWaitingCheckIn
	case StateWaitingCheckIn:
		return StateWorking
	case StateWorking:
		return StateReadyComplete
	case StateReadyComplete:
		return StateCompleted
	default:
		return s
	}
}

package domain

import "go.trai.ch/zerr"

// State is the life-cycle state of one execution.
type State int

const (
	// StateCreated is the state of a freshly allocated context.
	StateCreated State = iota
	// StateConfigured means the configuration is bound onto the task.
	StateConfigured
	// StateInitialized means setup ran and discriminators were persisted.
	StateInitialized
	// StateRunning means the executor is working.
	StateRunning
	// StateCompleted means the commit marker was written.
	StateCompleted
	// StateFailed means the execution failed and its storage was discarded.
	StateFailed
	// StateDestroyed means teardown ran and the context was released.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	StateCreated:     {StateConfigured, StateFailed},
	StateConfigured:  {StateInitialized, StateFailed},
	StateInitialized: {StateRunning, StateFailed},
	StateRunning:     {StateCompleted, StateFailed},
}

// CanTransition reports whether the life cycle may move from s to next.
// Every live state may be destroyed.
func (s State) CanTransition(next State) bool {
	if next == StateDestroyed {
		return s != StateDestroyed
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates a move from s to next.
func (s State) Transition(next State) (State, error) {
	if !s.CanTransition(next) {
		err := zerr.With(zerr.Wrap(ErrIllegalTransition, ""), "from", s.String())
		return s, zerr.With(err, "to", next.String())
	}
	return next, nil
}

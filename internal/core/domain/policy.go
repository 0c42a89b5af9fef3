package domain

import "strings"

// ExecutionPolicy decides what a batch does when a compatible prior execution exists.
type ExecutionPolicy int

const (
	// PolicyInherit takes the policy of the enclosing batch.
	PolicyInherit ExecutionPolicy = iota
	// PolicyUseExisting reuses a compatible prior execution.
	PolicyUseExisting
	// PolicyRunAgain always executes again.
	PolicyRunAgain
	// PolicyAskExisting asks a confirmer whether to execute again.
	PolicyAskExisting
)

// ParsePolicy parses the textual form of an execution policy.
func ParsePolicy(s string) (ExecutionPolicy, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "-")) {
	case "":
		return PolicyInherit, nil
	case "use-existing":
		return PolicyUseExisting, nil
	case "run-again":
		return PolicyRunAgain, nil
	case "ask-existing":
		return PolicyAskExisting, nil
	default:
		return PolicyInherit, Tag(ErrInvalidPolicy, "policy", s)
	}
}

func (p ExecutionPolicy) String() string {
	switch p {
	case PolicyUseExisting:
		return "use-existing"
	case PolicyRunAgain:
		return "run-again"
	case PolicyAskExisting:
		return "ask-existing"
	default:
		return "inherit"
	}
}

// Or returns p, or fallback when p is PolicyInherit.
func (p ExecutionPolicy) Or(fallback ExecutionPolicy) ExecutionPolicy {
	if p == PolicyInherit {
		return fallback
	}
	return p
}

// AccessMode describes how a task intends to use a stored key.
type AccessMode int

const (
	// ReadOnly access never modifies the key.
	ReadOnly AccessMode = iota
	// ReadWrite access may modify or delete content.
	ReadWrite
	// AddOnly access may add content but never modifies existing content.
	AddOnly
)

func (m AccessMode) String() string {
	switch m {
	case ReadWrite:
		return "read-write"
	case AddOnly:
		return "add-only"
	default:
		return "read-only"
	}
}

// StorageKey addresses one object or folder in a context.
type StorageKey struct {
	ContextID string
	Key       string
}

func (k StorageKey) String() string {
	return k.ContextID + "/" + k.Key
}

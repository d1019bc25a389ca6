package models

import "time"

// Status is the lifecycle state of a compute instance.
type Status string

const (
	StatusProvisioning Status = "Provisioning"
	StatusRunning      Status = "Running"
	StatusStopping     Status = "Stopping"
	StatusStopped      Status = "Stopped"
	StatusUnknown      Status = "Unknown"
)

// Instance is an immutable snapshot of one compute instance. Records are
// replaced wholesale on every poll merge, never mutated in place.
type Instance struct {
	ID          string
	Name        string
	Zone        string
	Project     string
	Status      Status
	MachineType string
	InternalIP  string
	ExternalIP  string
	Labels      map[string]string
	Created     time.Time
	LastSeen    time.Time
}

// OpKind identifies a lifecycle command.
type OpKind string

const (
	OpStart   OpKind = "start"
	OpStop    OpKind = "stop"
	OpRestart OpKind = "restart"
	OpDelete  OpKind = "delete"
)

// Destructive reports whether the kind must pass through confirmation
// before it may be dispatched.
func (k OpKind) Destructive() bool {
	return k == OpStop || k == OpRestart || k == OpDelete
}

// Verb returns the kind as a display verb ("Start", "Stop", ...).
func (k OpKind) Verb() string {
	switch k {
	case OpStart:
		return "Start"
	case OpStop:
		return "Stop"
	case OpRestart:
		return "Restart"
	case OpDelete:
		return "Delete"
	}
	return string(k)
}

// OpPhase is the progress of a pending operation.
type OpPhase string

const (
	PhaseSubmitted OpPhase = "submitted"
	PhaseInFlight  OpPhase = "in-flight"
	PhaseSucceeded OpPhase = "succeeded"
	PhaseFailed    OpPhase = "failed"
)

// PendingOperation tracks the single in-flight (or failed-and-undismissed)
// lifecycle command attached to one instance id.
type PendingOperation struct {
	Kind        OpKind
	Phase       OpPhase
	SubmittedAt time.Time
	FailReason  string
}

// Terminal reports whether the operation has finished, successfully or not.
func (op PendingOperation) Terminal() bool {
	return op.Phase == PhaseSucceeded || op.Phase == PhaseFailed
}

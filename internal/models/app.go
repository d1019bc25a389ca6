package models

import "time"

// Mode is the interaction state machine's current view mode. At most one
// modal mode is active at a time.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeHelp
	ModeFilterEditing
	ModeSearchEditing
	ModeConfirm
)

// Confirmation names the concrete instance and kind awaiting the confirm
// key. The id is re-validated against the store when the operator confirms.
type Confirmation struct {
	ID   string
	Name string
	Kind OpKind
}

// InteractionState represents the UI state - only local UI concerns
type InteractionState struct {
	Mode         Mode
	SelectedID   string        // Selected row, tracked by instance id
	FilterText   string        // Raw filter expression being edited
	FilterActive string        // Last successfully compiled filter expression
	FilterErr    string        // Inline error for an invalid filter expression
	SearchText   string        // Raw search query being edited
	SearchActive string        // Applied search query
	CurrentMatch int           // Index of the current search match
	Confirm      *Confirmation // Pending confirmation, ModeConfirm only
	StatusMsg    string        // Transient status bar message
	StatusUntil  time.Time     // Deadline after which StatusMsg is cleared
	Width        int           // Terminal width
	Height       int           // Terminal height
}

// Modal reports whether a modal overlay is active.
func (s *InteractionState) Modal() bool {
	return s.Mode == ModeDetail || s.Mode == ModeHelp || s.Mode == ModeConfirm
}

// SetStatus shows a transient status bar message for d.
func (s *InteractionState) SetStatus(msg string, d time.Duration) {
	s.StatusMsg = msg
	s.StatusUntil = time.Now().Add(d)
}

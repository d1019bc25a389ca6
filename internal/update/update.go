// Package update is the interaction state machine: it translates input
// events into state transitions, store queries and command intents. It
// never performs I/O itself; all side effects go through the event bus.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/store"
	"github.com/g1c/g1c/internal/view"
)

// statusTTL is how long transient status messages stay visible.
const statusTTL = 5 * time.Second

// Model is the UI-side state: interaction state plus the latest snapshot
// pushed by the core. The snapshot is read-only here; mutations happen in
// the core and arrive as fresh snapshots.
type Model struct {
	State    models.InteractionState
	Snapshot store.Snapshot
	Input    textinput.Model
	Keys     KeyMap

	// prevFilter restores the active filter when editing is cancelled.
	prevFilter string

	// LoadingDots animates the status bar while operations are in flight.
	LoadingDots int

	Project    string
	Region     string
	CLIVersion string
}

// NewModel creates the initial UI model.
func NewModel(project, region, cliVersion string) Model {
	ti := textinput.New()
	ti.CharLimit = 120
	return Model{
		Input:      ti,
		Keys:       DefaultKeyMap(),
		Project:    project,
		Region:     region,
		CLIVersion: cliVersion,
	}
}

// Projection derives the current render model. Pure; callable any number
// of times per frame.
func (m *Model) Projection() view.RenderModel {
	return view.Project(m.Snapshot, m.State)
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Handle routes one message through the state machine.
func Handle(m *Model, msg tea.Msg, bus *eventbus.EventBus) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKey(m, msg, bus)
	case tea.WindowSizeMsg:
		m.State.Width = msg.Width
		m.State.Height = msg.Height
		return nil
	case TickMsg:
		return HandleTick(m)
	case CoreEventMsg:
		HandleCoreEvent(m, msg.Event)
		return nil
	}
	return nil
}

// HandleTick expires the transient status message and drives the loading
// animation.
func HandleTick(m *Model) tea.Cmd {
	if m.State.StatusMsg != "" && time.Now().After(m.State.StatusUntil) {
		m.State.StatusMsg = ""
	}
	if anyInFlight(m.Snapshot) {
		m.LoadingDots = m.LoadingDots%3 + 1
	} else {
		m.LoadingDots = 0
	}
	return TickCmd()
}

func anyInFlight(snap store.Snapshot) bool {
	for _, e := range snap.Entries {
		if e.Op != nil && !e.Op.Terminal() {
			return true
		}
	}
	return false
}

// HandleCoreEvent folds a core push into the UI model.
func HandleCoreEvent(m *Model, event eventbus.CoreEvent) {
	switch ev := event.(type) {
	case eventbus.StateUpdateEvent:
		m.Snapshot = ev.Snapshot
		// Selection survives the merge when the id still exists, else it
		// falls back to the first visible row.
		m.State.SelectedID = m.Projection().SelectedID
	case eventbus.RejectedEvent:
		m.State.SetStatus(ev.Kind.Verb()+" rejected: "+ev.Reason, statusTTL)
	}
}

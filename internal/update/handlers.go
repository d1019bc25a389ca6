package update

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/view"
)

// HandleKey dispatches a key press according to the current mode. The quit
// key is honored from every state.
func HandleKey(m *Model, msg tea.KeyMsg, bus *eventbus.EventBus) tea.Cmd {
	if key.Matches(msg, m.Keys.Quit) && !editing(m) {
		return tea.Quit
	}
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch m.State.Mode {
	case models.ModeList:
		return handleListKey(m, msg, bus)
	case models.ModeHelp:
		if key.Matches(msg, m.Keys.Help) || key.Matches(msg, m.Keys.Cancel) {
			m.State.Mode = models.ModeList
		}
		// Read-only overlay: every other key is ignored.
		return nil
	case models.ModeDetail:
		if key.Matches(msg, m.Keys.Detail) || key.Matches(msg, m.Keys.Cancel) {
			m.State.Mode = models.ModeList
		}
		return nil
	case models.ModeConfirm:
		return handleConfirmKey(m, msg, bus)
	case models.ModeFilterEditing, models.ModeSearchEditing:
		return handleEditingKey(m, msg)
	}
	return nil
}

func editing(m *Model) bool {
	return m.State.Mode == models.ModeFilterEditing || m.State.Mode == models.ModeSearchEditing
}

func handleListKey(m *Model, msg tea.KeyMsg, bus *eventbus.EventBus) tea.Cmd {
	keys := m.Keys
	switch {
	case key.Matches(msg, keys.Up):
		moveSelection(m, -1)
	case key.Matches(msg, keys.Down):
		moveSelection(m, +1)
	case key.Matches(msg, keys.Detail):
		if _, ok := m.Projection().Selected(); ok {
			m.State.Mode = models.ModeDetail
		}
	case key.Matches(msg, keys.Help):
		m.State.Mode = models.ModeHelp
	case key.Matches(msg, keys.Refresh):
		sendToCore(m, bus, eventbus.RefreshRequestEvent{})
	case key.Matches(msg, keys.Filter):
		enterFilterEditing(m)
	case key.Matches(msg, keys.Search):
		enterSearchEditing(m)
	case key.Matches(msg, keys.NextMatch):
		advanceMatch(m)
	case key.Matches(msg, keys.Start):
		requestCommand(m, bus, models.OpStart)
	case key.Matches(msg, keys.Stop):
		requestCommand(m, bus, models.OpStop)
	case key.Matches(msg, keys.Restart):
		requestCommand(m, bus, models.OpRestart)
	case key.Matches(msg, keys.Delete):
		requestCommand(m, bus, models.OpDelete)
	case key.Matches(msg, keys.Dismiss):
		dismissFailure(m, bus)
	case key.Matches(msg, keys.Cancel):
		clearSearch(m)
	}
	return nil
}

// moveSelection moves among the filtered rows, clamped at both ends.
func moveSelection(m *Model, delta int) {
	proj := m.Projection()
	if len(proj.Rows) == 0 {
		return
	}
	i := proj.SelectedIndex + delta
	if i < 0 {
		i = 0
	}
	if i > len(proj.Rows)-1 {
		i = len(proj.Rows) - 1
	}
	m.State.SelectedID = proj.Rows[i].Instance.ID
}

// advanceMatch moves the search cursor to the next match, wrapping, and
// selects that row.
func advanceMatch(m *Model) {
	proj := m.Projection()
	if len(proj.MatchRows) == 0 {
		return
	}
	m.State.CurrentMatch = (proj.CurrentMatch + 1) % len(proj.MatchRows)
	m.State.SelectedID = proj.Rows[proj.MatchRows[m.State.CurrentMatch]].Instance.ID
}

// requestCommand routes destructive kinds through confirmation; Start
// dispatches directly.
func requestCommand(m *Model, bus *eventbus.EventBus, kind models.OpKind) {
	row, ok := m.Projection().Selected()
	if !ok {
		return
	}
	if kind.Destructive() {
		m.State.Mode = models.ModeConfirm
		m.State.Confirm = &models.Confirmation{
			ID:   row.Instance.ID,
			Name: row.Instance.Name,
			Kind: kind,
		}
		return
	}
	dispatchIntent(m, bus, row.Instance.ID, row.Instance.Name, kind)
}

func handleConfirmKey(m *Model, msg tea.KeyMsg, bus *eventbus.EventBus) tea.Cmd {
	confirm := m.State.Confirm
	m.State.Mode = models.ModeList
	m.State.Confirm = nil
	if confirm == nil {
		return nil
	}

	// Only the explicit confirm key dispatches; anything else cancels with
	// no side effect.
	if !key.Matches(msg, m.Keys.Confirm) {
		return nil
	}

	// The id may have vanished between intent and confirmation.
	if _, ok := m.Snapshot.Get(confirm.ID); !ok {
		m.State.SetStatus("Instance "+confirm.Name+" no longer exists", statusTTL)
		return nil
	}
	dispatchIntent(m, bus, confirm.ID, confirm.Name, confirm.Kind)
	return nil
}

func dispatchIntent(m *Model, bus *eventbus.EventBus, id, name string, kind models.OpKind) {
	sendToCore(m, bus, eventbus.CommandIntentEvent{ID: id, Kind: kind})
	m.State.SetStatus(kind.Verb()+" requested for "+name, statusTTL)
}

func dismissFailure(m *Model, bus *eventbus.EventBus) {
	row, ok := m.Projection().Selected()
	if !ok || row.Op == nil || row.Op.Phase != models.PhaseFailed {
		return
	}
	sendToCore(m, bus, eventbus.DismissFailureEvent{ID: row.Instance.ID})
}

func sendToCore(m *Model, bus *eventbus.EventBus, ev eventbus.UIEvent) {
	if err := bus.SendToCore(ev); err != nil {
		m.State.SetStatus("Error sending command: "+err.Error(), statusTTL)
	}
}

func clearSearch(m *Model) {
	m.State.SearchActive = ""
	m.State.SearchText = ""
	m.State.CurrentMatch = 0
}

func enterFilterEditing(m *Model) {
	m.State.Mode = models.ModeFilterEditing
	m.prevFilter = m.State.FilterActive
	m.State.FilterText = m.State.FilterActive
	m.State.FilterErr = ""
	m.Input.SetValue(m.State.FilterActive)
	m.Input.Prompt = "filter> "
	m.Input.Focus()
	m.Input.CursorEnd()
}

func enterSearchEditing(m *Model) {
	m.State.Mode = models.ModeSearchEditing
	m.Input.SetValue(m.State.SearchActive)
	m.Input.Prompt = "search> "
	m.Input.Focus()
	m.Input.CursorEnd()
}

// handleEditingKey captures text input. Filter expressions compile live for
// inline error feedback but only replace the active predicate on accept, so
// an invalid expression never clears the view. Search applies live.
func handleEditingKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		if m.State.Mode == models.ModeFilterEditing {
			m.State.FilterText = m.prevFilter
			m.State.FilterErr = ""
		} else {
			clearSearch(m)
		}
		m.State.Mode = models.ModeList
		m.Input.Blur()
		return nil
	case key.Matches(msg, m.Keys.Accept):
		if m.State.Mode == models.ModeFilterEditing {
			if m.State.FilterErr != "" {
				// Do not leave editing with a broken expression.
				return nil
			}
			m.State.FilterActive = m.State.FilterText
		}
		m.State.Mode = models.ModeList
		m.Input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	text := m.Input.Value()

	if m.State.Mode == models.ModeFilterEditing {
		m.State.FilterText = text
		if _, err := view.CompileFilter(text); err != nil {
			m.State.FilterErr = err.Error()
		} else {
			m.State.FilterErr = ""
		}
	} else {
		m.State.SearchText = text
		m.State.SearchActive = text
		m.State.CurrentMatch = 0
	}
	return cmd
}

package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/g1c/g1c/internal/core"
	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/update"
	"github.com/g1c/g1c/ui/components"
)

type AppModel struct {
	model   update.Model
	bus     *eventbus.EventBus
	service *core.DashboardService
}

func newAppModel(bus *eventbus.EventBus, service *core.DashboardService, m update.Model) *AppModel {
	return &AppModel{model: m, bus: bus, service: service}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.listenForCoreEvents(),
	)
}

// listenForCoreEvents delivers the next core push as a Bubble Tea message.
func (m *AppModel) listenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.bus.CoreToUI()
		if !ok {
			return nil
		}
		return update.CoreEventMsg{Event: ev}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.Handle(&m.model, coreEvent, m.bus)
		return m, tea.Batch(cmd, m.listenForCoreEvents())
	}

	cmd := update.Handle(&m.model, msg, m.bus)
	return m, cmd
}

func (m *AppModel) View() string {
	st := &m.model.State
	proj := m.model.Projection()

	var b strings.Builder
	b.WriteString(components.RenderHeader(m.model.Project, m.model.Region, m.model.CLIVersion, proj, st.Width))
	b.WriteString("\n")

	switch st.Mode {
	case models.ModeHelp:
		b.WriteString(components.RenderHelp(m.model.Keys, st.Width))
	case models.ModeDetail:
		if row, ok := proj.Selected(); ok {
			b.WriteString(components.RenderDetail(row, st.Width))
		} else {
			b.WriteString(components.RenderTable(proj, st))
		}
	default:
		b.WriteString(components.RenderTable(proj, st))
		if st.Mode == models.ModeConfirm && st.Confirm != nil {
			b.WriteString("\n")
			b.WriteString(components.RenderConfirm(*st.Confirm, st.Width))
		}
	}

	if st.Mode == models.ModeFilterEditing || st.Mode == models.ModeSearchEditing {
		b.WriteString("\n")
		b.WriteString(components.RenderEditor(m.model.Input.View(), st.FilterErr, st.Width))
	}

	b.WriteString("\n")
	b.WriteString(components.RenderStatusBar(st, proj, m.model.LoadingDots))
	return b.String()
}

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/g1c/g1c/internal/models"
)

func HeaderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Bold(true).
		Padding(0, 1).
		Width(width)
}

func StaleBannerStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("214")).
		Bold(true).
		Padding(0, 1).
		Width(width)
}

func TableHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Bold(true).
		Underline(true)
}

func SelectedRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Bold(true)
}

func MatchedRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
}

func StatusColor(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	case models.StatusProvisioning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	case models.StatusStopping:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	case models.StatusStopped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	}
}

func OpBadgeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Italic(true)
}

func OpFailedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)
}

func OverlayStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 2).
		Width(width - 4)
}

func ConfirmStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("196")).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Width(width - 4)
}

func EditorStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Width(width - 4)
}

func EditorErrStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Padding(0, 1)
}

func StatusBarStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func DetailKeyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Width(14)
}

package components

import (
	"fmt"
	"strings"

	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/view"
	"github.com/g1c/g1c/ui/styles"
)

// Fixed column widths; NAME absorbs the remaining terminal width.
const (
	colStatus = 14
	colZone   = 16
	colType   = 16
	colIntIP  = 16
	colExtIP  = 16
	colOp     = 24
	minName   = 12
)

func nameColWidth(width int) int {
	w := width - (colStatus + colZone + colType + colIntIP + colExtIP + colOp)
	if w < minName {
		return minName
	}
	return w
}

// RenderTable draws the instance list with the selected row and search
// matches highlighted.
func RenderTable(proj view.RenderModel, st *models.InteractionState) string {
	var b strings.Builder
	nameW := nameColWidth(st.Width)

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		nameW, "NAME",
		colStatus, "STATUS",
		colZone, "ZONE",
		colType, "TYPE",
		colIntIP, "INTERNAL IP",
		colExtIP, "EXTERNAL IP",
		"OPERATION")
	b.WriteString(styles.TableHeaderStyle().Render(header))
	b.WriteString("\n")

	if len(proj.Rows) == 0 {
		b.WriteString("  no instances")
		if st.FilterActive != "" {
			b.WriteString(" match filter " + st.FilterActive)
		}
		b.WriteString("\n")
		return b.String()
	}

	for i, row := range proj.Rows {
		line := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
			nameW, truncate(row.Instance.Name, nameW),
			colStatus, displayStatus(row),
			colZone, truncate(row.Instance.Zone, colZone),
			colType, truncate(row.Instance.MachineType, colType),
			colIntIP, row.Instance.InternalIP,
			colExtIP, row.Instance.ExternalIP,
			opBadge(row.Op))

		switch {
		case i == proj.SelectedIndex:
			b.WriteString(styles.SelectedRowStyle().Render(line))
		case row.Matched:
			b.WriteString(styles.MatchedRowStyle().Render(line))
		default:
			b.WriteString(styles.StatusColor(row.Instance.Status).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// displayStatus shows the ghost state while a delete awaits confirmation of
// absence, otherwise the instance status.
func displayStatus(row view.Row) string {
	if row.Op != nil && row.Op.Kind == models.OpDelete && !row.Op.Terminal() {
		return "Terminating"
	}
	return string(row.Instance.Status)
}

func opBadge(op *models.PendingOperation) string {
	if op == nil {
		return ""
	}
	switch op.Phase {
	case models.PhaseSubmitted:
		return styles.OpBadgeStyle().Render(op.Kind.Verb() + " submitted")
	case models.PhaseInFlight:
		return styles.OpBadgeStyle().Render(op.Kind.Verb() + " in flight")
	case models.PhaseSucceeded:
		return styles.OpBadgeStyle().Render(op.Kind.Verb() + " done")
	case models.PhaseFailed:
		return styles.OpFailedStyle().Render(truncate(op.Kind.Verb()+" failed: "+op.FailReason, colOp+40))
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

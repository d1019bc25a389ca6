package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"

	"github.com/g1c/g1c/internal/models"
	"github.com/g1c/g1c/internal/update"
	"github.com/g1c/g1c/internal/view"
	"github.com/g1c/g1c/ui/styles"
)

// RenderHelp draws the keyboard reference overlay.
func RenderHelp(keys update.KeyMap, width int) string {
	h := help.New()
	h.ShowAll = true
	h.Width = width - 8

	var b strings.Builder
	b.WriteString("Keyboard reference\n\n")
	b.WriteString(h.View(keys))
	b.WriteString("\n\nFilter syntax: field=value with fields name, status, zone, type, ip;\n")
	b.WriteString("wrap the value in /slashes/ for a regex. Bare text matches all fields.")
	return styles.OverlayStyle(width).Render(b.String())
}

// RenderDetail draws the read-only detail overlay for one instance.
func RenderDetail(row view.Row, width int) string {
	inst := row.Instance
	key := styles.DetailKeyStyle()

	var b strings.Builder
	b.WriteString("Instance details\n\n")
	pair := func(k, v string) {
		b.WriteString(key.Render(k) + " " + v + "\n")
	}
	pair("Name", inst.Name)
	pair("ID", inst.ID)
	pair("Status", displayStatus(row))
	pair("Zone", inst.Zone)
	pair("Project", inst.Project)
	pair("Machine type", inst.MachineType)
	pair("Internal IP", inst.InternalIP)
	pair("External IP", inst.ExternalIP)
	if !inst.Created.IsZero() {
		pair("Created", inst.Created.Format("2006-01-02 15:04:05"))
	}
	pair("Last seen", inst.LastSeen.Format("15:04:05"))

	if len(inst.Labels) > 0 {
		b.WriteString("\nLabels\n")
		labelKeys := make([]string, 0, len(inst.Labels))
		for k := range inst.Labels {
			labelKeys = append(labelKeys, k)
		}
		sort.Strings(labelKeys)
		for _, k := range labelKeys {
			pair(k, inst.Labels[k])
		}
	}

	if row.Op != nil {
		b.WriteString("\nOperation\n")
		pair("Kind", row.Op.Kind.Verb())
		pair("Phase", string(row.Op.Phase))
		pair("Submitted", row.Op.SubmittedAt.Format("15:04:05"))
		if row.Op.FailReason != "" {
			pair("Failure", row.Op.FailReason)
		}
	}

	b.WriteString("\npress esc or enter to close")
	return styles.OverlayStyle(width).Render(b.String())
}

// RenderConfirm draws the destructive-action prompt.
func RenderConfirm(c models.Confirmation, width int) string {
	var msg string
	if c.Kind == models.OpDelete {
		msg = fmt.Sprintf("Delete instance %s? This cannot be undone. [y/N]", c.Name)
	} else {
		msg = fmt.Sprintf("%s instance %s? [y/N]", c.Kind.Verb(), c.Name)
	}
	return styles.ConfirmStyle(width).Render(msg)
}

// RenderEditor draws the filter/search input line with its inline error.
func RenderEditor(inputView, errMsg string, width int) string {
	out := styles.EditorStyle(width).Render(inputView)
	if errMsg != "" {
		out += "\n" + styles.EditorErrStyle().Render(errMsg)
	}
	return out
}

package update

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every recognized key. Unbound keys are no-ops.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Detail    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Refresh   key.Binding
	Filter    key.Binding
	Search    key.Binding
	NextMatch key.Binding
	Start     key.Binding
	Stop      key.Binding
	Restart   key.Binding
	Delete    key.Binding
	Dismiss   key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Accept    key.Binding
}

// DefaultKeyMap is the g1c keyboard protocol.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Detail:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "instance details")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh now")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextMatch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start instance")),
		Stop:      key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stop instance")),
		Restart:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart instance")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete instance")),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss failure")),
		Confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/cancel")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Detail, k.Filter, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail, k.Refresh},
		{k.Filter, k.Search, k.NextMatch, k.Dismiss},
		{k.Start, k.Stop, k.Restart, k.Delete},
		{k.Help, k.Cancel, k.Quit},
	}
}

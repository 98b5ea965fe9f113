package main

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard key bindings.
type keyMap struct {
	Home     key.Binding
	Sessions key.Binding
	Loadouts key.Binding
	Markups  key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	New    key.Binding
	Cancel key.Binding

	Toggle key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Home:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
		Sessions: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sessions")),
		Loadouts: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loadouts")),
		Markups:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "markups")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter", "right"), key.WithHelp("enter", "select/edit")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Toggle: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "start/pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset session")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Home, k.Sessions, k.Loadouts, k.Markups, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Sessions, k.Loadouts, k.Markups},
		{k.Up, k.Down, k.Select, k.New, k.Cancel},
		{k.Toggle, k.Reset, k.Help, k.Quit},
	}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	generate key.Binding
	refresh  key.Binding
	addMore  key.Binding
	remove   key.Binding
	favorite key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		addMore:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add more")),
		remove:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.generate, k.addMore, k.favorite, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.generate, k.refresh, k.addMore},
		{k.remove, k.favorite},
		{k.help, k.quit},
	}
}

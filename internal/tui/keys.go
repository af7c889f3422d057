package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit key.Binding
	Open key.Binding
	Back key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view highlights")),
	Back: key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
}

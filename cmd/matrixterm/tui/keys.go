package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to session intake.
type KeyMap struct {
	Submit      key.Binding
	Backspace   key.Binding
	Delete      key.Binding
	Left        key.Binding
	Right       key.Binding
	Home        key.Binding
	End         key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns shell-like bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Backspace:   key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		Delete:      key.NewBinding(key.WithKeys("delete", "ctrl+d")),
		Left:        key.NewBinding(key.WithKeys("left", "ctrl+b")),
		Right:       key.NewBinding(key.WithKeys("right", "ctrl+f")),
		Home:        key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:         key.NewBinding(key.WithKeys("end", "ctrl+e")),
		HistoryPrev: key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		HistoryNext: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

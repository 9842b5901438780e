package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Reveal  key.Binding
	About   key.Binding
	Contact key.Binding
	Mute    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Reveal:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "REVEAL")),
		About:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ABOUT")),
		Contact: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "CONTACT")),
		Mute:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "MUTE")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "BACK")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "QUIT")),
	}
}

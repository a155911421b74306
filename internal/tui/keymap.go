package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the interactive surface.
type KeyMap struct {
	PickEmployees key.Binding
	PickLastYear  key.Binding
	Submit        key.Binding
	Reset         key.Binding
	Quit          key.Binding
	Close         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PickEmployees: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "employee list"),
		),
		PickLastYear: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "last year"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "g"),
			key.WithHelp("enter", "generate"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// sync enables only the actions valid for the given state.
func (k *KeyMap) sync(busy, canSubmit bool) {
	k.PickEmployees.SetEnabled(!busy)
	k.PickLastYear.SetEnabled(!busy)
	k.Reset.SetEnabled(!busy)
	k.Submit.SetEnabled(canSubmit)
}

// footerBindings lists the bindings shown in the footer, in display order.
func (k KeyMap) footerBindings() []key.Binding {
	return []key.Binding{k.PickEmployees, k.PickLastYear, k.Submit, k.Reset, k.Quit}
}

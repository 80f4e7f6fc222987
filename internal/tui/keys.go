package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	End       key.Binding
	Confirm   key.Binding
	Backspace key.Binding

	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Start  key.Binding

	Again  key.Binding
	Leave  key.Binding
	Scroll key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	End: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "finish"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "answer"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("⌫", "erase"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "prev field"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "1", "2", "3", "4"),
		key.WithHelp("space/1-4", "toggle"),
	),
	Start: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start"),
	),
	Again: key.NewBinding(
		key.WithKeys("enter", "r"),
		key.WithHelp("enter", "new session"),
	),
	Leave: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Scroll: key.NewBinding(
		key.WithKeys("up", "down", "pgup", "pgdown"),
		key.WithHelp("↑/↓", "scroll"),
	),
}

func (k keyMap) setupHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Start, k.Quit}
}

func (k keyMap) gameHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Backspace, k.End, k.Quit}
}

func (k keyMap) summaryHelp() []key.Binding {
	return []key.Binding{k.Again, k.Scroll, k.Leave}
}

// renderHelp lays out bindings as "key desc" pairs on one line.
func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return mutedStyle.Render(strings.Join(parts, "  "))
}

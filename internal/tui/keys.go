package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type keyMap struct {
	Submit   key.Binding
	Complete key.Binding
	Back     key.Binding
	Skip     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "record")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		Back:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "back")),
		Skip:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "skip")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Submit, k.Complete, k.Back, k.Skip, k.Quit}
}

var (
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true)
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

func renderFooter(k keyMap, width int) string {
	parts := make([]string, 0, 5)
	for _, b := range k.bindings() {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, "  ")
	if width > 0 {
		line = ansi.Truncate(line, width, "")
	}
	return line
}

package viewport

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#a6e3a1"))
)

func renderPane(title, content string, width, height int, focused bool) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}

	border := lipgloss.Color("#6c7086")
	prefix := "  "
	if focused {
		border = lipgloss.Color("#a6e3a1")
		prefix = "● "
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)

	innerWidth := width - 2
	contentWidth := innerWidth - 2

	titleText := " " + strings.TrimSpace(prefix+title) + " "
	if ansi.StringWidth(titleText) > innerWidth {
		titleText = ansi.Truncate(titleText, innerWidth, "")
	}
	dashes := max(0, innerWidth-ansi.StringWidth(titleText))
	leftDash := min(1, dashes)

	v := borderStyle.Render("│")
	rows := make([]string, 0, height)
	rows = append(rows, borderStyle.Render("╭"+strings.Repeat("─", leftDash))+
		titleStyle.Render(titleText)+
		borderStyle.Render(strings.Repeat("─", dashes-leftDash)+"╮"))

	lines := strings.Split(content, "\n")
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(lines) {
			line = ansi.Truncate(lines[i], contentWidth, "…")
		}
		if pad := contentWidth - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		rows = append(rows, v+" "+line+" "+v)
	}
	rows = append(rows, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))
	return strings.Join(rows, "\n")
}

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/reconcile/internal/service"
)

// promptHeight is the rows below the panes: the boxed row (3), the question,
// the input line, the status line, and the footer.
const promptHeight = 7

// App shows every statement side by side over a prompt for the current row.
type App struct {
	ctx     context.Context
	session *service.Session
	input   textinput.Model
	keys    keyMap
	width   int
	height  int
	status  string
}

type statusMsg string

type errMsg struct{ error }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	rowStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6c7086")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

func New(ctx context.Context, session *service.Session) *App {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "account"
	in.Focus()
	a := &App{ctx: ctx, session: session, input: in, keys: defaultKeys()}
	a.loadHint()
	return a
}

// Session is the session the app drives.
func (a *App) Session() *service.Session { return a.session }

func (a *App) Init() tea.Cmd { return textinput.Blink }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.layout()
		return a, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(m, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(m, a.keys.Complete):
			a.input.SetValue(a.session.Complete(a.input.Value()))
			a.input.CursorEnd()
			return a, nil
		case key.Matches(m, a.keys.Submit):
			return a.run(a.input.Value())
		case key.Matches(m, a.keys.Back):
			return a.run("b")
		case key.Matches(m, a.keys.Skip):
			return a.run("s")
		}
	case statusMsg:
		a.status = string(m)
		return a, nil
	case errMsg:
		a.status = "error: " + m.Error()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) run(line string) (tea.Model, tea.Cmd) {
	out, err := a.session.Execute(a.ctx, line)
	if err != nil {
		return a, func() tea.Msg { return errMsg{err} }
	}
	if out.Quit {
		return a, tea.Quit
	}
	a.status = out.Message
	a.loadHint()
	return a, nil
}

func (a *App) loadHint() {
	hint, err := a.session.Hint(a.ctx)
	if err != nil {
		a.status = "error: " + err.Error()
	}
	a.input.SetValue(hint)
	a.input.CursorEnd()
}

func (a *App) layout() {
	n := a.session.Nav.Len()
	if n == 0 || a.width == 0 {
		return
	}
	a.session.Nav.Resize(a.width/n, max(0, a.height-promptHeight))
	a.input.Width = max(10, a.width-4)
}

func (a *App) View() string {
	nav := a.session.Nav
	frames := make([]string, nav.Len())
	for i := range frames {
		frames[i] = nav.View(i).Frame()
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top, frames...)
	return lipgloss.JoinVertical(lipgloss.Left, panes, a.renderPrompt())
}

func (a *App) renderPrompt() string {
	var b strings.Builder
	b.WriteString(a.renderRow())
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(a.session.Prompt()))
	b.WriteString("\n")
	b.WriteString(a.input.View())
	b.WriteString("\n")
	if strings.HasPrefix(a.status, "error: ") {
		b.WriteString(errorStyle.Render(a.status))
	} else {
		b.WriteString(statusStyle.Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(renderFooter(a.keys, a.width))
	return b.String()
}

// renderRow boxes the displayed cells of the current row.
func (a *App) renderRow() string {
	st, i, err := a.session.Current()
	if err != nil {
		return rowStyle.Render("no current transaction")
	}
	row, err := st.Ledger.Row(i)
	if err != nil {
		return rowStyle.Render(err.Error())
	}
	cells := []string{st.Source()}
	for _, c := range st.Columns() {
		if c >= 0 && c < len(row.Fields) {
			cells = append(cells, row.Fields[c])
		}
	}
	if row.Destination != "" {
		cells = append(cells, "→ "+row.Destination)
	}
	return rowStyle.Render(strings.Join(cells, " │ "))
}

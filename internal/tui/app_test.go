package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/reconcile/internal/autocomplete"
	"github.com/jask/reconcile/internal/config"
	"github.com/jask/reconcile/internal/navigator"
	"github.com/jask/reconcile/internal/service"
	"github.com/jask/reconcile/internal/statement"
	"github.com/jask/reconcile/internal/viewport"
)

func newApp(t *testing.T) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	body := "Date,Payee,Amount\n2024-01-01,WOOLWORTHS,-52.10\n2024-01-02,SPOTIFY,-11.99\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	st, err := statement.Load(path, statement.NewDescriptor(config.AccountConfig{
		LedgerSource: "Assets:Checking",
		DateFormat:   "2006-01-02",
		PayeeColumns: []int{1},
		DebitColumn:  2,
		DebitFormat:  "-{}",
		CreditColumn: 2,
		CreditFormat: "{}",
	}))
	require.NoError(t, err)

	nav, err := navigator.New([]*viewport.Viewport{viewport.New(st.Ledger, st.Columns(), 80, 10)})
	require.NoError(t, err)
	return New(context.Background(), &service.Session{
		Statements: []*statement.Statement{st},
		Nav:        nav,
		Accounts:   autocomplete.New("Expenses:Groceries", "Expenses:Music"),
	})
}

func typeText(a *App, s string) {
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestViewShowsPanesAndPrompt(t *testing.T) {
	a := newApp(t)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	view := a.View()
	require.Contains(t, view, "Assets:Checking")
	require.Contains(t, view, "WOOLWORTHS")
	require.Contains(t, view, "To which account is this amount going?")
}

func TestCompleteAndRecord(t *testing.T) {
	a := newApp(t)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	typeText(a, "Expenses:G")
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "Expenses:Groceries", a.input.Value())

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, isQuit(cmd))
	require.Equal(t, "Expenses:Groceries", a.status)

	row, err := a.Session().Statements[0].Ledger.Row(0)
	require.NoError(t, err)
	require.Equal(t, "Expenses:Groceries", row.Destination)
	require.Contains(t, a.View(), "SPOTIFY")

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.False(t, isQuit(cmd))
	require.Equal(t, "Expenses:Groceries", a.input.Value())

	a.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.True(t, isQuit(cmd))
	require.True(t, a.Session().Done())
}

func TestCtrlCQuits(t *testing.T) {
	a := newApp(t)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, isQuit(cmd))
}

func TestFooterListsKeys(t *testing.T) {
	a := newApp(t)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	view := a.View()
	require.Contains(t, view, "tab complete")
	require.Contains(t, view, "ctrl+c quit")
}

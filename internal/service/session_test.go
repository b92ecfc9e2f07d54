package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/reconcile/internal/autocomplete"
	"github.com/jask/reconcile/internal/config"
	"github.com/jask/reconcile/internal/database"
	"github.com/jask/reconcile/internal/database/repository"
	"github.com/jask/reconcile/internal/navigator"
	"github.com/jask/reconcile/internal/statement"
	"github.com/jask/reconcile/internal/viewport"
)

func openCache(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(filepath.Join(t.TempDir(), "hints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func loadStatement(t *testing.T, body string, acct config.AccountConfig) *statement.Statement {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	st, err := statement.Load(path, statement.NewDescriptor(acct))
	require.NoError(t, err)
	return st
}

func newSession(t *testing.T) (*Session, *Hinter) {
	t.Helper()
	checking := loadStatement(t, "Date,Payee,Amount\n2024-01-01,SALARY,2500.00\n", config.AccountConfig{
		LedgerSource: "Assets:Checking",
		DateFormat:   "2006-01-02",
		PayeeColumns: []int{1},
		DebitColumn:  2,
		DebitFormat:  "-{}",
		CreditColumn: 2,
		CreditFormat: "{}",
	})
	card := loadStatement(t, "Date,Payee,Amount\n2024-01-02,SPOTIFY,11.99\n", config.AccountConfig{
		LedgerSource: "Liabilities:Card",
		DateFormat:   "2006-01-02",
		PayeeColumns: []int{1},
		DebitColumn:  2,
		CreditColumn: 2,
	})
	statements := []*statement.Statement{checking, card}

	views := make([]*viewport.Viewport, len(statements))
	for i, st := range statements {
		views[i] = viewport.New(st.Ledger, st.Columns(), 60, 12)
	}
	nav, err := navigator.New(views)
	require.NoError(t, err)

	hinter := &Hinter{Destinations: repository.NewDestinationRepo(openCache(t)), MaxDistance: 0.4}
	return &Session{
		Statements: statements,
		Nav:        nav,
		Hinter:     hinter,
		Accounts:   autocomplete.New("Income:Salary", "Expenses:Music", "Expenses:Groceries"),
	}, hinter
}

func TestSessionWalkthrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, hinter := newSession(t)
	require.NoError(t, hinter.Record(ctx, "SPOTIFY", "Expenses:Music"))

	st, i, err := s.Current()
	require.NoError(t, err)
	require.Equal(t, "Assets:Checking", st.Source())
	require.Equal(t, 0, i)
	require.True(t, strings.HasPrefix(s.Prompt(), "From which account"))

	out, err := s.Execute(ctx, "Income:Salary")
	require.NoError(t, err)
	require.Equal(t, "Income:Salary", out.Message)
	require.False(t, out.Quit)

	st, _, err = s.Current()
	require.NoError(t, err)
	require.Equal(t, "Liabilities:Card", st.Source())
	require.True(t, strings.HasPrefix(s.Prompt(), "To which account"))
	hint, err := s.Hint(ctx)
	require.NoError(t, err)
	require.Equal(t, "Expenses:Music", hint)

	out, err = s.Execute(ctx, "b")
	require.NoError(t, err)
	require.Empty(t, out.Message)
	hint, err = s.Hint(ctx)
	require.NoError(t, err)
	require.Equal(t, "Income:Salary", hint)

	out, err = s.Execute(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, "already at the first transaction", out.Message)

	_, err = s.Execute(ctx, "s")
	require.NoError(t, err)
	out, err = s.Execute(ctx, ":split 10")
	require.NoError(t, err)
	require.Equal(t, "split off 10.00", out.Message)
	require.Equal(t, 2, st.Ledger.Len())

	out, err = s.Execute(ctx, "Expenses:Subscriptions")
	require.NoError(t, err)
	require.Equal(t, "Expenses:Subscriptions (not in accounts file)", out.Message)
	require.False(t, out.Quit)

	_, i, err = s.Current()
	require.NoError(t, err)
	require.Equal(t, 1, i)
	amount, err := st.Amount(i)
	require.NoError(t, err)
	require.Equal(t, "1.99", amount.String())

	out, err = s.Execute(ctx, "s")
	require.NoError(t, err)
	require.True(t, out.Quit)
	require.True(t, s.Done())
	require.Contains(t, s.Prompt(), "All transactions visited")

	_, err = s.Execute(ctx, "Expenses:Music")
	require.ErrorIs(t, err, ErrSessionDone)

	_, err = s.Execute(ctx, "b")
	require.NoError(t, err)
	require.False(t, s.Done())

	dest, err := hinter.Destinations.Destination(ctx, "SPOTIFY")
	require.NoError(t, err)
	require.Equal(t, "Expenses:Subscriptions", dest)
	n, err := hinter.Destinations.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestSessionCommands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newSession(t)

	require.Equal(t, "Expenses:", s.Complete("Exp"))
	require.Equal(t, "Expenses:Groceries", s.Complete("Expenses:G"))

	out, err := s.Execute(ctx, "   ")
	require.NoError(t, err)
	require.NotEmpty(t, out.Message)

	out, err = s.Execute(ctx, ":split abc")
	require.NoError(t, err)
	require.Contains(t, out.Message, "not an amount")

	out, err = s.Execute(ctx, ":split 0")
	require.NoError(t, err)
	require.Equal(t, statement.ErrInvalidSplit.Error(), out.Message)

	out, err = s.Execute(ctx, "q")
	require.NoError(t, err)
	require.True(t, out.Quit)
	require.True(t, s.Done())
}

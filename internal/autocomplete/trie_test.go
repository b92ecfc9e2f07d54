package autocomplete

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertSplitsEdges(t *testing.T) {
	t.Parallel()

	tr := New("team", "tea", "ten", "team")
	require.Equal(t, 3, tr.Len())
	require.True(t, tr.Contains("tea"))
	require.True(t, tr.Contains("team"))
	require.True(t, tr.Contains("ten"))
	require.False(t, tr.Contains("te"))
	require.False(t, tr.Contains("teams"))
	require.False(t, tr.Insert(""))
}

func TestComplete(t *testing.T) {
	t.Parallel()

	tr := New(
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurants",
		"Expenses:Transport",
		"Assets:Checking",
		"Income:Salary",
	)

	cases := map[string]string{
		"A":               "Assets:Checking",
		"Inc":             "Income:Salary",
		"E":               "Expenses:",
		"Expenses:F":      "Expenses:Food:",
		"Expenses:Food:G": "Expenses:Food:Groceries",
		"Expenses:T":      "Expenses:Transport",
		"Liabilities":     "Liabilities",
		"Expenses:Foox":   "Expenses:Foox",
		"Assets:Checking": "Assets:Checking",
		"":                "",
	}
	for in, want := range cases {
		require.Equal(t, want, tr.Complete(in), "complete %q", in)
	}
}

func TestCompleteStopsAtWord(t *testing.T) {
	t.Parallel()

	tr := New("Expenses:Food", "Expenses:Food:Coffee")
	require.Equal(t, "Expenses:Food", tr.Complete("Exp"))
	require.Equal(t, "Expenses:Food:Coffee", tr.Complete("Expenses:Food:"))
}

func TestLoadAccounts(t *testing.T) {
	t.Parallel()

	src := `; accounts
account Assets:Checking
account Expenses:Food   ; groceries and eating out
  note not an account

2024/01/01 * Opening
    Assets:Checking    $100
    Equity:Opening
account Income:Salary
account Assets:Checking
`
	tr, err := LoadAccounts(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, tr.Len())
	require.True(t, tr.Contains("Expenses:Food"))
	require.False(t, tr.Contains("Equity:Opening"))
}

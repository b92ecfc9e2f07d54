package viewport

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/reconcile/internal/ledger"
)

func buildLedger(n int) *ledger.Ledger {
	rows := make([]ledger.Row, n)
	for i := range rows {
		date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		rows[i] = ledger.Row{
			Date:   date,
			Fields: []string{date.Format("2006-01-02"), fmt.Sprintf("Payee %d", i), fmt.Sprintf("%d.00", i)},
		}
	}
	return ledger.New("Checking", []string{"Date", "Payee", "Amount"}, rows)
}

func requireCursorVisible(t *testing.T, v *Viewport) {
	t.Helper()
	l := v.Ledger()
	if l.AtEnd() {
		return
	}
	require.GreaterOrEqual(t, l.Cursor(), v.Head())
	require.Less(t, l.Cursor(), v.Tail())
	require.Equal(t, v.Size(), v.Tail()-v.Head())
}

func TestWindowSizeClampedToLedger(t *testing.T) {
	t.Parallel()

	v := New(buildLedger(3), []int{0, 1, 2}, 80, 30)
	require.Equal(t, 3, v.Size())

	v = New(buildLedger(40), []int{0, 1, 2}, 80, 10)
	require.Equal(t, 6, v.Size())
	require.Equal(t, 0, v.Head())
	require.Equal(t, 6, v.Tail())
}

func TestScrollKeepsCursorInWindow(t *testing.T) {
	t.Parallel()

	for _, height := range []int{5, 6, 10, 14} {
		v := New(buildLedger(25), []int{0, 1, 2, DestinationColumn}, 80, height)
		requireCursorVisible(t, v)
		for v.ScrollDown() == nil {
			requireCursorVisible(t, v)
		}
		require.True(t, v.Ledger().AtEnd())
		require.Equal(t, 25, v.Tail())
		for v.ScrollUp() == nil {
			requireCursorVisible(t, v)
		}
		require.Equal(t, 0, v.Head())
	}
}

func TestScrollBoundaries(t *testing.T) {
	t.Parallel()

	v := New(buildLedger(2), []int{1}, 80, 10)
	require.ErrorIs(t, v.ScrollUp(), ledger.ErrOutOfRange)
	require.NoError(t, v.ScrollDown())
	require.NoError(t, v.ScrollDown())
	require.ErrorIs(t, v.ScrollDown(), ledger.ErrOutOfRange)
}

func TestDrawShowsTitleHeadersAndRows(t *testing.T) {
	t.Parallel()

	v := New(buildLedger(10), []int{0, 1, 2, DestinationColumn}, 80, 8)
	v.SetFocus(true)
	frame := v.Draw()

	require.Equal(t, frame, v.Frame())
	require.Contains(t, frame, "Checking")
	require.Contains(t, frame, "Destination")
	require.Contains(t, frame, "Payee 0")
	require.Contains(t, frame, "Payee 3")
	require.NotContains(t, frame, "Payee 4")
	require.Len(t, strings.Split(frame, "\n"), 8)
}

func TestRefreshPicksUpInsertedRows(t *testing.T) {
	t.Parallel()

	l := buildLedger(4)
	v := New(l, []int{1, DestinationColumn}, 80, 20)
	require.NoError(t, l.InsertAtCursor())
	require.NoError(t, l.SetDestination("Expenses:Groceries"))

	require.NotContains(t, v.Draw(), "Expenses:Groceries")
	v.Refresh()
	require.Equal(t, 4, v.Size())
	require.Contains(t, v.Draw(), "Expenses:Groceries")
}

func TestResizeKeepsCursorVisible(t *testing.T) {
	t.Parallel()

	v := New(buildLedger(30), []int{1}, 80, 20)
	for i := 0; i < 20; i++ {
		require.NoError(t, v.ScrollDown())
	}
	v.Resize(60, 8)
	require.Equal(t, 4, v.Size())
	requireCursorVisible(t, v)
}

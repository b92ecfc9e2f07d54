// Package fixtures builds sample ledgers for tests.
package fixtures

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/jask/reconcile/internal/ledger"
)

// Epoch is the date of day 0 in generated ledgers.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var payees = []string{"UBER EATS* SUSHI", "AMAZON.COM*XYZ", "WOOLWORTHS", "SPOTIFY", "SALARY ACME"}

// Day returns Epoch shifted by d days.
func Day(d int) time.Time { return Epoch.AddDate(0, 0, d) }

// Ledger builds a ledger whose rows fall on the given day offsets, which must be
// non-decreasing.
func Ledger(name string, days ...int) *ledger.Ledger {
	rows := make([]ledger.Row, len(days))
	for i, d := range days {
		rows[i] = ledger.Row{
			Date:   Day(d),
			Fields: []string{Day(d).Format("2006-01-02"), fmt.Sprintf("%s %s#%d", payees[i%len(payees)], name, i), fmt.Sprintf("%d.00", 10+i)},
		}
	}
	return ledger.New(name, []string{"Date", "Payee", "Amount"}, rows)
}

// RandomLedgers builds n ledgers of up to maxRows rows each. Days are drawn from
// a narrow range so equal dates across and within ledgers are common; some
// ledgers may be empty.
func RandomLedgers(r *rand.Rand, n, maxRows int) []*ledger.Ledger {
	out := make([]*ledger.Ledger, n)
	for i := range out {
		days := make([]int, r.Intn(maxRows+1))
		for j := range days {
			days[j] = r.Intn(maxRows + 2)
		}
		slices.Sort(days)
		out[i] = Ledger(fmt.Sprintf("L%d", i), days...)
	}
	return out
}

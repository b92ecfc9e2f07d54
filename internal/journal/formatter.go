// Package journal writes reconciled statements as ledger journal entries.
package journal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jask/reconcile/internal/config"
	"github.com/jask/reconcile/internal/statement"
)

// Formatter renders statement rows as ledger transactions. Rows with a
// destination become cleared (*) two-posting entries; rows without one become
// pending (!) single-posting entries to finish by hand.
type Formatter struct {
	Currency    string
	Indentation int
	Margin      int
	DateFormat  string
}

func New(cfg config.FormatConfig) *Formatter {
	return &Formatter{
		Currency:    cfg.Currency,
		Indentation: cfg.Indentation,
		Margin:      cfg.Margin,
		DateFormat:  cfg.DateFormat,
	}
}

// Write emits every row of every statement in date order, ties going to the
// earlier statement. Ledger cursors are not touched.
func (f *Formatter) Write(w io.Writer, statements []*statement.Statement) error {
	bw := bufio.NewWriter(w)
	align := f.alignment(statements)
	next := make([]int, len(statements))

	first := true
	for {
		s := pick(statements, next)
		if s < 0 {
			break
		}
		if !first {
			bw.WriteByte('\n')
		}
		first = false
		if err := f.entry(bw, statements[s], next[s], align); err != nil {
			return fmt.Errorf("%s row %d: %w", statements[s].Path, next[s], err)
		}
		next[s]++
	}
	return bw.Flush()
}

// pick returns the statement whose next unwritten row is earliest, or -1.
func pick(statements []*statement.Statement, next []int) int {
	best := -1
	for i, st := range statements {
		if next[i] >= st.Ledger.Len() {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		d, _ := st.Ledger.Date(next[i])
		bd, _ := statements[best].Ledger.Date(next[best])
		if d.Before(bd) {
			best = i
		}
	}
	return best
}

func (f *Formatter) entry(w *bufio.Writer, st *statement.Statement, i, align int) error {
	row, err := st.Ledger.Row(i)
	if err != nil {
		return err
	}
	payee, err := st.Payee(i)
	if err != nil {
		return err
	}
	amount, err := st.Amount(i)
	if err != nil {
		return err
	}

	indent := strings.Repeat(" ", f.Indentation)
	margin := strings.Repeat(" ", f.Margin)
	date := row.Date.Format(f.DateFormat)
	source := st.Source()

	if row.Destination != "" {
		fmt.Fprintf(w, "%s * %s\n", date, payee)
		fmt.Fprintf(w, "%s%s%s%s\n", indent, pad(row.Destination, align), margin, f.money(amount))
		fmt.Fprintf(w, "%s%s\n", indent, source)
		return nil
	}
	fmt.Fprintf(w, "%s ! %s\n", date, payee)
	fmt.Fprintf(w, "%s%s%s%s\n", indent, pad(source, align), margin, f.money(amount.Neg()))
	return nil
}

func (f *Formatter) alignment(statements []*statement.Statement) int {
	width := 0
	for _, st := range statements {
		width = max(width, utf8.RuneCountInString(st.Source()))
		for i := 0; i < st.Ledger.Len(); i++ {
			if row, err := st.Ledger.Row(i); err == nil {
				width = max(width, utf8.RuneCountInString(row.Destination))
			}
		}
	}
	return width
}

func (f *Formatter) money(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-" + f.Currency + v.Abs().StringFixed(2)
	}
	return f.Currency + v.StringFixed(2)
}

func pad(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

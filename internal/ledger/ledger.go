// Package ledger holds one imported statement as an ordered run of rows with a
// single integer cursor.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrNoCurrentRow is returned when the cursor sits on the trailing sentinel.
	ErrNoCurrentRow = errors.New("ledger: no current row")
	// ErrOutOfRange is returned when a row index or cursor move falls outside the ledger.
	ErrOutOfRange = errors.New("ledger: out of range")
)

// Row is one statement line.
type Row struct {
	Date        time.Time
	Fields      []string
	Destination string
}

// Clone returns a copy that shares no storage with r.
func (r Row) Clone() Row {
	r.Fields = slices.Clone(r.Fields)
	return r
}

// Ledger is an ordered sequence of rows. Dates must be non-decreasing by index;
// the loader guarantees this and nothing here checks it.
//
// The cursor ranges over [0, Len()]. Len() is the exhausted sentinel: the last
// row has already been passed.
type Ledger struct {
	Name    string
	Headers []string

	rows   []Row
	cursor int
}

// New takes ownership of rows.
func New(name string, headers []string, rows []Row) *Ledger {
	return &Ledger{Name: name, Headers: headers, rows: rows}
}

func (l *Ledger) Len() int    { return len(l.rows) }
func (l *Ledger) Cursor() int { return l.cursor }

// AtBegin reports whether the cursor is on the first row.
func (l *Ledger) AtBegin() bool { return l.cursor == 0 }

// AtEnd reports whether the cursor is on the sentinel.
func (l *Ledger) AtEnd() bool { return l.cursor == len(l.rows) }

// Row returns a copy of row i.
func (l *Ledger) Row(i int) (Row, error) {
	if i < 0 || i >= len(l.rows) {
		return Row{}, fmt.Errorf("row %d of %d: %w", i, len(l.rows), ErrOutOfRange)
	}
	return l.rows[i].Clone(), nil
}

// Date returns the date of row i.
func (l *Ledger) Date(i int) (time.Time, error) {
	if i < 0 || i >= len(l.rows) {
		return time.Time{}, fmt.Errorf("row %d of %d: %w", i, len(l.rows), ErrOutOfRange)
	}
	return l.rows[i].Date, nil
}

// Current returns a copy of the row under the cursor.
func (l *Ledger) Current() (Row, error) {
	if l.AtEnd() {
		return Row{}, ErrNoCurrentRow
	}
	return l.rows[l.cursor].Clone(), nil
}

func (l *Ledger) CurrentDate() (time.Time, error) {
	if l.AtEnd() {
		return time.Time{}, ErrNoCurrentRow
	}
	return l.rows[l.cursor].Date, nil
}

func (l *Ledger) NextDate() (time.Time, error) { return l.Date(l.cursor + 1) }
func (l *Ledger) PrevDate() (time.Time, error) { return l.Date(l.cursor - 1) }

// Advance moves the cursor forward one row. Passing the last row lands on the
// sentinel; advancing from the sentinel fails.
func (l *Ledger) Advance() error {
	if l.cursor >= len(l.rows) {
		return ErrOutOfRange
	}
	l.cursor++
	return nil
}

// Retreat moves the cursor back one row.
func (l *Ledger) Retreat() error {
	if l.cursor == 0 {
		return ErrOutOfRange
	}
	l.cursor--
	return nil
}

// InsertAtCursor duplicates the current row. The cursor keeps its index and so
// still addresses the original; the copy becomes its immediate successor.
func (l *Ledger) InsertAtCursor() error {
	if l.AtEnd() {
		return ErrNoCurrentRow
	}
	l.rows = slices.Insert(l.rows, l.cursor+1, l.rows[l.cursor].Clone())
	return nil
}

// SetDestination records the destination account of the current row.
func (l *Ledger) SetDestination(dest string) error {
	if l.AtEnd() {
		return ErrNoCurrentRow
	}
	l.rows[l.cursor].Destination = dest
	return nil
}

// SetField overwrites column col of row i.
func (l *Ledger) SetField(i, col int, value string) error {
	if i < 0 || i >= len(l.rows) {
		return fmt.Errorf("row %d of %d: %w", i, len(l.rows), ErrOutOfRange)
	}
	if col < 0 || col >= len(l.rows[i].Fields) {
		return fmt.Errorf("column %d of row %d: %w", col, i, ErrOutOfRange)
	}
	l.rows[i].Fields[col] = value
	return nil
}

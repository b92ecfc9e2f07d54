// Package statement loads bank CSV exports into ledgers and reads or rewrites
// their payee and amount cells through a Descriptor.
package statement

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/reconcile/internal/ledger"
	"github.com/jask/reconcile/internal/viewport"
)

var (
	// ErrNoHeader is returned when no line of the file contains a comma.
	ErrNoHeader = errors.New("statement: CSV header not found")
	// ErrNoAmount is returned when neither amount cell of a row holds a value.
	ErrNoAmount = errors.New("statement: no amount in row")
	// ErrInvalidSplit is returned for a zero split or one equal to the whole amount.
	ErrInvalidSplit = errors.New("statement: split amount must be non-zero and differ from the row amount")
)

// MalformedDateError reports a date cell that does not parse with the
// descriptor's layout.
type MalformedDateError struct {
	Path   string
	Line   int
	Value  string
	Layout string
	Err    error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("%s line %d: date %q does not match layout %q", e.Path, e.Line, e.Value, e.Layout)
}

func (e *MalformedDateError) Unwrap() error { return e.Err }

// Statement is one loaded statement file.
type Statement struct {
	Path       string
	Descriptor Descriptor
	Ledger     *ledger.Ledger
}

// Load reads the CSV at path. Lines before the first one holding a comma are a
// preamble and skipped; that line is the header. Rows are stably ordered by date.
func Load(path string, desc Descriptor) (*Statement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	return parse(path, data, desc)
}

func parse(path string, data []byte, desc Descriptor) (*Statement, error) {
	skipped := 0
	for len(data) > 0 {
		line, rest, _ := bytes.Cut(data, []byte("\n"))
		if bytes.ContainsRune(line, ',') {
			break
		}
		data = rest
		skipped++
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoHeader)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	width := len(headers)
	headers = append(headers, "Destination")

	var rows []ledger.Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := r.FieldPos(0)
		line += skipped
		if len(rec) < width {
			rec = append(rec, make([]string, width-len(rec))...)
		}

		value := ""
		if desc.DateColumn >= 0 && desc.DateColumn < len(rec) {
			value = strings.TrimSpace(rec[desc.DateColumn])
		}
		date, perr := time.Parse(desc.DateFormat, value)
		if perr != nil {
			return nil, &MalformedDateError{Path: path, Line: line, Value: value, Layout: desc.DateFormat, Err: perr}
		}
		if _, err := desc.amount(rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		rows = append(rows, ledger.Row{Date: date, Fields: rec})
	}

	slices.SortStableFunc(rows, func(a, b ledger.Row) int { return a.Date.Compare(b.Date) })

	name := cmp.Or(desc.LedgerSource, path)
	return &Statement{Path: path, Descriptor: desc, Ledger: ledger.New(name, headers, rows)}, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Source is the ledger account this statement's money moves through.
func (s *Statement) Source() string { return s.Descriptor.LedgerSource }

// Columns is the viewport column selection: the configured display columns
// (all fields when none are configured) followed by the destination.
func (s *Statement) Columns() []int {
	cols := slices.Clone(s.Descriptor.DisplayColumns)
	if len(cols) == 0 {
		for i := 0; i < len(s.Ledger.Headers)-1; i++ {
			cols = append(cols, i)
		}
	}
	return append(cols, viewport.DestinationColumn)
}

// Payee joins the payee columns of row i with single spaces.
func (s *Statement) Payee(i int) (string, error) {
	row, err := s.Ledger.Row(i)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(s.Descriptor.PayeeColumns))
	for _, c := range s.Descriptor.PayeeColumns {
		if c >= 0 && c < len(row.Fields) {
			if v := strings.TrimSpace(row.Fields[c]); v != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, " "), nil
}

// Amount returns row i's amount: positive for a debit, negative for a credit.
func (s *Statement) Amount(i int) (decimal.Decimal, error) {
	row, err := s.Ledger.Row(i)
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := s.Descriptor.amount(row.Fields)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("row %d: %w", i, err)
	}
	return v, nil
}

func (d Descriptor) amount(fields []string) (decimal.Decimal, error) {
	cellAt := func(c int) string {
		if c >= 0 && c < len(fields) {
			return strings.TrimSpace(fields[c])
		}
		return ""
	}

	if d.singleAmountColumn() {
		cell := cellAt(d.DebitColumn)
		if v, err := parseAmount(d.DebitFormat, cell); err == nil {
			return v, nil
		}
		v, err := parseAmount(d.CreditFormat, cell)
		if err != nil {
			if cell == "" {
				return decimal.Decimal{}, ErrNoAmount
			}
			return decimal.Decimal{}, fmt.Errorf("%q matches neither debit nor credit format", cell)
		}
		return v.Neg(), nil
	}

	if cell := cellAt(d.DebitColumn); cell != "" {
		return parseAmount(d.DebitFormat, cell)
	}
	if cell := cellAt(d.CreditColumn); cell != "" {
		v, err := parseAmount(d.CreditFormat, cell)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return v.Neg(), nil
	}
	return decimal.Decimal{}, ErrNoAmount
}

// SetAmount rewrites row i's amount cell, choosing the debit or credit column
// and format by sign.
func (s *Statement) SetAmount(i int, v decimal.Decimal) error {
	d := s.Descriptor
	col, format, other := d.DebitColumn, d.DebitFormat, d.CreditColumn
	if v.IsNegative() {
		col, format, other = d.CreditColumn, d.CreditFormat, d.DebitColumn
	}
	if err := s.Ledger.SetField(i, col, formatAmount(format, v.Abs())); err != nil {
		return err
	}
	if !d.singleAmountColumn() {
		return s.Ledger.SetField(i, other, "")
	}
	return nil
}

// Split divides the current row in two: the current row keeps amount and its
// new successor carries the remainder.
func (s *Statement) Split(amount decimal.Decimal) error {
	if s.Ledger.AtEnd() {
		return ledger.ErrNoCurrentRow
	}
	i := s.Ledger.Cursor()
	orig, err := s.Amount(i)
	if err != nil {
		return err
	}
	if amount.IsZero() || amount.Equal(orig) {
		return ErrInvalidSplit
	}
	row, err := s.Ledger.Row(i)
	if err != nil {
		return err
	}
	for _, c := range []int{s.Descriptor.DebitColumn, s.Descriptor.CreditColumn} {
		if c < 0 || c >= len(row.Fields) {
			return fmt.Errorf("split row %d: amount column %d: %w", i, c, ledger.ErrOutOfRange)
		}
	}
	if err := s.Ledger.InsertAtCursor(); err != nil {
		return err
	}
	if err := s.SetAmount(i, amount); err != nil {
		return err
	}
	return s.SetAmount(i+1, orig.Sub(amount))
}

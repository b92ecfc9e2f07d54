package statement

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jask/reconcile/internal/config"
)

// ErrNoDescriptor is returned when no configured identifier occurs in a statement.
var ErrNoDescriptor = errors.New("statement: no account identifier found")

// Descriptor tells the loader where things live in one bank's CSV layout.
// Columns are zero-based; amount formats hold a single {} placeholder.
type Descriptor struct {
	Identifier     string
	LedgerSource   string
	DateColumn     int
	DateFormat     string
	PayeeColumns   []int
	DebitColumn    int
	DebitFormat    string
	CreditColumn   int
	CreditFormat   string
	DisplayColumns []int
}

func NewDescriptor(a config.AccountConfig) Descriptor {
	return Descriptor{
		Identifier:     a.Identifier,
		LedgerSource:   a.LedgerSource,
		DateColumn:     a.DateColumn,
		DateFormat:     a.DateFormat,
		PayeeColumns:   a.PayeeColumns,
		DebitColumn:    a.DebitColumn,
		DebitFormat:    orDefault(a.DebitFormat, "{}"),
		CreditColumn:   a.CreditColumn,
		CreditFormat:   orDefault(a.CreditFormat, "{}"),
		DisplayColumns: a.DisplayColumns,
	}
}

func (d Descriptor) singleAmountColumn() bool { return d.DebitColumn == d.CreditColumn }

// Importer picks a Descriptor for a statement file by identifier.
type Importer struct {
	descriptors []Descriptor
}

func NewImporter(accounts []config.AccountConfig) *Importer {
	ds := make([]Descriptor, 0, len(accounts))
	for _, a := range accounts {
		ds = append(ds, NewDescriptor(a))
	}
	return &Importer{descriptors: ds}
}

// Match returns the first descriptor, in configuration order, whose identifier
// appears anywhere in the file.
func (im *Importer) Match(path string) (Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Descriptor{}, fmt.Errorf("read statement: %w", err)
	}

	for _, d := range im.descriptors {
		if d.Identifier == "" {
			continue
		}
		for _, line := range lines {
			if strings.Contains(line, d.Identifier) {
				return d, nil
			}
		}
	}
	return Descriptor{}, fmt.Errorf("%s: %w", path, ErrNoDescriptor)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

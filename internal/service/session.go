package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jask/reconcile/internal/autocomplete"
	"github.com/jask/reconcile/internal/navigator"
	"github.com/jask/reconcile/internal/statement"
)

const commandHelp = "([account]/[q]uit/[s]kip/[b]ack/:split AMOUNT)"

// ErrSessionDone is returned when a destination is entered after the last row.
var ErrSessionDone = errors.New("session: every transaction has been visited")

// Outcome is what the terminal should show after a command.
type Outcome struct {
	Message string
	Quit    bool
}

// Session drives one reconciliation: it maps typed commands onto the
// navigator and records destinations. Statement i is shown by the navigator's
// viewport i.
type Session struct {
	Statements []*statement.Statement
	Nav        *navigator.Navigator
	Hinter     *Hinter
	Accounts   *autocomplete.Trie

	done bool
}

// Done reports whether every transaction has been passed.
func (s *Session) Done() bool { return s.done || s.Nav.Exhausted() }

// Current returns the focused statement and the index of its current row.
func (s *Session) Current() (*statement.Statement, int, error) {
	if s.Done() {
		return nil, 0, ErrSessionDone
	}
	st := s.Statements[s.Nav.Focused()]
	return st, st.Ledger.Cursor(), nil
}

// Prompt is the question for the current row.
func (s *Session) Prompt() string {
	st, i, err := s.Current()
	if err != nil {
		return "All transactions visited. [q]uit or [b]ack"
	}
	amount, err := st.Amount(i)
	if err == nil && amount.IsNegative() {
		return "From which account is this amount coming? " + commandHelp
	}
	return "To which account is this amount going? " + commandHelp
}

// Hint suggests a destination for the current row: the one already recorded,
// else what the payee usually gets.
func (s *Session) Hint(ctx context.Context) (string, error) {
	st, i, err := s.Current()
	if err != nil {
		return "", nil
	}
	row, err := st.Ledger.Row(i)
	if err != nil {
		return "", err
	}
	if row.Destination != "" || s.Hinter == nil {
		return row.Destination, nil
	}
	payee, err := st.Payee(i)
	if err != nil {
		return "", err
	}
	return s.Hinter.Hint(ctx, payee)
}

// Complete extends a partly typed account name.
func (s *Session) Complete(partial string) string {
	if s.Accounts == nil {
		return partial
	}
	return s.Accounts.Complete(partial)
}

// Execute runs one line of input.
func (s *Session) Execute(ctx context.Context, input string) (Outcome, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return Outcome{Message: "enter an account, or q, s, b"}, nil
	case input == "q":
		s.done = true
		return Outcome{Quit: true}, nil
	case input == "s":
		return s.forward("skipped")
	case input == "b":
		if err := s.Nav.ScrollBackward(); err != nil {
			if errors.Is(err, navigator.ErrStartOfData) {
				return Outcome{Message: "already at the first transaction"}, nil
			}
			return Outcome{}, err
		}
		s.done = false
		return Outcome{}, nil
	case strings.HasPrefix(input, ":split"):
		return s.split(strings.TrimSpace(strings.TrimPrefix(input, ":split")))
	default:
		return s.record(ctx, input)
	}
}

func (s *Session) forward(msg string) (Outcome, error) {
	err := s.Nav.ScrollForward()
	switch {
	case errors.Is(err, navigator.ErrEndOfData):
		s.done = true
	case err != nil:
		return Outcome{}, err
	}
	if s.Nav.Exhausted() {
		s.done = true
	}
	return Outcome{Message: msg, Quit: s.done}, nil
}

func (s *Session) split(arg string) (Outcome, error) {
	st, _, err := s.Current()
	if err != nil {
		return Outcome{}, err
	}
	amount, err := decimal.NewFromString(arg)
	if err != nil {
		return Outcome{Message: fmt.Sprintf("split: %q is not an amount", arg)}, nil
	}
	if err := st.Split(amount); err != nil {
		if errors.Is(err, statement.ErrInvalidSplit) {
			return Outcome{Message: err.Error()}, nil
		}
		return Outcome{}, err
	}
	v := s.Nav.FocusedView()
	v.Refresh()
	v.Draw()
	return Outcome{Message: "split off " + amount.StringFixed(2)}, nil
}

func (s *Session) record(ctx context.Context, account string) (Outcome, error) {
	st, i, err := s.Current()
	if err != nil {
		return Outcome{}, err
	}
	if err := st.Ledger.SetDestination(account); err != nil {
		return Outcome{}, err
	}
	if s.Hinter != nil {
		payee, _ := st.Payee(i)
		if err := s.Hinter.Record(ctx, payee, account); err != nil {
			log.Printf("session: remember %q -> %q: %v", payee, account, err)
		}
	}
	v := s.Nav.FocusedView()
	v.Refresh()
	v.Draw()

	msg := account
	if s.Accounts != nil && !s.Accounts.Contains(account) {
		msg += " (not in accounts file)"
	}
	return s.forward(msg)
}

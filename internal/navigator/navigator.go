// Package navigator walks several date-sorted ledgers as one chronological
// stream without merging them. Each ledger keeps its own cursor and viewport;
// the navigator decides which ledger holds the current transaction.
//
// Position model: ties between equal dates go to the lower ledger index, so the
// stream is the stable order by (date, ledger index, row index). For every
// ledger, the rows at or before the current transaction are "surfaced". The
// focused ledger's cursor is on the current transaction. Any other ledger
// points either at its first unsurfaced row (scrolled down) or at its last
// surfaced row (scrolled up).
package navigator

import (
	"errors"
	"time"

	"github.com/jask/reconcile/internal/ledger"
	"github.com/jask/reconcile/internal/viewport"
)

var (
	// ErrEndOfData is returned by ScrollForward once every ledger is exhausted.
	ErrEndOfData = errors.New("navigator: end of data")
	// ErrStartOfData is returned by ScrollBackward when no earlier row exists.
	ErrStartOfData = errors.New("navigator: start of data")
	// ErrNoLedgers is returned by New when given nothing to navigate.
	ErrNoLedgers = errors.New("navigator: no ledgers")
)

// Direction is the way a ledger was last scrolled.
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

type pane struct {
	view   *viewport.Viewport
	dir    Direction
	atHead bool
}

func (p *pane) ledger() *ledger.Ledger { return p.view.Ledger() }

// Navigator owns a set of viewports and their ledgers. It is not safe for
// concurrent use.
type Navigator struct {
	panes []*pane
	focus int
}

// New focuses the ledger holding the earliest row and draws every viewport.
func New(views []*viewport.Viewport) (*Navigator, error) {
	if len(views) == 0 {
		return nil, ErrNoLedgers
	}
	n := &Navigator{panes: make([]*pane, len(views)), focus: -1}
	for i, v := range views {
		n.panes[i] = &pane{view: v, dir: Down}
	}
	n.focus, _ = n.forwardFocus()
	n.settle()
	for i, p := range n.panes {
		p.view.SetFocus(i == n.focus)
		p.view.Draw()
	}
	return n, nil
}

// Len is the number of ledgers.
func (n *Navigator) Len() int { return len(n.panes) }

// Focused is the index of the ledger holding the current transaction.
func (n *Navigator) Focused() int { return n.focus }

// FocusedLedger returns the ledger holding the current transaction. Its cursor
// is on that transaction unless every ledger is exhausted.
func (n *Navigator) FocusedLedger() *ledger.Ledger { return n.panes[n.focus].ledger() }

func (n *Navigator) FocusedView() *viewport.Viewport { return n.panes[n.focus].view }

func (n *Navigator) View(i int) *viewport.Viewport { return n.panes[i].view }

// Direction reports how ledger i was last scrolled.
func (n *Navigator) Direction(i int) Direction { return n.panes[i].dir }

// AtHead reports whether ledger i has no row left to surface going backward.
func (n *Navigator) AtHead(i int) bool { return n.panes[i].atHead }

// Exhausted reports whether every ledger cursor sits on its sentinel.
func (n *Navigator) Exhausted() bool {
	for _, p := range n.panes {
		if !p.ledger().AtEnd() {
			return false
		}
	}
	return true
}

// ScrollForward moves focus to the next row in date order. Stepping past the
// final row leaves every ledger exhausted; the call after that fails with
// ErrEndOfData and changes nothing.
func (n *Navigator) ScrollForward() error {
	if n.Exhausted() {
		return ErrEndOfData
	}
	prev := n.focus
	next, ok := n.forwardFocus()
	if !ok {
		// The current row is the last one: park every ledger on its sentinel.
		for _, p := range n.panes {
			if !p.ledger().AtEnd() {
				_ = p.view.ScrollDown()
			}
			p.dir = Down
		}
		n.settle()
		n.redraw(prev)
		return nil
	}

	if next == prev {
		if err := n.panes[next].view.ScrollDown(); err != nil {
			return err
		}
	} else {
		p, q := n.panes[prev], n.panes[next]
		if !p.ledger().AtEnd() {
			_ = p.view.ScrollDown()
		}
		p.dir = Down
		if q.dir == Up {
			if err := q.view.ScrollDown(); err != nil {
				return err
			}
		}
		n.focus = next
	}
	n.panes[n.focus].dir = Down
	n.settle()
	n.redraw(prev)
	return nil
}

// ScrollBackward moves focus to the previous row in date order. It fails with
// ErrStartOfData, changing nothing, when the current row is the first one.
func (n *Navigator) ScrollBackward() error {
	prev := n.focus
	next, ok := n.reverseFocus()
	if !ok {
		return ErrStartOfData
	}

	if next == prev {
		if err := n.panes[next].view.ScrollUp(); err != nil {
			return err
		}
	} else {
		p, q := n.panes[prev], n.panes[next]
		// A previous ledger already on its first row has nothing to give back
		// and stays scrolled down.
		if err := p.view.ScrollUp(); err != nil {
			p.dir = Down
		} else {
			p.dir = Up
		}
		if q.dir == Down {
			if err := q.view.ScrollUp(); err != nil {
				return err
			}
		}
		n.focus = next
	}
	n.panes[n.focus].dir = Up
	n.settle()
	n.redraw(prev)
	return nil
}

// Refresh rebuilds every viewport after rows changed underneath them.
func (n *Navigator) Refresh() {
	for _, p := range n.panes {
		p.view.Refresh()
		p.view.Draw()
	}
}

// Resize gives every viewport a new pane size.
func (n *Navigator) Resize(width, height int) {
	for _, p := range n.panes {
		p.view.Resize(width, height)
		p.view.Draw()
	}
}

// forwardKey is the date of ledger i's next unsurfaced row. ok is false when
// the ledger has none left.
func (n *Navigator) forwardKey(i int) (time.Time, bool) {
	p := n.panes[i]
	k := p.ledger().Cursor()
	if i == n.focus || p.dir == Up {
		k++
	}
	d, err := p.ledger().Date(k)
	return d, err == nil
}

// reverseKey is the date of ledger i's last surfaced row that precedes the
// current transaction. ok is false when there is none.
func (n *Navigator) reverseKey(i int) (time.Time, bool) {
	p := n.panes[i]
	if p.atHead {
		return time.Time{}, false
	}
	l := p.ledger()
	var (
		d   time.Time
		err error
	)
	if i == n.focus || p.dir == Down || l.AtEnd() {
		d, err = l.PrevDate()
	} else {
		d, err = l.CurrentDate()
	}
	return d, err == nil
}

// forwardFocus returns the ledger with the earliest forward key, lowest index
// on ties. With no candidate at all it returns 0 and false.
func (n *Navigator) forwardFocus() (int, bool) {
	best, found := 0, false
	var bestDate time.Time
	for i := range n.panes {
		d, ok := n.forwardKey(i)
		if !ok {
			continue
		}
		if !found || d.Before(bestDate) {
			best, bestDate, found = i, d, true
		}
	}
	return best, found
}

// reverseFocus returns the ledger with the latest reverse key. Ties go to the
// highest index: forward order visits equal dates lowest index first, so the
// row just before the current one on a tie lives in the higher ledger, and
// stepping back retraces the forward walk exactly.
func (n *Navigator) reverseFocus() (int, bool) {
	best, found := 0, false
	var bestDate time.Time
	for i := range n.panes {
		d, ok := n.reverseKey(i)
		if !ok {
			continue
		}
		if !found || !d.Before(bestDate) {
			best, bestDate, found = i, d, true
		}
	}
	return best, found
}

// settle latches atHead for ledgers whose backward candidate would precede row 0.
func (n *Navigator) settle() {
	for i, p := range n.panes {
		p.atHead = p.ledger().Cursor() == 0 && (i == n.focus || p.dir == Down)
	}
}

func (n *Navigator) redraw(prev int) {
	if prev != n.focus {
		old := n.panes[prev].view
		old.SetFocus(false)
		old.Draw()
	}
	cur := n.panes[n.focus].view
	cur.SetFocus(true)
	cur.Draw()
}

// Package viewport renders a bounded, lazily scrolled window over one ledger.
package viewport

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/reconcile/internal/ledger"
)

// DestinationColumn selects the row's destination instead of a statement field.
const DestinationColumn = -1

const (
	columnDivider = " │ "
	// border (2) + header and divider lines (2)
	chromeHeight = 4
)

// Viewport is a [head, tail) window over a ledger's rows. Formatted rows for the
// window are cached so Draw never touches the ledger; Refresh rebuilds the cache
// after rows change underneath it.
type Viewport struct {
	ledger  *ledger.Ledger
	columns []int
	width   int
	height  int

	size   int
	head   int
	tail   int
	widths []int
	header string
	view   []string

	focused bool
	frame   string
}

// New builds a viewport sized to fit a width x height pane. columns lists the
// statement fields to show in order; DestinationColumn may appear anywhere.
func New(l *ledger.Ledger, columns []int, width, height int) *Viewport {
	v := &Viewport{ledger: l, columns: columns}
	v.Resize(width, height)
	return v
}

// Resize recomputes the window size for a new pane size and rebuilds the cache.
// The window is re-anchored so the cursor stays visible.
func (v *Viewport) Resize(width, height int) {
	v.width, v.height = width, height
	avail := height - chromeHeight
	if avail < 0 {
		avail = 0
	}
	v.size = min(avail, v.ledger.Len())
	v.head = 0
	if c := v.ledger.Cursor(); v.size > 0 && c >= v.size {
		v.head = min(c-v.size/2, v.ledger.Len()-v.size)
	}
	v.Refresh()
}

func (v *Viewport) Ledger() *ledger.Ledger { return v.ledger }
func (v *Viewport) Size() int              { return v.size }
func (v *Viewport) Head() int              { return v.head }
func (v *Viewport) Tail() int              { return v.tail }
func (v *Viewport) Focused() bool          { return v.focused }
func (v *Viewport) SetFocus(focused bool)  { v.focused = focused }

// Frame returns the output of the last Draw.
func (v *Viewport) Frame() string { return v.frame }

// ScrollDown advances the ledger cursor and shifts the window forward one row
// once the cursor passes the midpoint.
func (v *Viewport) ScrollDown() error {
	if err := v.ledger.Advance(); err != nil {
		return err
	}
	if v.size > 0 && v.tail < v.ledger.Len() && v.ledger.Cursor()-v.head >= v.size/2+1 {
		v.view = append(v.view[1:], v.format(v.tail))
		v.head++
		v.tail++
	}
	return nil
}

// ScrollUp retreats the ledger cursor and shifts the window back one row while
// the cursor sits at or above the midpoint. The window never shifts past a
// cursor that has just left the sentinel.
func (v *Viewport) ScrollUp() error {
	if err := v.ledger.Retreat(); err != nil {
		return err
	}
	c := v.ledger.Cursor()
	if v.head > 0 && c-v.head <= v.size/2+1 && c < v.tail-1 {
		v.head--
		v.tail--
		v.view = append([]string{v.format(v.head)}, v.view[:len(v.view)-1]...)
	}
	return nil
}

// Refresh recomputes column widths, the header, and the cached window from the
// ledger's current rows.
func (v *Viewport) Refresh() {
	n := v.ledger.Len()
	if v.head+v.size > n {
		v.head = max(0, n-v.size)
	}
	v.tail = v.head + v.size

	headers := make([]string, len(v.columns))
	v.widths = make([]int, len(v.columns))
	for i, c := range v.columns {
		headers[i] = v.headerName(c)
		v.widths[i] = ansi.StringWidth(headers[i])
	}
	for r := 0; r < n; r++ {
		row, err := v.ledger.Row(r)
		if err != nil {
			continue
		}
		for i, c := range v.columns {
			v.widths[i] = max(v.widths[i], ansi.StringWidth(cell(row, c)))
		}
	}
	v.header = v.join(headers)

	v.view = v.view[:0]
	for r := v.head; r < v.tail; r++ {
		v.view = append(v.view, v.format(r))
	}
}

// Draw repaints the pane from the cached window and returns it.
func (v *Viewport) Draw() string {
	lines := make([]string, 0, len(v.view)+2)
	lines = append(lines, headerStyle.Render(v.header))
	lines = append(lines, strings.Repeat("─", max(0, v.contentWidth())))
	cursor := v.ledger.Cursor()
	for i, text := range v.view {
		marker := "  "
		if v.head+i == cursor {
			marker = "▶ "
			if v.focused {
				text = cursorStyle.Render(text)
			}
		}
		lines = append(lines, marker+text)
	}
	v.frame = renderPane(v.ledger.Name, strings.Join(lines, "\n"), v.width, v.height, v.focused)
	return v.frame
}

func (v *Viewport) contentWidth() int { return v.width - 4 }

func (v *Viewport) format(r int) string {
	row, err := v.ledger.Row(r)
	if err != nil {
		return ""
	}
	cells := make([]string, len(v.columns))
	for i, c := range v.columns {
		cells[i] = cell(row, c)
	}
	return v.join(cells)
}

func (v *Viewport) join(cells []string) string {
	var b strings.Builder
	for i, text := range cells {
		if i > 0 {
			b.WriteString(columnDivider)
		}
		b.WriteString(text)
		if pad := v.widths[i] - ansi.StringWidth(text); pad > 0 && i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}

func (v *Viewport) headerName(c int) string {
	if c == DestinationColumn {
		return "Destination"
	}
	if c >= 0 && c < len(v.ledger.Headers) {
		return v.ledger.Headers[c]
	}
	return ""
}

func cell(row ledger.Row, c int) string {
	if c == DestinationColumn {
		return row.Destination
	}
	if c >= 0 && c < len(row.Fields) {
		return row.Fields[c]
	}
	return ""
}

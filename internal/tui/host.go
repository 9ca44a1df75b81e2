package tui

import (
	"math"

	"sortable-cli/internal/sortable"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// cardHeight is a bordered one-line card: top border, label, bottom border.
	cardHeight = 3
	// cardsTop is the first screen row of the cards (title bar, blank, column header).
	cardsTop = 3

	columnGap      = 2
	minColumnWidth = 14
	maxColumnWidth = 40

	// gripSelector limits a selector to the card's grip cells.
	gripSelector = "grip"
	gripWidth    = 3
)

// pointer is a mouse position in cells. Presses land on the cell's top-left
// corner and motion on its center, so a card dragged straight down a column
// still crosses into its neighbour's near half under the strict overlap rule.
type pointer struct {
	X, Y float64
}

func (p pointer) Position() sortable.Point { return sortable.Point{X: p.X, Y: p.Y} }

func pressAt(msg tea.MouseMsg) pointer {
	return pointer{X: float64(msg.X), Y: float64(msg.Y)}
}

func motionAt(msg tea.MouseMsg) pointer {
	return pointer{X: float64(msg.X) + 0.5, Y: float64(msg.Y) + 0.5}
}

type layout struct {
	columns []sortable.ListID
	width   int
}

func (ly layout) columnOf(id sortable.ListID) int {
	for i, c := range ly.columns {
		if c == id {
			return i
		}
	}
	return -1
}

func (ly layout) columnLeft(col int) int { return col * (ly.width + columnGap) }

// columnWidth splits the screen evenly between n columns.
func columnWidth(screen, n int) int {
	if n <= 0 {
		return maxColumnWidth
	}
	w := (screen - columnGap*(n-1)) / n
	if w < minColumnWidth {
		w = minColumnWidth
	}
	if w > maxColumnWidth {
		w = maxColumnWidth
	}
	return w
}

// termHost lays lists out as side-by-side columns of fixed-height cards.
// Hidden items keep their slot so the cards around a dragged one stay put.
type termHost struct {
	layout layout
	hidden map[*sortable.Item]bool
	proxy  *termProxy
}

func newTermHost() *termHost {
	return &termHost{hidden: map[*sortable.Item]bool{}}
}

func (h *termHost) Bounds(it *sortable.Item) sortable.Rect {
	l := it.List()
	if l == nil {
		return sortable.Rect{}
	}
	col := h.layout.columnOf(l.ID())
	idx := l.IndexOf(it)
	if col < 0 || idx < 0 {
		return sortable.Rect{}
	}
	return sortable.Rect{
		Top:    float64(cardsTop + idx*cardHeight),
		Left:   float64(h.layout.columnLeft(col)),
		Width:  float64(h.layout.width),
		Height: cardHeight,
	}
}

func contains(r sortable.Rect, p sortable.Point) bool {
	return p.X >= r.Left && p.X < r.Right() && p.Y >= r.Top && p.Y < r.Bottom()
}

// cardAt returns the visible card of l under p.
func (h *termHost) cardAt(l *sortable.List, p sortable.Point) (*sortable.Item, sortable.Rect) {
	for _, it := range l.Items() {
		if h.hidden[it] {
			continue
		}
		if r := h.Bounds(it); contains(r, p) {
			return it, r
		}
	}
	return nil, sortable.Rect{}
}

func matchesPart(selector string, r sortable.Rect, p sortable.Point) bool {
	if selector == gripSelector {
		return p.X < r.Left+gripWidth
	}
	return true
}

// ItemUnder treats every selector as "the whole card" except gripSelector.
func (h *termHost) ItemUnder(l *sortable.List, ev sortable.Event, selector string) *sortable.Item {
	p := ev.Position()
	it, r := h.cardAt(l, p)
	if it == nil || !matchesPart(selector, r, p) {
		return nil
	}
	return it
}

func (h *termHost) HandleUnder(l *sortable.List, ev sortable.Event, selector string) bool {
	p := ev.Position()
	it, r := h.cardAt(l, p)
	return it != nil && matchesPart(selector, r, p)
}

func (h *termHost) SetVisible(it *sortable.Item, visible bool) {
	if visible {
		delete(h.hidden, it)
		return
	}
	h.hidden[it] = true
}

func (h *termHost) Clone(it *sortable.Item, class string) sortable.Proxy {
	p := &termProxy{host: h, item: it, class: class}
	h.proxy = p
	return p
}

// termProxy is painted over the board after everything else. It snaps to
// whole cells and never leaves the screen's top-left edge.
type termProxy struct {
	host  *termHost
	item  *sortable.Item
	class string
	pos   sortable.Point
	w, h  float64
}

func (p *termProxy) MoveTo(pt sortable.Point) { p.pos = pt }

func (p *termProxy) Resize(w, h float64) { p.w, p.h = w, h }

func (p *termProxy) Origin() sortable.Point {
	return sortable.Point{
		X: math.Max(0, math.Floor(p.pos.X)),
		Y: math.Max(0, math.Floor(p.pos.Y)),
	}
}

func (p *termProxy) Remove() {
	if p.host.proxy == p {
		p.host.proxy = nil
	}
}

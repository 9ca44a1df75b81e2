package tui

import (
	"fmt"
	"strings"

	"sortable-cli/internal/sortable"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const grip = "⠿ "

func (m *appModel) View() string {
	if m.width == 0 {
		return "loading…"
	}
	if m.showHelp {
		w := min(m.width-4, 80)
		return renderMarkdown(helpText(), w) + "\n\n" + styleMuted().Render("esc/? close · q quit")
	}

	lines := m.boardLines()
	lines = m.overlayProxy(lines)

	// Keep the footer on screen: status line and key help.
	if m.height > 2 && len(lines) > m.height-2 {
		lines = lines[:m.height-2]
	}
	status := styleMuted().Render(m.status)
	if m.statusErr {
		status = styleError().Render(m.status)
	}
	return strings.Join(lines, "\n") + "\n" + status + "\n" + m.help.View(m.keys)
}

func (m *appModel) boardLines() []string {
	title := styleTitleBar().Render("sortable")
	if len(m.cols) == 0 {
		return []string{title, "", styleMuted().Render("no boards yet: sortable boards create <id>")}
	}
	info := styleMuted().Render(fmt.Sprintf(" %d boards · %s", len(m.cols), m.opts.Store.Dir))
	lines := []string{truncate(title+info, m.width), ""}

	w := m.host.layout.width
	var columns [][]string
	rows := 0
	for i, c := range m.cols {
		col := m.columnLines(i, c, w)
		rows = max(rows, len(col))
		columns = append(columns, col)
	}
	gap := strings.Repeat(" ", columnGap)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for i, col := range columns {
			if i > 0 {
				b.WriteString(gap)
			}
			cell := ""
			if r < len(col) {
				cell = col[r]
			}
			b.WriteString(padRight(cell, w))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}

func (m *appModel) columnLines(idx int, c *column, w int) []string {
	header := fmt.Sprintf("%s (%d)", c.board.Title, c.list.Len())
	out := []string{styleColumnHeader().Render(truncate(header, w))}
	blank := strings.Repeat(" ", w)
	for row, it := range c.list.Items() {
		if m.host.hidden[it] {
			for i := 0; i < cardHeight; i++ {
				out = append(out, blank)
			}
			continue
		}
		selected := m.session == nil && idx == m.selCol && row == m.selRow
		out = append(out, renderCard(styleCard(selected), it, w)...)
	}
	return out
}

// renderCard draws a cardHeight-row card exactly w cells wide.
func renderCard(st lipgloss.Style, it *sortable.Item, w int) []string {
	inner := max(1, w-2)
	label := truncate(grip+it.Label, inner)
	return strings.Split(st.Width(inner).MaxHeight(cardHeight).Render(label), "\n")
}

func (m *appModel) overlayProxy(lines []string) []string {
	p := m.host.proxy
	if p == nil || p.w <= 0 {
		return lines
	}
	o := p.Origin()
	x, y := int(o.X), int(o.Y)
	card := renderCard(styleProxy(), p.item, int(p.w))
	for len(lines) < y+len(card) {
		lines = append(lines, "")
	}
	for i, row := range card {
		lines[y+i] = splice(lines[y+i], row, x)
	}
	return lines
}

// splice paints over onto base starting at cell x.
func splice(base, over string, x int) string {
	bw := xansi.StringWidth(base)
	left := xansi.Cut(base, 0, x)
	if pad := x - xansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	end := x + xansi.StringWidth(over)
	right := ""
	if end < bw {
		right = xansi.Cut(base, end, bw)
	}
	return left + over + right
}

func truncate(s string, w int) string {
	if w <= 0 {
		return s
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Truncate(s, w, "…")
}

func padRight(s string, w int) string {
	if n := w - xansi.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"sortable-cli/internal/model"
)

type RenderOptions struct {
	// History adds each card's most recent moves under the list.
	History bool
}

// BoardPage is everything one board page shows.
type BoardPage struct {
	Board model.Board
	Items []model.Item
	Moves map[string][]model.Move
}

func RenderBoardMarkdown(p BoardPage, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + boardTitle(p.Board))
	writeLn("")
	writeLn("- ID: " + p.Board.ID)
	writeLn(fmt.Sprintf("- Cards: %d", len(p.Items)))
	if !p.Board.CreatedAt.IsZero() {
		writeLn("- Created: " + p.Board.CreatedAt.UTC().Format(time.RFC3339))
	}
	writeLn("")

	if len(p.Items) == 0 {
		writeLn("_No cards._")
		return buf.String()
	}
	for i, it := range p.Items {
		writeLn(fmt.Sprintf("%d. %s `%s`", i+1, escapeInline(it.Title), it.ID))
	}

	if !opt.History {
		return buf.String()
	}
	wrote := false
	for _, it := range p.Items {
		moves := p.Moves[it.ID]
		if len(moves) == 0 {
			continue
		}
		if !wrote {
			writeLn("")
			writeLn("## Recent moves")
			wrote = true
		}
		writeLn("")
		writeLn("### " + it.ID)
		writeLn("")
		for _, mv := range moves {
			from := mv.FromBoard
			if from == mv.ToBoard {
				from = "same board"
			}
			writeLn(fmt.Sprintf("- %s: %s → %s #%d", mv.At.UTC().Format(time.RFC3339), from, mv.ToBoard, mv.Position))
		}
	}
	return buf.String()
}

func RenderIndexMarkdown(boards []model.Board, counts map[string]int) string {
	var buf bytes.Buffer
	buf.WriteString("# Boards\n\n")
	if len(boards) == 0 {
		buf.WriteString("_No boards._\n")
		return buf.String()
	}
	buf.WriteString("| Board | Cards |\n| --- | --- |\n")
	for _, b := range boards {
		fmt.Fprintf(&buf, "| [%s](boards/%s.md) | %d |\n", escapeInline(boardTitle(b)), b.ID, counts[b.ID])
	}
	return buf.String()
}

func boardTitle(b model.Board) string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	return b.ID
}

func escapeInline(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.NewReplacer("|", `\|`, "`", "'").Replace(s)
}

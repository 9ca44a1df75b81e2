// Package publish writes boards as static markdown pages.
package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"sortable-cli/internal/model"
	"sortable-cli/internal/store"
)

type WriteOptions struct {
	History   bool
	Overwrite bool
	// Boards limits the output; empty means every board.
	Boards []string
}

type WriteResult struct {
	Written []string `json:"written"`
}

const historyLimit = 5

// WriteBoards renders index.md and boards/<id>.md under toDir.
func WriteBoards(ctx context.Context, st store.Store, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	boards, err := selectBoards(ctx, st, opt.Boards)
	if err != nil {
		return WriteResult{}, err
	}
	boardsDir := filepath.Join(toDir, "boards")
	if err := os.MkdirAll(boardsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	var written []string
	counts := map[string]int{}
	for _, b := range boards {
		items, err := st.Items(ctx, b.ID)
		if err != nil {
			return WriteResult{}, err
		}
		counts[b.ID] = len(items)
		page := BoardPage{Board: b, Items: items}
		if opt.History {
			page.Moves = map[string][]model.Move{}
			for _, it := range items {
				moves, err := st.Moves(ctx, it.ID, historyLimit)
				if err != nil {
					return WriteResult{}, err
				}
				page.Moves[it.ID] = moves
			}
		}
		p := filepath.Join(boardsDir, b.ID+".md")
		if err := writeFile(p, []byte(RenderBoardMarkdown(page, RenderOptions{History: opt.History})), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}

	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(boards, counts)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: append([]string{indexPath}, written...)}, nil
}

func selectBoards(ctx context.Context, st store.Store, ids []string) ([]model.Board, error) {
	if len(ids) == 0 {
		return st.Boards(ctx)
	}
	out := make([]model.Board, 0, len(ids))
	for _, id := range ids {
		b, err := st.Board(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sortable-cli/internal/model"
)

const snapshotVersion = 1

// Snapshot is a full copy of the store: boards, items with their ranks, the
// move history and the id counter.
type Snapshot struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	NextItemID int           `json:"nextItemId"`
	Boards     []model.Board `json:"boards"`
	Items      []model.Item  `json:"items"`
	Moves      []model.Move  `json:"moves"`
}

func (s Store) Export(ctx context.Context) (Snapshot, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer db.Close()

	snap := Snapshot{Version: snapshotVersion, ExportedAt: time.Now().UTC()}
	if snap.Boards, err = boardsTx(ctx, db); err != nil {
		return Snapshot{}, err
	}
	for _, b := range snap.Boards {
		items, err := boardItems(ctx, db, b.ID)
		if err != nil {
			return Snapshot{}, err
		}
		for _, it := range items {
			snap.Items = append(snap.Items, *it)
		}
	}
	if snap.Moves, err = movesQuery(ctx, db, `SELECT `+moveColumns+` FROM moves ORDER BY seq ASC`); err != nil {
		return Snapshot{}, err
	}
	if snap.NextItemID, err = counterValue(ctx, db); err != nil {
		return Snapshot{}, err
	}
	if snap.Boards == nil {
		snap.Boards = []model.Board{}
	}
	if snap.Items == nil {
		snap.Items = []model.Item{}
	}
	if snap.Moves == nil {
		snap.Moves = []model.Move{}
	}
	return snap, nil
}

// Restore replaces everything in the store with snap. It is meant for
// backup/restore, not day-to-day edits.
func (s Store) Restore(ctx context.Context, snap Snapshot) error {
	if snap.Version != snapshotVersion {
		return fmt.Errorf("backup: unsupported snapshot version %d", snap.Version)
	}
	if snap.NextItemID < 1 {
		return errors.New("backup: nextItemId must be >= 1")
	}
	boards := map[string]bool{}
	for _, b := range snap.Boards {
		id, err := NormalizeBoardID(b.ID)
		if err != nil || id != b.ID {
			return fmt.Errorf("backup: invalid board id %q", b.ID)
		}
		boards[id] = true
	}
	for _, it := range snap.Items {
		if _, err := ResolveItemID(it.ID); err != nil || !strings.HasPrefix(it.ID, itemIDPrefix) {
			return fmt.Errorf("backup: invalid item id %q", it.ID)
		}
		if !boards[it.BoardID] {
			return fmt.Errorf("backup: item %s references unknown board %q", it.ID, it.BoardID)
		}
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range []string{`DELETE FROM moves;`, `DELETE FROM items;`, `DELETE FROM boards;`, `DELETE FROM meta;`} {
		if _, err := tx.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	for _, b := range snap.Boards {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO boards(id, title, created_at) VALUES(?, ?, ?)`,
			b.ID, b.Title, formatTime(b.CreatedAt)); err != nil {
			return fmt.Errorf("backup: board %s: %w", b.ID, err)
		}
	}
	for _, it := range snap.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items(`+itemColumns+`) VALUES(?, ?, ?, ?, ?, ?)`,
			it.ID, it.BoardID, normalizeRank(it.Rank), it.Title,
			formatTime(it.CreatedAt), formatTime(it.UpdatedAt)); err != nil {
			return fmt.Errorf("backup: item %s: %w", it.ID, err)
		}
	}
	for _, mv := range snap.Moves {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO moves(seq, item_id, from_board, to_board, position, rank, request_id, at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			mv.Seq, mv.ItemID, mv.FromBoard, mv.ToBoard, mv.Position, mv.Rank, mv.RequestID, formatTime(mv.At)); err != nil {
			return fmt.Errorf("backup: move %d: %w", mv.Seq, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO meta(k, v) VALUES(?, ?)`,
		nextItemIDKey, strconv.Itoa(snap.NextItemID)); err != nil {
		return err
	}
	return tx.Commit()
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"sortable-cli/internal/model"
)

const (
	itemIDPrefix  = "item-"
	nextItemIDKey = "next_item_id"
)

// ResolveItemID accepts "item-12", "12" or " ITEM-12 " and returns the
// canonical id. Digit-only ids come from endpoints that strip the prefix.
func ResolveItemID(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", ErrInvalidID
	}
	if _, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return itemIDPrefix + raw, nil
	}
	if n := strings.TrimPrefix(raw, itemIDPrefix); n != raw {
		if _, err := strconv.ParseUint(n, 10, 64); err == nil {
			return raw, nil
		}
	}
	return "", ErrInvalidID
}

const itemColumns = `id, board_id, rank, title, created_at, updated_at`

func scanItem(sc interface{ Scan(...any) error }) (model.Item, error) {
	var it model.Item
	var created, updated string
	if err := sc.Scan(&it.ID, &it.BoardID, &it.Rank, &it.Title, &created, &updated); err != nil {
		return model.Item{}, err
	}
	it.CreatedAt = parseTime(created)
	it.UpdatedAt = parseTime(updated)
	return it, nil
}

// AddItem appends a new item at the end of boardID.
func (s Store) AddItem(ctx context.Context, boardID, title string) (model.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Item{}, ErrEmptyTitle
	}
	bid, err := NormalizeBoardID(boardID)
	if err != nil {
		return model.Item{}, NotFoundError{Kind: "board", ID: boardID}
	}
	boardID = bid
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Item{}, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Item{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := boardTx(ctx, tx, boardID); err != nil {
		return model.Item{}, err
	}
	id, err := nextItemID(ctx, tx)
	if err != nil {
		return model.Item{}, err
	}
	var last sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT MAX(rank) FROM items WHERE board_id = ?`, boardID).Scan(&last); err != nil {
		return model.Item{}, err
	}
	rank, err := RankAfter(last.String)
	if err != nil {
		return model.Item{}, err
	}
	now := time.Now().UTC()
	it := model.Item{ID: id, BoardID: boardID, Rank: rank, Title: title, CreatedAt: now, UpdatedAt: now}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO items(`+itemColumns+`) VALUES(?, ?, ?, ?, ?, ?)`,
		it.ID, it.BoardID, it.Rank, it.Title, formatTime(now), formatTime(now)); err != nil {
		return model.Item{}, err
	}
	return it, tx.Commit()
}

func nextItemID(ctx context.Context, tx *sql.Tx) (string, error) {
	n, err := counterValue(ctx, tx)
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta(k, v) VALUES(?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		nextItemIDKey, strconv.Itoa(n+1)); err != nil {
		return "", err
	}
	return itemIDPrefix + strconv.Itoa(n), nil
}

// Items returns the items of boardID in display order.
func (s Store) Items(ctx context.Context, boardID string) ([]model.Item, error) {
	bid, err := NormalizeBoardID(boardID)
	if err != nil {
		return nil, NotFoundError{Kind: "board", ID: boardID}
	}
	boardID = bid
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := boardTx(ctx, db, boardID); err != nil {
		return nil, err
	}
	ptrs, err := boardItems(ctx, db, boardID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Item, 0, len(ptrs))
	for _, it := range ptrs {
		out = append(out, *it)
	}
	return out, nil
}

func boardItems(ctx context.Context, q querier, boardID string) ([]*model.Item, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+itemColumns+` FROM items WHERE board_id = ?`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortByRank(out)
	return out, nil
}

func (s Store) Item(ctx context.Context, id string) (model.Item, error) {
	id, err := ResolveItemID(id)
	if err != nil {
		return model.Item{}, err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Item{}, err
	}
	defer db.Close()
	return itemTx(ctx, db, id)
}

func itemTx(ctx context.Context, q querier, id string) (model.Item, error) {
	it, err := scanItem(q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, NotFoundError{Kind: "item", ID: id}
	}
	return it, err
}

// MoveRequest places ItemID at the 1-based Position of ToBoard. An empty
// ToBoard keeps the item on its current board. Positions past either end are
// clamped.
type MoveRequest struct {
	ItemID    string
	ToBoard   string
	Position  int
	RequestID string
}

type MoveResult struct {
	Item    model.Item
	Move    model.Move
	Changed bool
	// Rebalanced lists neighbours whose rank was rewritten alongside the item.
	Rebalanced []string
}

func (s Store) MoveItem(ctx context.Context, req MoveRequest) (MoveResult, error) {
	id, err := ResolveItemID(req.ItemID)
	if err != nil {
		return MoveResult{}, err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return MoveResult{}, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return MoveResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	it, err := itemTx(ctx, tx, id)
	if err != nil {
		return MoveResult{}, err
	}
	to := it.BoardID
	if strings.TrimSpace(req.ToBoard) != "" {
		if to, err = NormalizeBoardID(req.ToBoard); err != nil {
			return MoveResult{}, NotFoundError{Kind: "board", ID: req.ToBoard}
		}
		if _, err := boardTx(ctx, tx, to); err != nil {
			return MoveResult{}, err
		}
	}
	sibs, err := boardItems(ctx, tx, to)
	if err != nil {
		return MoveResult{}, err
	}

	crossBoard := to != it.BoardID
	insertAt := req.Position - 1
	var plan RankPlan
	if crossBoard {
		plan, err = PlanInsert(sibs, &it, insertAt)
	} else {
		plan, err = PlanReorder(sibs, it.ID, insertAt)
	}
	if err != nil {
		return MoveResult{}, err
	}

	now := time.Now().UTC()
	for itemID, rank := range plan.Ranks {
		if _, err := tx.ExecContext(ctx, `UPDATE items SET rank = ?, updated_at = ? WHERE id = ?`,
			rank, formatTime(now), itemID); err != nil {
			return MoveResult{}, err
		}
	}
	from := it.BoardID
	if crossBoard {
		if _, err := tx.ExecContext(ctx, `UPDATE items SET board_id = ?, updated_at = ? WHERE id = ?`,
			to, formatTime(now), it.ID); err != nil {
			return MoveResult{}, err
		}
	}

	res := MoveResult{Changed: crossBoard || !plan.Empty()}
	for _, rid := range plan.Rebalance {
		if rid != it.ID {
			res.Rebalanced = append(res.Rebalanced, rid)
		}
	}
	if res.Item, err = itemTx(ctx, tx, it.ID); err != nil {
		return MoveResult{}, err
	}
	if !res.Changed {
		res.Move = model.Move{ItemID: it.ID, FromBoard: from, ToBoard: to, Position: positionOf(sibs, it.ID), Rank: it.Rank, At: now}
		return res, tx.Commit()
	}

	after, err := boardItems(ctx, tx, to)
	if err != nil {
		return MoveResult{}, err
	}
	mv := model.Move{
		ItemID:    it.ID,
		FromBoard: from,
		ToBoard:   to,
		Position:  positionOf(after, it.ID),
		Rank:      res.Item.Rank,
		RequestID: strings.TrimSpace(req.RequestID),
		At:        now,
	}
	r, err := tx.ExecContext(ctx,
		`INSERT INTO moves(item_id, from_board, to_board, position, rank, request_id, at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		mv.ItemID, mv.FromBoard, mv.ToBoard, mv.Position, mv.Rank, mv.RequestID, formatTime(mv.At))
	if err != nil {
		return MoveResult{}, err
	}
	if mv.Seq, err = r.LastInsertId(); err != nil {
		return MoveResult{}, err
	}
	res.Move = mv
	return res, tx.Commit()
}

// positionOf returns the 1-based position of id, or 0.
func positionOf(items []*model.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i + 1
		}
	}
	return 0
}

// Moves returns recorded moves, newest first. itemID filters when set; limit
// <= 0 means no limit.
func (s Store) Moves(ctx context.Context, itemID string, limit int) ([]model.Move, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT ` + moveColumns + ` FROM moves`
	var args []any
	if strings.TrimSpace(itemID) != "" {
		id, err := ResolveItemID(itemID)
		if err != nil {
			return nil, err
		}
		q += ` WHERE item_id = ?`
		args = append(args, id)
	}
	q += ` ORDER BY seq DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return movesQuery(ctx, db, q, args...)
}

const moveColumns = `seq, item_id, from_board, to_board, position, rank, request_id, at`

func movesQuery(ctx context.Context, q querier, query string, args ...any) ([]model.Move, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Move
	for rows.Next() {
		var mv model.Move
		var at string
		if err := rows.Scan(&mv.Seq, &mv.ItemID, &mv.FromBoard, &mv.ToBoard, &mv.Position, &mv.Rank, &mv.RequestID, &at); err != nil {
			return nil, err
		}
		mv.At = parseTime(at)
		out = append(out, mv)
	}
	return out, rows.Err()
}

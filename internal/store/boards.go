package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"sortable-cli/internal/model"
)

var boardIDRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// NormalizeBoardID lowercases id and checks it is a usable slug.
func NormalizeBoardID(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if !boardIDRe.MatchString(id) {
		return "", ErrInvalidID
	}
	return id, nil
}

func (s Store) CreateBoard(ctx context.Context, id, title string) (model.Board, error) {
	id, err := NormalizeBoardID(id)
	if err != nil {
		return model.Board{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = id
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Board{}, err
	}
	defer db.Close()

	b := model.Board{ID: id, Title: title, CreatedAt: time.Now().UTC()}
	res, err := db.ExecContext(ctx,
		`INSERT INTO boards(id, title, created_at) VALUES(?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		b.ID, b.Title, formatTime(b.CreatedAt))
	if err != nil {
		return model.Board{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Board{}, ErrBoardTaken
	}
	return b, nil
}

// EnsureBoard creates the board unless it exists already.
func (s Store) EnsureBoard(ctx context.Context, id, title string) (model.Board, error) {
	b, err := s.CreateBoard(ctx, id, title)
	if errors.Is(err, ErrBoardTaken) {
		return s.Board(ctx, id)
	}
	return b, err
}

func (s Store) Board(ctx context.Context, id string) (model.Board, error) {
	bid, err := NormalizeBoardID(id)
	if err != nil {
		return model.Board{}, NotFoundError{Kind: "board", ID: id}
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Board{}, err
	}
	defer db.Close()
	return boardTx(ctx, db, bid)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func boardTx(ctx context.Context, q querier, id string) (model.Board, error) {
	var b model.Board
	var created string
	err := q.QueryRowContext(ctx, `SELECT id, title, created_at FROM boards WHERE id = ?`, id).
		Scan(&b.ID, &b.Title, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Board{}, NotFoundError{Kind: "board", ID: id}
	}
	if err != nil {
		return model.Board{}, err
	}
	b.CreatedAt = parseTime(created)
	return b, nil
}

// Boards returns all boards in creation order.
func (s Store) Boards(ctx context.Context) ([]model.Board, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return boardsTx(ctx, db)
}

func boardsTx(ctx context.Context, q querier) ([]model.Board, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title, created_at FROM boards ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Board
	for rows.Next() {
		var b model.Board
		var created string
		if err := rows.Scan(&b.ID, &b.Title, &created); err != nil {
			return nil, err
		}
		b.CreatedAt = parseTime(created)
		out = append(out, b)
	}
	return out, rows.Err()
}

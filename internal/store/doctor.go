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

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Board   string           `json:"board,omitempty"`
	ItemID  string           `json:"itemId,omitempty"`
	Fixed   bool             `json:"fixed,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
	// Rebalanced lists boards whose ranks were rewritten by a fix run.
	Rebalanced []string `json:"rebalanced,omitempty"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError && !it.Fixed {
			return true
		}
	}
	return false
}

// Doctor checks rank integrity and the item id counter. With fix set, boards
// with rank issues are re-ranked in their current display order and the
// counter is moved past the highest item id.
func (s Store) Doctor(ctx context.Context, fix bool) (DoctorReport, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return DoctorReport{}, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return DoctorReport{}, err
	}
	defer func() { _ = tx.Rollback() }()

	boards, err := boardsTx(ctx, tx)
	if err != nil {
		return DoctorReport{}, err
	}

	var rep DoctorReport
	maxID := 0
	for _, b := range boards {
		items, err := boardItems(ctx, tx, b.ID)
		if err != nil {
			return DoctorReport{}, err
		}
		for _, it := range items {
			if n, ok := itemNumber(it.ID); ok && n > maxID {
				maxID = n
			}
		}
		issues := rankIssues(b.ID, items)
		if len(issues) > 0 && fix {
			if err := rerank(ctx, tx, items); err != nil {
				return DoctorReport{}, fmt.Errorf("rebalance %s: %w", b.ID, err)
			}
			for i := range issues {
				issues[i].Fixed = true
			}
			rep.Rebalanced = append(rep.Rebalanced, b.ID)
		}
		rep.Issues = append(rep.Issues, issues...)
	}

	next, err := counterValue(ctx, tx)
	if err != nil {
		return DoctorReport{}, err
	}
	if maxID > 0 && next <= maxID {
		issue := DoctorIssue{
			Level:   DoctorIssueLevelError,
			Code:    "id_counter_behind",
			Message: fmt.Sprintf("next item id %d would reuse %s%d", next, itemIDPrefix, maxID),
		}
		if fix {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO meta(k, v) VALUES(?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
				nextItemIDKey, strconv.Itoa(maxID+1)); err != nil {
				return DoctorReport{}, err
			}
			issue.Fixed = true
		}
		rep.Issues = append(rep.Issues, issue)
	}

	var orphans int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM moves WHERE item_id NOT IN (SELECT id FROM items)`).Scan(&orphans); err != nil {
		return DoctorReport{}, err
	}
	if orphans > 0 {
		rep.Issues = append(rep.Issues, DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "moves_orphaned",
			Message: fmt.Sprintf("%d recorded moves reference missing items", orphans),
		})
	}

	if rep.Issues == nil {
		rep.Issues = []DoctorIssue{}
	}
	if !fix {
		return rep, nil
	}
	return rep, tx.Commit()
}

// rankIssues reports empty, malformed and duplicate ranks. items must be in
// display order.
func rankIssues(board string, items []*model.Item) []DoctorIssue {
	var out []DoctorIssue
	prev := ""
	for _, it := range items {
		r := normalizeRank(it.Rank)
		switch {
		case r == "":
			out = append(out, DoctorIssue{
				Level: DoctorIssueLevelError, Code: "rank_empty",
				Message: "item has no rank", Board: board, ItemID: it.ID,
			})
		case !validRank(r):
			out = append(out, DoctorIssue{
				Level: DoctorIssueLevelError, Code: "rank_invalid",
				Message: fmt.Sprintf("rank %q has characters outside 0-9a-z", it.Rank), Board: board, ItemID: it.ID,
			})
		case r != it.Rank:
			out = append(out, DoctorIssue{
				Level: DoctorIssueLevelWarn, Code: "rank_not_normalized",
				Message: fmt.Sprintf("rank %q is not lowercase/trimmed", it.Rank), Board: board, ItemID: it.ID,
			})
		}
		if r != "" && r == prev {
			out = append(out, DoctorIssue{
				Level: DoctorIssueLevelWarn, Code: "rank_duplicate",
				Message: fmt.Sprintf("rank %q is shared with the previous item", r), Board: board, ItemID: it.ID,
			})
		}
		prev = r
	}
	return out
}

func validRank(r string) bool {
	for i := 0; i < len(r); i++ {
		if _, ok := rankDigit(r[i]); !ok {
			return false
		}
	}
	return true
}

// rerank assigns fresh, evenly generated ranks in the given order.
func rerank(ctx context.Context, tx *sql.Tx, items []*model.Item) error {
	ranks, err := fillRanks(map[string]bool{}, "", "", len(items))
	if err != nil {
		return err
	}
	now := formatTime(time.Now())
	for i, it := range items {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET rank = ?, updated_at = ? WHERE id = ?`, ranks[i], now, it.ID); err != nil {
			return err
		}
	}
	return nil
}

func itemNumber(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, itemIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

func counterValue(ctx context.Context, q querier) (int, error) {
	var v string
	err := q.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, nextItemIDKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("meta %s: %w", nextItemIDKey, err)
	}
	return n, nil
}

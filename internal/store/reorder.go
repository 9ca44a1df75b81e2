package store

import (
	"errors"
	"sort"
	"strings"

	"sortable-cli/internal/model"
)

var errMovedMissing = errors.New("reorder: moved item not in board")

// RankPlan is the set of rank writes needed to realize a reorder. An empty
// plan means the item is already in place.
type RankPlan struct {
	Ranks     map[string]string
	Rebalance []string // ids re-ranked as a window, in final order
}

func (p RankPlan) Empty() bool { return len(p.Ranks) == 0 }

// SortByRank orders items by rank, then creation time, then id. Unranked items
// sort by creation time alone.
func SortByRank(items []*model.Item) {
	sort.SliceStable(items, func(i, j int) bool { return lessByRank(items[i], items[j]) })
}

func lessByRank(a, b *model.Item) bool {
	ra, rb := normalizeRank(a.Rank), normalizeRank(b.Rank)
	if ra != "" && rb != "" && ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// PlanReorder computes rank updates that put movedID at insertAt within items
// (index counted with the moved item removed).
//
// Only the moved item is re-ranked when its new neighbours leave room.
// Otherwise the smallest window around it whose outer bounds are ordered is
// re-ranked.
func PlanReorder(items []*model.Item, movedID string, insertAt int) (RankPlan, error) {
	movedID = strings.TrimSpace(movedID)
	cur := append([]*model.Item(nil), items...)
	SortByRank(cur)

	from := -1
	for i, it := range cur {
		if it.ID == movedID {
			from = i
			break
		}
	}
	if from < 0 {
		return RankPlan{}, errMovedMissing
	}
	moved := cur[from]
	rest := append(append([]*model.Item(nil), cur[:from]...), cur[from+1:]...)

	insertAt = clamp(insertAt, 0, len(rest))
	if insertAt == from && moved.Rank != "" {
		return RankPlan{Ranks: map[string]string{}}, nil
	}
	return planInsert(rest, moved, insertAt, insertAt < from)
}

// PlanInsert ranks moved, coming from another board, at insertAt within
// items. Its current rank is ignored.
func PlanInsert(items []*model.Item, moved *model.Item, insertAt int) (RankPlan, error) {
	rest := make([]*model.Item, 0, len(items))
	for _, it := range items {
		if it.ID != moved.ID {
			rest = append(rest, it)
		}
	}
	SortByRank(rest)
	return planInsert(rest, moved, clamp(insertAt, 0, len(rest)), false)
}

func planInsert(rest []*model.Item, moved *model.Item, insertAt int, preferRight bool) (RankPlan, error) {
	final := make([]*model.Item, 0, len(rest)+1)
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	lower, upper := outerRanks(final, insertAt, insertAt)
	if lower == "" || upper == "" || lower < upper {
		taken := ranksExcept(final, map[string]bool{moved.ID: true})
		if r, err := RankBetweenUnique(taken, lower, upper); err == nil {
			return RankPlan{Ranks: map[string]string{moved.ID: r}}, nil
		}
	}

	lo, hi, ranks := rebalanceWindow(final, insertAt, preferRight)
	if ranks == nil {
		return RankPlan{}, ErrRankNoSpace
	}
	plan := RankPlan{Ranks: map[string]string{}}
	for i, it := range final[lo : hi+1] {
		plan.Ranks[it.ID] = ranks[i]
		plan.Rebalance = append(plan.Rebalance, it.ID)
	}
	return plan, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// outerRanks returns the ranks just outside final[lo:hi+1].
func outerRanks(final []*model.Item, lo, hi int) (lower, upper string) {
	if lo > 0 {
		lower = normalizeRank(final[lo-1].Rank)
	}
	if hi+1 < len(final) {
		upper = normalizeRank(final[hi+1].Rank)
	}
	return lower, upper
}

func ranksExcept(items []*model.Item, skip map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, it := range items {
		if skip[it.ID] {
			continue
		}
		if r := normalizeRank(it.Rank); r != "" {
			out[r] = true
		}
	}
	return out
}

// fillRanks returns n increasing unique ranks strictly between lower and
// upper.
func fillRanks(taken map[string]bool, lower, upper string, n int) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		r, err := RankBetweenUnique(taken, lower, upper)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		lower = r
	}
	return out, nil
}

// rebalanceWindow finds the smallest [lo, hi] containing at that can be
// re-ranked between its outer neighbours, and the ranks to use. Ties go right
// when preferRight is set.
func rebalanceWindow(final []*model.Item, at int, preferRight bool) (lo, hi int, ranks []string) {
	try := func(lo, hi int) []string {
		skip := map[string]bool{}
		for _, it := range final[lo : hi+1] {
			skip[it.ID] = true
		}
		lower, upper := outerRanks(final, lo, hi)
		if lower != "" && upper != "" && lower >= upper {
			return nil
		}
		rs, err := fillRanks(ranksExcept(final, skip), lower, upper, hi-lo+1)
		if err != nil {
			return nil
		}
		return rs
	}
	n := len(final)
	for size := 1; size <= n; size++ {
		first := clamp(at-size+1, 0, n-size)
		last := clamp(at, 0, n-size)
		if preferRight {
			for lo := last; lo >= first; lo-- {
				if rs := try(lo, lo+size-1); rs != nil {
					return lo, lo + size - 1, rs
				}
			}
			continue
		}
		for lo := first; lo <= last; lo++ {
			if rs := try(lo, lo+size-1); rs != nil {
				return lo, lo + size - 1, rs
			}
		}
	}
	return 0, n - 1, nil
}

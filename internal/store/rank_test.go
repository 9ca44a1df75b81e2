package store

import (
	"errors"
	"testing"
	"time"

	"sortable-cli/internal/model"
)

func TestRankBetween_PrefixAdjacent_NoSpace(t *testing.T) {
	// Nothing sorts strictly between "y" and "y0": '0' is the smallest digit.
	if _, err := RankBetween("y", "y0"); !errors.Is(err, ErrRankNoSpace) {
		t.Fatalf("err = %v, want ErrRankNoSpace", err)
	}
}

func TestRankBetween_Bounds(t *testing.T) {
	cases := []struct{ lo, hi string }{
		{"", ""},
		{"a", ""},
		{"", "a"},
		{"a", "b"},
		{"y", "z"},
		{"h", "h1"},
	}
	for _, c := range cases {
		r, err := RankBetween(c.lo, c.hi)
		if err != nil {
			t.Fatalf("RankBetween(%q,%q): %v", c.lo, c.hi, err)
		}
		if c.lo != "" && !(c.lo < r) {
			t.Fatalf("RankBetween(%q,%q) = %q, not after lower", c.lo, c.hi, r)
		}
		if c.hi != "" && !(r < c.hi) {
			t.Fatalf("RankBetween(%q,%q) = %q, not before upper", c.lo, c.hi, r)
		}
	}
	if _, err := RankBetween("b", "a"); !errors.Is(err, ErrRankOrder) {
		t.Fatalf("expected ErrRankOrder, got %v", err)
	}
	if _, err := RankBetween("!a", ""); !errors.Is(err, ErrRankInvalid) {
		t.Fatalf("expected ErrRankInvalid, got %v", err)
	}
}

func TestRankAfter_KeepsIncreasing(t *testing.T) {
	prev := ""
	for i := 0; i < 50; i++ {
		r, err := RankAfter(prev)
		if err != nil {
			t.Fatalf("RankAfter(%q): %v", prev, err)
		}
		if prev != "" && !(prev < r) {
			t.Fatalf("RankAfter(%q) = %q", prev, r)
		}
		prev = r
	}
}

func TestRankBetweenUnique_AvoidsCollisionByTighteningLowerBound(t *testing.T) {
	// RankBetween("m","t") yields "p".
	taken := map[string]bool{"p": true}
	r, err := RankBetweenUnique(taken, "m", "t")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if taken[r] || !("m" < r && r < "t") {
		t.Fatalf("rank %q is taken or out of bounds", r)
	}
}

func order(items ...*model.Item) []string {
	cp := append([]*model.Item(nil), items...)
	SortByRank(cp)
	out := make([]string, len(cp))
	for i, it := range cp {
		out[i] = it.ID
	}
	return out
}

func apply(plan RankPlan, items ...*model.Item) {
	for _, it := range items {
		if r, ok := plan.Ranks[it.ID]; ok {
			it.Rank = r
		}
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlanReorder_FastPathTouchesOnlyMovedItem(t *testing.T) {
	a := &model.Item{ID: "a", Rank: "h"}
	b := &model.Item{ID: "b", Rank: "q"}
	c := &model.Item{ID: "c", Rank: "u"}

	plan, err := PlanReorder([]*model.Item{a, b, c}, "c", 0)
	if err != nil {
		t.Fatalf("PlanReorder: %v", err)
	}
	if len(plan.Ranks) != 1 || plan.Ranks["c"] == "" || len(plan.Rebalance) != 0 {
		t.Fatalf("plan = %+v", plan)
	}
	apply(plan, a, b, c)
	if got := order(a, b, c); !equal(got, []string{"c", "a", "b"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestPlanReorder_NoOp(t *testing.T) {
	a := &model.Item{ID: "a", Rank: "h"}
	b := &model.Item{ID: "b", Rank: "q"}
	plan, err := PlanReorder([]*model.Item{a, b}, "b", 1)
	if err != nil || !plan.Empty() {
		t.Fatalf("plan = %+v, err = %v", plan, err)
	}
	if _, err := PlanReorder([]*model.Item{a, b}, "zz", 0); err == nil {
		t.Fatalf("expected error for missing item")
	}
}

func TestPlanReorder_PrefixAdjacentBounds_Rebalances(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &model.Item{ID: "a", Rank: "y", CreatedAt: now}
	b := &model.Item{ID: "b", Rank: "y0", CreatedAt: now.Add(time.Second)}
	x := &model.Item{ID: "x", Rank: "h", CreatedAt: now.Add(2 * time.Second)}

	// Without x the board is [a, b]; put x between them.
	plan, err := PlanReorder([]*model.Item{a, b, x}, "x", 1)
	if err != nil {
		t.Fatalf("PlanReorder: %v", err)
	}
	if len(plan.Rebalance) < 2 {
		t.Fatalf("expected a rebalance window, got %+v", plan)
	}
	apply(plan, a, b, x)
	if got := order(a, b, x); !equal(got, []string{"a", "x", "b"}) {
		t.Fatalf("order = %v (a=%q x=%q b=%q)", got, a.Rank, x.Rank, b.Rank)
	}
}

func TestPlanInsert_IgnoresForeignRank(t *testing.T) {
	a := &model.Item{ID: "a", Rank: "h"}
	b := &model.Item{ID: "b", Rank: "q"}
	// Same rank as a, coming from another board.
	x := &model.Item{ID: "x", Rank: "h"}

	plan, err := PlanInsert([]*model.Item{a, b}, x, 2)
	if err != nil {
		t.Fatalf("PlanInsert: %v", err)
	}
	apply(plan, a, b, x)
	if got := order(a, b, x); !equal(got, []string{"a", "b", "x"}) {
		t.Fatalf("order = %v", got)
	}
}

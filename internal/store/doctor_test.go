package store

import (
	"context"
	"testing"
)

func issueCodes(rep DoctorReport) map[string]string {
	out := map[string]string{}
	for _, it := range rep.Issues {
		out[it.Code] = it.ItemID
	}
	return out
}

func TestDoctor_ReportsAndFixesRankDamage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustBoard(t, s, "todo")
	mustItems(t, s, "todo", "a", "b", "c")

	db, err := s.openSQLite(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range []string{
		`UPDATE items SET rank = 'q' WHERE id = 'item-1'`,
		`UPDATE items SET rank = 'q' WHERE id = 'item-2'`,
		`UPDATE items SET rank = 'U' WHERE id = 'item-3'`,
		`UPDATE meta SET v = '2' WHERE k = 'next_item_id'`,
	} {
		if _, err := db.ExecContext(ctx, st); err != nil {
			t.Fatalf("%s: %v", st, err)
		}
	}
	_ = db.Close()

	rep, err := s.Doctor(ctx, false)
	if err != nil {
		t.Fatalf("Doctor: %v", err)
	}
	codes := issueCodes(rep)
	if codes["rank_duplicate"] != "item-2" {
		t.Fatalf("rank_duplicate = %q, issues %+v", codes["rank_duplicate"], rep.Issues)
	}
	if codes["rank_not_normalized"] != "item-3" {
		t.Fatalf("rank_not_normalized = %q, issues %+v", codes["rank_not_normalized"], rep.Issues)
	}
	if _, ok := codes["id_counter_behind"]; !ok {
		t.Fatalf("missing id_counter_behind: %+v", rep.Issues)
	}
	if !rep.HasErrors() {
		t.Fatalf("expected errors")
	}

	rep, err = s.Doctor(ctx, true)
	if err != nil {
		t.Fatalf("Doctor(fix): %v", err)
	}
	if len(rep.Rebalanced) != 1 || rep.Rebalanced[0] != "todo" {
		t.Fatalf("rebalanced = %v", rep.Rebalanced)
	}
	for _, it := range rep.Issues {
		if !it.Fixed && it.Level == DoctorIssueLevelError {
			t.Fatalf("unfixed issue %+v", it)
		}
	}
	if got, want := boardOrder(t, s, "todo"), []string{"item-1", "item-2", "item-3"}; !equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	rep, err = s.Doctor(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Issues) != 0 {
		t.Fatalf("issues after fix = %+v", rep.Issues)
	}
	it, err := s.AddItem(ctx, "todo", "d")
	if err != nil {
		t.Fatal(err)
	}
	if it.ID != "item-4" {
		t.Fatalf("next id = %s, want item-4", it.ID)
	}
}

func TestDoctor_ReportOnlyLeavesDataAlone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustBoard(t, s, "todo")
	mustItems(t, s, "todo", "a")

	db, err := s.openSQLite(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, `UPDATE items SET rank = ' H ' WHERE id = 'item-1'`); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	for i := 0; i < 2; i++ {
		rep, err := s.Doctor(ctx, false)
		if err != nil {
			t.Fatal(err)
		}
		if codes := issueCodes(rep); codes["rank_not_normalized"] != "item-1" {
			t.Fatalf("run %d: issues = %+v", i, rep.Issues)
		}
		if rep.HasErrors() {
			t.Fatalf("warnings only, got errors: %+v", rep.Issues)
		}
	}
}

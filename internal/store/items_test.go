package store

import (
	"context"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return Store{Dir: t.TempDir()}
}

func mustBoard(t *testing.T, s Store, id string) {
	t.Helper()
	if _, err := s.CreateBoard(context.Background(), id, ""); err != nil {
		t.Fatalf("CreateBoard(%s): %v", id, err)
	}
}

func mustItems(t *testing.T, s Store, board string, titles ...string) []string {
	t.Helper()
	var ids []string
	for _, title := range titles {
		it, err := s.AddItem(context.Background(), board, title)
		if err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		ids = append(ids, it.ID)
	}
	return ids
}

func boardOrder(t *testing.T, s Store, board string) []string {
	t.Helper()
	items, err := s.Items(context.Background(), board)
	if err != nil {
		t.Fatalf("Items(%s): %v", board, err)
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestBoards_CreateAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b, err := s.CreateBoard(ctx, " Todo ", "To do")
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if b.ID != "todo" || b.Title != "To do" {
		t.Fatalf("board = %+v", b)
	}
	if _, err := s.CreateBoard(ctx, "todo", ""); !errors.Is(err, ErrBoardTaken) {
		t.Fatalf("duplicate board err = %v", err)
	}
	if _, err := s.CreateBoard(ctx, "bad id", ""); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("invalid id err = %v", err)
	}
	if _, err := s.EnsureBoard(ctx, "todo", "ignored"); err != nil {
		t.Fatalf("EnsureBoard existing: %v", err)
	}
	mustBoard(t, s, "done")

	boards, err := s.Boards(ctx)
	if err != nil {
		t.Fatalf("Boards: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("boards = %+v", boards)
	}
	if _, err := s.Board(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("Board(nope) err = %v", err)
	}
}

func TestAddItem_AppendsWithSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	mustBoard(t, s, "todo")
	ids := mustItems(t, s, "todo", "one", "two", "three")

	want := []string{"item-1", "item-2", "item-3"}
	if !equal(ids, want) {
		t.Fatalf("ids = %v", ids)
	}
	if got := boardOrder(t, s, "todo"); !equal(got, want) {
		t.Fatalf("order = %v", got)
	}
	if _, err := s.AddItem(context.Background(), "todo", "  "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("empty title err = %v", err)
	}
	if _, err := s.AddItem(context.Background(), "missing", "x"); !IsNotFound(err) {
		t.Fatalf("missing board err = %v", err)
	}
}

func TestResolveItemID(t *testing.T) {
	cases := map[string]string{
		"item-12":  "item-12",
		"12":       "item-12",
		" ITEM-3 ": "item-3",
	}
	for in, want := range cases {
		got, err := ResolveItemID(in)
		if err != nil || got != want {
			t.Fatalf("ResolveItemID(%q) = %q, %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "item-", "item-x", "card-1"} {
		if _, err := ResolveItemID(bad); err == nil {
			t.Fatalf("ResolveItemID(%q) expected error", bad)
		}
	}
}

func TestMoveItem_WithinBoard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustBoard(t, s, "todo")
	mustItems(t, s, "todo", "one", "two", "three")

	// First item dropped past the second: position 2.
	res, err := s.MoveItem(ctx, MoveRequest{ItemID: "1", Position: 2, RequestID: "req-1"})
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if !res.Changed || res.Move.Position != 2 || res.Move.FromBoard != "todo" || res.Move.ToBoard != "todo" {
		t.Fatalf("result = %+v", res)
	}
	if got := boardOrder(t, s, "todo"); !equal(got, []string{"item-2", "item-1", "item-3"}) {
		t.Fatalf("order = %v", got)
	}

	// Same spot again is a no-op and is not recorded.
	res, err = s.MoveItem(ctx, MoveRequest{ItemID: "item-1", Position: 2})
	if err != nil || res.Changed {
		t.Fatalf("repeat move = %+v, %v", res, err)
	}

	// Out-of-range positions clamp to the ends.
	if _, err := s.MoveItem(ctx, MoveRequest{ItemID: "item-3", Position: 0}); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if _, err := s.MoveItem(ctx, MoveRequest{ItemID: "item-2", Position: 99}); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if got := boardOrder(t, s, "todo"); !equal(got, []string{"item-3", "item-1", "item-2"}) {
		t.Fatalf("order = %v", got)
	}

	moves, err := s.Moves(ctx, "", 0)
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	if len(moves) != 3 {
		t.Fatalf("moves = %+v", moves)
	}
	if moves[2].RequestID != "req-1" || moves[0].ItemID != "item-2" {
		t.Fatalf("moves not newest first: %+v", moves)
	}
	if hist, _ := s.Moves(ctx, "1", 10); len(hist) != 1 {
		t.Fatalf("history(item-1) = %+v", hist)
	}
}

func TestMoveItem_AcrossBoards(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustBoard(t, s, "todo")
	mustBoard(t, s, "done")
	mustItems(t, s, "todo", "one", "two")
	mustItems(t, s, "done", "three", "four")

	res, err := s.MoveItem(ctx, MoveRequest{ItemID: "item-1", ToBoard: "done", Position: 2})
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if res.Item.BoardID != "done" || res.Move.FromBoard != "todo" || res.Move.Position != 2 {
		t.Fatalf("result = %+v", res)
	}
	if got := boardOrder(t, s, "todo"); !equal(got, []string{"item-2"}) {
		t.Fatalf("todo = %v", got)
	}
	if got := boardOrder(t, s, "done"); !equal(got, []string{"item-3", "item-1", "item-4"}) {
		t.Fatalf("done = %v", got)
	}

	if _, err := s.MoveItem(ctx, MoveRequest{ItemID: "item-2", ToBoard: "nope", Position: 1}); !IsNotFound(err) {
		t.Fatalf("missing board err = %v", err)
	}
	if _, err := s.MoveItem(ctx, MoveRequest{ItemID: "item-99", Position: 1}); !IsNotFound(err) {
		t.Fatalf("missing item err = %v", err)
	}
}

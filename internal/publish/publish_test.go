package publish

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sortable-cli/internal/store"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	st := store.Store{Dir: t.TempDir()}
	if _, err := st.CreateBoard(ctx, "todo", "To do"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.CreateBoard(ctx, "done", ""); err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"write | docs", "ship"} {
		if _, err := st.AddItem(ctx, "todo", title); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.MoveItem(ctx, store.MoveRequest{ItemID: "item-2", ToBoard: "todo", Position: 1}); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestWriteBoards(t *testing.T) {
	st := seedStore(t)
	to := t.TempDir()

	res, err := WriteBoards(context.Background(), st, to, WriteOptions{History: true})
	if err != nil {
		t.Fatalf("WriteBoards: %v", err)
	}
	if len(res.Written) != 3 {
		t.Fatalf("written = %v", res.Written)
	}

	index, err := os.ReadFile(filepath.Join(to, "index.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), "| [To do](boards/todo.md) | 2 |") {
		t.Fatalf("index =\n%s", index)
	}

	page, err := os.ReadFile(filepath.Join(to, "boards", "todo.md"))
	if err != nil {
		t.Fatal(err)
	}
	body := string(page)
	first := strings.Index(body, "1. ship `item-2`")
	second := strings.Index(body, "2. write \\| docs `item-1`")
	if first < 0 || second < first {
		t.Fatalf("page order wrong:\n%s", body)
	}
	if !strings.Contains(body, "## Recent moves") || !strings.Contains(body, "same board → todo #1") {
		t.Fatalf("history missing:\n%s", body)
	}

	if _, err := WriteBoards(context.Background(), st, to, WriteOptions{}); err == nil {
		t.Fatalf("expected error without --overwrite")
	}
}

func TestWriteBoards_Selected(t *testing.T) {
	st := seedStore(t)
	to := t.TempDir()
	res, err := WriteBoards(context.Background(), st, to, WriteOptions{Boards: []string{"done"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("written = %v", res.Written)
	}
	page, _ := os.ReadFile(filepath.Join(to, "boards", "done.md"))
	if !strings.HasPrefix(string(page), "# done\n") || !strings.Contains(string(page), "_No cards._") {
		t.Fatalf("page =\n%s", page)
	}
	if _, err := WriteBoards(context.Background(), st, to, WriteOptions{Boards: []string{"nope"}, Overwrite: true}); !store.IsNotFound(err) {
		t.Fatalf("err = %v", err)
	}
}

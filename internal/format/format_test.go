package format

import (
	"bytes"
	"testing"
	"time"
)

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"url": "/items/%{id}?a=1&b=2"}, "", false); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), `{"url":"/items/%{id}?a=1&b=2"}`+"\n"; got != want {
		t.Fatalf("json = %q, want %q", got, want)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "yaml", false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteEDN(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v := map[string]any{
		"data": []any{
			map[string]any{"id": "item-1", "position": 2, "at": at},
		},
		"_hints": nil,
		"ok":     true,
	}
	var buf bytes.Buffer
	if err := WriteEDN(&buf, v, false); err != nil {
		t.Fatal(err)
	}
	want := `{:hints nil :data [{:at #inst "2024-05-01T12:00:00Z" :id "item-1" :position 2}] :ok true}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("edn =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []any{1, "x"}, "b": map[string]any{}}, true); err != nil {
		t.Fatal(err)
	}
	want := "{\n  :a [\n    1\n    \"x\"\n  ]\n  :b {}\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("edn =\n%s\nwant\n%s", got, want)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sortable-cli/internal/sortable"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("SORTABLE_CONFIG_DIR", t.TempDir())
	t.Setenv("SORTABLE_CONFIG", "")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path != "" {
		t.Fatalf("Path = %q, want empty", c.Path)
	}
	if c.Server.Addr != "127.0.0.1:7420" || c.Log.Level != "info" || c.Log.Format != "text" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.Store.Dir == "" {
		t.Fatalf("expected default store dir")
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	p := writeConfig(t, `
[store]
dir = "/tmp/boards"

[server]
addr = "127.0.0.1:9000"

[log]
level = "debug"

[[boards]]
id = "todo"
title = "To do"
url = "/items/%{id}"
accept = ["done"]

[[boards]]
id = "done"
url = "/boards/done/sort"
method = "post"
parse_id = false
min_length = 0
timeout = "3s"

[boards.params]
source = "tui"
`)
	t.Setenv("SORTABLE_SERVER_ADDR", "0.0.0.0:8080")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path != p || c.Store.Dir != "/tmp/boards" || c.Log.Level != "debug" {
		t.Fatalf("config = %+v", c)
	}
	if c.Server.Addr != "0.0.0.0:8080" {
		t.Fatalf("env override not applied: %q", c.Server.Addr)
	}
	if len(c.Boards) != 2 {
		t.Fatalf("boards = %+v", c.Boards)
	}

	todo, ok := c.Board("TODO")
	if !ok {
		t.Fatalf("Board(TODO) not found")
	}
	o := todo.Options()
	if o.URL != "/items/%{id}" || o.Method != "put" || !o.ParseID || o.MinLength != 1 {
		t.Fatalf("todo options = %+v", o)
	}
	if len(o.Accept) != 1 || o.Accept[0] != sortable.ListID("done") {
		t.Fatalf("accept = %v", o.Accept)
	}

	done, _ := c.Board("done")
	o = done.Options()
	if o.Method != "post" || o.ParseID || o.MinLength != 0 || o.Request.Timeout != 3*time.Second {
		t.Fatalf("done options = %+v", o)
	}
	if o.Request.Params.Get("source") != "tui" {
		t.Fatalf("params = %v", o.Request.Params)
	}
}

func TestBoardOptions_RequestKeys(t *testing.T) {
	p := writeConfig(t, `
[[boards]]
id = "todo"
url = "/items/%{id}"
item = "grip"
request_method = "patch"
raw_params = "&token=abc&src=tui"

[[boards]]
id = "done"
item = "card"
handle = "grip"
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	todo, _ := c.Board("todo")
	o := todo.Options()
	if o.ItemSelector != "grip" || o.HandleSelector != "grip" {
		t.Fatalf("selectors = %q, %q", o.ItemSelector, o.HandleSelector)
	}
	req, ok := sortable.BuildSyncRequest(o, "item-5", 0)
	if !ok {
		t.Fatalf("BuildSyncRequest returned !ok")
	}
	if req.Method != "PATCH" || req.Body != "token=abc&src=tui&position=1" {
		t.Fatalf("req = %+v", req)
	}

	done, _ := c.Board("done")
	o = done.Options()
	if o.ItemSelector != "card" || o.HandleSelector != "grip" {
		t.Fatalf("selectors = %q, %q", o.ItemSelector, o.HandleSelector)
	}
}

func TestLoad_RejectsDuplicateBoards(t *testing.T) {
	p := writeConfig(t, `
[[boards]]
id = "a"

[[boards]]
id = "A"
`)
	if _, err := Load(p); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoad_MissingExplicitFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path != "" || c.Server.Addr == "" {
		t.Fatalf("config = %+v", c)
	}
}

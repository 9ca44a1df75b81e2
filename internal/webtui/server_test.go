package webtui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, cfg ServerConfig) *httptest.Server {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewServer_RequiresAddr(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestChildArgv(t *testing.T) {
	s := &Server{cfg: ServerConfig{Dir: "/tmp/boards", ConfigPath: "/tmp/c.toml", Connect: true}}
	argv, err := s.childArgv()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.Join(argv[1:], " "), "--dir /tmp/boards --config /tmp/c.toml --connect"; got != want {
		t.Fatalf("argv = %q, want %q", got, want)
	}

	s.cfg.Command = []string{"cat"}
	argv, _ = s.childArgv()
	if len(argv) != 1 || argv[0] != "cat" {
		t.Fatalf("override argv = %v", argv)
	}
}

func TestTerminalPage(t *testing.T) {
	ts := newTestServer(t, ServerConfig{Dir: "/tmp/boards", Connect: true})

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/terminal" {
		t.Fatalf("root = %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = http.Get(ts.URL + "/terminal")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "/tmp/boards") || !strings.Contains(string(body), "connected boards") {
		t.Fatalf("page = %s", body)
	}

	resp, err = http.Get(ts.URL + "/static/app.js")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/javascript") {
		t.Fatalf("app.js = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestWS_EchoesThroughPTY(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty sessions need a unix host")
	}
	ts := newTestServer(t, ServerConfig{Command: []string{"cat"}})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"resize","cols":80,"rows":24}`)); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello\r")); err != nil {
		t.Fatal(err)
	}

	var got strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(got.String(), "hello") {
		_ = conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v (got %q)", err, got.String())
		}
		got.Write(data)
	}
}

package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"sortable-cli/internal/sortable"
)

type seenRequest struct {
	method string
	path   string
	query  string
	body   string
	list   string
	ctype  string
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, func() []seenRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []seenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, seenRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(b),
			list:   r.Header.Get(ListHeader),
			ctype:  r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []seenRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]seenRequest(nil), seen...)
	}
}

func TestClient_SyncSendsFormBody(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK)
	c := NewClient(WithBaseURL(srv.URL))

	opts := sortable.DefaultOptions()
	opts.URL = "/items/%{id}"
	req, ok := sortable.BuildSyncRequest(opts, "item-7", 1)
	if !ok {
		t.Fatalf("BuildSyncRequest returned !ok")
	}
	req.List = "done"

	var gotStatus int
	var gotErr error
	c.OnResult = func(_ sortable.SyncRequest, status int, err error) {
		gotStatus, gotErr = status, err
	}
	c.Sync(req)
	c.Wait()

	if gotErr != nil || gotStatus != http.StatusOK {
		t.Fatalf("result = %d, %v", gotStatus, gotErr)
	}
	got := seen()
	if len(got) != 1 {
		t.Fatalf("requests = %d, want 1", len(got))
	}
	r := got[0]
	if r.method != http.MethodPut || r.path != "/items/7" || r.body != "position=2" {
		t.Fatalf("request = %+v", r)
	}
	if r.list != "done" {
		t.Fatalf("list header = %q", r.list)
	}
	if r.ctype != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %q", r.ctype)
	}
}

func TestClient_GetPutsParamsInQuery(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusNoContent)
	c := NewClient()

	opts := sortable.DefaultOptions()
	opts.URL = srv.URL + "/sort?board=todo"
	opts.Method = "get"
	req, _ := sortable.BuildSyncRequest(opts, "item-3", 0)

	if _, err := c.Do(context.Background(), req); err != nil {
		t.Fatalf("Do: %v", err)
	}
	got := seen()
	if len(got) != 1 {
		t.Fatalf("requests = %d", len(got))
	}
	if got[0].method != http.MethodGet || got[0].query != "board=todo&id=3&position=1" || got[0].body != "" {
		t.Fatalf("request = %+v", got[0])
	}
}

func TestClient_Errors(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusInternalServerError)
	c := NewClient()

	if _, err := c.Do(context.Background(), sortable.SyncRequest{Method: "PUT", URL: "/items/1"}); err == nil {
		t.Fatalf("expected error for relative url without base")
	}
	status, err := c.Do(context.Background(), sortable.SyncRequest{Method: "PUT", URL: srv.URL + "/items/1", Body: "position=1"})
	if err == nil || status != http.StatusInternalServerError {
		t.Fatalf("Do = %d, %v; want 500 error", status, err)
	}
}

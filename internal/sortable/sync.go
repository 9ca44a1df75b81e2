package sortable

import (
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SyncRequest is the remote update issued when a drag finishes.
type SyncRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is the form-encoded parameter string.
	Body    string
	Timeout time.Duration

	List     ListID
	ItemID   string
	Position int
}

var digitsRe = regexp.MustCompile(`\d+`)

// ResolveID returns the id sent to the remote endpoint: the raw id, or its
// first run of digits when parse is set ("" when there is none).
func ResolveID(raw string, parse bool) string {
	raw = strings.TrimSpace(raw)
	if !parse || raw == "" {
		return raw
	}
	return digitsRe.FindString(raw)
}

// BuildSyncRequest builds the request for moving itemID to the zero-based
// index. ok is false when the options carry no URL.
func BuildSyncRequest(o Options, itemID string, index int) (req SyncRequest, ok bool) {
	o = o.normalized()
	if o.URL == "" {
		return SyncRequest{}, false
	}
	id := ResolveID(itemID, o.ParseID)
	position := index + 1

	method := o.Method
	if m := strings.TrimSpace(o.Request.Method); m != "" {
		method = m
	}

	params := url.Values{}
	target := o.URL
	if strings.Contains(target, IDPlaceholder) {
		target = strings.Replace(target, IDPlaceholder, id, 1)
	} else {
		params.Set(o.IDParam, id)
	}
	params.Set(o.PosParam, strconv.Itoa(position))

	var body string
	if raw := strings.TrimSpace(o.Request.RawParams); raw != "" {
		body = strings.TrimLeft(raw, "&") + "&" + params.Encode()
	} else {
		merged := url.Values{}
		for k, vs := range o.Request.Params {
			merged[k] = append([]string(nil), vs...)
		}
		for k, vs := range params {
			merged[k] = vs
		}
		body = merged.Encode()
	}

	var headers map[string]string
	if len(o.Request.Headers) > 0 {
		headers = make(map[string]string, len(o.Request.Headers))
		for k, v := range o.Request.Headers {
			headers[k] = v
		}
	}

	return SyncRequest{
		Method:   strings.ToUpper(method),
		URL:      target,
		Headers:  headers,
		Body:     body,
		Timeout:  o.Request.Timeout,
		ItemID:   strings.TrimSpace(itemID),
		Position: position,
	}, true
}

// trySync is subscribed to every list's finish notification.
func (l *List) trySync(ev EventData) {
	if l.syncer == nil || ev.Item == nil || ev.Index < 0 {
		return
	}
	req, ok := BuildSyncRequest(l.opts, ev.Item.ID, ev.Index)
	if !ok {
		return
	}
	if ev.List != nil {
		req.List = ev.List.id
	}
	l.logger.Debug("sync",
		slog.String("method", req.Method),
		slog.String("url", req.URL),
		slog.Int("position", req.Position),
	)
	l.syncer.Sync(req)
}

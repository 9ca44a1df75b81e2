package sortable

import (
	"net/url"
	"strings"
	"time"
)

// Options configures a List. Start from DefaultOptions and override fields;
// empty strings are filled with defaults when the list is created.
type Options struct {
	// URL is the sync endpoint. It may contain the "%{id}" placeholder.
	// Empty disables sync.
	URL      string
	Method   string
	IDParam  string
	PosParam string
	// ParseID sends only the first run of digits of the item id.
	ParseID bool
	// Request carries extra options for the sync request.
	Request RequestOptions

	DragClass string

	// Accept lists the peer lists whose items are valid drop targets.
	// The list itself is always part of the accept set unless ExcludeSelf is set.
	Accept      []ListID
	ExcludeSelf bool

	// MinLength is the item count at or below which drags are refused.
	MinLength int

	ItemSelector   string
	HandleSelector string
}

// RequestOptions are merged into every sync request issued by a list.
type RequestOptions struct {
	// Method overrides Options.Method when set.
	Method  string
	Headers map[string]string
	// Params are sent along with the id/position params.
	Params url.Values
	// RawParams is an already encoded query string; when set it takes
	// precedence over Params and the id/position params are appended to it.
	RawParams string
	Timeout   time.Duration
}

const (
	defaultMethod   = "put"
	defaultIDParam  = "id"
	defaultPosParam = "position"
	defaultDrag     = "dragging"
	defaultSelector = "li"

	// IDPlaceholder is substituted with the item id in Options.URL.
	IDPlaceholder = "%{id}"
)

func DefaultOptions() Options {
	return Options{
		Method:         defaultMethod,
		IDParam:        defaultIDParam,
		PosParam:       defaultPosParam,
		ParseID:        true,
		DragClass:      defaultDrag,
		MinLength:      1,
		ItemSelector:   defaultSelector,
		HandleSelector: defaultSelector,
	}
}

func (o Options) normalized() Options {
	o.URL = strings.TrimSpace(o.URL)
	if strings.TrimSpace(o.Method) == "" {
		o.Method = defaultMethod
	}
	if strings.TrimSpace(o.IDParam) == "" {
		o.IDParam = defaultIDParam
	}
	if strings.TrimSpace(o.PosParam) == "" {
		o.PosParam = defaultPosParam
	}
	if strings.TrimSpace(o.DragClass) == "" {
		o.DragClass = defaultDrag
	}
	if strings.TrimSpace(o.ItemSelector) == "" {
		o.ItemSelector = defaultSelector
	}
	if strings.TrimSpace(o.HandleSelector) == "" {
		o.HandleSelector = o.ItemSelector
	}
	if o.MinLength < 0 {
		o.MinLength = 0
	}
	o.Accept = append([]ListID(nil), o.Accept...)
	return o
}

// acceptSet returns self (unless excluded) followed by Accept, without duplicates.
func (o Options) acceptSet(self ListID) []ListID {
	out := make([]ListID, 0, len(o.Accept)+1)
	seen := map[ListID]bool{}
	if !o.ExcludeSelf {
		out = append(out, self)
		seen[self] = true
	}
	for _, id := range o.Accept {
		if id == "" || seen[id] {
			continue
		}
		if o.ExcludeSelf && id == self {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

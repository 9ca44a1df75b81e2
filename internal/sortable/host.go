package sortable

// Event is a pointer event delivered by the host's event loop.
type Event interface {
	Position() Point
}

// Host is the rendering surface the lists live on. It resolves what is under
// the pointer, measures items and creates drag proxies.
type Host interface {
	// ItemUnder returns the item of l matching selector under ev, or nil.
	ItemUnder(l *List, ev Event, selector string) *Item
	// HandleUnder reports whether a drag handle matching selector is under ev.
	HandleUnder(l *List, ev Event, selector string) bool
	// Bounds returns the item's current on-screen box.
	Bounds(it *Item) Rect
	SetVisible(it *Item, visible bool)
	// Clone creates a floating visual copy of it, styled with class.
	Clone(it *Item, class string) Proxy
}

// Proxy is the floating visual duplicate that follows the pointer.
type Proxy interface {
	// MoveTo sets the proxy's requested position.
	MoveTo(p Point)
	Resize(width, height float64)
	// Origin is where the proxy actually landed on screen, which may differ
	// from the last MoveTo by the host's layout offsets.
	Origin() Point
	Remove()
}

// Syncer delivers finished moves to a remote endpoint. Implementations must
// not block the caller.
type Syncer interface {
	Sync(req SyncRequest)
}

// SyncerFunc adapts a function to the Syncer interface.
type SyncerFunc func(req SyncRequest)

func (f SyncerFunc) Sync(req SyncRequest) { f(req) }

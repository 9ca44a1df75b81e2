package sortable

import (
	"log/slog"

	"github.com/google/uuid"
)

// State is a drag session's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StatePressed
	StateDragging
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressed:
		return "pressed"
	case StateDragging:
		return "dragging"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Session is one press-drag-release interaction.
type Session struct {
	id     string
	state  State
	source *List
	item   *Item
	proxy  Proxy

	width  float64
	height float64
	// offset keeps the proxy's requested position under the pointer;
	// boxOffset does the same for its on-screen box.
	offset    Point
	boxOffset Point

	candidates []Candidate
}

func (s *Session) ID() string    { return s.id }
func (s *Session) State() State  { return s.state }
func (s *Session) Source() *List { return s.source }
func (s *Session) Item() *Item   { return s.item }
func (s *Session) Proxy() Proxy  { return s.proxy }

// Candidates returns the cached drop targets.
func (s *Session) Candidates() []Candidate {
	return append([]Candidate(nil), s.candidates...)
}

// Press starts a drag when ev is over one of l's items and its handle. It
// returns nil, without notifying anyone, when the list is at or below its
// minimum length, nothing draggable is under the pointer, or another drag is
// already active.
func (l *List) Press(ev Event) *Session {
	if l.destroyed || ev == nil {
		return nil
	}
	if len(l.items) <= l.opts.MinLength {
		return nil
	}
	it := l.host.ItemUnder(l, ev, l.opts.ItemSelector)
	if it == nil || it.list != l {
		return nil
	}
	if !l.host.HandleUnder(l, ev, l.opts.HandleSelector) {
		return nil
	}

	s := &Session{id: uuid.NewString(), state: StatePressed, source: l, item: it}
	if !l.coord.TryAcquire(s) {
		return nil
	}
	s.begin(ev.Position())

	l.logger.Debug("drag start",
		slog.String("session", s.id),
		slog.String("item", it.ID),
		slog.Int("candidates", len(s.candidates)),
	)
	l.obs.fire(s.eventData(EventStart, ev, nil))
	return s
}

func (s *Session) begin(at Point) {
	l := s.source
	b := l.host.Bounds(s.item)

	proxy := l.host.Clone(s.item, l.opts.DragClass)
	proxy.MoveTo(Point{})
	proxy.Resize(b.Width, b.Height)
	s.width, s.height = b.Width, b.Height

	// Compensate for wherever the host's layout puts a proxy asked to sit at
	// the origin, so it starts exactly over the item.
	o := proxy.Origin()
	pos := Point{X: b.Left - o.X, Y: b.Top - o.Y}
	proxy.MoveTo(pos)

	l.host.SetVisible(s.item, false)
	s.proxy = proxy

	s.offset = Point{X: at.X - pos.X, Y: at.Y - pos.Y}
	o = proxy.Origin()
	s.boxOffset = Point{X: at.X - o.X, Y: at.Y - o.Y}

	s.candidates = buildCandidates(l, s.item)
	s.state = StateDragging
}

// Move repositions the proxy and splices the item next to the first
// overlapped candidate. It reports whether the order changed.
func (s *Session) Move(ev Event) bool {
	if s == nil || s.state != StateDragging || ev == nil {
		return false
	}
	p := ev.Position()
	s.proxy.MoveTo(Point{X: p.X - s.offset.X, Y: p.Y - s.offset.Y})

	top := p.Y - s.boxOffset.Y
	left := p.X - s.boxOffset.X
	box := Box{Top: top, Left: left, Right: left + s.width, Bottom: top + s.height}

	c, ok := FirstOverlap(box, s.candidates)
	if !ok {
		return false
	}
	place(s.item, c.Item, precedes(s.item, c.Item))
	s.candidates = buildCandidates(s.source, s.item)

	s.source.obs.fire(s.eventData(EventChange, ev, c.Item))
	return true
}

// Release ends the drag at the item's current position. ev may be nil when
// the drag is torn down without a pointer event.
func (s *Session) Release(ev Event) {
	if s == nil || s.state != StateDragging {
		return
	}
	l := s.source
	s.proxy.Remove()
	l.host.SetVisible(s.item, true)
	s.state = StateFinished
	l.coord.Release(s)

	data := s.eventData(EventFinish, ev, nil)
	l.logger.Debug("drag finish",
		slog.String("session", s.id),
		slog.String("item", s.item.ID),
		slog.Int("index", data.Index),
	)
	l.obs.fire(data)
}

func (s *Session) eventData(kind EventKind, ev Event, target *Item) EventData {
	owner := s.item.list
	idx := -1
	if owner != nil {
		idx = owner.IndexOf(s.item)
	}
	return EventData{
		Kind:    kind,
		Session: s.id,
		List:    owner,
		Item:    s.item,
		Target:  target,
		Event:   ev,
		Index:   idx,
	}
}

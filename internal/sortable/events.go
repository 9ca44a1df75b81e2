package sortable

// EventKind names the three lifecycle notifications of a drag.
type EventKind int

const (
	EventStart EventKind = iota
	EventChange
	EventFinish
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventChange:
		return "change"
	case EventFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// EventData is delivered by value to subscribers.
type EventData struct {
	Kind    EventKind
	Session string
	// List is the list currently owning Item (it changes on cross-list moves).
	List *List
	Item *Item
	// Target is the candidate that triggered a change; nil otherwise.
	Target *Item
	Event  Event
	// Index is the item's zero-based position in List.
	Index int
}

type Handler func(EventData)

type subscription struct {
	id int
	fn Handler
}

type observers struct {
	next int
	subs map[EventKind][]subscription
}

func (o *observers) add(kind EventKind, fn Handler) int {
	if o.subs == nil {
		o.subs = map[EventKind][]subscription{}
	}
	o.next++
	o.subs[kind] = append(o.subs[kind], subscription{id: o.next, fn: fn})
	return o.next
}

func (o *observers) remove(kind EventKind, id int) {
	subs := o.subs[kind]
	for i := range subs {
		if subs[i].id == id {
			o.subs[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// fire calls subscribers synchronously, in subscription order. The slice is
// copied so handlers may unsubscribe while being called.
func (o *observers) fire(ev EventData) {
	subs := append([]subscription(nil), o.subs[ev.Kind]...)
	for _, s := range subs {
		s.fn(ev)
	}
}

// OnStart subscribes fn to drag starts on l. The returned func unsubscribes.
func (l *List) OnStart(fn Handler) (cancel func()) { return l.subscribe(EventStart, fn) }

// OnChange subscribes fn to live reorders caused by drags started on l.
func (l *List) OnChange(fn Handler) (cancel func()) { return l.subscribe(EventChange, fn) }

// OnFinish subscribes fn to drag releases on l.
func (l *List) OnFinish(fn Handler) (cancel func()) { return l.subscribe(EventFinish, fn) }

func (l *List) subscribe(kind EventKind, fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	id := l.obs.add(kind, fn)
	done := false
	return func() {
		if done {
			return
		}
		done = true
		l.obs.remove(kind, id)
	}
}

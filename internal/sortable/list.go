package sortable

import (
	"log/slog"
	"strings"
)

// ListID identifies a list within a Coordinator.
type ListID string

// Item is one draggable row. It belongs to at most one List at a time.
type Item struct {
	ID    string
	Label string

	list *List
}

func NewItem(id, label string) *Item {
	return &Item{ID: strings.TrimSpace(id), Label: label}
}

// List returns the list currently owning the item, or nil.
func (it *Item) List() *List { return it.list }

// List is an ordered container of draggable items.
type List struct {
	id     ListID
	opts   Options
	coord  *Coordinator
	host   Host
	syncer Syncer
	logger *slog.Logger

	items []*Item
	obs   observers

	destroyed bool
}

// ListOption customizes a list at construction.
type ListOption func(*List)

// WithSyncer sets the syncer that receives finished moves when Options.URL is set.
func WithSyncer(s Syncer) ListOption {
	return func(l *List) { l.syncer = s }
}

// WithLogger overrides the coordinator's logger for one list.
func WithLogger(lg *slog.Logger) ListOption {
	return func(l *List) {
		if lg != nil {
			l.logger = lg
		}
	}
}

func (l *List) ID() ListID       { return l.id }
func (l *List) Options() Options { return l.opts }
func (l *List) Len() int         { return len(l.items) }

// Items returns a copy of the current order.
func (l *List) Items() []*Item {
	return append([]*Item(nil), l.items...)
}

// IndexOf returns the zero-based position of it in l, or -1.
func (l *List) IndexOf(it *Item) int {
	for i, x := range l.items {
		if x == it {
			return i
		}
	}
	return -1
}

// Find returns the item with the given external id.
func (l *List) Find(id string) (*Item, bool) {
	id = strings.TrimSpace(id)
	for _, it := range l.items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// Append adds items to the end of l, detaching them from any previous owner.
func (l *List) Append(items ...*Item) {
	for _, it := range items {
		if it == nil {
			continue
		}
		it.detach()
		it.list = l
		l.items = append(l.items, it)
	}
}

// Insert places it at index (clamped) in l, detaching it from any previous
// owner first. The index counts l's items without it.
func (l *List) Insert(index int, it *Item) {
	if it == nil {
		return
	}
	it.detach()
	index = max(0, min(index, len(l.items)))
	l.items = append(l.items, nil)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = it
	it.list = l
}

// Remove detaches it from l. It reports whether it was a member.
func (l *List) Remove(it *Item) bool {
	if it == nil || it.list != l {
		return false
	}
	it.detach()
	return true
}

func (it *Item) detach() {
	l := it.list
	if l == nil {
		return
	}
	if i := l.IndexOf(it); i >= 0 {
		l.items = append(l.items[:i], l.items[i+1:]...)
	}
	it.list = nil
}

// place moves it next to ref, in ref's list. after selects the side.
func place(it, ref *Item, after bool) {
	dst := ref.list
	if dst == nil || it == ref {
		return
	}
	it.detach()
	i := dst.IndexOf(ref)
	if after {
		i++
	}
	dst.items = append(dst.items, nil)
	copy(dst.items[i+1:], dst.items[i:])
	dst.items[i] = it
	it.list = dst
}

// precedes reports whether a comes before b within the same list.
func precedes(a, b *Item) bool {
	if a.list == nil || a.list != b.list {
		return false
	}
	return a.list.IndexOf(a) < a.list.IndexOf(b)
}

// Destroy unregisters l from its coordinator and drops all subscribers.
// An active drag started on l is finished first.
func (l *List) Destroy() {
	if l.destroyed {
		return
	}
	if s := l.coord.Current(); s != nil && s.source == l {
		s.Release(nil)
	}
	l.coord.unregister(l)
	l.obs = observers{}
	l.destroyed = true
}

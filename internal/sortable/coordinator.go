package sortable

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Coordinator owns a set of lists and arbitrates the single active drag
// between them. Lists resolve their accept sets through it.
type Coordinator struct {
	mu      sync.Mutex
	lists   map[ListID]*List
	order   []ListID
	current *Session
	logger  *slog.Logger
}

type CoordinatorOption func(*Coordinator)

func WithCoordinatorLogger(lg *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if lg != nil {
			c.logger = lg
		}
	}
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		lists:  map[ListID]*List{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewList creates and registers a list. The id must be unique in c.
func (c *Coordinator) NewList(id ListID, host Host, opts Options, lopts ...ListOption) (*List, error) {
	id = ListID(strings.TrimSpace(string(id)))
	if id == "" {
		return nil, errors.New("sortable: list id is empty")
	}
	if host == nil {
		return nil, errors.New("sortable: host is nil")
	}
	l := &List{
		id:     id,
		opts:   opts.normalized(),
		coord:  c,
		host:   host,
		logger: c.logger,
	}
	for _, o := range lopts {
		o(l)
	}
	l.logger = l.logger.With(slog.String("list", string(id)))

	c.mu.Lock()
	if _, exists := c.lists[id]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("sortable: duplicate list id %q", id)
	}
	c.lists[id] = l
	c.order = append(c.order, id)
	c.mu.Unlock()

	// Sync is the first finish subscriber so it sees the final index before
	// any host code reacts.
	l.OnFinish(l.trySync)
	return l, nil
}

func (c *Coordinator) unregister(l *List) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lists[l.id] != l {
		return
	}
	delete(c.lists, l.id)
	for i, id := range c.order {
		if id == l.id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the registered list with the given id.
func (c *Coordinator) Lookup(id ListID) (*List, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lists[id]
	return l, ok
}

// Lists returns the registered lists in registration order.
func (c *Coordinator) Lists() []*List {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*List, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.lists[id])
	}
	return out
}

// TryAcquire makes s the active drag. It fails when another drag is active.
func (c *Coordinator) TryAcquire(s *Session) bool {
	if s == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current != s {
		return false
	}
	c.current = s
	return true
}

// Release clears the active drag if it is s.
func (c *Coordinator) Release(s *Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == nil || c.current != s {
		return false
	}
	c.current = nil
	return true
}

// Current returns the active drag, or nil.
func (c *Coordinator) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Dragging reports whether any drag is active.
func (c *Coordinator) Dragging() bool { return c.Current() != nil }

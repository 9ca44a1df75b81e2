package web

import (
	"sync"

	"sortable-cli/internal/model"
)

// moveHub fans applied moves out to subscribers. Slow subscribers drop
// moves rather than block the request that applied them.
type moveHub struct {
	mu   sync.Mutex
	subs map[chan model.Move]struct{}
}

func newMoveHub() *moveHub {
	return &moveHub{subs: map[chan model.Move]struct{}{}}
}

func (h *moveHub) subscribe() (ch chan model.Move, cancel func()) {
	ch = make(chan model.Move, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *moveHub) broadcast(mv model.Move) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- mv:
		default:
		}
	}
	h.mu.Unlock()
}

package store

import (
	"sync"

	"replyguard/internal/platform/logger"
)

// hub fans committed changes out to watchers on its own goroutine so a
// watcher may call back into the KV or block on a consumer without stalling Set
type hub struct {
	log logger.Logger

	mu     sync.Mutex
	next   int
	fns    map[int]func([]Change)
	queue  chan []Change
	done   chan struct{}
	closed bool
}

func newHub(log logger.Logger, depth int) *hub {
	if depth <= 0 {
		depth = 64
	}
	h := &hub{
		log:   log,
		fns:   map[int]func([]Change){},
		queue: make(chan []Change, depth),
		done:  make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *hub) watch(fn func([]Change)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || fn == nil {
		return func() {}
	}
	id := h.next
	h.next++
	h.fns[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.fns, id)
		h.mu.Unlock()
	}
}

// publish queues changes in commit order; it blocks when the queue is full
func (h *hub) publish(ch []Change) {
	if len(ch) == 0 {
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	select {
	case h.queue <- ch:
	case <-h.done:
	}
}

func (h *hub) loop() {
	for {
		select {
		case <-h.done:
			return
		case ch := <-h.queue:
			h.dispatch(ch)
		}
	}
}

func (h *hub) dispatch(ch []Change) {
	h.mu.Lock()
	fns := make([]func([]Change), 0, len(h.fns))
	for _, fn := range h.fns {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					h.log.Error().Interface("panic", r).Msg("kv watcher panicked")
				}
			}()
			fn(ch)
		}()
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
}

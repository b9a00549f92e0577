package browser

import "sync"

// PointerEvent is a pointer-down at viewport coordinates.
type PointerEvent struct {
	X int
	Y int
}

// PointerSource delivers global pointer-down events. Subscribe returns a
// function that removes the subscription; calling it more than once is safe.
type PointerSource interface {
	Subscribe(fn func(PointerEvent)) (unsubscribe func())
}

// PointerHub is an in-process PointerSource. The UI loop calls Dispatch for
// every pointer-down it receives.
type PointerHub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(PointerEvent)
}

// NewPointerHub returns an empty hub.
func NewPointerHub() *PointerHub {
	return &PointerHub{subs: make(map[int]func(PointerEvent))}
}

// Subscribe registers fn for every subsequent Dispatch.
func (h *PointerHub) Subscribe(fn func(PointerEvent)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to every current subscriber. Subscribers may
// unsubscribe from inside their callback.
func (h *PointerHub) Dispatch(ev PointerEvent) {
	h.mu.Lock()
	fns := make([]func(PointerEvent), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of live subscriptions.
func (h *PointerHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

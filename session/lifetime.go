package session

import "sync"

type (
	// LifetimeHandler represents a callback
	// that will be called when a session closes or
	// its underlying connection breaks.
	LifetimeHandler func(*Session)

	lifetime struct {
		mu sync.Mutex
		// callbacks that emitted on session closed
		onClosed []LifetimeHandler
	}
)

// Lifetime is the container of LifetimeHandlers
var Lifetime = &lifetime{}

// OnClosed set the Callback which will be called
// when session is closed Waring: session has closed.
func (lt *lifetime) OnClosed(h LifetimeHandler) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.onClosed = append(lt.onClosed, h)
}

// Close is called at session closed
func (lt *lifetime) Close(s *Session) {
	lt.mu.Lock()
	handlers := lt.onClosed
	lt.mu.Unlock()

	for _, h := range handlers {
		h(s)
	}
}

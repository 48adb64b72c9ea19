package event

import (
	"sync"
)

// Handler receives a dispatched event.
type Handler func(Event)

// Middleware observes every emission before listener dispatch. Middleware
// errors and panics are absorbed; they never interrupt delivery.
type Middleware func(Event)

// Logger is the minimal logging surface the bus needs. The app package
// satisfies it; a silent default is used when none is supplied.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// DefaultHistoryLimit bounds the retained domain-event history.
const DefaultHistoryLimit = 512

// Bus is a synchronous publish/subscribe hub. Listeners run in
// subscription order on the emitting goroutine; a panicking listener is
// recovered and logged without affecting its siblings.
type Bus struct {
	mu          sync.RWMutex
	listeners   map[Type][]*subscription
	wildcards   []*subscription
	middlewares []*mwEntry
	history     []Event

	historyLimit int
	nextSubID    uint64
	log          Logger
}

type subscription struct {
	id      uint64
	handler Handler
}

type mwEntry struct {
	id uint64
	fn Middleware
}

// Option configures a Bus.
type Option func(*Bus)

// WithHistoryLimit bounds the retained domain-event history.
func WithHistoryLimit(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.historyLimit = n
		}
	}
}

// WithLogger sets the logger used for listener and middleware faults.
func WithLogger(l Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBus creates an event bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		listeners:    make(map[Type][]*subscription),
		historyLimit: DefaultHistoryLimit,
		log:          nopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On subscribes a handler to a single event type and returns its
// unsubscribe function.
func (b *Bus) On(t Type, h Handler) func() {
	if h == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextSubID++
	sub := &subscription{id: b.nextSubID, handler: h}
	b.listeners[t] = append(b.listeners[t], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.listeners[t]
		for i, s := range subs {
			if s.id == sub.id {
				b.listeners[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// OnAny subscribes a wildcard handler that receives every event, for
// tooling and debugging. Returns the unsubscribe function.
func (b *Bus) OnAny(h Handler) func() {
	if h == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextSubID++
	sub := &subscription{id: b.nextSubID, handler: h}
	b.wildcards = append(b.wildcards, sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.wildcards {
			if s.id == sub.id {
				b.wildcards = append(b.wildcards[:i:i], b.wildcards[i+1:]...)
				return
			}
		}
	}
}

// Use registers a middleware invoked on every emission before listener
// dispatch. Returns the removal function.
func (b *Bus) Use(m Middleware) func() {
	if m == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextSubID++
	entry := &mwEntry{id: b.nextSubID, fn: m}
	b.middlewares = append(b.middlewares, entry)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.middlewares {
			if e.id == entry.id {
				b.middlewares = append(b.middlewares[:i:i], b.middlewares[i+1:]...)
				return
			}
		}
	}
}

// Emit constructs an envelope for the type and payload and dispatches it.
func (b *Bus) Emit(t Type, payload any) Event {
	return b.dispatch(New(t, payload))
}

// EmitWithExtra emits with emitter-supplied metadata annotations.
func (b *Bus) EmitWithExtra(t Type, payload any, extra map[string]any) Event {
	return b.dispatch(NewWithExtra(t, payload, extra))
}

func (b *Bus) dispatch(e Event) Event {
	b.mu.Lock()
	middlewares := make([]*mwEntry, len(b.middlewares))
	copy(middlewares, b.middlewares)
	subs := make([]*subscription, len(b.listeners[e.Type]))
	copy(subs, b.listeners[e.Type])
	wildcards := make([]*subscription, len(b.wildcards))
	copy(wildcards, b.wildcards)

	if e.Meta.Category == CategoryDomain {
		b.history = append(b.history, e)
		if len(b.history) > b.historyLimit {
			b.history = b.history[len(b.history)-b.historyLimit:]
		}
	}
	b.mu.Unlock()

	for _, mw := range middlewares {
		b.invokeMiddleware(mw.fn, e)
	}
	for _, sub := range subs {
		b.invokeHandler(sub.handler, e)
	}
	for _, sub := range wildcards {
		b.invokeHandler(sub.handler, e)
	}
	return e
}

func (b *Bus) invokeMiddleware(m Middleware, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorf("event middleware panic on %s: %v", e.Type, r)
		}
	}()
	m(e)
}

func (b *Bus) invokeHandler(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorf("event listener panic on %s: %v", e.Type, r)
		}
	}()
	h(e)
}

// History returns a copy of the retained domain-event history, oldest
// first.
func (b *Bus) History() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Event, len(b.history))
	copy(out, b.history)
	return out
}

// ListenerCount returns the number of subscriptions for a type. Intended
// for tests and diagnostics.
func (b *Bus) ListenerCount(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[t])
}

package enquire

import "sync"

// Event identifies a prompt notification.
type Event int

// Notifications emitted by a prompt.
const (
	EventState  Event = iota // payload: State, on initialize
	EventRun                 // no payload, after initialize
	EventSubmit              // payload: the final value
	EventCancel              // payload: the cancellation error
	EventClose               // no payload
)

func (e Event) String() string {
	switch e {
	case EventState:
		return "state"
	case EventRun:
		return "run"
	case EventSubmit:
		return "submit"
	case EventCancel:
		return "cancel"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Listener receives the payload of a notification.
type Listener func(payload any)

type subscription struct {
	fn   Listener
	once bool
}

// emitter is a small synchronous observer registry.
type emitter struct {
	mu        sync.Mutex
	listeners map[Event][]*subscription
}

func (e *emitter) add(ev Event, fn Listener, once bool) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[Event][]*subscription)
	}
	sub := &subscription{fn: fn, once: once}
	e.listeners[ev] = append(e.listeners[ev], sub)
	return func() { e.remove(ev, sub) }
}

func (e *emitter) remove(ev Event, sub *subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.listeners[ev]
	for i, s := range subs {
		if s == sub {
			e.listeners[ev] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// emit calls every listener of ev in registration order. One-shot listeners
// are removed before they run so a nested emit cannot reach them twice.
func (e *emitter) emit(ev Event, payload any) {
	e.mu.Lock()
	if len(e.listeners[ev]) == 0 {
		e.mu.Unlock()
		return
	}
	subs := append([]*subscription(nil), e.listeners[ev]...)
	kept := e.listeners[ev][:0:0]
	for _, s := range e.listeners[ev] {
		if !s.once {
			kept = append(kept, s)
		}
	}
	e.listeners[ev] = kept
	e.mu.Unlock()

	for _, s := range subs {
		s.fn(payload)
	}
}

// listenerCount returns how many listeners are registered for ev.
func (e *emitter) listenerCount(ev Event) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[ev])
}

// On registers fn for every ev notification and returns a function that
// removes it.
func (p *Prompt) On(ev Event, fn Listener) (off func()) {
	return p.events.add(ev, fn, false)
}

// Once registers fn for the next ev notification only.
func (p *Prompt) Once(ev Event, fn Listener) (off func()) {
	return p.events.add(ev, fn, true)
}

// OnState registers fn for state notifications.
func (p *Prompt) OnState(fn func(State)) (off func()) {
	return p.On(EventState, func(payload any) {
		s, _ := payload.(State)
		fn(s)
	})
}

// OnRun registers fn for run notifications.
func (p *Prompt) OnRun(fn func()) (off func()) {
	return p.On(EventRun, func(any) { fn() })
}

// OnSubmit registers fn for submit notifications.
func (p *Prompt) OnSubmit(fn func(value any)) (off func()) {
	return p.On(EventSubmit, fn)
}

// OnCancel registers fn for cancel notifications.
func (p *Prompt) OnCancel(fn func(reason error)) (off func()) {
	return p.On(EventCancel, func(payload any) {
		err, _ := payload.(error)
		fn(err)
	})
}

// OnClose registers fn for close notifications.
func (p *Prompt) OnClose(fn func()) (off func()) {
	return p.On(EventClose, func(any) { fn() })
}

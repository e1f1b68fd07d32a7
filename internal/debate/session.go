package debate

import (
	"sync"
)

// Identity is the authenticated user bound to a connection.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// SessionState is the per-connection state machine. A session only exists
// once the connection authenticated, so the unauthenticated state lives in the
// transport layer and never reaches the engine.
type SessionState int

const (
	StateIdle SessionState = iota
	StateWaiting
	StateInRoom
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateInRoom:
		return "in-room"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Notifier delivers server events to one connection. Notify must not block
// and must not call back into the engine; it reports false when the event
// could not be queued.
type Notifier interface {
	Notify(ev Event) bool
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev Event) bool

func (f NotifierFunc) Notify(ev Event) bool { return f(ev) }

type Session struct {
	ID       string
	Identity Identity

	// seq orders lock acquisition when two sessions are locked together.
	seq      uint64
	notifier Notifier

	mu    sync.Mutex
	state SessionState
	topic string // set while waiting
	room  *Room  // set while in a room
}

func newSession(id string, seq uint64, identity Identity, n Notifier) *Session {
	return &Session{
		ID:       id,
		Identity: identity,
		seq:      seq,
		notifier: n,
		state:    StateIdle,
	}
}

// State returns the current state of the session.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) notify(ev Event) bool {
	if s.notifier == nil {
		return false
	}
	return s.notifier.Notify(ev)
}

// lockPair locks two distinct sessions in a stable order.
func lockPair(a, b *Session) (unlock func()) {
	first, second := a, b
	if b.seq < a.seq {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

package debate

import (
	"context"
	"time"
)

type Options struct {
	// Partitions is the number of matchmaking owner goroutines.
	Partitions int
	// WaitTimeout expires waiting tickets; zero keeps them until matched or
	// disconnected.
	WaitTimeout time.Duration
}

// Engine ties the authenticator, coordinator and registry together.
type Engine struct {
	auth        *Authenticator
	registry    *Registry
	coordinator *Coordinator
}

func NewEngine(v IdentityVerifier, opts Options) *Engine {
	registry := NewRegistry()
	return &Engine{
		auth:        NewAuthenticator(v),
		registry:    registry,
		coordinator: NewCoordinator(registry, opts.Partitions, opts.WaitTimeout),
	}
}

func (e *Engine) Authenticate(ctx context.Context, credential string, n Notifier) (*Session, error) {
	return e.auth.Authenticate(ctx, credential, n)
}

func (e *Engine) RequestMatch(s *Session, topic string) (MatchOutcome, error) {
	return e.coordinator.RequestMatch(s, topic)
}

func (e *Engine) Relay(s *Session, roomID, text string) error {
	return e.registry.Relay(s, roomID, text)
}

func (e *Engine) Report(s *Session, roomID string) error {
	return e.registry.Report(s, roomID)
}

func (e *Engine) CloseRoom(roomID string, reason CloseReason) bool {
	return e.registry.CloseRoom(roomID, reason)
}

func (e *Engine) RoomOf(s *Session) (*Room, bool) { return e.registry.RoomOf(s) }

func (e *Engine) Waiting(topic string) (*Session, bool) { return e.coordinator.Waiting(topic) }

func (e *Engine) ActiveRooms() int { return e.registry.ActiveRooms() }

// Stop closes every open room and halts matchmaking.
func (e *Engine) Stop() {
	e.coordinator.Stop()
	e.registry.closeAll(ReasonShutdown)
}

package debate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) bool {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return true
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) named(name string) []Event {
	var out []Event
	for _, ev := range r.all() {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

var testVerifier = VerifierFunc(func(_ context.Context, credential string) (Identity, error) {
	if credential == "bad" {
		return Identity{}, errors.New("token is expired")
	}
	return Identity{UserID: credential}, nil
})

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Partitions == 0 {
		opts.Partitions = 4
	}
	e := NewEngine(testVerifier, opts)
	t.Cleanup(e.Stop)
	return e
}

func connect(t *testing.T, e *Engine, user string) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := e.Authenticate(context.Background(), user, rec)
	require.NoError(t, err)
	return s, rec
}

func TestAuthenticate(t *testing.T) {
	e := newTestEngine(t, Options{})

	_, err := e.Authenticate(context.Background(), "", &recorder{})
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = e.Authenticate(context.Background(), "bad", &recorder{})
	assert.ErrorIs(t, err, ErrAuthentication)

	a, err := e.Authenticate(context.Background(), "alice", &recorder{})
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Identity.UserID)
	assert.Equal(t, StateIdle, a.State())

	b, err := e.Authenticate(context.Background(), "alice", &recorder{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID, "each connection gets its own session")
}

func TestRequestMatch_PairsTwoSessions(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, recA := connect(t, e, "alice")
	b, recB := connect(t, e, "bob")

	out, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	assert.Equal(t, MatchWaiting, out.Status)
	assert.Nil(t, out.Room)
	assert.Equal(t, StateWaiting, a.State())
	waiter, ok := e.Waiting("Taxes")
	require.True(t, ok)
	assert.Same(t, a, waiter)

	out, err = e.RequestMatch(b, "Taxes")
	require.NoError(t, err)
	require.Equal(t, MatchMatched, out.Status)
	require.NotNil(t, out.Room)

	foundA := recA.named(EventMatchFound)
	foundB := recB.named(EventMatchFound)
	require.Len(t, foundA, 1)
	require.Len(t, foundB, 1)
	assert.Equal(t, MatchFound{Room: out.Room.ID, Topic: "Taxes"}, foundA[0].Body)
	assert.Equal(t, foundA[0].Body, foundB[0].Body)

	_, ok = e.Waiting("Taxes")
	assert.False(t, ok, "slot must be empty after pairing")
	assert.Equal(t, StateInRoom, a.State())
	assert.Equal(t, StateInRoom, b.State())
	assert.Equal(t, 1, e.ActiveRooms())

	roomA, ok := e.RoomOf(a)
	require.True(t, ok)
	roomB, ok := e.RoomOf(b)
	require.True(t, ok)
	assert.Same(t, roomA, roomB)
	assert.ElementsMatch(t, []*Session{a, b}, roomA.Members())
}

func TestRequestMatch_AlreadyActive(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, _ := connect(t, e, "alice")
	b, _ := connect(t, e, "bob")
	c, _ := connect(t, e, "carol")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)

	_, err = e.RequestMatch(a, "Taxes")
	assert.ErrorIs(t, err, ErrAlreadyActive, "no self match")

	_, err = e.RequestMatch(a, "Religion")
	assert.ErrorIs(t, err, ErrAlreadyActive)
	_, ok := e.Waiting("Religion")
	assert.False(t, ok)
	waiter, ok := e.Waiting("Taxes")
	require.True(t, ok)
	assert.Same(t, a, waiter, "existing ticket untouched")

	_, err = e.RequestMatch(b, "Taxes")
	require.NoError(t, err)

	_, err = e.RequestMatch(b, "Religion")
	assert.ErrorIs(t, err, ErrAlreadyActive)

	// c parks on a topic; an in-room session cannot consume it
	_, err = e.RequestMatch(c, "Religion")
	require.NoError(t, err)
	_, err = e.RequestMatch(a, "Religion")
	assert.ErrorIs(t, err, ErrAlreadyActive)
	waiter, ok = e.Waiting("Religion")
	require.True(t, ok)
	assert.Same(t, c, waiter)
	assert.Equal(t, 1, e.ActiveRooms())
}

func TestCreateRoom_RejectsBusySessions(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, _ := connect(t, e, "alice")
	b, _ := connect(t, e, "bob")
	c, _ := connect(t, e, "carol")

	_, err := e.registry.CreateRoom(a, a, "Taxes")
	assert.ErrorIs(t, err, ErrAlreadyActive)

	_, err = e.registry.CreateRoom(a, b, "Taxes")
	require.NoError(t, err)

	_, err = e.registry.CreateRoom(a, c, "Taxes")
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, e.ActiveRooms())
}

func TestDisconnect_WhileWaitingFreesSlot(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, _ := connect(t, e, "alice")
	c, recC := connect(t, e, "carol")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)

	e.Disconnect(a)
	assert.Equal(t, StateClosed, a.State())
	_, ok := e.Waiting("Taxes")
	assert.False(t, ok)

	out, err := e.RequestMatch(c, "Taxes")
	require.NoError(t, err)
	assert.Equal(t, MatchWaiting, out.Status)
	waiter, ok := e.Waiting("Taxes")
	require.True(t, ok)
	assert.Same(t, c, waiter)
	assert.Empty(t, recC.named(EventMatchFound))

	_, err = e.RequestMatch(a, "Taxes")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRequestMatch_SkipsGhostWaiter(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, recA := connect(t, e, "alice")
	c, _ := connect(t, e, "carol")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)

	// connection dropped but the cancel has not reached the coordinator yet
	a.mu.Lock()
	a.state = StateClosed
	a.mu.Unlock()

	out, err := e.RequestMatch(c, "Taxes")
	require.NoError(t, err)
	assert.Equal(t, MatchWaiting, out.Status)
	waiter, ok := e.Waiting("Taxes")
	require.True(t, ok)
	assert.Same(t, c, waiter)
	assert.Empty(t, recA.named(EventMatchFound))

	e.coordinator.cancel(a, "Taxes")
	waiter, ok = e.Waiting("Taxes")
	require.True(t, ok, "late cancel must not evict the new waiter")
	assert.Same(t, c, waiter)
}

func TestRelay_ReportScenario(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, recA := connect(t, e, "alice")
	b, recB := connect(t, e, "bob")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	out, err := e.RequestMatch(b, "Taxes")
	require.NoError(t, err)
	roomID := out.Room.ID

	require.NoError(t, e.Relay(a, roomID, "I agree"))
	msgs := recB.named(EventNewMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, NewMessage{Room: roomID, Text: "I agree"}, msgs[0].Body)
	assert.Empty(t, recA.named(EventNewMessage), "sender is not echoed")

	require.NoError(t, e.Report(b, roomID))
	reported := recA.named(EventUserReported)
	require.Len(t, reported, 1)
	assert.Equal(t, RoomNotice{Room: roomID}, reported[0].Body)
	assert.Empty(t, recB.named(EventUserReported), "reporter only gets the ack")
	assert.Equal(t, RoomClosed, out.Room.Status())
	assert.Equal(t, 0, e.ActiveRooms())

	assert.ErrorIs(t, e.Relay(a, roomID, "hello?"), ErrNotInRoom)
	assert.ErrorIs(t, e.Relay(b, roomID, "hello?"), ErrNotInRoom)
	assert.ErrorIs(t, e.Report(a, roomID), ErrNotInRoom)

	assert.Equal(t, StateIdle, a.State())
	assert.Equal(t, StateIdle, b.State())
	_, ok := e.RoomOf(a)
	assert.False(t, ok)

	// both can queue again
	_, err = e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	out, err = e.RequestMatch(b, "Taxes")
	require.NoError(t, err)
	assert.Equal(t, MatchMatched, out.Status)
	assert.NotEqual(t, roomID, out.Room.ID)
}

func TestRelayAndReport_NonMember(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, _ := connect(t, e, "alice")
	b, recB := connect(t, e, "bob")
	mallory, _ := connect(t, e, "mallory")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	out, err := e.RequestMatch(b, "Taxes")
	require.NoError(t, err)

	assert.ErrorIs(t, e.Relay(mallory, out.Room.ID, "spam"), ErrNotInRoom)
	assert.ErrorIs(t, e.Relay(a, "no-such-room", "hi"), ErrNotInRoom)
	assert.ErrorIs(t, e.Report(mallory, out.Room.ID), ErrNotInRoom)
	assert.Empty(t, recB.named(EventNewMessage))
	assert.Equal(t, RoomActive, out.Room.Status())
	assert.Equal(t, StateIdle, mallory.State())
}

func TestCloseRoom_Idempotent(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, recA := connect(t, e, "alice")
	b, recB := connect(t, e, "bob")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	out, err := e.RequestMatch(b, "Taxes")
	require.NoError(t, err)

	assert.True(t, e.CloseRoom(out.Room.ID, ReasonShutdown))
	assert.False(t, e.CloseRoom(out.Room.ID, ReasonShutdown))
	assert.False(t, e.CloseRoom("unknown", ReasonShutdown))

	assert.Len(t, recA.named(EventRoomClosed), 1)
	assert.Len(t, recB.named(EventRoomClosed), 1)
}

func TestDisconnect_InRoomNotifiesPeerOnce(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, recA := connect(t, e, "alice")
	b, recB := connect(t, e, "bob")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	out, err := e.RequestMatch(b, "Taxes")
	require.NoError(t, err)

	e.Disconnect(a)
	e.Disconnect(a)
	assert.False(t, e.CloseRoom(out.Room.ID, ReasonPeerDisconnected))
	assert.ErrorIs(t, e.Report(b, out.Room.ID), ErrNotInRoom)

	left := recB.named(EventPartnerLeft)
	require.Len(t, left, 1)
	assert.Equal(t, RoomNotice{Room: out.Room.ID}, left[0].Body)
	assert.Empty(t, recA.named(EventPartnerLeft))
	assert.Equal(t, StateIdle, b.State())
	assert.Equal(t, 0, e.ActiveRooms())
}

func TestRelay_FIFO(t *testing.T) {
	e := newTestEngine(t, Options{})
	a, _ := connect(t, e, "alice")
	b, recB := connect(t, e, "bob")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	out, err := e.RequestMatch(b, "Taxes")
	require.NoError(t, err)

	const n = 500
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// b talks concurrently; only a's relative order is asserted
		for i := 0; i < n; i++ {
			_ = e.Relay(b, out.Room.ID, "noise")
		}
	}()
	for i := 0; i < n; i++ {
		require.NoError(t, e.Relay(a, out.Room.ID, fmt.Sprintf("m%d", i)))
	}
	wg.Wait()

	msgs := recB.named(EventNewMessage)
	require.Len(t, msgs, n)
	for i, ev := range msgs {
		assert.Equal(t, fmt.Sprintf("m%d", i), ev.Body.(NewMessage).Text)
	}
}

func TestWaitTimeout(t *testing.T) {
	e := newTestEngine(t, Options{WaitTimeout: 20 * time.Millisecond})
	a, recA := connect(t, e, "alice")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(recA.named(EventMatchTimeout)) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, MatchTimeout{Topic: "Taxes"}, recA.named(EventMatchTimeout)[0].Body)
	assert.Equal(t, StateIdle, a.State())
	_, ok := e.Waiting("Taxes")
	assert.False(t, ok)

	// a matched ticket never expires afterwards
	b, _ := connect(t, e, "bob")
	_, err = e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	_, err = e.RequestMatch(b, "Taxes")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, recA.named(EventMatchTimeout), 1)
	assert.Equal(t, StateInRoom, a.State())
}

func TestStop_ClosesRooms(t *testing.T) {
	e := NewEngine(testVerifier, Options{Partitions: 2})
	a, recA := connect(t, e, "alice")
	b, _ := connect(t, e, "bob")

	_, err := e.RequestMatch(a, "Taxes")
	require.NoError(t, err)
	_, err = e.RequestMatch(b, "Taxes")
	require.NoError(t, err)

	e.Stop()
	assert.Len(t, recA.named(EventRoomClosed), 1)
	assert.Equal(t, 0, e.ActiveRooms())

	c, _ := connect(t, e, "carol")
	_, err = e.RequestMatch(c, "Taxes")
	assert.ErrorIs(t, err, ErrCoordinatorStopped)
	e.Disconnect(c)
}

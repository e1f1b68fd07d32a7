package debate

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomStatus int

const (
	RoomActive RoomStatus = iota
	RoomClosed
)

type CloseReason string

const (
	ReasonReported         CloseReason = "reported"
	ReasonPeerDisconnected CloseReason = "peer-disconnected"
	ReasonShutdown         CloseReason = "shutdown"
)

// closeEvent is what the surviving member(s) of a closed room receive.
func (r CloseReason) closeEvent() string {
	switch r {
	case ReasonReported:
		return EventUserReported
	case ReasonPeerDisconnected:
		return EventPartnerLeft
	}
	return EventRoomClosed
}

// Room is a two-party debate. Membership never changes after creation.
type Room struct {
	ID        string
	Topic     string
	CreatedAt time.Time
	members   [2]*Session

	mu     sync.Mutex
	status RoomStatus
	reason CloseReason
}

// Members returns the two member sessions.
func (r *Room) Members() [2]*Session { return r.members }

func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// peerOf returns the other member, or false when s is not a member.
func (r *Room) peerOf(s *Session) (*Session, bool) {
	switch s {
	case r.members[0]:
		return r.members[1], true
	case r.members[1]:
		return r.members[0], true
	}
	return nil, false
}

const registryShards = 32

type registryShard struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// Registry owns the room id -> room mapping. The session -> room direction is
// kept on the sessions themselves under their own locks.
type Registry struct {
	shards [registryShards]registryShard
	active atomic.Int64
	now    func() time.Time
}

func NewRegistry() *Registry {
	reg := &Registry{now: time.Now}
	for i := range reg.shards {
		reg.shards[i].rooms = make(map[string]*Room)
	}
	return reg
}

func (reg *Registry) shard(roomID string) *registryShard {
	return &reg.shards[xxhash.Sum64String(roomID)%registryShards]
}

// CreateRoom pairs two sessions into a new room and notifies both.
func (reg *Registry) CreateRoom(a, b *Session, topic string) (*Room, error) {
	if a == b {
		return nil, ErrAlreadyActive
	}
	unlock := lockPair(a, b)
	room, err := reg.createLocked(a, b, topic)
	unlock()
	if err != nil {
		return nil, err
	}
	reg.announce(room)
	return room, nil
}

// createLocked requires both session locks to be held. Sessions may be idle
// or waiting; anything else means one of them is already busy.
func (reg *Registry) createLocked(a, b *Session, topic string) (*Room, error) {
	for _, s := range [2]*Session{a, b} {
		if s.state == StateClosed {
			return nil, ErrSessionClosed
		}
		if s.room != nil || s.state == StateInRoom {
			return nil, ErrAlreadyActive
		}
	}

	room := &Room{
		ID:        uuid.NewString(),
		Topic:     topic,
		CreatedAt: reg.now(),
		members:   [2]*Session{a, b},
		status:    RoomActive,
	}

	sh := reg.shard(room.ID)
	sh.mu.Lock()
	sh.rooms[room.ID] = room
	sh.mu.Unlock()
	reg.active.Add(1)

	for _, s := range room.members {
		s.state = StateInRoom
		s.topic = ""
		s.room = room
	}
	return room, nil
}

func (reg *Registry) announce(room *Room) {
	body := MatchFound{Room: room.ID, Topic: room.Topic}
	for _, s := range room.members {
		s.notify(Event{Name: EventMatchFound, Body: body})
	}
	zap.L().Debug("debate.room_created",
		zap.String("room", room.ID),
		zap.String("topic", room.Topic),
		zap.String("a", room.members[0].Identity.UserID),
		zap.String("b", room.members[1].Identity.UserID),
	)
}

// Lookup returns the active room with the given id.
func (reg *Registry) Lookup(roomID string) (*Room, bool) {
	sh := reg.shard(roomID)
	sh.mu.RLock()
	room, ok := sh.rooms[roomID]
	sh.mu.RUnlock()
	return room, ok
}

// RoomOf returns the room the session currently belongs to.
func (reg *Registry) RoomOf(s *Session) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return nil, false
	}
	return s.room, true
}

// ActiveRooms returns the number of rooms not yet closed.
func (reg *Registry) ActiveRooms() int { return int(reg.active.Load()) }

// CloseRoom closes the room and notifies every connected member. Closing a
// closed or unknown room is a no-op.
func (reg *Registry) CloseRoom(roomID string, reason CloseReason) bool {
	room, ok := reg.Lookup(roomID)
	if !ok {
		return false
	}
	return reg.close(room, reason, nil)
}

// close reports whether this call performed the transition. by, when set, is
// the member that caused the close and is not notified.
func (reg *Registry) close(room *Room, reason CloseReason, by *Session) bool {
	room.mu.Lock()
	if room.status == RoomClosed {
		room.mu.Unlock()
		return false
	}
	room.status = RoomClosed
	room.reason = reason
	room.mu.Unlock()

	sh := reg.shard(room.ID)
	sh.mu.Lock()
	delete(sh.rooms, room.ID)
	sh.mu.Unlock()
	reg.active.Add(-1)

	notice := Event{Name: reason.closeEvent(), Body: RoomNotice{Room: room.ID}}
	for _, s := range room.members {
		s.mu.Lock()
		if s.room != room {
			s.mu.Unlock()
			invariantViolation("session %s left room %s before it closed", s.ID, room.ID)
		}
		s.room = nil
		connected := s.state != StateClosed
		if connected {
			s.state = StateIdle
		}
		s.mu.Unlock()

		if connected && s != by {
			s.notify(notice)
		}
	}

	zap.L().Debug("debate.room_closed",
		zap.String("room", room.ID),
		zap.String("reason", string(reason)),
	)
	return true
}

// closeAll closes every active room with the given reason.
func (reg *Registry) closeAll(reason CloseReason) {
	var rooms []*Room
	for i := range reg.shards {
		sh := &reg.shards[i]
		sh.mu.RLock()
		for _, room := range sh.rooms {
			rooms = append(rooms, room)
		}
		sh.mu.RUnlock()
	}
	for _, room := range rooms {
		reg.close(room, reason, nil)
	}
}

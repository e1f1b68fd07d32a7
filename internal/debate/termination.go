package debate

// Report closes the room on behalf of one of its members. The other member
// wins by default and receives user-reported; the reporter gets nothing from
// here, its acknowledgement is the nil error.
func (reg *Registry) Report(reporter *Session, roomID string) error {
	room, ok := reg.Lookup(roomID)
	if !ok {
		return ErrNotInRoom
	}
	if _, member := room.peerOf(reporter); !member {
		return ErrNotInRoom
	}
	if !reg.close(room, ReasonReported, reporter) {
		return ErrNotInRoom
	}
	return nil
}

// Disconnect tears down whatever the session held: its waiting ticket or its
// room. Repeated calls for the same session do nothing.
func (e *Engine) Disconnect(s *Session) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	prev, topic, room := s.state, s.topic, s.room
	s.state = StateClosed
	s.topic = ""
	s.mu.Unlock()

	switch prev {
	case StateWaiting:
		e.coordinator.cancel(s, topic)
	case StateInRoom:
		if room == nil {
			invariantViolation("session %s in room state without a room", s.ID)
		}
		e.registry.close(room, ReasonPeerDisconnected, s)
	}
}

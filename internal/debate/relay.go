package debate

import "go.uber.org/zap"

// Relay forwards text from a room member to the other member. The sender is
// never echoed. Events are queued under the room lock, so a sender's messages
// reach the peer in order and always before the room's close notice.
func (reg *Registry) Relay(sender *Session, roomID, text string) error {
	room, ok := reg.Lookup(roomID)
	if !ok {
		return ErrNotInRoom
	}
	peer, ok := room.peerOf(sender)
	if !ok {
		return ErrNotInRoom
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.status != RoomActive {
		return ErrNotInRoom
	}
	if !peer.notify(Event{Name: EventNewMessage, Body: NewMessage{Room: roomID, Text: text}}) {
		zap.L().Warn("debate.relay_dropped",
			zap.String("room", roomID),
			zap.String("peer", peer.Identity.UserID),
		)
	}
	return nil
}

package debate

// Server to client event names.
const (
	EventMatchFound   = "match-found"
	EventNewMessage   = "new-message"
	EventUserReported = "user-reported"
	EventPartnerLeft  = "partner-left"
	EventRoomClosed   = "room-closed"
	EventMatchTimeout = "match-timeout"
)

// Event is a notification pushed to a session.
type Event struct {
	Name string
	Body any
}

type MatchFound struct {
	Room  string `json:"room"`
	Topic string `json:"topic"`
}

type NewMessage struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

type RoomNotice struct {
	Room string `json:"room"`
}

type MatchTimeout struct {
	Topic string `json:"topic"`
}

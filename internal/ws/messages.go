package ws

import "encoding/json"

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "find-match"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// outEnvelope is the outbound counterpart with an already typed body.
type outEnvelope struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// Client events.
const (
	EventFindMatch   = "find-match"
	EventSendMessage = "send-message"
	EventReportUser  = "report-user"
	EventError       = "error"
)

// ──────────────────────────── Request / Response DTOs ─────────────────────────

// FindMatchRequest is the body for "find-match". Any topic string is
// matched on verbatim, the empty string included.
type FindMatchRequest struct {
	Topic string `json:"topic"`
}

// FindMatchAck tells the requester whether it is parked or already paired.
type FindMatchAck struct {
	Status string `json:"status"`
	Room   string `json:"room,omitempty"`
}

// SendMessageRequest is the body for "send-message".
type SendMessageRequest struct {
	Room string `json:"room" validate:"required"`
	Text string `json:"text" validate:"required,max=4000"`
}

// ReportUserRequest is the body for "report-user".
type ReportUserRequest struct {
	Room string `json:"room" validate:"required"`
}

// Empty ACK body (useful for many handlers).
type AckBody struct{}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}

// UnmarshalJSON also accepts a bare JSON string as the topic.
func (r *FindMatchRequest) UnmarshalJSON(data []byte) error {
	var topic string
	if err := json.Unmarshal(data, &topic); err == nil {
		r.Topic = topic
		return nil
	}
	type plain FindMatchRequest
	return json.Unmarshal(data, (*plain)(r))
}

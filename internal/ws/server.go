package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"debatematch/internal/debate"
	"debatematch/internal/http/authmw"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 12 * time.Second
	pingPeriod     = 3 * time.Second // must be < pongWait
	maxMessageSize = 8 << 10
	handlerTimeout = 1900 * time.Millisecond
	sideEffectWait = 3 * time.Second
)

// TopicRecorder counts how often a topic is asked for.
type TopicRecorder interface {
	Suggest(ctx context.Context, topic string) error
}

// ReportPublisher records a report for later audit.
type ReportPublisher interface {
	Publish(ctx context.Context, rec ReportRecord) error
}

// ReportRecord describes one accepted report.
type ReportRecord struct {
	RoomID     string
	Topic      string
	ReporterID string
	ReportedID string
	At         time.Time
}

type WsServer struct {
	hub      *Hub
	router   *Router
	engine   *debate.Engine
	upgrader websocket.Upgrader
	topics   TopicRecorder
	reports  ReportPublisher
}

func NewWsServer(h *Hub, engine *debate.Engine, topics TopicRecorder, reports ReportPublisher) *WsServer {
	srv := &WsServer{
		hub:    h,
		router: NewRouter(),
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true }, // dev‑only
		},
		topics:  topics,
		reports: reports,
	}
	srv.registerHandlers() // ← all WS endpoints configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	conn := newClientConn()

	// Authenticate before the upgrade so a bad token never gets a session.
	session, err := s.engine.Authenticate(ginCtx.Request.Context(), credential(ginCtx.Request), conn)
	if err != nil {
		zap.L().Debug("ws.auth_failed", zap.Error(err))
		ginCtx.JSON(http.StatusUnauthorized, ErrorBody{Error: "authentication_error"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		s.engine.Disconnect(session)
		return
	}
	rawConn.SetReadLimit(maxMessageSize)
	conn.rawConn = rawConn

	s.hub.Join(session.ID, conn)
	zap.L().Info("ws.connected",
		zap.String("user", session.Identity.UserID),
		zap.String("session", session.ID),
	)

	go conn.writePump()
	go s.reader(session, conn)
	go s.pinger(conn)
}

// credential prefers the token query parameter, since browsers cannot set
// headers on a websocket handshake, then falls back to the REST headers.
func credential(r *http.Request) string {
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	return authmw.Token(r)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 find-match ------------------------------------------------------------
	Register(
		s.router,
		EventFindMatch,
		func(ctx context.Context, cc *ConnContext, req FindMatchRequest) (FindMatchAck, error) {
			out, err := s.engine.RequestMatch(cc.Session, req.Topic)
			if err != nil {
				return FindMatchAck{}, err
			}
			s.recordTopic(req.Topic)
			ack := FindMatchAck{Status: string(out.Status)}
			if out.Room != nil {
				ack.Room = out.Room.ID
			}
			return ack, nil
		},
	)

	// 🔹 send-message ----------------------------------------------------------
	Register(
		s.router,
		EventSendMessage,
		func(ctx context.Context, cc *ConnContext, req SendMessageRequest) (AckBody, error) {
			return AckBody{}, s.engine.Relay(cc.Session, req.Room, req.Text)
		},
	)

	// 🔹 report-user -----------------------------------------------------------
	Register(
		s.router,
		EventReportUser,
		func(ctx context.Context, cc *ConnContext, req ReportUserRequest) (AckBody, error) {
			room, ok := s.engine.RoomOf(cc.Session)
			if err := s.engine.Report(cc.Session, req.Room); err != nil {
				return AckBody{}, err
			}
			if ok && room.ID == req.Room {
				s.publishReport(cc.Session, room)
			}
			return AckBody{}, nil
		},
	)
}

func (s *WsServer) recordTopic(topic string) {
	if s.topics == nil || strings.TrimSpace(topic) == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectWait)
		defer cancel()
		if err := s.topics.Suggest(ctx, topic); err != nil {
			zap.L().Warn("ws.topic_suggest", zap.String("topic", topic), zap.Error(err))
		}
	}()
}

func (s *WsServer) publishReport(reporter *debate.Session, room *debate.Room) {
	if s.reports == nil {
		return
	}
	rec := ReportRecord{
		RoomID:     room.ID,
		Topic:      room.Topic,
		ReporterID: reporter.Identity.UserID,
		At:         time.Now().UTC(),
	}
	for _, m := range room.Members() {
		if m != reporter {
			rec.ReportedID = m.Identity.UserID
		}
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectWait)
		defer cancel()
		if err := s.reports.Publish(ctx, rec); err != nil {
			zap.L().Warn("ws.report_publish", zap.String("room", rec.RoomID), zap.Error(err))
		}
	}()
}

func (s *WsServer) reader(session *debate.Session, conn *clientConn) {
	defer func() {
		s.engine.Disconnect(session)
		s.hub.Leave(session.ID)
		conn.close()
		zap.L().Info("ws.disconnected",
			zap.String("user", session.Identity.UserID),
			zap.String("session", session.ID),
		)
	}()

	cc := &ConnContext{Session: session, UserID: session.Identity.UserID, Server: s}

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.rawConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("ws.read", zap.Error(err))
			}
			return // client closed or errored
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			conn.writeJSON(outEnvelope{Event: EventError, Body: ErrorBody{Error: errInvalidRequest.Error()}})
			continue
		}
		_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"error", "body":{...}} ---------------
		if err != nil {
			conn.writeJSON(outEnvelope{Event: EventError, Body: ErrorBody{Error: errorCode(err)}})
			continue
		}

		// ---- success -> {"event":"<evt>-ack", "body":{...}} --------
		conn.writeJSON(outEnvelope{Event: env.Event + "-ack", Body: res})
	}
}

// errorCode maps handler errors to the codes clients switch on.
func errorCode(err error) string {
	for _, known := range []error{
		debate.ErrAlreadyActive,
		debate.ErrNotInRoom,
		debate.ErrSessionClosed,
		debate.ErrCoordinatorStopped,
		errUnknownEvent,
		errInvalidRequest,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	zap.L().Error("ws.handler", zap.Error(err))
	return "internal_error"
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		conn.mu.Lock()
		closed := conn.closed
		conn.mu.Unlock()
		if closed {
			return
		}
		err := conn.rawConn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		if err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}

// Dispose closes every live connection; their readers run the disconnect path.
func (s *WsServer) Dispose() {
	s.hub.CloseAll()
}

// Stats is a point-in-time snapshot for health checks.
type Stats struct {
	Connections int `json:"connections"`
	ActiveRooms int `json:"activeRooms"`
}

func (s *WsServer) Stats() Stats {
	return Stats{Connections: s.hub.Len(), ActiveRooms: s.engine.ActiveRooms()}
}

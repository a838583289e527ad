package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/realtime"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = wsPongWait * 9 / 10
	wsMaxMessageSize = 4 << 10
)

// Client control messages.
const (
	msgJoin  = "join"
	msgLeave = "leave"
)

// Server messages.
const (
	msgJoined  = "joined"
	msgLeft    = "left"
	msgError   = "error"
	msgUpdated = domain.EventWorkLogUpdated
)

type clientMessage struct {
	Type           string `json:"type"`
	OrganizationID string `json:"organization_id"`
}

type serverMessage struct {
	Type           string              `json:"type"`
	OrganizationID string              `json:"organization_id,omitempty"`
	Event          *domain.ChangeEvent `json:"event,omitempty"`
	Error          string              `json:"error,omitempty"`
	Code           string              `json:"code,omitempty"`
}

// RealtimeHandler upgrades /ws connections and binds each one to a hub
// session. Clients join an organization's channel and then receive a
// worklog.updated message for every accepted write in it.
type RealtimeHandler struct {
	hub       *realtime.Hub
	queueSize int
	log       zerolog.Logger
	upgrader  websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, queueSize int, log zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:       hub,
		queueSize: queueSize,
		log:       log.With().Str("component", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *RealtimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing identity")
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := realtime.NewSession(h.queueSize)
	replies := make(chan serverMessage, 8)
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writeLoop(conn, session, replies, done)
	}()

	log := h.log.With().Str("session_id", session.ID).Str("employee_id", actor.EmployeeID).Logger()
	log.Debug().Msg("connected")
	h.readLoop(conn, actor, session, replies, log)

	h.hub.Disconnect(session)
	close(done)
	wg.Wait()
	_ = conn.Close()
	log.Debug().Msg("disconnected")
}

func (h *RealtimeHandler) readLoop(conn *websocket.Conn, actor domain.Actor, session *realtime.Session, replies chan<- serverMessage, log zerolog.Logger) {
	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("read failed")
			}
			return
		}
		reply := h.handleControl(actor, session, msg)
		select {
		case replies <- reply:
		default:
			log.Warn().Str("type", reply.Type).Msg("dropping control reply")
		}
	}
}

func (h *RealtimeHandler) handleControl(actor domain.Actor, session *realtime.Session, msg clientMessage) serverMessage {
	orgID := msg.OrganizationID
	if orgID == "" {
		orgID = actor.OrganizationID
	}
	switch msg.Type {
	case msgJoin:
		if !actor.CanAccessOrganization(orgID) {
			return serverMessage{Type: msgError, OrganizationID: orgID, Error: "cannot join another organization", Code: ErrCodeNotAuthorized}
		}
		if err := h.hub.Subscribe(session, orgID); err != nil {
			return serverMessage{Type: msgError, OrganizationID: orgID, Error: err.Error(), Code: ErrCodeInvalidInput}
		}
		return serverMessage{Type: msgJoined, OrganizationID: orgID}
	case msgLeave:
		h.hub.Unsubscribe(session, orgID)
		return serverMessage{Type: msgLeft, OrganizationID: orgID}
	default:
		return serverMessage{Type: msgError, Error: "unknown message type " + msg.Type, Code: ErrCodeInvalidInput}
	}
}

// writeLoop is the only goroutine that writes to conn.
func (h *RealtimeHandler) writeLoop(conn *websocket.Conn, session *realtime.Session, replies <-chan serverMessage, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	events := session.Events()
	for {
		var err error
		select {
		case <-done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			err = h.write(conn, serverMessage{Type: msgUpdated, OrganizationID: ev.OrganizationID, Event: &ev})
		case reply := <-replies:
			err = h.write(conn, reply)
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			err = conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			// The read loop notices the broken connection and tears down.
			_ = conn.Close()
			<-done
			return
		}
	}
}

func (h *RealtimeHandler) write(conn *websocket.Conn, msg serverMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

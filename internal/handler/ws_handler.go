package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/cache"
	"github.com/stemsi/survey-editor/internal/editor"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stemsi/survey-editor/internal/response"
	"github.com/stemsi/survey-editor/internal/service"
	ws "github.com/stemsi/survey-editor/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams editing session events to admin browsers.
type WSHandler struct {
	sessions      cache.SessionCache
	editorService *service.EditorService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessions cache.SessionCache, editorService *service.EditorService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessions:      sessions,
		editorService: editorService,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/admin/sessions/:sid/stream
// Sends the latest snapshot, then forwards every event published for the
// session until it is submitted or closed.
func (h *WSHandler) SessionStream(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribe before reading the snapshot so no event published in
	// between is missed.
	pubsub := h.sessions.Subscribe(ctx, sessionID)
	defer pubsub.Close()

	snapshot, err := h.latest(c.Request.Context(), sessionID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID.String()).Logger()
	wsLog.Info().Msg("Stream client connected")

	replies := make(chan interface{}, 8)
	replies <- ws.SnapshotResponse{Event: ws.EventSnapshot, Snapshot: snapshot}

	go h.writeLoop(ctx, cancel, conn, pubsub.Channel(), replies, wsLog)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		case ws.ActionSnapshot:
			snap, err := h.latest(ctx, sessionID)
			if err != nil {
				reply = ws.ErrorResponse{Event: ws.EventError, Error: "session not found"}
			} else {
				reply = ws.SnapshotResponse{Event: ws.EventSnapshot, Snapshot: snap}
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		select {
		case replies <- reply:
		case <-ctx.Done():
			return
		}
	}
}

// writeLoop is the only goroutine writing to conn. It ends the stream
// once the session is submitted or closed.
func (h *WSHandler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, events <-chan *redis.Message, replies <-chan interface{}, wsLog zerolog.Logger) {
	defer cancel()

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}

		case msg, ok := <-events:
			if !ok {
				return
			}
			payload := json.RawMessage(msg.Payload)
			if err := ws.WriteTyped(conn, ws.SessionResponse{Event: ws.EventSession, Payload: payload}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
			if sessionEnded(payload) {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
					time.Now().Add(time.Second))
				conn.Close()
				return
			}

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// latest returns the cached snapshot, falling back to the local session.
func (h *WSHandler) latest(ctx context.Context, sessionID uuid.UUID) (json.RawMessage, error) {
	snap, err := h.sessions.Latest(ctx, sessionID)
	if err != nil {
		h.log.Warn().Err(err).Msg("Snapshot cache read failed")
	}
	if snap == nil {
		local, err := h.editorService.Snapshot(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		snap = &local
	}
	return marshalSnapshot(snap)
}

func marshalSnapshot(snap *editor.Snapshot) (json.RawMessage, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func sessionEnded(payload []byte) bool {
	var ev struct {
		Type model.SessionEventType `json:"type"`
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		return false
	}
	return ev.Type == model.SessionEventSubmitted || ev.Type == model.SessionEventClosed
}

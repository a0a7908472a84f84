package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	chathandlers "github.com/deepgram/parley/internal/api/v1/handlers/chat"
	"github.com/deepgram/parley/internal/connections"
	"github.com/deepgram/parley/internal/domain/chat"
	"github.com/deepgram/parley/pkg/httpext"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// maxFrameSize bounds a single inbound request frame.
const maxFrameSize = 1 << 20

var (
	upgrader = websocket.Upgrader{
		// CORS is open on the HTTP side as well
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// HandleChatWebSocket serves GET /v1/ws. Every text frame is a chat request
// and is answered with one chat result frame, in order.
func HandleChatWebSocket(chatService chat.Service, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to upgrade chat socket")
		return
	}

	conn.SetReadLimit(maxFrameSize)
	manager.AddConnection(conn)
	log.Info().
		Str("request_id", httpext.RequestID(r)).
		Str("client_ip", r.RemoteAddr).
		Int("connections", manager.GetConnectionCount()).
		Msg("Chat socket opened")

	var writeMu sync.Mutex
	done := make(chan struct{})
	go manager.Keepalive(conn, &writeMu, done)

	// the upgrade hijacks the connection, so r.Context() is not cancelled on close
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))

	defer func() {
		cancel()
		close(done)
		manager.RemoveConnection(conn)
		conn.Close()
		log.Info().Str("request_id", httpext.RequestID(r)).Msg("Chat socket closed")
	}()

	timeouts := manager.GetTimeouts()
	for {
		messageType, payload, err := conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected chat socket closure")
			}
			return
		}

		if messageType != websocket.TextMessage {
			if !writeFrame(conn, &writeMu, timeouts.WriteWait, httpext.ErrorResponse{Error: "only text frames are supported"}) {
				return
			}
			continue
		}

		req, err := chathandlers.DecodeRequest(payload)
		if err != nil {
			if !writeFrame(conn, &writeMu, timeouts.WriteWait, httpext.ErrorResponse{Error: err.Error()}) {
				return
			}
			continue
		}

		result := chatService.HandleChat(ctx, req.Message, req.ConversationID)
		manager.ExtendReadDeadline(conn)
		if !writeFrame(conn, &writeMu, timeouts.WriteWait, result) {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, writeMu *sync.Mutex, writeWait time.Duration, v interface{}) bool {
	writeMu.Lock()
	defer writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write chat socket frame")
		return false
	}
	return true
}

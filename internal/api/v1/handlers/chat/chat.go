package chat

import (
	"net/http"

	"github.com/deepgram/parley/internal/domain/chat"
	"github.com/deepgram/parley/pkg/httpext"
	"github.com/rs/zerolog/log"
)

// HandleChat answers POST /v1/chat. Upstream failures still produce a 200
// carrying an explanatory response; only malformed input is rejected.
func HandleChat(chatService chat.Service, w http.ResponseWriter, r *http.Request) {
	req, err := DecodeRequest(r.Body)
	if err != nil {
		log.Warn().Err(err).Str("request_id", httpext.RequestID(r)).Msg("Client sent invalid chat request")
		httpext.JsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info().
		Str("request_id", httpext.RequestID(r)).
		Str("conversation_id", req.ConversationID).
		Str("client_ip", r.RemoteAddr).
		Msg("Received chat request")

	result := chatService.HandleChat(r.Context(), req.Message, req.ConversationID)

	httpext.WriteJSON(w, http.StatusOK, result)
}

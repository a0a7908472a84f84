package handlers

import (
	"net/http"

	chathandlers "github.com/deepgram/parley/internal/api/v1/handlers/chat"
	wshandlers "github.com/deepgram/parley/internal/api/v1/handlers/websocket"
	v1mware "github.com/deepgram/parley/internal/api/v1/middleware"
	"github.com/deepgram/parley/internal/connections"
	"github.com/deepgram/parley/internal/services"
	"github.com/gorilla/mux"
)

func RegisterV1Routes(router *mux.Router, services *services.Services, manager *connections.Manager) {
	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Use(v1mware.RequestLogger, v1mware.CORS)

	v1.HandleFunc("/hello", HandleHello).Methods(http.MethodGet, http.MethodOptions)

	v1.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		chathandlers.HandleChat(services.GetChatService(), w, r)
	}).Methods(http.MethodPost, http.MethodOptions)

	v1.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wshandlers.HandleChatWebSocket(services.GetChatService(), manager, w, r)
	}).Methods(http.MethodGet)
}

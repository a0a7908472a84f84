package handlers

import (
	"net/http"

	"github.com/deepgram/parley/pkg/httpext"
)

const helloMessage = "Hello from parley!"

type helloResponse struct {
	Message string `json:"message"`
}

// HandleHello is a stateless liveness probe.
func HandleHello(w http.ResponseWriter, r *http.Request) {
	httpext.WriteJSON(w, http.StatusOK, helloResponse{Message: helloMessage})
}

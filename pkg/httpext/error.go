package httpext

import (
	"encoding/json"
	"net/http"

	"github.com/deepgram/parley/pkg/logger"
)

// ErrorResponse is the JSON body written for every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// JsonError writes a JSON error response with the specified status code.
func JsonError(w http.ResponseWriter, message string, code int) {
	response := ErrorResponse{
		Error:     message,
		RequestID: w.Header().Get(RequestIDHeader),
	}

	WriteJSON(w, code, response)
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already out, all we can do is record it
		logger.Error(logger.HANDLER, "Failed to encode JSON response: %v", err)
	}
}

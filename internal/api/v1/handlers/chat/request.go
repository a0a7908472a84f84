package chat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deepgram/parley/internal/domain/chat/models"
	"github.com/go-playground/validator/v10"
)

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeRequest parses and validates a chat request body.
func DecodeRequest(body io.Reader) (*models.ChatRequest, error) {
	var req models.ChatRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request format: %w", err)
	}

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	return &req, nil
}

package chat

import (
	"context"

	"github.com/deepgram/parley/internal/domain/chat/models"
)

// Service defines the interface for chat operations
type Service interface {
	// HandleChat answers message within the conversation identified by
	// conversationID, starting a new one when it is empty. Upstream
	// failures are reported in the result, never as an error.
	HandleChat(ctx context.Context, message, conversationID string) *models.ChatResult
}

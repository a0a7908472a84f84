package models

// ChatRequest is the inbound chat operation.
type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationID string `json:"conversationId,omitempty" validate:"omitempty,max=256"`
}

// ChatResult is returned for every chat request, failed upstream calls
// included. Timestamp is unix milliseconds.
type ChatResult struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	Timestamp      int64  `json:"timestamp"`
}

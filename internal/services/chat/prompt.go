package chat

import "fmt"

const (
	systemPersona = "You are a helpful AI assistant."

	// replyFallback stands in when the provider answers without content.
	replyFallback = "Sorry, I was unable to generate a reply."

	mockTemplate = "[Mock mode] You said: \"%s\". This is a simulated reply for testing. " +
		"To use the real AI, set USE_MOCK_API=false and configure a valid API key."
)

func mockResponse(message string) string {
	return fmt.Sprintf(mockTemplate, message)
}

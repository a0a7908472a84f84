package chat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// ErrorKind is the user-facing category of a failed chat request.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindQuotaExceeded
	KindAuthInvalid
	KindModelNotFound
	KindUpstreamServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindAuthInvalid:
		return "auth_invalid"
	case KindModelNotFound:
		return "model_not_found"
	case KindUpstreamServer:
		return "upstream_server_error"
	default:
		return "generic"
	}
}

const (
	quotaExceededMessage   = "⚠️ API quota exhausted. Check your API key or try again later."
	authInvalidMessage     = "❌ Invalid API key. Check the AI_API_KEY configuration."
	modelNotFoundTemplate  = "❌ Model \"%s\" is not available. Check that the model name is correct."
	upstreamServerMessage  = "⚠️ The AI server is having problems, please try again later."
	genericTemplate        = "Error: %s"
	serviceUnavailableText = "Sorry, the AI service is temporarily unavailable."
)

// UpstreamError is a failed completion call tagged with its kind and the
// HTTP status the provider answered with (0 when there was no response).
type UpstreamError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UserMessage renders the text shown to the user in place of a reply.
func (e *UpstreamError) UserMessage(model string) string {
	switch e.Kind {
	case KindQuotaExceeded:
		return quotaExceededMessage
	case KindAuthInvalid:
		return authInvalidMessage
	case KindModelNotFound:
		return fmt.Sprintf(modelNotFoundTemplate, model)
	case KindUpstreamServer:
		return upstreamServerMessage
	}

	if e.Err != nil && e.Err.Error() != "" {
		return fmt.Sprintf(genericTemplate, e.Err.Error())
	}
	return serviceUnavailableText
}

// KindForStatus maps an HTTP status from the provider to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindQuotaExceeded
	case status == http.StatusUnauthorized:
		return KindAuthInvalid
	case status == http.StatusNotFound:
		return KindModelNotFound
	case status >= http.StatusInternalServerError:
		return KindUpstreamServer
	default:
		return KindGeneric
	}
}

// Classify wraps err into an UpstreamError. Provider errors are recognised by
// their HTTP status, timeouts count as server errors and everything else is
// generic.
func Classify(err error) *UpstreamError {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr
	}

	if status := statusCode(err); status != 0 {
		return &UpstreamError{Kind: KindForStatus(status), StatusCode: status, Err: err}
	}

	if isTimeout(err) {
		return &UpstreamError{Kind: KindUpstreamServer, Err: err}
	}

	return &UpstreamError{Kind: KindGeneric, Err: err}
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}

	return 0
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

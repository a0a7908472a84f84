package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deepgram/parley/pkg/httpext"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight is answered directly", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/chat", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.False(t, called)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, allowedMethods, w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, allowedHeaders, w.Header().Get("Access-Control-Allow-Headers"))
		// a wildcard origin cannot be combined with credentials
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("regular request passes through", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/chat", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogger(t *testing.T) {
	var seen string
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpext.RequestID(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/hello", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(httpext.RequestIDHeader))
	})

	t.Run("keeps a caller supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/hello", nil)
		req.Header.Set(httpext.RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(httpext.RequestIDHeader))
	})
}

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware_PreservesIncomingID(t *testing.T) {
	var gotID string
	handler := RequestIDMiddleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "req-123" {
		t.Errorf("request ID in context = %q, want req-123", gotID)
	}
	if h := rec.Header().Get("X-Request-ID"); h != "req-123" {
		t.Errorf("X-Request-ID header = %q, want req-123", h)
	}
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var gotID string
	handler := RequestIDMiddleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	for _, incoming := range []string{"", strings.Repeat("x", 200)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if incoming != "" {
			req.Header.Set("X-Request-ID", incoming)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if _, err := uuid.Parse(gotID); err != nil {
			t.Errorf("generated ID %q is not a UUID: %v", gotID, err)
		}
		if rec.Header().Get("X-Request-ID") != gotID {
			t.Error("response header does not echo the generated ID")
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if LoggerFromContext(context.Background()) == nil {
		t.Fatal("LoggerFromContext() returned nil without a logger")
	}

	var fromRequest bool
	handler := RequestIDMiddleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromRequest = LoggerFromContext(r.Context()) != nil
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !fromRequest {
		t.Error("no logger in request context")
	}
}

package adapthttp

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fitcenter/internal/domain"
	"fitcenter/internal/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	s := &Server{}
	// Create a dummy handler
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	// Wrap it
	handler := s.loggingMiddleware(nextHandler)

	// Capture log output
	var buf bytes.Buffer
	original := logger.Default().Writer()
	logger.Default().SetOutput(&buf)
	defer logger.Default().SetOutput(original)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// Check response
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	id := w.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("Expected a generated X-Request-ID header")
	}

	// Check log
	logOutput := buf.String()
	if !strings.Contains(logOutput, "GET") || !strings.Contains(logOutput, "/test-path") || !strings.Contains(logOutput, "418") {
		t.Errorf("Log output missing expected fields. Got: %s", logOutput)
	}
	if !strings.Contains(logOutput, id) {
		t.Errorf("Log output missing request id %s. Got: %s", id, logOutput)
	}
}

func TestLoggingMiddlewareKeepsRequestID(t *testing.T) {
	s := &Server{}
	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var buf bytes.Buffer
	original := logger.Default().Writer()
	logger.Default().SetOutput(&buf)
	defer logger.Default().SetOutput(original)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected incoming request id to be echoed, got %q", got)
	}
	if !strings.Contains(buf.String(), "abc-123") {
		t.Errorf("Log output missing request id. Got: %s", buf.String())
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name string
		role domain.Role
		want int
	}{
		{"member", domain.RoleMember, http.StatusForbidden},
		{"trainer", domain.RoleTrainer, http.StatusNoContent},
		{"administrator", domain.RoleAdministrator, http.StatusNoContent},
		{"superadmin", domain.RoleSuperadmin, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := (&Server{}).WithoutAuth(&domain.User{ID: 7, Role: tc.role})
			h := s.authMiddleware(requireRole(domain.Role.Privileged, ok))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
			if w.Code != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  xyz ", "xyz"},
		{"Basic abc", ""},
	}
	for _, tc := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := bearerToken(req); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

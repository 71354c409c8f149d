package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/services"
)

// ─── Error Mapping Tests ───

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"email": "bad"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "Username already registered"}, http.StatusBadRequest, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "gone"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "nope"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "not yours"}, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()

	handleServiceError(rr, req, &services.ValidationError{Fields: map[string]string{
		"username": "Username must be 3-32 characters (letters, digits, _ . -)",
	}})

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error.Fields["username"] == "" {
		t.Errorf("expected field-level error for username, got %v", resp.Error.Fields)
	}
}

func TestErrorResp_CarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "missing", req)
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request id 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", rr.Header().Get("Content-Type"))
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["message"] != "ok" {
		t.Errorf("Expected message 'ok', got %q", body["message"])
	}
}

// ─── Document Handler Tests ───

func documentTestRouter(h *DocumentHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/documents/text/{name}", h.GetText)
	r.Delete("/documents/{name}", h.Delete)
	r.Get("/documents/", h.List)
	return r
}

func TestDocumentGetText(t *testing.T) {
	dir := t.TempDir()
	userID := uuid.New()

	userDir := filepath.Join(dir, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("failed to create user dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "notes.txt"), []byte("  hello world  "), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	h := NewDocumentHandler(services.NewFileExtractService([]string{".txt"}), dir, 1024)
	router := documentTestRouter(h, userID)

	req := httptest.NewRequest(http.MethodGet, "/documents/text/notes.txt", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var doc models.DocumentText
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if doc.Text != "hello world" {
		t.Errorf("Expected trimmed text 'hello world', got %q", doc.Text)
	}
}

func TestDocumentGetText_NotFound(t *testing.T) {
	h := NewDocumentHandler(services.NewFileExtractService([]string{".txt"}), t.TempDir(), 1024)
	router := documentTestRouter(h, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/documents/text/missing.txt", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

func TestDocumentGetText_RejectsHiddenNames(t *testing.T) {
	h := NewDocumentHandler(services.NewFileExtractService([]string{".txt"}), t.TempDir(), 1024)
	router := documentTestRouter(h, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/documents/text/.env", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for hidden name, got %d", rr.Code)
	}
}

func TestDocumentList_EmptyForNewUser(t *testing.T) {
	h := NewDocumentHandler(services.NewFileExtractService([]string{".txt"}), t.TempDir(), 1024)
	router := documentTestRouter(h, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/documents/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var names []string
	if err := json.NewDecoder(rr.Body).Decode(&names); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected empty list, got %v", names)
	}
}

func TestDocumentDelete(t *testing.T) {
	dir := t.TempDir()
	userID := uuid.New()

	userDir := filepath.Join(dir, userID.String())
	os.MkdirAll(userDir, 0o755)
	path := filepath.Join(userDir, "old.txt")
	os.WriteFile(path, []byte("stale"), 0o644)

	h := NewDocumentHandler(services.NewFileExtractService([]string{".txt"}), dir, 1024)
	router := documentTestRouter(h, userID)

	req := httptest.NewRequest(http.MethodDelete, "/documents/old.txt", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed")
	}
}

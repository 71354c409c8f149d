package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"flashdeck-backend/internal/models"
)

type fakeUserLoader struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func newTestAuth(ttl time.Duration, users ...*models.User) *JWTAuth {
	loader := &fakeUserLoader{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		loader.users[u.ID] = u
	}
	return NewJWTAuth("test-secret", ttl, loader)
}

func doAuthRequest(t *testing.T, auth *JWTAuth, header string) *httptest.ResponseRecorder {
	t.Helper()

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware_ValidToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", IsActive: true}
	auth := newTestAuth(time.Minute, user)

	token, err := auth.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	rr := doAuthRequest(t, auth, "Bearer "+token)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestMiddleware_AttachesUserToContext(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", IsActive: true}
	auth := newTestAuth(time.Minute, user)

	token, _ := auth.GenerateAccessToken(user.ID, user.Username)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) != user.ID {
			t.Errorf("Expected user id %s in context, got %s", user.ID, GetUserID(r.Context()))
		}
		got := GetUser(r.Context())
		if got == nil || got.Username != "alice" {
			t.Errorf("Expected user 'alice' in context, got %v", got)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	auth := newTestAuth(time.Minute)

	rr := doAuthRequest(t, auth, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	auth := newTestAuth(time.Minute)

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "sometoken"},
		{"wrong scheme", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doAuthRequest(t, auth, tc.header)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", IsActive: true}
	auth := newTestAuth(-time.Minute, user) // tokens expire in the past

	token, err := auth.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	rr := doAuthRequest(t, auth, "Bearer "+token)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for expired token, got %d", rr.Code)
	}
}

func TestMiddleware_DeletedUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "ghost", IsActive: true}
	auth := newTestAuth(time.Minute) // loader has no users

	token, err := auth.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	rr := doAuthRequest(t, auth, "Bearer "+token)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for deleted user, got %d", rr.Code)
	}
}

func TestMiddleware_DeactivatedUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "disabled", IsActive: false}
	auth := newTestAuth(time.Minute, user)

	token, err := auth.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	rr := doAuthRequest(t, auth, "Bearer "+token)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for deactivated user, got %d", rr.Code)
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", IsActive: true}
	other := NewJWTAuth("other-secret", time.Minute, &fakeUserLoader{users: map[uuid.UUID]*models.User{user.ID: user}})
	auth := newTestAuth(time.Minute, user)

	token, err := other.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	rr := doAuthRequest(t, auth, "Bearer "+token)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for token signed with wrong secret, got %d", rr.Code)
	}
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/videoai/internal/domain/users"
)

var (
	errGone     = errors.New("user not found")
	errBadToken = errors.New("invalid token")
)

type tokenTable map[string]*users.User

func (t tokenTable) Authenticate(_ context.Context, token string) (*users.User, error) {
	switch token {
	case "gone":
		return nil, errGone
	case "db-down":
		return nil, fmt.Errorf("load user 7: %w", errors.New("connection refused"))
	}
	u, ok := t[token]
	if !ok {
		return nil, fmt.Errorf("parse: %w", errBadToken)
	}
	return u, nil
}

func TestBearerAuth(t *testing.T) {
	auth := tokenTable{"good": {ID: 7, Email: "ada@example.com"}}

	var seen *users.User
	h := BearerAuth(auth, errBadToken, errGone)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer good", http.StatusNoContent, ""},
		{"lowercase scheme", "bearer good", http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, `{"detail":"Not authenticated"}`},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, `{"detail":"Not authenticated"}`},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, `{"detail":"Invalid token"}`},
		{"deleted user", "Bearer gone", http.StatusUnauthorized, `{"detail":"User not found"}`},
		{"repository failure", "Bearer db-down", http.StatusInternalServerError, `{"detail":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
				if tt.status == http.StatusUnauthorized {
					assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				}
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, int64(7), seen.ID)
		})
	}
}

func TestUserFromContextEmpty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}

// internal/handlers/game_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tictacgo/tictacgo/internal/auth"
)

// TestGamesRequireAuth checks that every /games route rejects requests
// without a credential before touching anything else.
func TestGamesRequireAuth(t *testing.T) {
	auth.Init() // ephemeral keys, no DB needed

	requests := []*http.Request{
		httptest.NewRequest("GET", "/games", nil),
		httptest.NewRequest("POST", "/games", nil),
		httptest.NewRequest("GET", "/games/"+uuid.NewString(), nil),
		httptest.NewRequest("PUT", "/games/"+uuid.NewString()+"/move/5", nil),
		httptest.NewRequest("DELETE", "/games/completed/all", nil),
	}

	for _, req := range requests {
		w := httptest.NewRecorder()
		if req.URL.Path == "/games" {
			GamesHandler(w, req)
		} else {
			GamesSubtreeHandler(w, req)
		}
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", req.Method, req.URL.Path)
	}
}

func TestGamesRejectGarbageToken(t *testing.T) {
	auth.Init()

	req := httptest.NewRequest("GET", "/games", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	GamesHandler(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Pagination bounds are enforced at the HTTP boundary, before any storage
// call is made.
func TestListGamesPaginationBounds(t *testing.T) {
	auth.Init()
	token, _ := auth.CreateJWT(uuid.NewString())

	cases := []string{
		"/games?skip=-1",
		"/games?limit=0",
		"/games?limit=1001",
		"/games?skip=abc",
	}
	for _, target := range cases {
		req := httptest.NewRequest("GET", target, nil)
		req.Header.Set("Cookie", "auth_token="+token)
		w := httptest.NewRecorder()
		GamesHandler(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestListGamesRejectsUnknownStatus(t *testing.T) {
	auth.Init()
	token, _ := auth.CreateJWT(uuid.NewString())

	req := httptest.NewRequest("GET", "/games?status=abandoned", nil)
	req.Header.Set("Cookie", "auth_token="+token)
	w := httptest.NewRecorder()
	GamesHandler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubtreeRejectsBadGameID(t *testing.T) {
	auth.Init()
	token, _ := auth.CreateJWT(uuid.NewString())

	req := httptest.NewRequest("GET", "/games/not-a-uuid", nil)
	req.Header.Set("Cookie", "auth_token="+token)
	w := httptest.NewRecorder()
	GamesSubtreeHandler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Out-of-range positions are turned away at the boundary; in-range
// positions on an occupied cell surface from the transition itself.
func TestMoveRejectsBadPosition(t *testing.T) {
	auth.Init()
	token, _ := auth.CreateJWT(uuid.NewString())

	for _, pos := range []string{"0", "10", "-4", "five"} {
		req := httptest.NewRequest("PUT", "/games/"+uuid.NewString()+"/move/"+pos, nil)
		req.Header.Set("Cookie", "auth_token="+token)
		w := httptest.NewRecorder()
		GamesSubtreeHandler(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "position %s", pos)
	}
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/games", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", extractToken(req))

	req = httptest.NewRequest("GET", "/games", nil)
	req.Header.Set("Cookie", "other=1; auth_token=xyz789; theme=dark")
	assert.Equal(t, "xyz789", extractToken(req))

	req = httptest.NewRequest("GET", "/games", nil)
	assert.Equal(t, "", extractToken(req))
}

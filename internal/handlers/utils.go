package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tictacgo/tictacgo/internal/auth"
)

// extractToken pulls the bearer token from the Authorization header or
// the auth_token cookie, or returns empty if neither is present.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return extractCookieToken(r.Header.Get("Cookie"), "auth_token")
}

// extractCookieToken extracts a named cookie value from the "Cookie"
// header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requireActor resolves the authenticated actor for a request. On failure
// it writes a 401 and returns false.
func requireActor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token := extractToken(r)
	if token == "" {
		http.Error(w, "missing credentials", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	userIDStr, err := auth.AuthenticateJWT(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "invalid user id in token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// parsePagination reads skip/limit query params, applying the defaults
// and bounds the API contract demands (skip >= 0, 1 <= limit <= 1000).
// Violations are rejected here, before reaching the lifecycle layer.
func parsePagination(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	skip, limit = 0, 100

	if s := r.URL.Query().Get("skip"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			http.Error(w, "skip must be a non-negative integer", http.StatusBadRequest)
			return 0, 0, false
		}
		skip = v
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 1000 {
			http.Error(w, "limit must be between 1 and 1000", http.StatusBadRequest)
			return 0, 0, false
		}
		limit = v
	}
	return skip, limit, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

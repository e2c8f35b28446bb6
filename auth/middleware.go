package auth

import (
	"log"
	"net/http"
)

// SessionLookup reports whether a connection is still live.
type SessionLookup interface {
	SessionActive(playerID string) bool
}

// Middleware validates the bearer token, checks that the session behind it is
// still connected and passes the player id on in the X-Player-ID header.
func (i *Issuer) Middleware(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := i.authenticate(w, r)
			if !ok {
				return
			}

			if !sessions.SessionActive(claims.PlayerID) {
				http.Error(w, "Unauthorized: Player not found or inactive", http.StatusUnauthorized)
				return
			}

			r.Header.Set("X-Player-ID", claims.PlayerID)
			r.Header.Set("X-Username", claims.Username)
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate writes the 401 itself when it fails.
func (i *Issuer) authenticate(w http.ResponseWriter, r *http.Request) (*Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			authHeader = "Bearer " + token
		}
	}
	if authHeader == "" {
		http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
		return nil, false
	}

	tokenString, err := ExtractTokenFromHeader(authHeader)
	if err != nil {
		http.Error(w, "Unauthorized: Invalid token format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := i.ValidateToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

// PlayerIDFromRequest reads the id set by Middleware.
func PlayerIDFromRequest(r *http.Request) string {
	return r.Header.Get("X-Player-ID")
}

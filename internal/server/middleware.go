package server

import (
	"context"
	"crypto/subtle"
	"net/http"

	"mediadepot/internal/session"
)

const sessionCookie = "mediadepot_session"

type contextKey string

const sessionKey contextKey = "session"

// withSession attaches the client's session state to the request context,
// minting a cookie on first contact.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			id = cookie.Value
		} else {
			id = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		state := s.sessions.Get(id)
		ctx := context.WithValue(r.Context(), sessionKey, state)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionState(r *http.Request) *session.State {
	state, _ := r.Context().Value(sessionKey).(*session.State)
	if state == nil {
		state = session.NewState()
	}
	return state
}

// checkAdminKey validates the shared secret sent with a mutating batch.
// The whole batch is rejected on mismatch; there is no per-item grace.
func (s *Server) checkAdminKey(supplied string) error {
	expected := s.adminKey
	if expected == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

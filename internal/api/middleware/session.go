package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sanghyxuk/number-baseball/internal/api/apierr"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Session creates middleware that resolves the caller's session id and
// rejects requests without a valid one.
func Session(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := extractSessionID(r)
			if id == "" {
				apierr.WriteError(w, model.ErrInvalidSession)
				return
			}

			playerSession, err := sessions.Get(r.Context(), model.SessionID(id))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, playerSession)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractSessionID pulls the session id from the request
func extractSessionID(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if id := r.Header.Get("X-Session-Id"); id != "" {
		return id
	}

	return r.URL.Query().Get("session_id")
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *model.PlayerSession {
	playerSession, _ := ctx.Value(sessionContextKey).(*model.PlayerSession)
	return playerSession
}

// MustGetSession returns the session or panics
func MustGetSession(ctx context.Context) *model.PlayerSession {
	playerSession := GetSession(ctx)
	if playerSession == nil {
		panic("no session in context - session middleware not applied?")
	}
	return playerSession
}

package middleware

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"net/http"

	"github.com/Kim2783/Kidstodolist/internal/services"
	"github.com/gorilla/securecookie"
)

type contextKey string

const SessionContextKey contextKey = "session"

const sessionCookieName = "checklist_session"

// SessionCookie signs the session id so a client cannot wander into another
// household's checklist by editing the cookie. Identity only, not
// authentication.
type SessionCookie struct {
	codec *securecookie.SecureCookie
}

func NewSessionCookie(secret string) *SessionCookie {
	hashKey := sha256.Sum256([]byte(secret))
	return &SessionCookie{codec: securecookie.New(hashKey[:], nil)}
}

// WithSession resolves the request's session from the signed cookie,
// creating a fresh one (and setting the cookie) when there is none or it no
// longer resolves, then injects it into the request context.
func WithSession(manager *services.SessionManager, cookie *SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := cookie.sessionFrom(r, manager)
			if session == nil {
				session = manager.Create()
				if err := cookie.write(w, session.ID); err != nil {
					slog.Error("writing session cookie", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (cookie *SessionCookie) sessionFrom(r *http.Request, manager *services.SessionManager) *services.Session {
	raw, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	var id string
	if err := cookie.codec.Decode(sessionCookieName, raw.Value, &id); err != nil {
		return nil
	}
	session, ok := manager.Find(id)
	if !ok {
		return nil
	}
	return session
}

func (cookie *SessionCookie) write(w http.ResponseWriter, id string) error {
	encoded, err := cookie.codec.Encode(sessionCookieName, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func GetSession(ctx context.Context) *services.Session {
	session, _ := ctx.Value(SessionContextKey).(*services.Session)
	return session
}

package main

import (
	"context"
	"net/http"

	"pawmart/internal/domain/sessions"
)

type sessionKey string

const sessionCtx sessionKey = "session"

const sessionCookieName = "pawmart_session"

// SessionMiddleware resolves the guest session from the X-Session-ID header
// or the session cookie. A missing or expired session gets replaced with a
// fresh one; a live session is touched (sliding 7-day window) so activity
// keeps it alive.
func (app *application) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sess *sessions.Session
		if id := sessionIDFromRequest(r); id != "" {
			extended, err := app.sessions.ExtendSession(ctx, id, 7)
			if err != nil {
				app.internalServerError(w, r, err)
				return
			}
			sess = extended
		}

		if sess == nil {
			created, err := app.sessions.CreateSession(ctx, r.RemoteAddr, r.UserAgent())
			if err != nil {
				app.internalServerError(w, r, err)
				return
			}
			sess = created
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set("X-Session-ID", sess.ID)

		ctx = context.WithValue(ctx, sessionCtx, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromRequest(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); sessions.IsSessionID(id) {
		return id
	}
	if c, err := r.Cookie(sessionCookieName); err == nil && sessions.IsSessionID(c.Value) {
		return c.Value
	}
	return ""
}

func getSessionFromContext(r *http.Request) *sessions.Session {
	sess, _ := r.Context().Value(sessionCtx).(*sessions.Session)
	return sess
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.limiter.Allow(r.RemoteAddr); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

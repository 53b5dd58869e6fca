package session

import (
	"context"
	"net/http"

	"github.com/ravindu/helpdesk-web/internal/model"
)

// contextKey is unexported so only this package can read or write the
// session value in a request context.
type contextKey string

const sessionKey contextKey = "session"

// WithSession attaches the current session to the request context when a
// valid cookie references a live session. It never blocks a request: a
// missing, tampered or expired cookie simply leaves the request anonymous.
func WithSession(store *Store, codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := resolve(r, store, codec); sess != nil {
				r = r.WithContext(NewContext(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require is the route guard for /ask-question, /dashboard and /admin:
// absence of a session redirects to the login page.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext returns the request's session, or nil for anonymous requests.
func FromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionKey).(*model.Session)
	return sess
}

func resolve(r *http.Request, store *Store, codec *Codec) *model.Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	id, err := codec.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	sess, err := store.Get(r.Context(), id)
	if err != nil {
		return nil
	}
	return sess
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ravindu/helpdesk-web/internal/helpdesk"
	"github.com/ravindu/helpdesk-web/internal/render"
	"github.com/ravindu/helpdesk-web/internal/session"
)

// Authenticator exchanges campus credentials for an API token. The remote
// helpdesk service owns passwords; this layer never stores or verifies them.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*helpdesk.LoginResult, error)
}

// AuthHandler serves login and logout plus the home and admin pages.
type AuthHandler struct {
	auth   Authenticator
	store  *session.Store
	codec  *session.Codec
	ttl    time.Duration
	render *render.Renderer
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. ttl bounds both the server-side
// session row and the signed cookie.
func NewAuthHandler(auth Authenticator, store *session.Store, codec *session.Codec, ttl time.Duration, renderer *render.Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		store:  store,
		codec:  codec,
		ttl:    ttl,
		render: renderer,
		logger: logger,
	}
}

type loginPage struct {
	basePage
	Email  string
	Notice string
}

// HandleLoginForm serves GET /login. Signed-in users are sent straight to
// their dashboard.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render.Page(w, http.StatusOK, "login", loginPage{basePage: newBasePage(r, "Sign In")})
}

// HandleLogin serves POST /login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		h.render.Page(w, http.StatusUnprocessableEntity, "login", loginPage{
			basePage: newBasePage(r, "Sign In"),
			Email:    email,
			Notice:   "Email and password are both required.",
		})
		return
	}

	res, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		h.render.Page(w, loginFailureStatus(err), "login", loginPage{
			basePage: newBasePage(r, "Sign In"),
			Email:    email,
			Notice:   loginNotice(err),
		})
		return
	}

	sess, err := h.store.Create(r.Context(), res.Token, res.User, h.ttl)
	if err != nil {
		h.logger.Error("creating session failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	cookie, err := h.codec.Issue(sess.ID, sess.ExpiresAt)
	if err != nil {
		h.logger.Error("issuing session cookie failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	session.SetCookie(w, cookie, sess.ExpiresAt)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// loginNotice keeps credential failures generic so the form never leaks
// whether the email exists.
func loginNotice(err error) string {
	var httpErr *helpdesk.HTTPError
	if errors.As(err, &httpErr) && (httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden) {
		return "Invalid email or password."
	}
	return notice(err)
}

func loginFailureStatus(err error) int {
	var httpErr *helpdesk.HTTPError
	if errors.As(err, &httpErr) && (httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden) {
		return http.StatusUnauthorized
	}
	return http.StatusOK
}

// HandleLogout serves POST /logout: drops the server-side session and clears
// the cookie. Always redirects home, even when nobody was signed in.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		if err := h.store.Delete(r.Context(), sess.ID); err != nil {
			h.logger.Warn("deleting session failed", slog.String("error", err.Error()))
		}
	}
	session.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleHome serves GET /.
func (h *AuthHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "home", newBasePage(r, "Campus Helpdesk"))
}

// HandleAdmin serves GET /admin behind the session guard.
func (h *AuthHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "admin", newBasePage(r, "Admin"))
}

// HandleNotFound renders the shared error page for unknown routes.
func (h *AuthHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusNotFound, "error", errorPage{
		basePage: newBasePage(r, "Not Found"),
		Message:  "That page does not exist.",
	})
}

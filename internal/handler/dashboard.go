package handler

import (
	"log/slog"
	"net/http"

	"github.com/ravindu/helpdesk-web/internal/render"
	"github.com/ravindu/helpdesk-web/internal/service"
	"github.com/ravindu/helpdesk-web/internal/session"
)

// DashboardHandler serves the user dashboard and its edit/delete flows.
// Deletion is a two-step flow: the first POST renders a confirmation page
// carrying a single-use token, and only the confirming POST with that token
// fires the remote DELETE.
type DashboardHandler struct {
	dashboard *service.DashboardService
	questions *service.QuestionService
	store     *session.Store
	render    *render.Renderer
	logger    *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService, questions *service.QuestionService, store *session.Store, renderer *render.Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		questions: questions,
		store:     store,
		render:    renderer,
		logger:    logger,
	}
}

type dashboardPage struct {
	basePage
	View   *service.DashboardView
	Notice string
	// Saved flags a completed edit or delete for the confirmation banner.
	Saved string
}

// HandleDashboard serves GET /dashboard. The q query parameter filters the
// displayed questions client-side; it never reaches the remote API.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	page := dashboardPage{
		basePage: newBasePage(r, "My Dashboard"),
		Saved:    savedBanner(r.URL.Query().Get("saved")),
	}

	view, err := h.dashboard.Load(r.Context(), session.FromContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		page.Notice = notice(err)
		h.render.Page(w, http.StatusOK, "dashboard", page)
		return
	}

	page.View = view
	h.render.Page(w, http.StatusOK, "dashboard", page)
}

func savedBanner(key string) string {
	switch key {
	case "updated":
		return "Question updated successfully!"
	case "deleted":
		return "Question deleted successfully!"
	}
	return ""
}

// HandleEdit serves POST /dashboard/questions/{id}: title/description only.
// Success redirects back to the dashboard, which re-fetches the owning user
// so the page reflects what the server confirmed.
func (h *DashboardHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		h.renderDashboardError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess := session.FromContext(r.Context())
	err = h.dashboard.Update(r.Context(), sess, id, r.PostFormValue("title"), r.PostFormValue("description"))
	if err != nil {
		h.renderDashboardError(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard?saved=updated", http.StatusSeeOther)
}

type confirmDeletePage struct {
	basePage
	QuestionID    int
	QuestionTitle string
	Token         string
}

// HandleDeleteRequest serves POST /dashboard/questions/{id}/delete: the first
// of the two required actions. Nothing is deleted here; the handler issues a
// confirmation token and renders the confirmation page.
func (h *DashboardHandler) HandleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		h.renderDashboardError(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	view, err := h.questions.Detail(r.Context(), sess, id)
	if err != nil {
		h.renderDashboardError(w, r, err)
		return
	}

	token, err := h.store.CreateConfirmToken(r.Context(), sess.ID, id)
	if err != nil {
		h.logger.Error("issuing confirm token failed", slog.String("error", err.Error()))
		h.renderDashboardError(w, r, err)
		return
	}

	h.render.Page(w, http.StatusOK, "confirm_delete", confirmDeletePage{
		basePage:      newBasePage(r, "Confirm Delete"),
		QuestionID:    id,
		QuestionTitle: view.Question.Title,
		Token:         token,
	})
}

// HandleDeleteConfirm serves POST /dashboard/questions/{id}/delete/confirm.
// The DELETE fires only when the single-use token matches this session and
// question; a stale or replayed token renders a notice instead.
func (h *DashboardHandler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		h.renderDashboardError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess := session.FromContext(r.Context())
	ok, err := h.store.ConsumeConfirmToken(r.Context(), r.PostFormValue("token"), sess.ID, id)
	if err != nil {
		h.renderDashboardError(w, r, err)
		return
	}
	if !ok {
		h.render.Page(w, http.StatusForbidden, "error", errorPage{
			basePage: newBasePage(r, "Confirm Delete"),
			Message:  "This delete confirmation has expired. Go back to your dashboard and try again.",
		})
		return
	}

	if err := h.dashboard.Delete(r.Context(), sess, id); err != nil {
		h.renderDashboardError(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard?saved=deleted", http.StatusSeeOther)
}

// renderDashboardError re-renders the dashboard with the failure as a
// dismissible notice, keeping the page usable.
func (h *DashboardHandler) renderDashboardError(w http.ResponseWriter, r *http.Request, cause error) {
	page := dashboardPage{
		basePage: newBasePage(r, "My Dashboard"),
		Notice:   notice(cause),
	}

	view, err := h.dashboard.Load(r.Context(), session.FromContext(r.Context()), "")
	if err == nil {
		page.View = view
	}
	h.render.Page(w, http.StatusOK, "dashboard", page)
}

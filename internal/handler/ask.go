package handler

import (
	"errors"
	"net/http"

	"github.com/ravindu/helpdesk-web/internal/apperror"
	"github.com/ravindu/helpdesk-web/internal/model"
	"github.com/ravindu/helpdesk-web/internal/service"
	"github.com/ravindu/helpdesk-web/internal/session"
)

type askPage struct {
	basePage
	Categories []model.Category
	Form       service.AskInput
	// Submitted flags the post-success state: form cleared, confirmation shown.
	Submitted  bool
	Notice     string
	FieldError string
}

// HandleAskForm serves GET /ask-question.
func (h *QuestionHandler) HandleAskForm(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "ask", askPage{
		basePage:   newBasePage(r, "Ask a Question"),
		Categories: model.Categories(),
	})
}

// HandleAskSubmit serves POST /ask-question. Validation failures never reach
// the network and re-render the form with a field-level error; remote
// failures re-render it with a retryable notice. In both cases every entered
// value is preserved. Success clears the form and shows a confirmation.
func (h *QuestionHandler) HandleAskSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	input := service.AskInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
		Anonymous:   r.PostFormValue("anonymous") == "on",
	}

	page := askPage{
		basePage:   newBasePage(r, "Ask a Question"),
		Categories: model.Categories(),
	}

	_, err := h.questions.Ask(r.Context(), session.FromContext(r.Context()), input)
	if err != nil {
		page.Form = input
		page.Notice = notice(err)
		page.FieldError = fieldError(err)

		status := http.StatusOK
		if errors.Is(err, apperror.ErrValidation) {
			status = http.StatusUnprocessableEntity
		}
		h.render.Page(w, status, "ask", page)
		return
	}

	page.Submitted = true
	h.render.Page(w, http.StatusOK, "ask", page)
}

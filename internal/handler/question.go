package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ravindu/helpdesk-web/internal/apperror"
	"github.com/ravindu/helpdesk-web/internal/model"
	"github.com/ravindu/helpdesk-web/internal/render"
	"github.com/ravindu/helpdesk-web/internal/service"
	"github.com/ravindu/helpdesk-web/internal/session"
)

// QuestionHandler serves the question list, question detail and ask-question
// pages.
type QuestionHandler struct {
	questions *service.QuestionService
	render    *render.Renderer
	logger    *slog.Logger
}

// NewQuestionHandler creates a QuestionHandler.
func NewQuestionHandler(questions *service.QuestionService, renderer *render.Renderer, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		render:    renderer,
		logger:    logger,
	}
}

type questionListPage struct {
	basePage
	View  *service.ListView
	Error string
}

// HandleList serves GET /questions. Unauthenticated visitors get the sample
// set; a failed fetch renders the page in its failed state with a message.
func (h *QuestionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := questionListPage{basePage: newBasePage(r, "All Questions")}

	view, err := h.questions.List(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		page.Error = notice(err)
		h.render.Page(w, http.StatusOK, "questions", page)
		return
	}

	page.View = view
	h.render.Page(w, http.StatusOK, "questions", page)
}

type questionDetailPage struct {
	basePage
	View *service.DetailView
	// AnswerText is preserved when submission fails so the user can retry.
	AnswerText      string
	AnswerAnonymous bool
	Notice          string
	FieldError      string
	ThankYou        bool
}

// HandleDetail serves GET /questions/{id}.
func (h *QuestionHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	view, err := h.questions.Detail(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		if isNotFound(err) {
			h.renderNotFound(w, r)
			return
		}
		h.renderDetailError(w, r, err)
		return
	}

	page := questionDetailPage{
		basePage: newBasePage(r, view.Question.Title),
		View:     view,
	}
	h.render.Page(w, http.StatusOK, "question", page)
}

// HandleAnswer serves POST /questions/{id}/answers. On success it renders the
// re-fetched question; on failure the entered answer text is preserved and
// the error shown as a local notice.
func (h *QuestionHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("answer")
	anonymous := r.PostFormValue("anonymous") == "on"

	sess := session.FromContext(r.Context())
	view, err := h.questions.SubmitAnswer(r.Context(), sess, id, text, anonymous)
	if err != nil {
		h.renderAnswerFailure(w, r, sess, id, text, anonymous, err)
		return
	}

	page := questionDetailPage{
		basePage: newBasePage(r, view.Question.Title),
		View:     view,
		ThankYou: true,
	}
	h.render.Page(w, http.StatusOK, "question", page)
}

// renderAnswerFailure re-renders the detail page with the failure notice and
// the form contents intact. The question itself is re-fetched; if even that
// fails the plain error page is the fallback.
func (h *QuestionHandler) renderAnswerFailure(w http.ResponseWriter, r *http.Request, sess *model.Session, id int, text string, anonymous bool, submitErr error) {
	view, err := h.questions.Detail(r.Context(), sess, id)
	if err != nil {
		h.renderDetailError(w, r, submitErr)
		return
	}

	page := questionDetailPage{
		basePage:        newBasePage(r, view.Question.Title),
		View:            view,
		AnswerText:      text,
		AnswerAnonymous: anonymous,
		Notice:          notice(submitErr),
		FieldError:      fieldError(submitErr),
	}

	status := http.StatusOK
	if errors.Is(submitErr, apperror.ErrValidation) {
		status = http.StatusUnprocessableEntity
	}
	h.render.Page(w, status, "question", page)
}

type errorPage struct {
	basePage
	Message string
}

func (h *QuestionHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusNotFound, "error", errorPage{
		basePage: newBasePage(r, "Not Found"),
		Message:  "That question does not exist.",
	})
}

func (h *QuestionHandler) renderDetailError(w http.ResponseWriter, r *http.Request, err error) {
	h.render.Page(w, http.StatusOK, "error", errorPage{
		basePage: newBasePage(r, "Question"),
		Message:  notice(err),
	})
}

package handler_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/ravindu/helpdesk-web/internal/handler"
	"github.com/ravindu/helpdesk-web/internal/helpdesk"
	"github.com/ravindu/helpdesk-web/internal/model"
	"github.com/ravindu/helpdesk-web/internal/service"
	"github.com/stretchr/testify/assert"
)

func newQuestionHandler(api *stubAPI, t *testing.T) *handler.QuestionHandler {
	logger := testLogger()
	return handler.NewQuestionHandler(service.NewQuestionService(api, logger), newTestRenderer(t), logger)
}

func TestQuestionHandler_HandleList(t *testing.T) {
	t.Run("anonymous visitor gets samples without any API call", func(t *testing.T) {
		api := newStubAPI()
		h := newQuestionHandler(api, t)

		req := authedRequest(http.MethodGet, "/questions", nil, nil)
		rr := serveRouted(http.MethodGet, "/questions", h.HandleList, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "fallback=true")
		assert.Contains(t, rr.Body.String(), "How to apply for lab sessions?")
		assert.Equal(t, 0, api.totalCalls())
	})

	t.Run("authenticated list renders author, status and age", func(t *testing.T) {
		api := newStubAPI()
		api.questions = []model.Question{{
			ID:          10,
			Title:       "Lab access card not working",
			CategoryID:  model.CategoryTimetable,
			CreatedDate: time.Now().Add(-3 * time.Hour),
			UserID:      5,
		}}
		h := newQuestionHandler(api, t)

		req := authedRequest(http.MethodGet, "/questions", nil, testSession())
		rr := serveRouted(http.MethodGet, "/questions", h.HandleList, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "[Lab access card not working|User 5|❓ Unanswered|3 hour(s) ago]")
		assert.Equal(t, 1, api.callCount("ListQuestions"))
		assert.Equal(t, 1, api.callCount("GetUser"))
	})
}

func TestQuestionHandler_HandleDetail(t *testing.T) {
	t.Run("partial author lookup failure still renders the page", func(t *testing.T) {
		api := newStubAPI()
		api.failUserIDs = map[int]bool{8: true}
		api.question = &model.Question{
			ID:     10,
			Title:  "Where is the exam hall?",
			UserID: 5,
			Answers: []model.Answer{
				{ID: 1, Description: "Building B.", UserID: 8},
				{ID: 2, Description: "Second floor.", UserID: 5},
			},
		}
		h := newQuestionHandler(api, t)

		req := authedRequest(http.MethodGet, "/questions/10", nil, testSession())
		rr := serveRouted(http.MethodGet, "/questions/{id}", h.HandleDetail, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "title=Where is the exam hall?")
		assert.Contains(t, body, "by=User 5")
		assert.Contains(t, body, "(Unknown User)")
		assert.Contains(t, body, "(User 5)")
	})

	t.Run("unknown question renders the not found page", func(t *testing.T) {
		api := newStubAPI()
		h := newQuestionHandler(api, t)

		req := authedRequest(http.MethodGet, "/questions/10", nil, testSession())
		rr := serveRouted(http.MethodGet, "/questions/{id}", h.HandleDetail, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "does not exist")
	})

	t.Run("non numeric id renders the not found page", func(t *testing.T) {
		api := newStubAPI()
		h := newQuestionHandler(api, t)

		req := authedRequest(http.MethodGet, "/questions/abc", nil, testSession())
		rr := serveRouted(http.MethodGet, "/questions/{id}", h.HandleDetail, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestQuestionHandler_HandleAnswer(t *testing.T) {
	question := &model.Question{ID: 10, Title: "Where is the exam hall?", UserID: 5}

	t.Run("success re-renders the refreshed question with a thank you", func(t *testing.T) {
		api := newStubAPI()
		api.question = question
		h := newQuestionHandler(api, t)

		form := url.Values{"answer": {"Building B, second floor."}}
		req := authedRequest(http.MethodPost, "/questions/10/answers", form, testSession())
		rr := serveRouted(http.MethodPost, "/questions/{id}/answers", h.HandleAnswer, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "thanks=true")
		assert.Equal(t, 1, api.callCount("CreateAnswer"))
		// re-fetch after write
		assert.Equal(t, 1, api.callCount("GetQuestion"))
	})

	t.Run("empty answer is rejected before any network call", func(t *testing.T) {
		api := newStubAPI()
		api.question = question
		h := newQuestionHandler(api, t)

		form := url.Values{"answer": {"   "}}
		req := authedRequest(http.MethodPost, "/questions/10/answers", form, testSession())
		rr := serveRouted(http.MethodPost, "/questions/{id}/answers", h.HandleAnswer, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, 0, api.callCount("CreateAnswer"))
	})

	t.Run("remote failure preserves the entered text", func(t *testing.T) {
		api := newStubAPI()
		api.question = question
		api.answerErr = &helpdesk.HTTPError{Status: http.StatusBadGateway, Message: "upstream down"}
		h := newQuestionHandler(api, t)

		form := url.Values{"answer": {"Building B."}}
		req := authedRequest(http.MethodPost, "/questions/10/answers", form, testSession())
		rr := serveRouted(http.MethodPost, "/questions/{id}/answers", h.HandleAnswer, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "answer=Building B.")
		assert.Contains(t, body, "upstream down")
	})

	t.Run("anonymous visitor cannot answer", func(t *testing.T) {
		api := newStubAPI()
		api.question = question
		h := newQuestionHandler(api, t)

		form := url.Values{"answer": {"Building B."}}
		req := authedRequest(http.MethodPost, "/questions/10/answers", form, nil)
		rr := serveRouted(http.MethodPost, "/questions/{id}/answers", h.HandleAnswer, req)

		assert.Contains(t, rr.Body.String(), "log in")
		assert.Equal(t, 0, api.callCount("CreateAnswer"))
	})
}

func TestQuestionHandler_HandleAskSubmit(t *testing.T) {
	t.Run("missing category fails before any network call and keeps the form", func(t *testing.T) {
		api := newStubAPI()
		h := newQuestionHandler(api, t)

		form := url.Values{
			"title":       {"Lost my student ID"},
			"description": {"Dropped it near the cafeteria."},
		}
		req := authedRequest(http.MethodPost, "/ask-question", form, testSession())
		rr := serveRouted(http.MethodPost, "/ask-question", h.HandleAskSubmit, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "field=category")
		assert.Contains(t, body, "title=Lost my student ID")
		assert.Contains(t, body, "desc=Dropped it near the cafeteria.")
		assert.Equal(t, 0, api.totalCalls())
	})

	t.Run("success clears the form", func(t *testing.T) {
		api := newStubAPI()
		h := newQuestionHandler(api, t)

		form := url.Values{
			"title":       {"Lost my student ID"},
			"description": {"Dropped it near the cafeteria."},
			"category":    {"4"},
		}
		req := authedRequest(http.MethodPost, "/ask-question", form, testSession())
		rr := serveRouted(http.MethodPost, "/ask-question", h.HandleAskSubmit, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "submitted=true")
		assert.Contains(t, body, "title= ")
		assert.Equal(t, 1, api.callCount("CreateQuestion"))
	})

	t.Run("remote failure keeps every entered field", func(t *testing.T) {
		api := newStubAPI()
		api.createErr = &helpdesk.NetworkError{Err: assert.AnError}
		h := newQuestionHandler(api, t)

		form := url.Values{
			"title":       {"Lost my student ID"},
			"description": {"Dropped it near the cafeteria."},
			"category":    {"4"},
		}
		req := authedRequest(http.MethodPost, "/ask-question", form, testSession())
		rr := serveRouted(http.MethodPost, "/ask-question", h.HandleAskSubmit, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "submitted=false")
		assert.Contains(t, body, "title=Lost my student ID")
		assert.Contains(t, body, "cat=4")
		assert.Contains(t, body, "Could not reach the helpdesk service")
	})
}

package handler_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ravindu/helpdesk-web/internal/helpdesk"
	"github.com/ravindu/helpdesk-web/internal/model"
	"github.com/ravindu/helpdesk-web/internal/render"
	"github.com/ravindu/helpdesk-web/internal/session"
	"github.com/stretchr/testify/require"
)

// stubAPI implements service.API with canned data and per-method call counts.
type stubAPI struct {
	mu sync.Mutex

	questions   []model.Question
	question    *model.Question
	profile     *model.User
	failUserIDs map[int]bool

	createErr error
	answerErr error
	updateErr error
	deleteErr error

	calls map[string]int
}

func newStubAPI() *stubAPI {
	return &stubAPI{calls: map[string]int{}}
}

func (s *stubAPI) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

func (s *stubAPI) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *stubAPI) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *stubAPI) ListQuestions(ctx context.Context, token string) ([]model.Question, error) {
	s.record("ListQuestions")
	return s.questions, nil
}

func (s *stubAPI) GetQuestion(ctx context.Context, token string, id int) (*model.Question, error) {
	s.record("GetQuestion")
	if s.question == nil {
		return nil, &helpdesk.HTTPError{Status: http.StatusNotFound, Message: "question not found"}
	}
	q := *s.question
	return &q, nil
}

func (s *stubAPI) CreateQuestion(ctx context.Context, token string, q *model.Question) (*model.Question, error) {
	s.record("CreateQuestion")
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := *q
	created.ID = 99
	return &created, nil
}

func (s *stubAPI) UpdateQuestion(ctx context.Context, token string, q *model.Question) error {
	s.record("UpdateQuestion")
	return s.updateErr
}

func (s *stubAPI) DeleteQuestion(ctx context.Context, token string, id int) error {
	s.record("DeleteQuestion")
	return s.deleteErr
}

func (s *stubAPI) CreateAnswer(ctx context.Context, token string, a *model.Answer) error {
	s.record("CreateAnswer")
	return s.answerErr
}

func (s *stubAPI) GetUser(ctx context.Context, token string, id int) (*model.User, error) {
	s.record("GetUser")
	if s.failUserIDs[id] {
		return nil, &helpdesk.NetworkError{Err: fmt.Errorf("lookup failed for %d", id)}
	}
	return &model.User{ID: id, FirstName: "User", LastName: fmt.Sprintf("%d", id)}, nil
}

func (s *stubAPI) UserInfo(ctx context.Context, token string) (*model.User, error) {
	s.record("UserInfo")
	if s.profile == nil {
		return nil, &helpdesk.HTTPError{Status: http.StatusUnauthorized, Message: "invalid token"}
	}
	return s.profile, nil
}

// testTemplates is a minimal page set exposing the fields the handlers feed
// into templates, so assertions can target rendered output.
const testTemplates = `
{{define "home"}}home user={{with .User}}{{.DisplayName}}{{end}}{{end}}
{{define "questions"}}error={{.Error}} {{with .View}}fallback={{.Fallback}} {{range .Questions}}[{{.Question.Title}}|{{.AuthorLabel}}|{{.StatusBadge}}|{{.PostedAgo}}]{{end}}{{end}}{{end}}
{{define "question"}}notice={{.Notice}} field={{.FieldError}} answer={{.AnswerText}} thanks={{.ThankYou}} {{with .View}}title={{.Question.Title}} by={{.QuestionAuthor}} {{range .Question.Answers}}({{$.View.AnswerAuthor .}}){{end}}{{end}}{{end}}
{{define "ask"}}submitted={{.Submitted}} title={{.Form.Title}} desc={{.Form.Description}} cat={{.Form.Category}} field={{.FieldError}} notice={{.Notice}}{{end}}
{{define "dashboard"}}notice={{.Notice}} saved={{.Saved}} {{with .View}}user={{.User.DisplayName}} q={{.Search}} {{range .Questions}}[{{.Title}}]{{end}}{{end}}{{end}}
{{define "confirm_delete"}}confirm id={{.QuestionID}} title={{.QuestionTitle}} token={{.Token}}{{end}}
{{define "login"}}login email={{.Email}} notice={{.Notice}}{{end}}
{{define "admin"}}admin{{end}}
{{define "error"}}error: {{.Message}}{{end}}
`

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "pages.html"), []byte(testTemplates), 0o644)
	require.NoError(t, err)

	r, err := render.New(dir, testLogger())
	require.NoError(t, err)
	return r
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSession() *model.Session {
	now := time.Now()
	return &model.Session{
		ID:    "sess-1",
		Token: "token-1",
		User: &model.User{
			ID:        7,
			FirstName: "Ravindu",
			LastName:  "Perera",
			Email:     "ravindu@campus.edu",
		},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

// authedRequest builds a request carrying sess, routed so chi.URLParam can
// read the id placeholder.
func authedRequest(method, target string, form url.Values, sess *model.Session) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if sess != nil {
		req = req.WithContext(session.NewContext(req.Context(), sess))
	}
	return req
}

// serveRouted dispatches through a chi router so URL parameters resolve.
func serveRouted(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, h)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

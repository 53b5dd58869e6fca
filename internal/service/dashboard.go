package service

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"github.com/ravindu/helpdesk-web/internal/apperror"
	"github.com/ravindu/helpdesk-web/internal/model"
)

// DashboardService assembles the user dashboard: the profile plus the user's
// own questions, with edit and delete flows.
type DashboardService struct {
	api    API
	logger *slog.Logger
	now    func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(api API, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// DashboardView is the dashboard page state. Questions is the displayed set
// after the search filter; Search echoes the active term.
type DashboardView struct {
	User      *model.User
	Questions []model.Question
	Search    string
}

// Load fetches the current user's profile and owned questions, then applies
// the search filter client-side. The filter never mutates server state.
func (s *DashboardService) Load(ctx context.Context, sess *model.Session, search string) (*DashboardView, error) {
	if sess.Credential() == "" {
		return nil, apperror.AuthRequired("please log in to view your dashboard")
	}

	user, err := s.api.UserInfo(ctx, sess.Credential())
	if err != nil {
		return nil, err
	}

	return &DashboardView{
		User:      user,
		Questions: FilterQuestions(user.Questions, search),
		Search:    search,
	}, nil
}

// FilterQuestions is a pure case-insensitive substring match over title and
// description.
func FilterQuestions(questions []model.Question, term string) []model.Question {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return questions
	}
	filtered := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if strings.Contains(strings.ToLower(q.Title), term) ||
			strings.Contains(strings.ToLower(q.Description), term) {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// Update edits a question's title and description, nothing else. It fetches
// the current question first and sends the full body back, so concurrent
// edits resolve as last-confirmed-write-wins on the server.
func (s *DashboardService) Update(ctx context.Context, sess *model.Session, id int, title, description string) error {
	if sess.Credential() == "" {
		return apperror.AuthRequired("please log in to edit a question")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return apperror.ValidationFailed("title", "question title is required")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return apperror.ValidationFailed("description", "description is required")
	}

	question, err := s.api.GetQuestion(ctx, sess.Credential(), id)
	if err != nil {
		return err
	}

	question.Title = title
	question.Description = description
	if err := s.api.UpdateQuestion(ctx, sess.Credential(), question); err != nil {
		return err
	}

	s.logger.Info("question updated", slog.Int("questionId", id))
	return nil
}

// Delete removes a question. The handler gates this behind the confirmation
// token; by the time it is called the destructive intent is confirmed.
func (s *DashboardService) Delete(ctx context.Context, sess *model.Session, id int) error {
	if sess.Credential() == "" {
		return apperror.AuthRequired("please log in to delete a question")
	}

	if err := s.api.DeleteQuestion(ctx, sess.Credential(), id); err != nil {
		return err
	}

	s.logger.Info("question deleted", slog.Int("questionId", id))
	return nil
}

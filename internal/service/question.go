package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/ravindu/helpdesk-web/internal/apperror"
	"github.com/ravindu/helpdesk-web/internal/model"
)

// QuestionService assembles the question list, question detail and
// ask-question views.
type QuestionService struct {
	api    API
	logger *slog.Logger
	now    func() time.Time
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(api API, logger *slog.Logger) *QuestionService {
	return &QuestionService{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// QuestionCard is one rendered entry on the question list.
type QuestionCard struct {
	Question     model.Question
	AuthorLabel  string
	CategoryName string
	PostedAgo    string
	StatusBadge  string
}

// ListView is the question list page state.
type ListView struct {
	Questions []QuestionCard
	// Fallback marks the fixed sample set shown to unauthenticated visitors.
	Fallback bool
}

// List builds the question list. Without a credential it renders the fixed
// sample set and issues no API call at all; with one it performs exactly one
// list fetch plus one deduplicated batch of author lookups. Question order is
// whatever the API returned.
func (s *QuestionService) List(ctx context.Context, sess *model.Session) (*ListView, error) {
	if sess.Credential() == "" {
		now := s.now()
		samples := model.SampleQuestions(now)
		cards := make([]QuestionCard, 0, len(samples))
		for _, q := range samples {
			cards = append(cards, s.card(q, now, nil))
		}
		return &ListView{Questions: cards, Fallback: true}, nil
	}

	questions, err := s.api.ListQuestions(ctx, sess.Credential())
	if err != nil {
		return nil, err
	}

	claims := make([]authorClaim, 0, len(questions))
	for _, q := range questions {
		claims = append(claims, authorClaim{userID: q.UserID, anonymous: q.Anonymous})
	}
	authors := resolveAuthors(ctx, s.api, s.logger, sess.Credential(), distinctAuthorIDs(claims))

	now := s.now()
	cards := make([]QuestionCard, 0, len(questions))
	for _, q := range questions {
		cards = append(cards, s.card(q, now, authors))
	}
	return &ListView{Questions: cards}, nil
}

func (s *QuestionService) card(q model.Question, now time.Time, authors map[int]*model.User) QuestionCard {
	label := "Anonymous"
	if !q.Anonymous {
		label = "user info unavailable"
		if author, ok := authors[q.UserID]; ok {
			label = author.DisplayName()
		}
	}
	return QuestionCard{
		Question:     q,
		AuthorLabel:  label,
		CategoryName: q.CategoryID.String(),
		PostedAgo:    model.PostedAgo(q.CreatedDate, now),
		StatusBadge:  q.StatusBadge(),
	}
}

// DetailView is the question detail page state: the question as the server
// last confirmed it, plus resolved author profiles keyed by user id.
type DetailView struct {
	Question *model.Question
	Authors  map[int]*model.User
}

// AnswerAuthor returns the display label for an answer's author. Missing map
// entries (failed or skipped lookups) render as "Unknown User".
func (v *DetailView) AnswerAuthor(a model.Answer) string {
	if a.Anonymous {
		return "Anonymous"
	}
	if author, ok := v.Authors[a.UserID]; ok {
		return author.DisplayName()
	}
	return "Unknown User"
}

// QuestionAuthor returns the display label for the question's author.
func (v *DetailView) QuestionAuthor() string {
	if v.Question.Anonymous {
		return "Anonymous"
	}
	if author, ok := v.Authors[v.Question.UserID]; ok {
		return author.DisplayName()
	}
	return "Unknown User"
}

// Detail fetches one question and resolves the distinct set of author
// profiles for it and its answers. Partial lookup failures leave keys absent
// and never fail the view.
func (s *QuestionService) Detail(ctx context.Context, sess *model.Session, id int) (*DetailView, error) {
	question, err := s.api.GetQuestion(ctx, sess.Credential(), id)
	if err != nil {
		return nil, err
	}

	claims := []authorClaim{{userID: question.UserID, anonymous: question.Anonymous}}
	for _, a := range question.Answers {
		claims = append(claims, authorClaim{userID: a.UserID, anonymous: a.Anonymous})
	}
	authors := resolveAuthors(ctx, s.api, s.logger, sess.Credential(), distinctAuthorIDs(claims))

	return &DetailView{Question: question, Authors: authors}, nil
}

// SubmitAnswer posts a new answer and then re-fetches the full question so
// the returned view matches server truth. The view never contains an answer
// list the server has not confirmed.
func (s *QuestionService) SubmitAnswer(ctx context.Context, sess *model.Session, questionID int, text string, anonymous bool) (*DetailView, error) {
	user := sess.CurrentUser()
	if sess.Credential() == "" || user == nil {
		return nil, apperror.AuthRequired("please log in to submit an answer")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("answer", "answer text is required")
	}

	answer := &model.Answer{
		ID:          0, // server assigns
		Description: text,
		Anonymous:   anonymous,
		CreatedAt:   s.now().UTC(),
		UserID:      user.ID,
		QuestionID:  questionID,
	}
	if err := s.api.CreateAnswer(ctx, sess.Credential(), answer); err != nil {
		return nil, err
	}

	s.logger.Info("answer submitted", slog.Int("questionId", questionID))
	return s.Detail(ctx, sess, questionID)
}

// AskInput is the raw ask-question form submission.
type AskInput struct {
	Title       string
	Description string
	// Category is the raw form value; empty means nothing was selected.
	Category  string
	Anonymous bool
}

// Ask validates the form and posts the new question. Validation failures
// carry the offending field and happen before any network call.
func (s *QuestionService) Ask(ctx context.Context, sess *model.Session, input AskInput) (*model.Question, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "question title is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if input.Category == "" {
		return nil, apperror.ValidationFailed("category", "select a category")
	}
	categoryID, err := strconv.Atoi(input.Category)
	if err != nil || model.Category(categoryID).String() == "Uncategorized" {
		return nil, apperror.ValidationFailed("category", "select a category")
	}

	user := sess.CurrentUser()
	if sess.Credential() == "" || user == nil {
		return nil, apperror.AuthRequired("please log in to ask a question")
	}

	question := &model.Question{
		ID:          0, // server assigns
		Title:       title,
		Description: description,
		CategoryID:  model.Category(categoryID),
		CreatedDate: s.now().UTC(),
		Anonymous:   input.Anonymous,
		UserID:      user.ID,
		Answers:     []model.Answer{},
	}

	created, err := s.api.CreateQuestion(ctx, sess.Credential(), question)
	if err != nil {
		return nil, err
	}

	s.logger.Info("question created",
		slog.Int("questionId", created.ID),
		slog.String("category", created.CategoryID.String()),
	)
	return created, nil
}

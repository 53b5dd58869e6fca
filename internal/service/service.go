// Package service contains the view-assembly logic between the page handlers
// and the remote helpdesk API: validation, author-name resolution and the
// re-fetch-after-write contract. Services know nothing about HTTP handling
// or templates.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ravindu/helpdesk-web/internal/model"
)

// API is the slice of the remote helpdesk client the services depend on.
// The concrete implementation is helpdesk.Client; tests substitute a mock.
type API interface {
	ListQuestions(ctx context.Context, token string) ([]model.Question, error)
	GetQuestion(ctx context.Context, token string, id int) (*model.Question, error)
	CreateQuestion(ctx context.Context, token string, q *model.Question) (*model.Question, error)
	UpdateQuestion(ctx context.Context, token string, q *model.Question) error
	DeleteQuestion(ctx context.Context, token string, id int) error
	CreateAnswer(ctx context.Context, token string, a *model.Answer) error
	GetUser(ctx context.Context, token string, id int) (*model.User, error)
	UserInfo(ctx context.Context, token string) (*model.User, error)
}

// resolveAuthors looks up the given distinct user ids concurrently and merges
// the results into an id→profile map. The lookups are independent read-only
// calls: a failed lookup just leaves its key absent, so the caller degrades
// that one label instead of failing the whole view. Each key is written at
// most once, so completion order is immaterial.
func resolveAuthors(ctx context.Context, api API, logger *slog.Logger, token string, ids []int) map[int]*model.User {
	authors := make(map[int]*model.User, len(ids))
	if len(ids) == 0 {
		return authors
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			user, err := api.GetUser(ctx, token, id)
			if err != nil {
				logger.Debug("author lookup failed",
					slog.Int("userId", id),
					slog.String("error", err.Error()),
				)
				return
			}
			mu.Lock()
			authors[id] = user
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return authors
}

// distinctAuthorIDs collects the deduplicated set of author ids worth looking
// up: anonymous entries and zero ids are skipped.
func distinctAuthorIDs(claims []authorClaim) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, c := range claims {
		if c.anonymous || c.userID == 0 || seen[c.userID] {
			continue
		}
		seen[c.userID] = true
		ids = append(ids, c.userID)
	}
	return ids
}

type authorClaim struct {
	userID    int
	anonymous bool
}

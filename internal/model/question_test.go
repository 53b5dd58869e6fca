package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusDerivedFromAnswers(t *testing.T) {
	answered := Question{Answers: []Answer{{ID: 1, Description: "a"}}}
	unanswered := Question{Answers: []Answer{}}

	assert.Equal(t, "Answered", answered.Status())
	assert.Equal(t, "Unanswered", unanswered.Status())

	// The legacy status string never wins over the derived value.
	legacy := Question{LegacyStatus: "Answered", Answers: nil}
	assert.Equal(t, "Unanswered", legacy.Status())
	legacy = Question{LegacyStatus: "Unanswered", Answers: []Answer{{ID: 1}}}
	assert.Equal(t, "Answered", legacy.Status())
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "❓ Unanswered", (&Question{}).StatusBadge())
	assert.Equal(t, "✅ Answered", (&Question{Answers: []Answer{{ID: 1}}}).StatusBadge())
}

func TestCategoryNames(t *testing.T) {
	tests := []struct {
		id   Category
		want string
	}{
		{0, "General"},
		{1, "Timetable"},
		{2, "Exams"},
		{3, "Labs"},
		{4, "Subjects"},
		{5, "Other"},
		{6, "Uncategorized"},
		{-1, "Uncategorized"},
		{42, "Uncategorized"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.id.String(), "category %d", tt.id)
	}
}

func TestPostedAgo(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now, "0 minute(s) ago"},
		{"minutes", now.Add(-45 * time.Minute), "45 minute(s) ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hour(s) ago"},
		{"boundary to hours", now.Add(-60 * time.Minute), "1 hour(s) ago"},
		{"days", now.Add(-49 * time.Hour), "2 day(s) ago"},
		{"future clamps to zero", now.Add(time.Minute), "0 minute(s) ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostedAgo(tt.t, now))
		})
	}
}

func TestQuestionDecodesWireShape(t *testing.T) {
	payload := `{
		"questionId": 1, "title": "T", "description": "D",
		"categoryId": 1, "createdDate": "2025-07-10T09:00:00Z",
		"anonymous": false, "userId": 7,
		"answers": [], "status": "whatever"
	}`
	var q Question
	require.NoError(t, json.Unmarshal([]byte(payload), &q))

	assert.Equal(t, 1, q.ID)
	assert.Equal(t, "T", q.Title)
	assert.Equal(t, CategoryTimetable, q.CategoryID)
	assert.Equal(t, 7, q.UserID)
	assert.Equal(t, "Unanswered", q.Status())

	created := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)
	assert.True(t, q.CreatedDate.Equal(created))
}

func TestSampleQuestionsAreStable(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	samples := SampleQuestions(now)

	require.Len(t, samples, 2)
	assert.Equal(t, "Answered", samples[0].Status())
	assert.Equal(t, "Unanswered", samples[1].Status())
	assert.Equal(t, "3 hour(s) ago", PostedAgo(samples[0].CreatedDate, now))
	assert.Equal(t, "1 day(s) ago", PostedAgo(samples[1].CreatedDate, now))
}

func TestUserDisplayName(t *testing.T) {
	u := User{FirstName: "Nimali", LastName: "Perera"}
	assert.Equal(t, "Nimali Perera", u.DisplayName())
}

func TestDepartmentNames(t *testing.T) {
	assert.Equal(t, "ICT", DepartmentICT.String())
	assert.Equal(t, "ET", DepartmentET.String())
	assert.Equal(t, "BST", DepartmentBST.String())
	assert.Equal(t, "Unknown", Department(9).String())
}

func TestSessionAbsenceIsFirstClass(t *testing.T) {
	var sess *Session
	assert.Equal(t, "", sess.Credential())
	assert.Nil(t, sess.CurrentUser())
}

// Package model defines the data structures exchanged with the remote
// helpdesk API and the handful of values derived from them for rendering.
//
// The remote API is authoritative for every field here; this application
// holds no durable state of its own beyond the current session. JSON tags
// follow the API's camelCase wire names exactly (questionId, createdDate,
// batchNo, ...).
package model

import (
	"fmt"
	"time"
)

// Category classifies a question's topic. The enumeration is fixed by the
// remote API; ids outside it render as "Uncategorized".
type Category int

const (
	CategoryGeneral   Category = 0
	CategoryTimetable Category = 1
	CategoryExams     Category = 2
	CategoryLabs      Category = 3
	CategorySubjects  Category = 4
	CategoryOther     Category = 5
)

var categoryNames = map[Category]string{
	CategoryGeneral:   "General",
	CategoryTimetable: "Timetable",
	CategoryExams:     "Exams",
	CategoryLabs:      "Labs",
	CategorySubjects:  "Subjects",
	CategoryOther:     "Other",
}

// String returns the display name for the category, or "Uncategorized" for
// ids outside the enumeration.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Uncategorized"
}

// Categories returns the full enumeration in id order, for the ask-question
// form.
func Categories() []Category {
	return []Category{
		CategoryGeneral,
		CategoryTimetable,
		CategoryExams,
		CategoryLabs,
		CategorySubjects,
		CategoryOther,
	}
}

// Question is a user-submitted help request.
//
// LegacyStatus captures the older API shape that carried a free-form status
// string. It is accepted on decode but never consulted: status is always
// derived from the answers sequence.
type Question struct {
	ID           int       `json:"questionId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   Category  `json:"categoryId"`
	CreatedDate  time.Time `json:"createdDate"`
	Anonymous    bool      `json:"anonymous"`
	UserID       int       `json:"userId"`
	Answers      []Answer  `json:"answers"`
	LegacyStatus string    `json:"status,omitempty"`
}

// Answer is a user-submitted response to a question.
type Answer struct {
	ID          int       `json:"answerId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Anonymous   bool      `json:"anonymous"`
	Vote        int       `json:"vote"`
	UserID      int       `json:"userId"`
	QuestionID  int       `json:"questionId"`
}

// Answered reports whether the question has at least one answer.
func (q *Question) Answered() bool {
	return len(q.Answers) > 0
}

// Status returns the derived status label. "Answered" iff the answer
// sequence is non-empty, never the stored legacy string.
func (q *Question) Status() string {
	if q.Answered() {
		return "Answered"
	}
	return "Unanswered"
}

// StatusBadge is the decorated form shown on question cards.
func (q *Question) StatusBadge() string {
	if q.Answered() {
		return "✅ Answered"
	}
	return "❓ Unanswered"
}

// PostedAgo formats the time elapsed since t relative to now, matching the
// card labels of the original UI: "3 minute(s) ago", "5 hour(s) ago",
// "2 day(s) ago".
func PostedAgo(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d minute(s) ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%d hour(s) ago", hours)
	}
	return fmt.Sprintf("%d day(s) ago", hours/24)
}

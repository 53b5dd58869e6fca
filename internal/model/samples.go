package model

import "time"

// SampleQuestions is the fixed set shown to unauthenticated visitors on the
// question list page. It is a documented UX fallback, not an error path: no
// API call is made for it. Timestamps are anchored to now so the cards keep
// their "3 hour(s) ago" / "1 day ago" feel.
func SampleQuestions(now time.Time) []Question {
	return []Question{
		{
			ID:          1,
			Title:       "How to apply for lab sessions?",
			Description: "I want to know how to apply for lab slots...",
			CategoryID:  CategoryTimetable,
			CreatedDate: now.Add(-3 * time.Hour),
			Anonymous:   true,
			Answers: []Answer{
				{
					ID:          1,
					Description: "Lab slots open on the portal every Monday. Book early.",
					CreatedAt:   now.Add(-2 * time.Hour),
					QuestionID:  1,
				},
			},
		},
		{
			ID:          2,
			Title:       "Where can I find past exam papers?",
			Description: "Looking for previous years' papers for second semester subjects.",
			CategoryID:  CategorySubjects,
			CreatedDate: now.Add(-24 * time.Hour),
			Anonymous:   false,
			Answers:     []Answer{},
		},
	}
}

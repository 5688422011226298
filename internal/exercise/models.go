package exercise

import (
	"github.com/lingopath/lingopath-lms/internal/assessment"
)

// Exercise is a repeatable, lesson-scoped quiz. PassingScore is a percentage
// threshold in [0,100].
type Exercise struct {
	ID           string                `json:"id"`
	LessonID     string                `json:"lesson_id,omitempty"`
	Title        string                `json:"title"`
	PassingScore float64               `json:"passing_score"`
	Questions    []assessment.Question `json:"questions"`
	CreatedAt    int64                 `json:"created_at,omitempty"`
}

// Sanitized strips answer keys for serving to learners.
func (e Exercise) Sanitized() Exercise {
	e.Questions = assessment.Sanitize(e.Questions)
	return e
}

// Result is one graded exercise attempt. Score is the percentage rounded to
// two decimal places; PointsEarned/TotalPoints keep the raw tally for audit.
type Result struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	ExerciseID     string            `json:"exercise_id"`
	Answers        map[string]string `json:"answers"`
	Score          float64           `json:"score"`
	PointsEarned   float64           `json:"points_earned"`
	TotalPoints    float64           `json:"total_points"`
	CorrectCount   int               `json:"correct_count"`
	TotalQuestions int               `json:"total_questions"`
	Passed         bool              `json:"passed"`
	TimeSpentSec   int               `json:"time_spent_sec,omitempty"`
	CompletedAt    int64             `json:"completed_at"`
}

package placement

import (
	"github.com/lingopath/lingopath-lms/internal/assessment"
)

// Test is a placement test. At most one test is active system-wide; the
// store's Activate enforces that by deactivating the rest.
type Test struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Active    bool                  `json:"active"`
	Questions []assessment.Question `json:"questions"`
	CreatedAt int64                 `json:"created_at,omitempty"`
}

// Sanitized returns a copy safe to serve to learners: answer keys stripped.
func (t Test) Sanitized() Test {
	t.Questions = assessment.Sanitize(t.Questions)
	return t
}

// Result is one graded placement attempt. Immutable after creation except
// CanRetake, which an authorized caller may flip to reopen eligibility.
type Result struct {
	ID             string                    `json:"id"`
	UserID         string                    `json:"user_id"`
	TestID         string                    `json:"test_id"`
	Answers        map[string]string         `json:"answers"`
	Score          float64                   `json:"score"`
	TotalPoints    float64                   `json:"total_points"`
	Percentage     float64                   `json:"percentage"`
	SkillBreakdown assessment.SkillBreakdown `json:"skill_breakdown"`
	Level          Level                     `json:"level"`
	TimeSpentSec   int                       `json:"time_spent_sec,omitempty"`
	CanRetake      bool                      `json:"can_retake"`
	CompletedAt    int64                     `json:"completed_at"`
}

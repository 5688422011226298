package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionType is the closed set of question kinds the engine can grade.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	Matching       QuestionType = "matching"
	Rewrite        QuestionType = "rewrite"
)

// UnmarshalJSON accepts "short_answer" as an alias of "rewrite" (exercise
// authoring uses the former, placement the latter; grading is identical).
func (t *QuestionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch QuestionType(s) {
	case MultipleChoice, TrueFalse, FillBlank, Matching, Rewrite:
		*t = QuestionType(s)
	case "short_answer":
		*t = Rewrite
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidInput, s)
	}
	return nil
}

// Skill tags a placement question with the ability it probes.
type Skill string

const (
	SkillListening  Skill = "listening"
	SkillReading    Skill = "reading"
	SkillGrammar    Skill = "grammar"
	SkillVocabulary Skill = "vocabulary"
)

func (s Skill) Valid() bool {
	switch s {
	case SkillListening, SkillReading, SkillGrammar, SkillVocabulary:
		return true
	}
	return false
}

// Question is one bank item. Immutable once its owning test or exercise is
// published. Answer holds the key for the four string-graded kinds; AnswerMap
// holds it for matching questions.
type Question struct {
	ID        string            `json:"id"`
	Type      QuestionType      `json:"type"`
	Prompt    string            `json:"prompt"`
	Points    float64           `json:"points"`
	Options   []string          `json:"options,omitempty"`
	Answer    string            `json:"answer,omitempty"`
	AnswerMap map[string]string `json:"answer_map,omitempty"`
	Skill     Skill             `json:"skill,omitempty"`
}

// Submission is the learner's raw input: question id -> answer string.
type Submission struct {
	Answers        map[string]string `json:"answers"`
	ElapsedSeconds int               `json:"elapsed_seconds,omitempty"`
}

// ValidateQuestions checks an authored question set before publication and
// applies the default of 1 point per question.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("%w: at least one question required", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(qs))
	for i := range qs {
		q := &qs[i]
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("%w: question %d missing id", ErrInvalidInput, i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidInput, q.ID)
		}
		seen[q.ID] = struct{}{}
		if q.Points <= 0 {
			q.Points = 1
		}
		switch q.Type {
		case Matching:
			if len(q.AnswerMap) == 0 {
				return fmt.Errorf("%w: question %q needs an answer map", ErrInvalidInput, q.ID)
			}
		case MultipleChoice, TrueFalse, FillBlank, Rewrite:
			if strings.TrimSpace(q.Answer) == "" {
				return fmt.Errorf("%w: question %q needs an answer key", ErrInvalidInput, q.ID)
			}
		default:
			return fmt.Errorf("%w: unknown question type %q", ErrInvalidInput, q.Type)
		}
		if q.Skill != "" && !q.Skill.Valid() {
			return fmt.Errorf("%w: unknown skill %q", ErrInvalidInput, q.Skill)
		}
	}
	return nil
}

// Sanitize strips answer keys from a question set before serving it to
// learners.
func Sanitize(qs []Question) []Question {
	out := make([]Question, len(qs))
	copy(out, qs)
	for i := range out {
		out[i].Answer = ""
		out[i].AnswerMap = nil
	}
	return out
}

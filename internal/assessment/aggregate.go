package assessment

import (
	"fmt"
	"math"
)

// Tally is the aggregate outcome of grading one submission against one
// question set.
type Tally struct {
	Score          float64
	TotalPoints    float64
	CorrectCount   int
	TotalQuestions int

	skillOrder    []Skill
	skillEarned   map[Skill]float64
	skillPossible map[Skill]float64
}

// Aggregate walks the question set exactly once: every question contributes
// its points to TotalPoints (and to its skill's possible bucket), correct
// answers additionally to Score. A submission without an answers map and a
// zero-question set are rejected up front so Percent never divides by zero.
func Aggregate(questions []Question, sub Submission) (Tally, error) {
	if sub.Answers == nil {
		return Tally{}, fmt.Errorf("%w: answers map required", ErrInvalidInput)
	}
	if len(questions) == 0 {
		return Tally{}, fmt.Errorf("%w: question set is empty", ErrInvalidInput)
	}

	t := Tally{
		TotalQuestions: len(questions),
		skillEarned:    map[Skill]float64{},
		skillPossible:  map[Skill]float64{},
	}
	for _, q := range questions {
		pts := q.Points
		if pts <= 0 {
			pts = 1
		}
		t.TotalPoints += pts

		answer, answered := sub.Answers[q.ID]
		correct := answered && IsCorrect(q, answer)
		if correct {
			t.Score += pts
			t.CorrectCount++
		}
		if q.Skill != "" {
			if _, seen := t.skillPossible[q.Skill]; !seen {
				t.skillOrder = append(t.skillOrder, q.Skill)
			}
			t.skillPossible[q.Skill] += pts
			if correct {
				t.skillEarned[q.Skill] += pts
			}
		}
	}
	if t.TotalPoints <= 0 {
		return Tally{}, fmt.Errorf("%w: question set has no points", ErrInvalidInput)
	}
	return t, nil
}

// Percent is the unrounded overall percentage. Aggregate guarantees
// TotalPoints > 0.
func (t Tally) Percent() float64 {
	return 100 * t.Score / t.TotalPoints
}

// SkillBreakdown yields per-skill integer percentages in first-occurrence
// order. Skills that carried no points are left out rather than divided by
// zero.
func (t Tally) SkillBreakdown() SkillBreakdown {
	var b SkillBreakdown
	for _, s := range t.skillOrder {
		possible := t.skillPossible[s]
		if possible <= 0 {
			continue
		}
		b.Set(s, int(math.Round(100*t.skillEarned[s]/possible)))
	}
	return b
}

// Round2 rounds to two decimal places. Exercise percentages are stored this
// way; placement percentages stay unrounded until classification, and the
// asymmetry is deliberate (downstream thresholds are calibrated to the
// unrounded value).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

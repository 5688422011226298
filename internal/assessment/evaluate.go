package assessment

import (
	"encoding/json"
	"strings"
)

// IsCorrect decides whether a learner's raw answer matches the question's
// key. It never fails: malformed or adversarial input simply grades as
// incorrect. The switch lists every QuestionType; keep it in sync with the
// constants in question.go when adding a kind.
func IsCorrect(q Question, answer string) bool {
	switch q.Type {
	case MultipleChoice, TrueFalse, FillBlank, Rewrite:
		return equalFold(answer, q.Answer)
	case Matching:
		return matchingEqual(answer, q.AnswerMap)
	}
	return false
}

// equalFold is the shared rule for the four string-keyed kinds:
// case-insensitive equality after trimming surrounding whitespace. No fuzzy
// matching and no partial credit.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// matchingEqual parses the learner's answer as a JSON object of pair keys and
// requires structural equality with the key: same entries regardless of the
// serialization order. A parse failure grades as incorrect.
func matchingEqual(raw string, key map[string]string) bool {
	if len(key) == 0 {
		return false
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		return false
	}
	if len(got) != len(key) {
		return false
	}
	for k, want := range key {
		if got[k] != want {
			return false
		}
	}
	return true
}

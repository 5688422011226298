package assessment

import "testing"

func TestIsCorrectStringKinds(t *testing.T) {
	tests := []struct {
		name   string
		typ    QuestionType
		key    string
		answer string
		want   bool
	}{
		{"mcq exact", MultipleChoice, "B", "B", true},
		{"mcq case", MultipleChoice, "b", "B", true},
		{"mcq whitespace", MultipleChoice, "B", "  B  ", true},
		{"mcq wrong", MultipleChoice, "B", "C", false},
		{"true_false", TrueFalse, "true", "TRUE", true},
		{"fill_blank trimmed", FillBlank, "went", " went ", true},
		{"fill_blank wrong", FillBlank, "went", "goed", false},
		{"rewrite literal only", Rewrite, "She has gone home", "she has gone home", true},
		{"rewrite near miss stays wrong", Rewrite, "She has gone home", "She has gone to home", false},
		{"empty answer", MultipleChoice, "B", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{ID: "q1", Type: tt.typ, Answer: tt.key, Points: 1}
			if got := IsCorrect(q, tt.answer); got != tt.want {
				t.Errorf("IsCorrect(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestIsCorrectMatching(t *testing.T) {
	key := map[string]string{"1": "A", "2": "B"}
	q := Question{ID: "m1", Type: Matching, AnswerMap: key, Points: 1}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"identical", `{"1":"A","2":"B"}`, true},
		{"different key order", `{"2":"B","1":"A"}`, true},
		{"missing key", `{"1":"A"}`, false},
		{"extra key", `{"1":"A","2":"B","3":"C"}`, false},
		{"wrong value", `{"1":"A","2":"C"}`, false},
		{"malformed json", `{"1":"A",`, false},
		{"not an object", `["A","B"]`, false},
		{"empty string", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCorrect(q, tt.answer); got != tt.want {
				t.Errorf("IsCorrect(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestIsCorrectMatchingEmptyKeyNeverCorrect(t *testing.T) {
	q := Question{ID: "m2", Type: Matching, Points: 1}
	if IsCorrect(q, `{}`) {
		t.Error("matching question without an answer map must never grade correct")
	}
}

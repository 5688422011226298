package exercise

import (
	"context"
	"errors"
	"testing"

	"github.com/lingopath/lingopath-lms/internal/assessment"
)

type fakeProgression struct {
	calls  int
	userID string
	score  float64
	err    error
}

func (f *fakeProgression) OnExerciseCompleted(_ context.Context, userID string, score float64) error {
	f.calls++
	f.userID = userID
	f.score = score
	return f.err
}

func seedExercise(t *testing.T, store Store) {
	t.Helper()
	ex := Exercise{
		ID:           "ex-1",
		LessonID:     "lesson-1",
		Title:        "Past tense drill",
		PassingScore: 70,
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.MultipleChoice, Answer: "A", Points: 1},
			{ID: "q2", Type: assessment.TrueFalse, Answer: "false", Points: 1},
			{ID: "q3", Type: assessment.FillBlank, Answer: "went", Points: 1},
			{ID: "q4", Type: assessment.Rewrite, Answer: "He did not go", Points: 1},
		},
	}
	if err := store.PutExercise(context.Background(), ex); err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
}

func TestSubmitThreeOfFourPasses(t *testing.T) {
	store := NewInMemoryStore()
	seedExercise(t, store)
	prog := &fakeProgression{}
	svc := NewService(store, prog, nil)

	res, err := svc.Submit(context.Background(), "u1", "ex-1", assessment.Submission{
		Answers: map[string]string{
			"q1": "A",
			"q2": "false",
			"q3": "went",
			"q4": "He went not", // wrong
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 75 {
		t.Errorf("score = %v, want 75", res.Score)
	}
	if res.CorrectCount != 3 || res.TotalQuestions != 4 {
		t.Errorf("counts = %d/%d, want 3/4", res.CorrectCount, res.TotalQuestions)
	}
	if !res.Passed {
		t.Error("75 >= 70 must pass")
	}
	if prog.calls != 1 {
		t.Errorf("cascade calls = %d, want 1", prog.calls)
	}
	if prog.userID != "u1" || prog.score != 75 {
		t.Errorf("cascade saw (%s, %v), want (u1, 75)", prog.userID, prog.score)
	}
}

func TestSubmitBelowThresholdFailsButStillCascades(t *testing.T) {
	store := NewInMemoryStore()
	seedExercise(t, store)
	prog := &fakeProgression{}
	svc := NewService(store, prog, nil)

	res, err := svc.Submit(context.Background(), "u1", "ex-1", assessment.Submission{
		Answers: map[string]string{"q1": "A"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 25 || res.Passed {
		t.Errorf("got score=%v passed=%v, want 25/false", res.Score, res.Passed)
	}
	if prog.calls != 1 {
		t.Errorf("cascade calls = %d, want 1 (cascade fires on any completion)", prog.calls)
	}
}

func TestSubmitCascadeFailureIsSwallowed(t *testing.T) {
	store := NewInMemoryStore()
	seedExercise(t, store)
	prog := &fakeProgression{err: errors.New("gamification db down")}
	svc := NewService(store, prog, nil)

	res, err := svc.Submit(context.Background(), "u1", "ex-1", assessment.Submission{
		Answers: map[string]string{"q1": "A", "q2": "false", "q3": "went", "q4": "He did not go"},
	})
	if err != nil {
		t.Fatalf("cascade failure must not surface, got %v", err)
	}
	if res.Score != 100 || !res.Passed {
		t.Errorf("grade lost to cascade failure: score=%v passed=%v", res.Score, res.Passed)
	}

	// The grade was persisted despite the failing cascade.
	results, err := store.ResultsByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
}

func TestSubmitTwoDecimalRounding(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.PutExercise(context.Background(), Exercise{
		ID:           "ex-3",
		Title:        "Thirds",
		PassingScore: 60,
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.MultipleChoice, Answer: "A", Points: 1},
			{ID: "q2", Type: assessment.MultipleChoice, Answer: "A", Points: 1},
			{ID: "q3", Type: assessment.MultipleChoice, Answer: "A", Points: 1},
		},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewService(store, nil, nil)
	res, err := svc.Submit(context.Background(), "u1", "ex-3", assessment.Submission{
		Answers: map[string]string{"q1": "A", "q2": "A"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 66.67 {
		t.Errorf("score = %v, want 66.67 (two decimal places)", res.Score)
	}
	if !res.Passed {
		t.Error("66.67 >= 60 must pass")
	}
}

func TestSubmitUnknownExercise(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil, nil)
	_, err := svc.Submit(context.Background(), "u1", "missing", assessment.Submission{
		Answers: map[string]string{},
	})
	if !errors.Is(err, assessment.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitMissingAnswersRejectedBeforeGrading(t *testing.T) {
	store := NewInMemoryStore()
	seedExercise(t, store)
	prog := &fakeProgression{}
	svc := NewService(store, prog, nil)

	_, err := svc.Submit(context.Background(), "u1", "ex-1", assessment.Submission{})
	if !errors.Is(err, assessment.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if prog.calls != 0 {
		t.Errorf("cascade fired on rejected submission")
	}
}

func TestSubmitZeroQuestionExercise(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.PutExercise(context.Background(), Exercise{ID: "ex-empty", PassingScore: 50}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewService(store, nil, nil)
	_, err := svc.Submit(context.Background(), "u1", "ex-empty", assessment.Submission{
		Answers: map[string]string{},
	})
	if !errors.Is(err, assessment.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput (never a zero result)", err)
	}
}

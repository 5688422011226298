package placement

import (
	"context"
	"errors"
	"testing"

	"github.com/lingopath/lingopath-lms/internal/assessment"
)

func seedService(t *testing.T) (*Service, Store) {
	t.Helper()
	store := NewInMemoryStore()
	ctx := context.Background()
	test := Test{
		ID:     "pt-1",
		Title:  "Placement",
		Active: true,
		Questions: []assessment.Question{
			{ID: "g1", Type: assessment.MultipleChoice, Answer: "B", Points: 1, Skill: assessment.SkillGrammar},
			{ID: "g2", Type: assessment.TrueFalse, Answer: "true", Points: 1, Skill: assessment.SkillGrammar},
			{ID: "r1", Type: assessment.FillBlank, Answer: "went", Points: 1, Skill: assessment.SkillReading},
			{ID: "r2", Type: assessment.Matching, AnswerMap: map[string]string{"1": "A", "2": "B"}, Points: 1, Skill: assessment.SkillReading},
		},
	}
	if err := store.PutTest(ctx, test); err != nil {
		t.Fatalf("seed test: %v", err)
	}
	return NewService(store, nil), store
}

func allCorrect() assessment.Submission {
	return assessment.Submission{Answers: map[string]string{
		"g1": "B",
		"g2": "TRUE",
		"r1": " went ",
		"r2": `{"2":"B","1":"A"}`,
	}, ElapsedSeconds: 420}
}

func TestSubmitAllCorrectClassifiesC2(t *testing.T) {
	svc, _ := seedService(t)
	res, err := svc.Submit(context.Background(), "u1", allCorrect())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 4 || res.TotalPoints != 4 || res.Percentage != 100 {
		t.Errorf("score = %v/%v (%v%%), want 4/4 (100%%)", res.Score, res.TotalPoints, res.Percentage)
	}
	if res.Level != C2 {
		t.Errorf("level = %s, want C2", res.Level)
	}
	if g, _ := res.SkillBreakdown.Get(assessment.SkillGrammar); g != 100 {
		t.Errorf("grammar = %d, want 100", g)
	}
	if r, _ := res.SkillBreakdown.Get(assessment.SkillReading); r != 100 {
		t.Errorf("reading = %d, want 100", r)
	}
	if res.CanRetake {
		t.Error("fresh result must have CanRetake=false")
	}
	if res.TimeSpentSec != 420 {
		t.Errorf("time spent = %d, want 420", res.TimeSpentSec)
	}
}

func TestSubmitSecondAttemptDenied(t *testing.T) {
	svc, _ := seedService(t)
	ctx := context.Background()
	if _, err := svc.Submit(ctx, "u1", allCorrect()); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	_, err := svc.Submit(ctx, "u1", allCorrect())
	if !errors.Is(err, assessment.ErrPermissionDenied) {
		t.Fatalf("second attempt: err = %v, want ErrPermissionDenied", err)
	}
}

func TestUnlockAllowsExactlyOneRetake(t *testing.T) {
	svc, _ := seedService(t)
	ctx := context.Background()
	first, err := svc.Submit(ctx, "u1", allCorrect())
	if err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if err := svc.AllowRetake(ctx, first.ID); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", allCorrect()); err != nil {
		t.Fatalf("retake after unlock: %v", err)
	}
	// The fresh result relocks the gate.
	_, err = svc.Submit(ctx, "u1", allCorrect())
	if !errors.Is(err, assessment.ErrPermissionDenied) {
		t.Fatalf("third attempt: err = %v, want ErrPermissionDenied", err)
	}
}

func TestHistoryOnArchivedTestDoesNotBlock(t *testing.T) {
	svc, store := seedService(t)
	ctx := context.Background()
	if _, err := svc.Submit(ctx, "u1", allCorrect()); err != nil {
		t.Fatalf("attempt on pt-1: %v", err)
	}

	next := Test{
		ID:    "pt-2",
		Title: "Placement v2",
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.Rewrite, Answer: "She has gone home", Points: 1},
		},
	}
	if err := store.PutTest(ctx, next); err != nil {
		t.Fatalf("seed pt-2: %v", err)
	}
	if err := store.Activate(ctx, "pt-2"); err != nil {
		t.Fatalf("activate pt-2: %v", err)
	}

	res, err := svc.Submit(ctx, "u1", assessment.Submission{Answers: map[string]string{"q1": "she has gone home"}})
	if err != nil {
		t.Fatalf("attempt on newly active test: %v", err)
	}
	if res.TestID != "pt-2" {
		t.Errorf("result test = %s, want pt-2", res.TestID)
	}
	if res.Level != C2 {
		t.Errorf("level = %s, want C2", res.Level)
	}
}

func TestSubmitRejectsMissingAnswers(t *testing.T) {
	svc, _ := seedService(t)
	_, err := svc.Submit(context.Background(), "u1", assessment.Submission{})
	if !errors.Is(err, assessment.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSubmitNoActiveTest(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil)
	_, err := svc.Submit(context.Background(), "u1", assessment.Submission{Answers: map[string]string{}})
	if !errors.Is(err, assessment.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeniedSubmissionPersistsNothing(t *testing.T) {
	svc, store := seedService(t)
	ctx := context.Background()
	if _, err := svc.Submit(ctx, "u1", allCorrect()); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", allCorrect()); err == nil {
		t.Fatal("expected denial")
	}
	results, err := store.ResultsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 (denied attempt must not persist)", len(results))
	}
}

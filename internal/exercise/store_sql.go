package exercise

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lingopath/lingopath-lms/internal/assessment"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutExercise(ctx context.Context, e Exercise) error {
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exercises (id, lesson_id, title, passing_score, questions_json, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET lesson_id=EXCLUDED.lesson_id, title=EXCLUDED.title,
		   passing_score=EXCLUDED.passing_score, questions_json=EXCLUDED.questions_json`,
		e.ID, e.LessonID, e.Title, e.PassingScore, string(qj), e.CreatedAt)
	return err
}

func (s *SQLStore) GetExercise(ctx context.Context, id string) (Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, lesson_id, title, passing_score, questions_json, created_at FROM exercises WHERE id=$1`, id)
	var e Exercise
	var qjson string
	if err := row.Scan(&e.ID, &e.LessonID, &e.Title, &e.PassingScore, &qjson, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exercise{}, fmt.Errorf("%w: exercise %q", assessment.ErrNotFound, id)
		}
		return Exercise{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exercise{}, err
	}
	return e, nil
}

func (s *SQLStore) CreateResult(ctx context.Context, r Result) error {
	aj, err := json.Marshal(r.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exercise_results
		   (id, user_id, exercise_id, answers_json, score, points_earned, total_points,
		    correct_count, total_questions, passed, time_spent_sec, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.ID, r.UserID, r.ExerciseID, string(aj), r.Score, r.PointsEarned, r.TotalPoints,
		r.CorrectCount, r.TotalQuestions, r.Passed, r.TimeSpentSec, r.CompletedAt)
	return err
}

func (s *SQLStore) ResultsByUser(ctx context.Context, userID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, exercise_id, answers_json, score, points_earned, total_points,
		        correct_count, total_questions, passed, time_spent_sec, completed_at
		   FROM exercise_results WHERE user_id=$1 ORDER BY seq DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var r Result
		var ajson string
		if err := rows.Scan(&r.ID, &r.UserID, &r.ExerciseID, &ajson, &r.Score, &r.PointsEarned,
			&r.TotalPoints, &r.CorrectCount, &r.TotalQuestions, &r.Passed, &r.TimeSpentSec,
			&r.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ajson), &r.Answers); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

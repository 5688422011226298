package placement

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lingopath/lingopath-lms/internal/assessment"
)

// SQLStore persists placement data over database/sql. Questions and answers
// travel as JSON columns; skill breakdowns keep their stored key order via
// assessment.SkillBreakdown.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO placement_tests (id, title, active, questions_json, created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json`,
		t.ID, t.Title, t.Active, string(qj), t.CreatedAt)
	return err
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, active, questions_json, created_at FROM placement_tests WHERE id=$1`, id)
	return scanTest(row)
}

func (s *SQLStore) ActiveTest(ctx context.Context) (Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, active, questions_json, created_at FROM placement_tests WHERE active ORDER BY created_at DESC LIMIT 1`)
	t, err := scanTest(row)
	if errors.Is(err, assessment.ErrNotFound) {
		return Test{}, fmt.Errorf("%w: no active placement test", assessment.ErrNotFound)
	}
	return t, err
}

func (s *SQLStore) Activate(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE placement_tests SET active=FALSE WHERE active`); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE placement_tests SET active=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: placement test %q", assessment.ErrNotFound, id)
	}
	return tx.Commit()
}

func (s *SQLStore) CreateResult(ctx context.Context, r Result) error {
	aj, err := json.Marshal(r.Answers)
	if err != nil {
		return err
	}
	bj, err := json.Marshal(r.SkillBreakdown)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO placement_results
		   (id, user_id, test_id, answers_json, score, total_points, percentage,
		    skill_breakdown_json, level, time_spent_sec, can_retake, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.ID, r.UserID, r.TestID, string(aj), r.Score, r.TotalPoints, r.Percentage,
		string(bj), string(r.Level), r.TimeSpentSec, r.CanRetake, r.CompletedAt)
	return err
}

func (s *SQLStore) LatestResult(ctx context.Context, userID, testID string) (*Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, test_id, answers_json, score, total_points, percentage,
		        skill_breakdown_json, level, time_spent_sec, can_retake, completed_at
		   FROM placement_results
		  WHERE user_id=$1 AND test_id=$2
		  ORDER BY seq DESC LIMIT 1`, userID, testID)
	r, err := scanResult(row)
	if errors.Is(err, assessment.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLStore) AllowRetake(ctx context.Context, resultID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE placement_results SET can_retake=TRUE WHERE id=$1`, resultID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: placement result %q", assessment.ErrNotFound, resultID)
	}
	return nil
}

func (s *SQLStore) ResultsByUser(ctx context.Context, userID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, test_id, answers_json, score, total_points, percentage,
		        skill_breakdown_json, level, time_spent_sec, can_retake, completed_at
		   FROM placement_results WHERE user_id=$1 ORDER BY seq DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTest(row rowScanner) (Test, error) {
	var t Test
	var qjson string
	if err := row.Scan(&t.ID, &t.Title, &t.Active, &qjson, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, fmt.Errorf("%w: placement test", assessment.ErrNotFound)
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, err
	}
	return t, nil
}

func scanResult(row rowScanner) (Result, error) {
	var r Result
	var ajson, bjson, level string
	if err := row.Scan(&r.ID, &r.UserID, &r.TestID, &ajson, &r.Score, &r.TotalPoints,
		&r.Percentage, &bjson, &level, &r.TimeSpentSec, &r.CanRetake, &r.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, fmt.Errorf("%w: placement result", assessment.ErrNotFound)
		}
		return Result{}, err
	}
	r.Level = Level(level)
	if err := json.Unmarshal([]byte(ajson), &r.Answers); err != nil {
		return Result{}, err
	}
	if err := json.Unmarshal([]byte(bjson), &r.SkillBreakdown); err != nil {
		return Result{}, err
	}
	return r, nil
}

package gamification

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// SQLStore persists progression state. The unlocked_achievements table
// carries UNIQUE(user_id, achievement_type); Unlock leans on it with a
// conflict no-op, which is what makes the cascade safe under concurrent
// submissions by the same learner.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Seed inserts the achievement catalog, skipping rows that already exist.
func (s *SQLStore) Seed(ctx context.Context) error {
	for _, a := range Catalog() {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO achievements (type, name, description, points_threshold)
			 VALUES ($1,$2,$3,$4) ON CONFLICT (type) DO NOTHING`,
			string(a.Type), a.Name, a.Description, a.PointsThreshold)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) Progress(ctx context.Context, userID string) (Progress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT total_points, streak_days, last_activity_date FROM learner_progress WHERE user_id=$1`, userID)
	p := Progress{UserID: userID}
	var lastDate sql.NullString
	if err := row.Scan(&p.TotalPoints, &p.StreakDays, &lastDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, nil
		}
		return Progress{}, err
	}
	if lastDate.Valid && lastDate.String != "" {
		t, err := time.ParseInLocation(dateLayout, lastDate.String, time.UTC)
		if err != nil {
			return Progress{}, err
		}
		p.LastActivity = t
	}
	return p, nil
}

func (s *SQLStore) AddPoints(ctx context.Context, userID string, points int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learner_progress (user_id, total_points, streak_days)
		 VALUES ($1,$2,0)
		 ON CONFLICT (user_id) DO UPDATE SET total_points = learner_progress.total_points + $2`,
		userID, points)
	return err
}

func (s *SQLStore) SaveProgress(ctx context.Context, p Progress) error {
	var lastDate any
	if !p.LastActivity.IsZero() {
		lastDate = p.LastActivity.UTC().Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learner_progress (user_id, total_points, streak_days, last_activity_date)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id) DO UPDATE SET streak_days=EXCLUDED.streak_days,
		   last_activity_date=EXCLUDED.last_activity_date`,
		p.UserID, p.TotalPoints, p.StreakDays, lastDate)
	return err
}

func (s *SQLStore) Unlock(ctx context.Context, userID string, typ AchievementType) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO unlocked_achievements (user_id, achievement_type, earned_at)
		 VALUES ($1,$2,$3)
		 ON CONFLICT (user_id, achievement_type) DO NOTHING`,
		userID, string(typ), time.Now().Unix())
	return err
}

func (s *SQLStore) UnlockedByUser(ctx context.Context, userID string) ([]Unlocked, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, achievement_type, earned_at FROM unlocked_achievements
		  WHERE user_id=$1 ORDER BY earned_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Unlocked{}
	for rows.Next() {
		var u Unlocked
		var typ string
		if err := rows.Scan(&u.UserID, &typ, &u.EarnedAt); err != nil {
			return nil, err
		}
		u.Type = AchievementType(typ)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) Achievements(ctx context.Context) ([]Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, name, description, points_threshold FROM achievements ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Achievement{}
	for rows.Next() {
		var a Achievement
		var typ string
		if err := rows.Scan(&typ, &a.Name, &a.Description, &a.PointsThreshold); err != nil {
			return nil, err
		}
		a.Type = AchievementType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) CompletedExerciseCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exercise_results WHERE user_id=$1`, userID).Scan(&n)
	return n, err
}

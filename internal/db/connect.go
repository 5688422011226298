package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:lingopath.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/lingopath?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS placement_tests (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 0,
  questions_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS placement_results (
  seq INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  test_id TEXT NOT NULL REFERENCES placement_tests(id),
  answers_json TEXT NOT NULL,
  score REAL NOT NULL,
  total_points REAL NOT NULL,
  percentage REAL NOT NULL,
  skill_breakdown_json TEXT NOT NULL,
  level TEXT NOT NULL,
  time_spent_sec INTEGER NOT NULL DEFAULT 0,
  can_retake INTEGER NOT NULL DEFAULT 0,
  completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_placement_results_user_test
  ON placement_results(user_id, test_id, seq);

CREATE TABLE IF NOT EXISTS exercises (
  id TEXT PRIMARY KEY,
  lesson_id TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  passing_score REAL NOT NULL,
  questions_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exercise_results (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  exercise_id TEXT NOT NULL REFERENCES exercises(id),
  answers_json TEXT NOT NULL,
  score REAL NOT NULL,
  points_earned REAL NOT NULL,
  total_points REAL NOT NULL,
  correct_count INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  passed INTEGER NOT NULL,
  time_spent_sec INTEGER NOT NULL DEFAULT 0,
  completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exercise_results_user ON exercise_results(user_id);

CREATE TABLE IF NOT EXISTS learner_progress (
  user_id TEXT PRIMARY KEY,
  total_points INTEGER NOT NULL DEFAULT 0,
  streak_days INTEGER NOT NULL DEFAULT 0,
  last_activity_date TEXT
);

CREATE TABLE IF NOT EXISTS achievements (
  type TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  points_threshold INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS unlocked_achievements (
  user_id TEXT NOT NULL,
  achievement_type TEXT NOT NULL REFERENCES achievements(type),
  earned_at INTEGER NOT NULL,
  UNIQUE(user_id, achievement_type)
);

CREATE TABLE IF NOT EXISTS event_log (
  offset INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                        -- e.g., ExerciseSubmitted
  key TEXT NOT NULL,                        -- natural key: result id
  data TEXT NOT NULL,                       -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS placement_tests (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  active BOOLEAN NOT NULL DEFAULT FALSE,
  questions_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS placement_results (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  test_id TEXT NOT NULL REFERENCES placement_tests(id),
  answers_json TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  total_points DOUBLE PRECISION NOT NULL,
  percentage DOUBLE PRECISION NOT NULL,
  skill_breakdown_json TEXT NOT NULL,
  level TEXT NOT NULL,
  time_spent_sec INTEGER NOT NULL DEFAULT 0,
  can_retake BOOLEAN NOT NULL DEFAULT FALSE,
  completed_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_placement_results_user_test
  ON placement_results(user_id, test_id, seq);

CREATE TABLE IF NOT EXISTS exercises (
  id TEXT PRIMARY KEY,
  lesson_id TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  passing_score DOUBLE PRECISION NOT NULL,
  questions_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercise_results (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  exercise_id TEXT NOT NULL REFERENCES exercises(id),
  answers_json TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  points_earned DOUBLE PRECISION NOT NULL,
  total_points DOUBLE PRECISION NOT NULL,
  correct_count INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  passed BOOLEAN NOT NULL,
  time_spent_sec INTEGER NOT NULL DEFAULT 0,
  completed_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exercise_results_user ON exercise_results(user_id);

CREATE TABLE IF NOT EXISTS learner_progress (
  user_id TEXT PRIMARY KEY,
  total_points INTEGER NOT NULL DEFAULT 0,
  streak_days INTEGER NOT NULL DEFAULT 0,
  last_activity_date TEXT
);

CREATE TABLE IF NOT EXISTS achievements (
  type TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  points_threshold INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS unlocked_achievements (
  user_id TEXT NOT NULL,
  achievement_type TEXT NOT NULL REFERENCES achievements(type),
  earned_at BIGINT NOT NULL,
  UNIQUE(user_id, achievement_type)
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`

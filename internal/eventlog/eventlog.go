// Package eventlog is an append-only audit trail of graded submissions.
// Writes are best-effort: callers log and continue on failure.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Log is the write side consumed by the submission orchestrators.
type Log interface {
	Append(ctx context.Context, typ, key string, data any) error
}

type Repo struct {
	db     *sql.DB
	siteID string
}

func NewRepo(db *sql.DB, siteID string) *Repo {
	if siteID == "" {
		siteID = "local"
	}
	return &Repo{db: db, siteID: siteID}
}

func (r *Repo) Append(ctx context.Context, typ, key string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.siteID, typ, key, string(payload), time.Now().Unix())
	return err
}

package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// EnsureSchema creates the users and attendance_records tables when missing.
// Safe to run on every start.
func (d *DB) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		name          TEXT NOT NULL,
		roll_number   TEXT,
		class_section TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id                          BIGSERIAL PRIMARY KEY,
		student_id                  BIGINT NOT NULL REFERENCES users(id),
		timestamp                   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		status                      TEXT NOT NULL DEFAULT 'present',
		image_url                   TEXT NOT NULL DEFAULT '',
		face_stress_score           INT NOT NULL,
		questionnaire_stress_score  INT NOT NULL,
		final_stress_score          INT NOT NULL,
		questionnaire_response      JSONB NOT NULL,
		face_analysis_data          JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance_records(student_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_time    ON attendance_records(timestamp);
	`
	_, err := d.Client.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

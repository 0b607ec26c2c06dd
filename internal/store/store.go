package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/keywords"
)

// Store keeps fetched jobs and their keywords in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		position    INTEGER NOT NULL,
		job_id      TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		company     TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		posted_at   TEXT NOT NULL DEFAULT '',
		keywords    TEXT NOT NULL DEFAULT '[]',
		fetched_at  TEXT NOT NULL
	)`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveJobs replaces the stored jobs with the provided ones.
func (s *Store) SaveJobs(ctx context.Context, jobs *jsearch.Jobs) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
		return fmt.Errorf("store: clear jobs: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, job := range jobs.Items {
		kw, err := json.Marshal(job.Keywords)
		if err != nil {
			return fmt.Errorf("store: encode keywords of %s: %w", job.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (position, job_id, title, company, location, description, url, posted_at, keywords, fetched_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, job.ID, job.Title, job.Company, job.Location, job.Description, job.URL, job.PostedAt, string(kw), now,
		); err != nil {
			return fmt.Errorf("store: insert %s: %w", job.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// LoadJobs returns the stored jobs in the order they were saved.
func (s *Store) LoadJobs(ctx context.Context) (*jsearch.Jobs, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, title, company, location, description, url, posted_at, keywords
		 FROM jobs ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("store: query jobs: %w", err)
	}
	defer rows.Close()

	jobs := &jsearch.Jobs{}
	for rows.Next() {
		var (
			job jsearch.Job
			kw  string
		)
		if err := rows.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.Description, &job.URL, &job.PostedAt, &kw); err != nil {
			return nil, fmt.Errorf("store: scan job: %w", err)
		}

		var set keywords.Set
		if err := json.Unmarshal([]byte(kw), &set); err != nil {
			return nil, fmt.Errorf("store: decode keywords of %s: %w", job.ID, err)
		}
		if set == nil {
			set = keywords.NewSet()
		}
		job.Keywords = set

		jobs.Items = append(jobs.Items, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate jobs: %w", err)
	}
	return jobs, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count jobs: %w", err)
	}
	return n, nil
}

// LastUpdated returns when the jobs were saved. Zero time means there are no jobs.
func (s *Store) LastUpdated(ctx context.Context) (time.Time, error) {
	var raw sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(fetched_at) FROM jobs`).Scan(&raw); err != nil {
		return time.Time{}, fmt.Errorf("store: last updated: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: parse fetched_at: %w", err)
	}
	return t, nil
}

// Package repository records per-document extraction jobs in an embedded
// SQLite catalog. The catalog is bookkeeping for batch runs — which
// documents were processed, what stage they reached, how they failed — not
// the artifact store; recipe JSON lives on disk next to it.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/prepline/recipe-extractor/constants"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS extract_jobs (
	id            TEXT PRIMARY KEY,
	source_path   TEXT NOT NULL,
	content_hash  TEXT NOT NULL,
	status        TEXT NOT NULL,
	stage         TEXT NOT NULL DEFAULT '',
	error_kind    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	output_path   TEXT NOT NULL DEFAULT '',
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_extract_jobs_source ON extract_jobs(source_path);
`

// Job is one extract_jobs row.
type Job struct {
	ID           uuid.UUID
	SourcePath   string
	ContentHash  string
	Status       constants.JobStatus
	Stage        constants.Stage
	ErrorKind    string
	ErrorMessage string
	OutputPath   string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Catalog wraps the SQLite connection.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the catalog at path and applies the schema.
// An empty path opens an in-memory catalog, which is what the batch CLI
// uses with --inmem and what the tests use.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// The batch pipeline is sequential; a single connection avoids SQLite
	// write contention entirely.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}

	logger.Info("catalog.open.ok", "path", path)
	return &Catalog{db: db, logger: logger}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Start inserts a RUNNING job for the document and returns its ID.
func (c *Catalog) Start(ctx context.Context, sourcePath, contentHash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO extract_jobs (id, source_path, content_hash, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id.String(), sourcePath, contentHash, string(constants.JobStatusRunning), time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("start job: %w", err)
	}
	return id, nil
}

// FinishSuccess marks a job SUCCEEDED with the written artifact path.
func (c *Catalog) FinishSuccess(ctx context.Context, id uuid.UUID, outputPath string) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, stage = ?, output_path = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusSucceeded), string(constants.StageWrite), outputPath, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

// FinishFailure marks a job FAILED with the stage reached and error detail.
func (c *Catalog) FinishFailure(ctx context.Context, id uuid.UUID, stage constants.Stage, kind, message string) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, stage = ?, error_kind = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusFailed), string(stage), kind, message, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}

// GetByID loads one job row.
func (c *Catalog) GetByID(ctx context.Context, id uuid.UUID) (Job, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, source_path, content_hash, status, stage, error_kind, error_message, output_path, started_at, finished_at
		 FROM extract_jobs WHERE id = ?`, id.String(),
	)
	return scanJob(row)
}

// ListJobs returns all jobs in insertion order.
func (c *Catalog) ListJobs(ctx context.Context) ([]Job, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, source_path, content_hash, status, stage, error_kind, error_message, output_path, started_at, finished_at
		 FROM extract_jobs ORDER BY started_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			c.logger.Warn("catalog.rows.close_error", "error", err)
		}
	}()

	var out []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (Job, error) {
	var (
		j        Job
		idStr    string
		status   string
		stage    string
		finished sql.NullTime
	)
	err := s.Scan(&idStr, &j.SourcePath, &j.ContentHash, &status, &stage,
		&j.ErrorKind, &j.ErrorMessage, &j.OutputPath, &j.StartedAt, &finished)
	if err != nil {
		return Job{}, fmt.Errorf("scan job: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Job{}, fmt.Errorf("parse job id: %w", err)
	}
	j.ID = id
	j.Status = constants.JobStatus(status)
	j.Stage = constants.Stage(stage)
	if finished.Valid {
		t := finished.Time
		j.FinishedAt = &t
	}
	return j, nil
}

// Package db provides PostgreSQL persistence for generation history.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-generator/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Generation statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Generation is one recorded resume generation.
type Generation struct {
	ID          uuid.UUID             `json:"id"`
	RoleTitle   string                `json:"role_title"`
	Seniority   string                `json:"seniority,omitempty"`
	Status      string                `json:"status"`
	JobQuery    *types.JobQuery       `json:"job_query,omitempty"`
	Resume      *types.ResumeDocument `json:"resume,omitempty"`
	Narrative   string                `json:"narrative,omitempty"`
	Warnings    []string              `json:"warnings,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// GenerationSummary is a lightweight view for listings.
type GenerationSummary struct {
	ID          uuid.UUID  `json:"id"`
	RoleTitle   string     `json:"role_title"`
	Seniority   string     `json:"seniority,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateGeneration records the start of a generation and returns its ID.
func (db *DB) CreateGeneration(ctx context.Context, roleTitle, seniority string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO generations (role_title, seniority, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		roleTitle, seniority, StatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create generation: %w", err)
	}
	return id, nil
}

// CompleteGeneration stores the outcome of a generation.
func (db *DB) CompleteGeneration(ctx context.Context, id uuid.UUID, status string, query *types.JobQuery, resume *types.ResumeDocument, narrative string, warnings []string) error {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to marshal job query: %w", err)
	}
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE generations
		 SET status = $1, job_query = $2, resume = $3, narrative = $4, warnings = $5, completed_at = NOW()
		 WHERE id = $6`,
		status, queryJSON, resumeJSON, narrative, warnings, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete generation: %w", err)
	}
	return nil
}

// FailGeneration marks a generation as failed without a result.
func (db *DB) FailGeneration(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generations SET status = $1, completed_at = NOW() WHERE id = $2`,
		StatusFailed, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark generation failed: %w", err)
	}
	return nil
}

// GetGeneration retrieves a generation by ID. Returns nil when the ID
// is unknown.
func (db *DB) GetGeneration(ctx context.Context, id uuid.UUID) (*Generation, error) {
	var gen Generation
	var queryJSON, resumeJSON []byte
	var narrative *string

	err := db.pool.QueryRow(ctx,
		`SELECT id, role_title, COALESCE(seniority, ''), status, job_query, resume, narrative, warnings, created_at, completed_at
		 FROM generations WHERE id = $1`,
		id,
	).Scan(&gen.ID, &gen.RoleTitle, &gen.Seniority, &gen.Status, &queryJSON, &resumeJSON, &narrative, &gen.Warnings, &gen.CreatedAt, &gen.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}

	if narrative != nil {
		gen.Narrative = *narrative
	}
	if len(queryJSON) > 0 {
		if err := json.Unmarshal(queryJSON, &gen.JobQuery); err != nil {
			return nil, fmt.Errorf("failed to decode stored job query: %w", err)
		}
	}
	if len(resumeJSON) > 0 {
		if err := json.Unmarshal(resumeJSON, &gen.Resume); err != nil {
			return nil, fmt.Errorf("failed to decode stored resume: %w", err)
		}
	}
	return &gen, nil
}

// ListGenerations retrieves recent generations, newest first.
func (db *DB) ListGenerations(ctx context.Context, limit int) ([]GenerationSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, role_title, COALESCE(seniority, ''), status, created_at, completed_at
		 FROM generations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var generations []GenerationSummary
	for rows.Next() {
		var gen GenerationSummary
		if err := rows.Scan(&gen.ID, &gen.RoleTitle, &gen.Seniority, &gen.Status, &gen.CreatedAt, &gen.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		generations = append(generations, gen)
	}
	return generations, nil
}

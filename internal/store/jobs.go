package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hireflow/internal/hiring"
)

// Jobs is the SQLite-backed job posting store.
type Jobs struct {
	db *sql.DB
}

func NewJobs(db *sql.DB) *Jobs {
	return &Jobs{db: db}
}

// Put inserts or fully replaces the job posting.
func (j *Jobs) Put(req *hiring.JobRequirements) error {
	doc, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", req.ID, err)
	}

	_, err = j.db.Exec(`
		INSERT INTO jobs (id, doc, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		req.ID, string(doc), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store job %s: %w", req.ID, err)
	}
	return nil
}

// Get fetches one job posting by id.
func (j *Jobs) Get(id string) (*hiring.JobRequirements, error) {
	var doc string
	err := j.db.QueryRow(`SELECT doc FROM jobs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}

	var req hiring.JobRequirements
	if err := json.Unmarshal([]byte(doc), &req); err != nil {
		return nil, fmt.Errorf("decode job document: %w", err)
	}
	return &req, nil
}

// List returns all job postings.
func (j *Jobs) List() ([]*hiring.JobRequirements, error) {
	rows, err := j.db.Query(`SELECT doc FROM jobs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []*hiring.JobRequirements
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		var req hiring.JobRequirements
		if err := json.Unmarshal([]byte(doc), &req); err != nil {
			return nil, fmt.Errorf("decode job document: %w", err)
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}

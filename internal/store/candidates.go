package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hireflow/internal/hiring"
)

// Candidates is the SQLite-backed candidate store.
type Candidates struct {
	db *sql.DB
}

func NewCandidates(db *sql.DB) *Candidates {
	return &Candidates{db: db}
}

// Put inserts or fully replaces the candidate document.
func (c *Candidates) Put(cand *hiring.Candidate) error {
	doc, err := json.Marshal(cand)
	if err != nil {
		return fmt.Errorf("marshal candidate %s: %w", cand.ID, err)
	}

	_, err = c.db.Exec(`
		INSERT INTO candidates (id, job_id, status, doc, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			job_id = excluded.job_id,
			status = excluded.status,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		cand.ID, cand.JobID, string(cand.Status), string(doc), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store candidate %s: %w", cand.ID, err)
	}
	return nil
}

// Get fetches one candidate by id.
func (c *Candidates) Get(id string) (*hiring.Candidate, error) {
	var doc string
	err := c.db.QueryRow(`SELECT doc FROM candidates WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load candidate %s: %w", id, err)
	}
	return decodeCandidate(doc)
}

// List returns all candidates, most recently updated first.
func (c *Candidates) List() ([]*hiring.Candidate, error) {
	return c.query(`SELECT doc FROM candidates ORDER BY updated_at DESC`)
}

// ListByStatus returns candidates in the given pipeline status.
func (c *Candidates) ListByStatus(status hiring.Status) ([]*hiring.Candidate, error) {
	return c.query(`SELECT doc FROM candidates WHERE status = ? ORDER BY updated_at DESC`, string(status))
}

func (c *Candidates) query(q string, args ...any) ([]*hiring.Candidate, error) {
	rows, err := c.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []*hiring.Candidate
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		cand, err := decodeCandidate(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, cand)
	}
	return out, rows.Err()
}

func decodeCandidate(doc string) (*hiring.Candidate, error) {
	var cand hiring.Candidate
	if err := json.Unmarshal([]byte(doc), &cand); err != nil {
		return nil, fmt.Errorf("decode candidate document: %w", err)
	}
	return &cand, nil
}

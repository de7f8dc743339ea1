package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hireflow/internal/interview"
)

// Sessions is the SQLite-backed session store. It satisfies interview.Store:
// the whole session document is written on every Put, last write wins.
type Sessions struct {
	db *sql.DB
}

func NewSessions(db *sql.DB) *Sessions {
	return &Sessions{db: db}
}

// Get fetches a session by its token. Unknown tokens map to
// interview.ErrNotFound so callers never learn whether a token ever existed.
func (s *Sessions) Get(token string) (*interview.Session, error) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM sessions WHERE token = ?`, token).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", interview.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeSession(doc)
}

// Put inserts or fully replaces the session document.
func (s *Sessions) Put(sess *interview.Session) error {
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.SessionID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (token, session_id, candidate_id, status, doc, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			status = excluded.status,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		sess.Token, sess.SessionID, sess.CandidateID, string(sess.Status), string(doc), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store session %s: %w", sess.SessionID, err)
	}
	return nil
}

// All returns every stored session, most recently updated first.
func (s *Sessions) All() ([]*interview.Session, error) {
	rows, err := s.db.Query(`SELECT doc FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []*interview.Session
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sess, err := decodeSession(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func decodeSession(doc string) (*interview.Session, error) {
	var sess interview.Session
	if err := json.Unmarshal([]byte(doc), &sess); err != nil {
		return nil, fmt.Errorf("decode session document: %w", err)
	}
	if sess.Responses == nil {
		sess.Responses = map[string]interview.Response{}
	}
	if sess.Evaluations == nil {
		sess.Evaluations = map[string]interview.Evaluation{}
	}
	return &sess, nil
}

// Package interview owns the interview session lifecycle: question
// generation, token-addressed session state, per-answer evaluation, and the
// aggregation of evaluations into a phase summary.
package interview

import (
	"errors"
	"time"

	"hireflow/internal/execution"
)

// Session status values. Status only moves forward:
// pending -> in_progress -> completed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var (
	// ErrNotFound marks an unknown session token or question id.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an operation invalid for the session's state, such
	// as answering a completed interview.
	ErrConflict = errors.New("conflict")
	// ErrExpired marks access to a session past its expiry. Expired
	// sessions stay stored; they just stop accepting interaction.
	ErrExpired = errors.New("session expired")
)

// Question is a single technical or behavioral interview question.
type Question struct {
	ID         string `json:"id" mapstructure:"id"`
	Type       string `json:"type" mapstructure:"type"`
	Question   string `json:"question" mapstructure:"question"`
	Skill      string `json:"skill,omitempty" mapstructure:"skill"`
	Competency string `json:"competency,omitempty" mapstructure:"competency"`
	Difficulty string `json:"difficulty" mapstructure:"difficulty"`
}

// Example is a worked input/output pair shown to the candidate.
type Example struct {
	Input       string `json:"input" mapstructure:"input"`
	Output      string `json:"output" mapstructure:"output"`
	Explanation string `json:"explanation,omitempty" mapstructure:"explanation"`
}

// CodingChallenge is a coding question with runnable test cases.
type CodingChallenge struct {
	ID          string               `json:"id" mapstructure:"id"`
	Title       string               `json:"title" mapstructure:"title"`
	Description string               `json:"description" mapstructure:"description"`
	Difficulty  string               `json:"difficulty" mapstructure:"difficulty"`
	Language    string               `json:"language" mapstructure:"language"`
	Concepts    []string             `json:"concepts,omitempty" mapstructure:"concepts"`
	Constraints []string             `json:"constraints,omitempty" mapstructure:"constraints"`
	Examples    []Example            `json:"examples,omitempty" mapstructure:"examples"`
	TestCases   []execution.TestCase `json:"test_cases" mapstructure:"test_cases"`
	Hints       []string             `json:"hints,omitempty" mapstructure:"hints"`
}

// QuestionSet is everything generated for one session. Fallback marks sets
// built from the static bank after the reasoning service failed.
type QuestionSet struct {
	Technical  []Question        `json:"technical"`
	Behavioral []Question        `json:"behavioral"`
	Coding     []CodingChallenge `json:"coding"`
	Fallback   bool              `json:"fallback,omitempty"`
}

// Total counts questions across all three categories.
func (qs *QuestionSet) Total() int {
	return len(qs.Technical) + len(qs.Behavioral) + len(qs.Coding)
}

// findQuestion looks a question id up across technical and behavioral lists.
func (qs *QuestionSet) findQuestion(id string) (*Question, bool) {
	for i := range qs.Technical {
		if qs.Technical[i].ID == id {
			return &qs.Technical[i], true
		}
	}
	for i := range qs.Behavioral {
		if qs.Behavioral[i].ID == id {
			return &qs.Behavioral[i], true
		}
	}
	return nil, false
}

// Response is one recorded answer.
type Response struct {
	Answer      string    `json:"answer"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CodingVerdict combines sandbox test results with a static quality score.
type CodingVerdict struct {
	PassedTests  int                    `json:"passed_tests"`
	TotalTests   int                    `json:"total_tests"`
	TestResults  []execution.TestResult `json:"test_results"`
	QualityScore float64                `json:"code_quality_score"`
	OverallScore float64                `json:"overall_score"`
	// Unexecuted is set when the sandbox was unavailable and the verdict
	// rests on the quality heuristic alone.
	Unexecuted bool `json:"unexecuted,omitempty"`
}

// CodingSubmission is the candidate's code for the session's coding phase.
type CodingSubmission struct {
	Code        string         `json:"code"`
	Language    string         `json:"language"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Verdict     *CodingVerdict `json:"evaluation,omitempty"`
}

// Session is the durable record of one interview. The token is the sole
// credential: whoever holds it is the candidate.
type Session struct {
	SessionID     string `json:"session_id"`
	Token         string `json:"token"`
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title"`

	Status    Status      `json:"status"`
	Questions QuestionSet `json:"questions"`

	Responses   map[string]Response   `json:"responses"`
	Evaluations map[string]Evaluation `json:"evaluations"`
	Coding      *CodingSubmission     `json:"coding_submission,omitempty"`
	Summary     *PhaseSummary         `json:"summary,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// Expired reports whether the session is past its expiry. Checked lazily on
// access; there is no background sweep.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store is the durable keyed session store. Implementations persist the
// whole session document on Put; concurrent writers are last-write-wins on
// the full blob, which is acceptable because one candidate drives one
// session serially. Get returns ErrNotFound for unknown tokens.
type Store interface {
	Get(token string) (*Session, error)
	Put(s *Session) error
	All() ([]*Session, error)
}

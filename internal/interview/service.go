package interview

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/internal/ai"
	"hireflow/internal/execution"
	"hireflow/internal/hiring"
)

// DefaultExpiry is how long an interview link stays usable.
const DefaultExpiry = 7 * 24 * time.Hour

// defaultEvalWorkers bounds concurrent evaluation calls during completion so
// a large session does not stampede the reasoning service.
const defaultEvalWorkers = 4

// Service drives interview sessions end to end: creation, answer intake,
// coding evaluation, and completion.
type Service struct {
	store     Store
	gen       ai.Generator
	evaluator *Evaluator
	runner    execution.Runner
	logger    *zap.Logger

	shape   Shape
	expiry  time.Duration
	baseURL string
	workers int

	now func() time.Time
}

// Option tweaks Service construction.
type Option func(*Service)

// WithShape overrides the question counts per session.
func WithShape(s Shape) Option {
	return func(svc *Service) { svc.shape = s }
}

// WithExpiry overrides the session link lifetime.
func WithExpiry(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.expiry = d
		}
	}
}

// WithBaseURL sets the public URL interview links are built against.
func WithBaseURL(u string) Option {
	return func(svc *Service) { svc.baseURL = strings.TrimRight(u, "/") }
}

// WithEvalWorkers bounds concurrent evaluation calls on completion.
func WithEvalWorkers(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.workers = n
		}
	}
}

// NewService wires the session service. gen may be nil, in which case every
// session runs on the static bank and fallback scoring.
func NewService(store Store, gen ai.Generator, runner execution.Runner, log *zap.Logger, opts ...Option) *Service {
	if runner == nil {
		runner = execution.Disabled{}
	}
	svc := &Service{
		store:     store,
		gen:       gen,
		evaluator: NewEvaluator(gen, log),
		runner:    runner,
		logger:    log,
		shape:     DefaultShape(),
		expiry:    DefaultExpiry,
		workers:   defaultEvalWorkers,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// newToken returns a 128-bit random token in hex. The token is the sole
// credential for the session, so it must be unguessable; the short session
// id is for humans and logs only.
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CreateSession generates a question set for the candidate and stores a
// pending session addressed by a fresh token.
func (svc *Service) CreateSession(ctx context.Context, c *hiring.Candidate, req *hiring.JobRequirements) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := svc.now()
	s := &Session{
		SessionID:     strings.ToUpper(uuid.NewString()[:8]),
		Token:         token,
		CandidateID:   c.ID,
		CandidateName: c.Name,
		JobID:         c.JobID,
		JobTitle:      req.Title,
		Status:        StatusPending,
		Questions:     GenerateQuestions(ctx, svc.gen, svc.logger, c, req, svc.shape),
		Responses:     map[string]Response{},
		Evaluations:   map[string]Evaluation{},
		CreatedAt:     now,
		ExpiresAt:     now.Add(svc.expiry),
	}

	if err := svc.store.Put(s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	svc.logger.Info("interview session created",
		zap.String("session_id", s.SessionID),
		zap.String("candidate_id", c.ID),
		zap.Int("questions", s.Questions.Total()),
		zap.Bool("fallback_questions", s.Questions.Fallback),
	)
	return s, nil
}

// Link builds the candidate-facing interview URL for a session.
func (svc *Service) Link(s *Session) string {
	base := svc.baseURL
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/interview/" + s.Token
}

// Get fetches a live session by token. Expiry is checked lazily here, so an
// expired session errors on first touch rather than by a background sweep.
func (svc *Service) Get(token string) (*Session, error) {
	s, err := svc.store.Get(token)
	if err != nil {
		return nil, err
	}
	if s.Expired(svc.now()) && s.Status != StatusCompleted {
		return nil, ErrExpired
	}
	return s, nil
}

// Start moves a pending session to in_progress. Starting a session already
// in progress is a no-op; starting a completed one is a conflict.
func (svc *Service) Start(token string) (*Session, error) {
	s, err := svc.Get(token)
	if err != nil {
		return nil, err
	}

	switch s.Status {
	case StatusInProgress:
		return s, nil
	case StatusCompleted:
		return nil, fmt.Errorf("session already completed: %w", ErrConflict)
	}

	now := svc.now()
	s.Status = StatusInProgress
	s.StartedAt = &now
	if err := svc.store.Put(s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

// SubmitResponse records an answer to a technical or behavioral question.
// An unknown question id leaves the session untouched. Resubmitting a
// question overwrites the earlier answer while the session is open.
func (svc *Service) SubmitResponse(token, questionID, answer string) (*Session, error) {
	s, err := svc.Get(token)
	if err != nil {
		return nil, err
	}
	if s.Status == StatusCompleted {
		return nil, fmt.Errorf("session already completed: %w", ErrConflict)
	}
	if _, ok := s.Questions.findQuestion(questionID); !ok {
		return nil, fmt.Errorf("question %q: %w", questionID, ErrNotFound)
	}

	now := svc.now()
	if s.Status == StatusPending {
		s.Status = StatusInProgress
		s.StartedAt = &now
	}
	s.Responses[questionID] = Response{Answer: answer, SubmittedAt: now}

	if err := svc.store.Put(s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

// SubmitCoding records and synchronously evaluates the coding submission for
// the session's first coding challenge.
func (svc *Service) SubmitCoding(ctx context.Context, token, code, language string) (*Session, error) {
	s, err := svc.Get(token)
	if err != nil {
		return nil, err
	}
	if s.Status == StatusCompleted {
		return nil, fmt.Errorf("session already completed: %w", ErrConflict)
	}
	if len(s.Questions.Coding) == 0 {
		return nil, fmt.Errorf("session has no coding challenge: %w", ErrNotFound)
	}

	challenge := &s.Questions.Coding[0]
	if language = strings.TrimSpace(language); language == "" {
		language = challenge.Language
	}

	verdict := EvaluateCoding(ctx, svc.runner, svc.logger, challenge, code)

	now := svc.now()
	if s.Status == StatusPending {
		s.Status = StatusInProgress
		s.StartedAt = &now
	}
	s.Coding = &CodingSubmission{
		Code:        code,
		Language:    language,
		SubmittedAt: now,
		Verdict:     &verdict,
	}

	if err := svc.store.Put(s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

// Complete evaluates every recorded answer and rolls the results into the
// session summary. A still-pending session is started implicitly so the
// timeline stays coherent. Completing an already completed session returns
// the stored summary unchanged. Evaluation calls fan out under a bounded worker
// pool; individual failures degrade per answer and never abort completion.
func (svc *Service) Complete(ctx context.Context, token string) (*Session, error) {
	s, err := svc.store.Get(token)
	if err != nil {
		return nil, err
	}
	if s.Status == StatusCompleted {
		return s, nil
	}
	if s.Expired(svc.now()) {
		return nil, ErrExpired
	}
	if s.Status == StatusPending {
		started := svc.now()
		s.Status = StatusInProgress
		s.StartedAt = &started
	}

	type job struct {
		question *Question
		answer   string
	}
	jobs := make([]job, 0, len(s.Responses))
	for qid, resp := range s.Responses {
		q, ok := s.Questions.findQuestion(qid)
		if !ok {
			continue
		}
		jobs = append(jobs, job{question: q, answer: resp.Answer})
	}

	evals := make([]Evaluation, len(jobs))
	sem := make(chan struct{}, svc.workers)
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			evals[i] = svc.evaluator.EvaluateAnswer(ctx, j.question, j.answer, svc.now())
		}(i, j)
	}
	wg.Wait()

	for _, eval := range evals {
		s.Evaluations[eval.QuestionID] = eval
	}

	now := svc.now()
	summary := Aggregate(s, now)
	s.Summary = &summary
	s.Status = StatusCompleted
	s.CompletedAt = &now

	if err := svc.store.Put(s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	svc.logger.Info("interview session completed",
		zap.String("session_id", s.SessionID),
		zap.Float64("overall_score", summary.OverallScore),
		zap.String("recommendation", summary.Recommendation),
		zap.Int("fallback_evaluations", summary.FallbackCount),
	)
	return s, nil
}

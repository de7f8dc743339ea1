// Package funnel ties the screening, matching, interview, and pipeline
// pieces into the end-to-end hiring flow. The HTTP server and the CLI both
// drive the funnel through this package so decisions are made in exactly one
// place.
package funnel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/internal/hiring"
	"hireflow/internal/interview"
	"hireflow/internal/matching"
	"hireflow/internal/notify"
	"hireflow/internal/pipeline"
	"hireflow/internal/scoring"
)

// CandidateStore is the candidate persistence the funnel needs.
type CandidateStore interface {
	Put(c *hiring.Candidate) error
	Get(id string) (*hiring.Candidate, error)
	ListByStatus(status hiring.Status) ([]*hiring.Candidate, error)
}

// JobStore is the job posting persistence the funnel needs.
type JobStore interface {
	Put(req *hiring.JobRequirements) error
	Get(id string) (*hiring.JobRequirements, error)
}

// Funnel drives candidates through the hiring pipeline.
type Funnel struct {
	candidates CandidateStore
	jobs       JobStore
	matcher    *matching.Matcher
	interviews *interview.Service
	notifier   notify.Notifier
	thresholds pipeline.Thresholds
	bands      scoring.Bands
	logger     *zap.Logger
	now        func() time.Time
}

func New(
	candidates CandidateStore,
	jobs JobStore,
	matcher *matching.Matcher,
	interviews *interview.Service,
	notifier notify.Notifier,
	thresholds pipeline.Thresholds,
	logger *zap.Logger,
) *Funnel {
	return &Funnel{
		candidates: candidates,
		jobs:       jobs,
		matcher:    matcher,
		interviews: interviews,
		notifier:   notifier,
		thresholds: thresholds,
		// Categorization must agree with the decision thresholds, so the
		// bands are derived from them rather than fixed defaults.
		bands: scoring.Bands{Interview: thresholds.Shortlist, Review: thresholds.AutoReject},
		logger:     logger,
		now:        time.Now,
	}
}

// shortID returns an 8-char upper-hex identifier with a type prefix.
func shortID(prefix string) string {
	return prefix + strings.ToUpper(uuid.NewString()[:8])
}

// RegisterJob stores a job posting, assigning an id when the caller did not.
func (f *Funnel) RegisterJob(req *hiring.JobRequirements) error {
	if req.Title == "" {
		return fmt.Errorf("job title is required")
	}
	if req.ID == "" {
		req.ID = shortID("JOB-")
	}
	if err := f.jobs.Put(req); err != nil {
		return err
	}
	f.logger.Info("job registered",
		zap.String("job_id", req.ID),
		zap.String("title", req.Title),
	)
	return nil
}

// Job fetches a stored job posting.
func (f *Funnel) Job(id string) (*hiring.JobRequirements, error) {
	return f.jobs.Get(id)
}

// ApplicationResult is everything decided while processing one application.
type ApplicationResult struct {
	Candidate     *hiring.Candidate `json:"candidate"`
	Breakdown     scoring.Breakdown `json:"score_breakdown"`
	Match         matching.Result   `json:"skill_match"`
	Decision      pipeline.Decision `json:"-"`
	InterviewLink string            `json:"interview_link,omitempty"`
}

// ProcessApplication screens a new application end to end: weighted scoring,
// skill matching, the application-stage decision, and, for shortlisted
// candidates, interview session creation. The candidate is persisted in its
// decided state and the decision's notification is dispatched asynchronously.
func (f *Funnel) ProcessApplication(ctx context.Context, c *hiring.Candidate, req *hiring.JobRequirements) (*ApplicationResult, error) {
	if c.Name == "" || c.Email == "" {
		return nil, fmt.Errorf("candidate name and email are required")
	}

	if c.ID == "" {
		c.ID = shortID("CAND-")
	}
	c.JobID = req.ID
	c.Status = hiring.StatusApplied
	c.AppliedAt = f.now()

	breakdown := scoring.Score(c, req)
	match := f.matcher.Match(ctx, c.Skills, req)

	c.MatchScore = breakdown.Overall
	c.MissingSkills = match.MissingSkills
	c.Priority, _ = scoring.Categorize(breakdown.Overall, f.bands)

	decision := pipeline.Apply(c, f.thresholds)

	result := &ApplicationResult{
		Candidate: c,
		Breakdown: breakdown,
		Match:     match,
		Decision:  decision,
	}

	if decision.Status == hiring.StatusShortlisted {
		link, err := f.scheduleInterview(ctx, c, req)
		if err != nil {
			return nil, err
		}
		result.InterviewLink = link
	}

	if err := f.candidates.Put(c); err != nil {
		return nil, fmt.Errorf("persist candidate: %w", err)
	}

	f.notify(c, decision.Notice, result.InterviewLink)

	f.logger.Info("application processed",
		zap.String("candidate_id", c.ID),
		zap.String("job_id", req.ID),
		zap.Float64("match_score", c.MatchScore),
		zap.String("priority", string(c.Priority)),
		zap.String("status", string(c.Status)),
	)
	return result, nil
}

// scheduleInterview creates the session and moves the candidate to
// InterviewPending. The candidate is not persisted here; callers own that.
func (f *Funnel) scheduleInterview(ctx context.Context, c *hiring.Candidate, req *hiring.JobRequirements) (string, error) {
	session, err := f.interviews.CreateSession(ctx, c, req)
	if err != nil {
		return "", fmt.Errorf("create interview session: %w", err)
	}
	if err := pipeline.Advance(c, hiring.StatusInterviewPending, "interview link issued"); err != nil {
		return "", err
	}
	return f.interviews.Link(session), nil
}

// Review resolves a manually flagged candidate. Approval shortlists the
// candidate and issues an interview link; denial rejects them. Either way
// the candidate is persisted and notified.
func (f *Funnel) Review(ctx context.Context, candidateID string, approve bool) (*hiring.Candidate, error) {
	c, err := f.candidates.Get(candidateID)
	if err != nil {
		return nil, err
	}
	if c.Status != hiring.StatusApplied {
		return nil, fmt.Errorf("candidate %s is not awaiting review (status %s)", c.ID, c.Status)
	}

	var link string
	notice := pipeline.NoticeRejection
	if approve {
		req, err := f.jobs.Get(c.JobID)
		if err != nil {
			return nil, err
		}
		if err := pipeline.Advance(c, hiring.StatusShortlisted, "approved in manual review"); err != nil {
			return nil, err
		}
		if link, err = f.scheduleInterview(ctx, c, req); err != nil {
			return nil, err
		}
		notice = pipeline.NoticeInterviewInvite
	} else {
		if err := pipeline.Advance(c, hiring.StatusRejected, "rejected in manual review"); err != nil {
			return nil, err
		}
	}
	c.ReviewFlagged = false

	if err := f.candidates.Put(c); err != nil {
		return nil, fmt.Errorf("persist candidate: %w", err)
	}
	f.notify(c, notice, link)
	return c, nil
}

// InterviewOutcome is the result of completing an interview.
type InterviewOutcome struct {
	Session  *interview.Session
	Decision pipeline.Decision
}

// CompleteInterview finishes the session, rolls the summary into the
// candidate record, and takes the interview-stage decision. Completing an
// already completed session repeats the stored outcome without re-deciding.
func (f *Funnel) CompleteInterview(ctx context.Context, token string) (*InterviewOutcome, error) {
	alreadyDone := false
	if existing, err := f.interviews.Get(token); err == nil {
		alreadyDone = existing.Status == interview.StatusCompleted
	}

	session, err := f.interviews.Complete(ctx, token)
	if err != nil {
		return nil, err
	}

	decision := pipeline.DecideInterview(session.Summary, f.thresholds)
	if alreadyDone {
		return &InterviewOutcome{Session: session, Decision: decision}, nil
	}

	c, err := f.candidates.Get(session.CandidateID)
	if err != nil {
		return nil, err
	}

	c.InterviewScores = &hiring.RoundScores{
		Overall:    session.Summary.OverallScore,
		Technical:  session.Summary.TechnicalScore,
		Behavioral: session.Summary.BehavioralScore,
		Coding:     session.Summary.CodingScore,
	}
	if err := pipeline.Advance(c, hiring.StatusInterviewCompleted, "interview completed"); err != nil {
		return nil, err
	}
	if err := pipeline.Advance(c, decision.Status, decision.Reason); err != nil {
		return nil, err
	}
	c.ReviewFlagged = decision.Flagged

	if err := f.candidates.Put(c); err != nil {
		return nil, fmt.Errorf("persist candidate: %w", err)
	}
	f.notify(c, decision.Notice, "")

	f.logger.Info("interview decided",
		zap.String("candidate_id", c.ID),
		zap.Float64("overall_score", session.Summary.OverallScore),
		zap.String("recommendation", session.Summary.Recommendation),
		zap.String("status", string(c.Status)),
	)
	return &InterviewOutcome{Session: session, Decision: decision}, nil
}

func (f *Funnel) notify(c *hiring.Candidate, notice pipeline.Notice, link string) {
	msg, ok := notify.Compose(c, notice, link)
	if !ok {
		return
	}
	notify.Dispatch(f.notifier, f.logger, msg)
}

// Package pipeline holds the hiring funnel's decision rules: score
// thresholds, the resulting status moves, and the set of legal status
// transitions. Every decision is a total function over its inputs so the
// funnel never stalls on an unhandled case.
package pipeline

import (
	"errors"
	"fmt"

	"hireflow/internal/hiring"
	"hireflow/internal/interview"
)

// ErrInvalidTransition marks a status move the funnel does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// Thresholds are the funnel's decision cut-offs on 0-100 scores.
type Thresholds struct {
	// AutoReject: applications scoring below this are rejected outright.
	AutoReject float64 `mapstructure:"auto_reject"`
	// Shortlist: applications at or above this go straight to interview.
	Shortlist float64 `mapstructure:"shortlist"`
	// HRQualify: completed interviews at or above this advance to the HR
	// round.
	HRQualify float64 `mapstructure:"hr_qualify"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{AutoReject: 50, Shortlist: 75, HRQualify: 80}
}

// Notice identifies which message the candidate should receive for a
// decision.
type Notice string

const (
	NoticeNone            Notice = ""
	NoticeRejection       Notice = "rejection"
	NoticeInterviewInvite Notice = "interview_invite"
	NoticeUnderReview     Notice = "under_review"
	NoticeHRInvite        Notice = "hr_invite"
)

// Decision is the outcome of one funnel stage for one candidate.
type Decision struct {
	Status  hiring.Status
	Notice  Notice
	Reason  string
	Flagged bool
}

// DecideApplication maps a resume match score to the application-stage
// outcome. Mid-band scores stay Applied and are flagged for manual review
// rather than decided automatically.
func DecideApplication(score float64, th Thresholds) Decision {
	switch {
	case score >= th.Shortlist:
		return Decision{
			Status: hiring.StatusShortlisted,
			Notice: NoticeInterviewInvite,
			Reason: fmt.Sprintf("match score %.1f at or above shortlist threshold %.0f", score, th.Shortlist),
		}
	case score < th.AutoReject:
		return Decision{
			Status: hiring.StatusRejected,
			Notice: NoticeRejection,
			Reason: fmt.Sprintf("match score %.1f below auto-reject threshold %.0f", score, th.AutoReject),
		}
	default:
		return Decision{
			Status:  hiring.StatusApplied,
			Notice:  NoticeUnderReview,
			Reason:  fmt.Sprintf("match score %.1f needs manual review", score),
			Flagged: true,
		}
	}
}

// DecideInterview maps a completed interview summary to the next stage.
// A summary that rests on fallback evaluations is flagged so a human can
// audit the decision.
func DecideInterview(summary *interview.PhaseSummary, th Thresholds) Decision {
	flagged := summary.FallbackCount > 0
	if summary.OverallScore >= th.HRQualify {
		return Decision{
			Status:  hiring.StatusHRInterviewScheduled,
			Notice:  NoticeHRInvite,
			Reason:  fmt.Sprintf("interview score %.1f qualifies for HR round", summary.OverallScore),
			Flagged: flagged,
		}
	}
	return Decision{
		Status:  hiring.StatusRejected,
		Notice:  NoticeRejection,
		Reason:  "interview score below HR threshold",
		Flagged: flagged,
	}
}

// transitions lists the legal forward moves per status. Rejected is
// terminal; every non-terminal status may also move to Rejected.
var transitions = map[hiring.Status][]hiring.Status{
	hiring.StatusApplied:              {hiring.StatusShortlisted},
	hiring.StatusShortlisted:          {hiring.StatusInterviewPending},
	hiring.StatusInterviewPending:     {hiring.StatusInterviewCompleted},
	hiring.StatusInterviewCompleted:   {hiring.StatusHRInterviewScheduled},
	hiring.StatusHRInterviewScheduled: {hiring.StatusOfferSent},
	hiring.StatusOfferSent:            {hiring.StatusOfferAccepted},
	hiring.StatusOfferAccepted:        {hiring.StatusOnboarding},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to hiring.Status) bool {
	if from == to {
		return true
	}
	if to == hiring.StatusRejected {
		return from != hiring.StatusRejected && from != hiring.StatusOnboarding
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Advance moves the candidate to the given status, recording the reason.
// Illegal moves leave the candidate untouched.
func Advance(c *hiring.Candidate, to hiring.Status, reason string) error {
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("%s -> %s: %w", c.Status, to, ErrInvalidTransition)
	}
	c.Status = to
	c.StatusReason = reason
	return nil
}

// Apply runs the application-stage decision against the candidate in place
// and returns the decision taken.
func Apply(c *hiring.Candidate, th Thresholds) Decision {
	d := DecideApplication(c.MatchScore, th)
	c.StatusReason = d.Reason
	c.ReviewFlagged = d.Flagged
	if d.Status != c.Status {
		c.Status = d.Status
	}
	return d
}

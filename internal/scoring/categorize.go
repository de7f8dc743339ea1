package scoring

import "hireflow/internal/hiring"

// Action is the recommended follow-up for a screening score.
type Action string

const (
	ActionInterview Action = "Interview"
	ActionReview    Action = "Review"
	ActionReject    Action = "Reject"
)

// Bands holds the screening cutoffs. Deployments disagree on the exact
// values, so they are carried in configuration instead of constants here.
type Bands struct {
	// Interview is the score at or above which a candidate goes straight
	// to the interview track.
	Interview float64
	// Review is the score at or above which a candidate is parked for
	// manual review instead of being rejected.
	Review float64
}

// DefaultBands is the standard screening categorization.
func DefaultBands() Bands {
	return Bands{Interview: 75, Review: 50}
}

// Categorize maps an overall score onto a priority and recommended action.
func Categorize(score float64, b Bands) (hiring.Priority, Action) {
	switch {
	case score >= b.Interview:
		return hiring.PriorityHigh, ActionInterview
	case score >= b.Review:
		return hiring.PriorityMedium, ActionReview
	default:
		return hiring.PriorityLow, ActionReject
	}
}

package hiring

import "time"

// Status is a candidate's position in the hiring funnel. Transitions are
// owned by the pipeline package; nothing else mutates it.
type Status string

const (
	StatusApplied              Status = "Applied"
	StatusRejected             Status = "Rejected"
	StatusShortlisted          Status = "Shortlisted"
	StatusInterviewPending     Status = "InterviewPending"
	StatusInterviewCompleted   Status = "InterviewCompleted"
	StatusHRInterviewScheduled Status = "HRInterviewScheduled"
	StatusOfferSent            Status = "OfferSent"
	StatusOfferAccepted        Status = "OfferAccepted"
	StatusOnboarding           Status = "Onboarding"
)

// Priority buckets candidates by resume screening outcome.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// RoundScores holds the aggregated scores of a completed interview round.
type RoundScores struct {
	Overall    float64 `json:"overall"`
	Technical  float64 `json:"technical"`
	Behavioral float64 `json:"behavioral"`
	Coding     float64 `json:"coding"`
}

// Candidate is the pipeline-owned record for one applicant. It is persisted
// as a whole document after every status transition.
type Candidate struct {
	ID              string    `json:"id"`
	JobID           string    `json:"job_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	NoticePeriod    int       `json:"notice_period_days,omitempty"`
	Education       string    `json:"education,omitempty"`
	CultureFitScore float64   `json:"culture_fit_score,omitempty"`
	MatchScore      float64   `json:"match_score"`
	MissingSkills   []string  `json:"missing_skills,omitempty"`
	Priority        Priority  `json:"priority"`
	Status          Status    `json:"status"`
	StatusReason    string    `json:"status_reason,omitempty"`
	ReviewFlagged   bool      `json:"review_flagged,omitempty"`
	AppliedAt       time.Time `json:"applied_at"`

	InterviewScores *RoundScores `json:"interview_round_scores,omitempty"`
}

// JobRequirements describes what a job posting asks for. Treated as immutable
// once handed to a scoring call.
type JobRequirements struct {
	ID                 string   `json:"id,omitempty"`
	Title              string   `json:"title"`
	MustHave           []string `json:"must_have"`
	NiceToHave         []string `json:"nice_to_have"`
	ExperienceRequired int      `json:"experience_required"`
}

package interview

import "time"

// Phase weights for the overall interview score. When a phase produced no
// evaluations its weight is redistributed across the phases that did.
const (
	weightTechnical  = 0.4
	weightBehavioral = 0.3
	weightCoding     = 0.3
)

// Recommendation bands over the weighted overall score.
const (
	RecommendationStrongHire = "Strong Hire"
	RecommendationHire       = "Hire"
	RecommendationMaybe      = "Maybe"
	RecommendationNoHire     = "No Hire"
)

// PhaseSummary is the final roll-up of a completed interview.
type PhaseSummary struct {
	TechnicalScore  float64 `json:"technical_score"`
	BehavioralScore float64 `json:"behavioral_score"`
	CodingScore     float64 `json:"coding_score"`
	OverallScore    float64 `json:"overall_score"`
	Recommendation  string  `json:"recommendation"`

	QuestionsAnswered int `json:"questions_answered"`
	QuestionsTotal    int `json:"questions_total"`
	// FallbackCount tallies evaluations produced by the length heuristic,
	// plus a coding verdict scored without execution, so reviewers can judge
	// how much of the score is trustworthy.
	FallbackCount int       `json:"fallback_count,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Aggregate rolls per-answer evaluations and the coding verdict into a
// phase summary. Skipped answers count toward their phase mean at zero;
// unanswered questions are not evaluated at all and only lower the answered
// counter.
func Aggregate(s *Session, now time.Time) PhaseSummary {
	var techSum, techN, behavSum, behavN float64
	fallbacks := 0
	answered := 0

	for _, eval := range s.Evaluations {
		if eval.Fallback {
			fallbacks++
		}
		if !eval.Skipped {
			answered++
		}
		switch eval.Type {
		case "behavioral":
			behavSum += eval.OverallScore
			behavN++
		default:
			techSum += eval.OverallScore
			techN++
		}
	}

	summary := PhaseSummary{
		QuestionsAnswered: answered,
		QuestionsTotal:    s.Questions.Total(),
		FallbackCount:     fallbacks,
		GeneratedAt:       now,
	}

	var weightedSum, weightTotal float64
	if techN > 0 {
		summary.TechnicalScore = techSum / techN
		weightedSum += summary.TechnicalScore * weightTechnical
		weightTotal += weightTechnical
	}
	if behavN > 0 {
		summary.BehavioralScore = behavSum / behavN
		weightedSum += summary.BehavioralScore * weightBehavioral
		weightTotal += weightBehavioral
	}
	if s.Coding != nil && s.Coding.Verdict != nil {
		summary.CodingScore = s.Coding.Verdict.OverallScore
		weightedSum += summary.CodingScore * weightCoding
		weightTotal += weightCoding
		answered++
		summary.QuestionsAnswered = answered
		if s.Coding.Verdict.Unexecuted {
			summary.FallbackCount++
		}
	}

	if weightTotal > 0 {
		summary.OverallScore = weightedSum / weightTotal
	}
	summary.Recommendation = recommend(summary.OverallScore)

	return summary
}

func recommend(score float64) string {
	switch {
	case score >= 80:
		return RecommendationStrongHire
	case score >= 65:
		return RecommendationHire
	case score >= 50:
		return RecommendationMaybe
	default:
		return RecommendationNoHire
	}
}

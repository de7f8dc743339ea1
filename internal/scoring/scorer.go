// Package scoring computes weighted resume screening scores. Everything in
// here is pure: no I/O, no clock, no randomness, so outcomes are reproducible
// for audit.
package scoring

import (
	"strings"

	"hireflow/internal/hiring"
)

// Component weights of the overall score. They decide categorical outcomes
// downstream, so they are fixed here rather than configurable.
const (
	WeightSkillMatch      = 0.40
	WeightExperienceMatch = 0.25
	WeightEducation       = 0.15
	WeightCultureFit      = 0.10
	WeightAvailability    = 0.10
)

// neutralScore is used whenever a component has no signal to work with.
const neutralScore = 50.0

// Breakdown is the result of scoring one candidate against one job. Overall
// is the weighted sum of the five components, all on a 0-100 scale.
type Breakdown struct {
	SkillMatch      float64 `json:"skill_match"`
	ExperienceMatch float64 `json:"experience_match"`
	Education       float64 `json:"education"`
	CultureFit      float64 `json:"culture_fit"`
	Availability    float64 `json:"availability"`
	Overall         float64 `json:"overall_score"`
}

// Score computes the weighted breakdown for a candidate against job
// requirements.
func Score(c *hiring.Candidate, req *hiring.JobRequirements) Breakdown {
	b := Breakdown{
		SkillMatch:      scoreSkills(c.Skills, req),
		ExperienceMatch: scoreExperience(c.ExperienceYears, req.ExperienceRequired),
		Education:       scoreEducation(c.Education),
		CultureFit:      scoreCulture(c.CultureFitScore),
		Availability:    scoreAvailability(c.NoticePeriod),
	}

	b.Overall = b.SkillMatch*WeightSkillMatch +
		b.ExperienceMatch*WeightExperienceMatch +
		b.Education*WeightEducation +
		b.CultureFit*WeightCultureFit +
		b.Availability*WeightAvailability

	return b
}

// scoreSkills covers must-have skills at 60% and nice-to-have at 40%. A job
// with no stated must-haves scores neutral: there is nothing to reward or
// penalize against, and dividing by zero is not an option.
func scoreSkills(skills []string, req *hiring.JobRequirements) float64 {
	mustHave := lowerSet(req.MustHave)
	if len(mustHave) == 0 {
		return neutralScore
	}

	niceToHave := lowerSet(req.NiceToHave)
	candidate := lowerSet(skills)

	mustMatches := 0
	for s := range candidate {
		if mustHave[s] {
			mustMatches++
		}
	}

	score := 0.6 * float64(mustMatches) / float64(len(mustHave)) * 100

	if len(niceToHave) > 0 {
		niceMatches := 0
		for s := range candidate {
			if niceToHave[s] {
				niceMatches++
			}
		}
		score += 0.4 * float64(niceMatches) / float64(len(niceToHave)) * 100
	}

	return clamp(score)
}

// scoreExperience rewards meeting the bar (70) plus 3 points per extra year
// up to ten, and walks down 10 points per missing year with a floor of 20.
func scoreExperience(years, required int) float64 {
	if years >= required {
		over := years - required
		if over > 10 {
			over = 10
		}
		return clamp(70 + float64(over)*3)
	}

	score := 70 - float64(required-years)*10
	if score < 20 {
		score = 20
	}
	return score
}

// educationScores is an approximation by highest credential keyword; order
// matters because "masters" would also substring-match longer phrases.
var educationScores = []struct {
	keyword string
	score   float64
}{
	{"phd", 95},
	{"masters", 85},
	{"master", 85},
	{"bachelor", 75},
	{"certification", 60},
	{"diploma", 50},
}

func scoreEducation(education string) float64 {
	edu := strings.ToLower(education)
	for _, e := range educationScores {
		if strings.Contains(edu, e.keyword) {
			return e.score
		}
	}
	return neutralScore
}

// scoreCulture passes through the signal collected on the application form.
func scoreCulture(provided float64) float64 {
	if provided <= 0 {
		return neutralScore
	}
	return clamp(provided)
}

// scoreAvailability buckets by notice period. A zero notice period means the
// candidate did not state one and is treated as immediately available.
func scoreAvailability(noticeDays int) float64 {
	switch {
	case noticeDays <= 30:
		return 100
	case noticeDays <= 60:
		return 75
	default:
		return 50
	}
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	return set
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

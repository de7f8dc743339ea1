// Package matching computes skill-overlap match percentages between a
// candidate and a job's must-have skills.
package matching

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"hireflow/internal/hiring"
)

// Result is the outcome of a skill match. Fallback marks results produced by
// the local overlap instead of the remote matching service.
type Result struct {
	MatchPercent  float64  `json:"match_percent"`
	MissingSkills []string `json:"missing_skills"`
	Fallback      bool     `json:"fallback,omitempty"`
}

// Service is the external skill-matching collaborator. It may time out or
// fail; callers are expected to degrade to Overlap.
type Service interface {
	Match(ctx context.Context, skills, mustHave []string) (*Result, error)
}

// Matcher tries the remote service first and falls back to the local
// case-insensitive set overlap on any failure.
type Matcher struct {
	remote Service
	logger *zap.Logger
}

func New(remote Service, logger *zap.Logger) *Matcher {
	return &Matcher{remote: remote, logger: logger}
}

// Match never fails: a remote error degrades to the deterministic local
// overlap so screening is not blocked by the collaborator being down.
func (m *Matcher) Match(ctx context.Context, skills []string, req *hiring.JobRequirements) Result {
	if m.remote != nil {
		result, err := m.remote.Match(ctx, skills, req.MustHave)
		if err == nil && result != nil {
			return *result
		}
		m.logger.Warn("skill matching service unavailable, using local overlap",
			zap.String("job", req.Title),
			zap.Error(err),
		)
	}

	return Overlap(skills, req.MustHave)
}

// Overlap is the local fallback: exact case-insensitive set overlap against
// the must-have list. Pure and deterministic so it is testable without the
// remote service.
func Overlap(skills, mustHave []string) Result {
	required := lowerSet(mustHave)
	if len(required) == 0 {
		return Result{MissingSkills: []string{}, Fallback: true}
	}

	candidate := lowerSet(skills)

	matches := 0
	missing := make([]string, 0, len(required))
	for s := range required {
		if candidate[s] {
			matches++
		} else {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)

	return Result{
		MatchPercent:  float64(matches) / float64(len(required)) * 100,
		MissingSkills: missing,
		Fallback:      true,
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

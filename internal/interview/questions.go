package interview

import (
	"fmt"

	"hireflow/internal/execution"
)

// The static question bank. Used whenever the reasoning service cannot
// produce a usable set, so that a candidate is never blocked by an upstream
// outage.

var technicalTemplates = []string{
	"Explain how you would design a %s solution for %s.",
	"What are the key considerations when using %s in production?",
	"Can you describe a complex problem you solved using %s?",
	"How do you approach %s performance optimization?",
	"What %s best practices do you follow in your projects?",
}

var technicalScenarios = []string{
	"handling high traffic",
	"ensuring data consistency",
	"scaling horizontally",
	"real-time data processing",
	"security and authentication",
}

type behavioralEntry struct {
	question   string
	competency string
	difficulty string
}

var behavioralBank = []behavioralEntry{
	{"Tell us about a time when you had to work with a difficult team member. How did you handle it?", "teamwork", "easy"},
	{"Describe a project failure. What did you learn and how would you approach it differently?", "resilience", "medium"},
	{"How do you stay updated with new technologies and industry trends?", "continuous_learning", "easy"},
	{"What interests you about this role and our company?", "motivation", "easy"},
	{"Tell me about a time you took initiative on a project without being asked.", "initiative", "medium"},
	{"How do you handle feedback and criticism from colleagues?", "adaptability", "medium"},
	{"Describe a situation where you had to make a difficult decision with incomplete information.", "decision_making", "medium"},
	{"Tell me about a time you mentored or helped a junior team member.", "leadership", "hard"},
	{"How do you prioritize when you have multiple competing deadlines?", "time_management", "easy"},
	{"Describe a complex technical problem you solved and your approach.", "problem_solving", "hard"},
	{"Tell me about a time you had to communicate complex ideas to non-technical stakeholders.", "communication", "medium"},
	{"How do you approach learning a new technology or framework?", "learning", "easy"},
	{"Describe a time when your solution was rejected and how you handled it.", "resilience", "medium"},
	{"Tell me about your experience working in an agile, fast-paced environment.", "adaptability", "medium"},
	{"How do you ensure code quality and prevent bugs in your projects?", "quality_focus", "easy"},
	{"Describe a conflict with a colleague and how you resolved it.", "conflict_resolution", "hard"},
	{"Tell me about your biggest professional achievement.", "accomplishment", "medium"},
	{"How do you stay motivated during long, challenging projects?", "motivation", "easy"},
	{"Describe a time you had to work with an unfamiliar technology or tool.", "adaptability", "medium"},
	{"Where do you see yourself in 5 years and how does this role fit into your career goals?", "vision", "hard"},
}

var codingBank = []CodingChallenge{
	{
		ID:          "CODE1",
		Title:       "Two Sum Problem",
		Description: "Given an array of integers, find two numbers that add up to a target sum.",
		Difficulty:  "medium",
		Language:    "python",
		Concepts:    []string{"arrays", "hash_tables"},
		TestCases: []execution.TestCase{
			{Input: "[2, 7, 11, 15], target=9", Expected: "[0, 1]"},
			{Input: "[3, 2, 4], target=6", Expected: "[1, 2]"},
		},
	},
	{
		ID:          "CODE2",
		Title:       "Design Rate Limiter",
		Description: "Design and implement a rate limiter that allows N requests per M seconds.",
		Difficulty:  "hard",
		Language:    "python",
		Concepts:    []string{"design", "algorithms", "data_structures"},
		TestCases: []execution.TestCase{
			{Input: "limit=2 per 1s, requests at t=0,0,0", Expected: "allow, allow, deny"},
			{Input: "limit=1 per 1s, requests at t=0,1.5", Expected: "allow, allow"},
		},
	},
}

// fallbackQuestions builds a complete question set from the static bank,
// keyed off the candidate's skills so technical questions still mention
// technologies the candidate actually listed.
func fallbackQuestions(skills []string, technicalCount, behavioralCount, codingCount int) QuestionSet {
	if len(skills) == 0 {
		skills = []string{"software engineering"}
	}

	technical := make([]Question, 0, technicalCount)
	for i := 0; i < technicalCount; i++ {
		skill := skills[i%len(skills)]
		scenario := technicalScenarios[i%len(technicalScenarios)]
		template := technicalTemplates[i%len(technicalTemplates)]

		text := template
		switch countVerbs(template) {
		case 2:
			text = fmt.Sprintf(template, skill, scenario)
		default:
			text = fmt.Sprintf(template, skill)
		}

		technical = append(technical, Question{
			ID:         fmt.Sprintf("T%d", i+1),
			Type:       "technical",
			Skill:      skill,
			Question:   text,
			Difficulty: "medium",
		})
	}

	behavioral := make([]Question, 0, behavioralCount)
	for i := 0; i < behavioralCount; i++ {
		entry := behavioralBank[i%len(behavioralBank)]
		behavioral = append(behavioral, Question{
			ID:         fmt.Sprintf("B%d", i+1),
			Type:       "behavioral",
			Question:   entry.question,
			Competency: entry.competency,
			Difficulty: entry.difficulty,
		})
	}

	coding := make([]CodingChallenge, 0, codingCount)
	for i := 0; i < codingCount && i < len(codingBank); i++ {
		coding = append(coding, codingBank[i])
	}

	return QuestionSet{
		Technical:  technical,
		Behavioral: behavioral,
		Coding:     normalizeChallenges(coding),
		Fallback:   true,
	}
}

// backfillQuestions fills categories the model left empty from the static
// bank so a partially usable reply still yields a full interview. A
// backfilled set is marked as fallback.
func backfillQuestions(set QuestionSet, skills []string, shape Shape) QuestionSet {
	bank := fallbackQuestions(skills, shape.Technical, shape.Behavioral, shape.Coding)
	filled := false

	if len(set.Technical) == 0 && shape.Technical > 0 {
		set.Technical = bank.Technical
		filled = true
	}
	if len(set.Behavioral) == 0 && shape.Behavioral > 0 {
		set.Behavioral = bank.Behavioral
		filled = true
	}
	if len(set.Coding) == 0 && shape.Coding > 0 {
		set.Coding = bank.Coding
		filled = true
	}
	if filled {
		set.Fallback = true
	}
	return set
}

func countVerbs(template string) int {
	n := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] == '%' && template[i+1] == 's' {
			n++
		}
	}
	return n
}

// normalizeChallenges guarantees every coding challenge carries a language,
// constraints, at least two examples, and at least two test cases, whatever
// the reasoning service left out.
func normalizeChallenges(challenges []CodingChallenge) []CodingChallenge {
	out := make([]CodingChallenge, 0, len(challenges))
	for idx, c := range challenges {
		if c.Language == "" {
			c.Language = "python"
		}

		if len(c.Constraints) == 0 {
			c.Constraints = []string{
				"Handle empty, null, and edge-case inputs explicitly.",
				"Return output in the exact format specified.",
			}
		}

		for len(c.Examples) < 2 {
			c.Examples = append(c.Examples, Example{
				Input:  fmt.Sprintf("Sample input %d", len(c.Examples)+1),
				Output: "Sample output",
			})
		}
		if len(c.Examples) > 4 {
			c.Examples = c.Examples[:4]
		}

		for len(c.TestCases) < 2 {
			c.TestCases = append(c.TestCases, execution.TestCase{
				Input:    fmt.Sprintf("Sample input %d.%d", idx+1, len(c.TestCases)+1),
				Expected: "Sample expected output",
			})
		}
		if len(c.TestCases) > 6 {
			c.TestCases = c.TestCases[:6]
		}

		if len(c.Hints) == 0 {
			c.Hints = []string{"Think about time and space complexity; handle edge cases."}
		}

		out = append(out, c)
	}
	return out
}

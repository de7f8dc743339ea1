package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"hireflow/internal/ai"
	"hireflow/internal/hiring"
)

// Shape controls how many questions of each kind a session gets.
type Shape struct {
	Technical  int `mapstructure:"technical"`
	Behavioral int `mapstructure:"behavioral"`
	Coding     int `mapstructure:"coding"`
}

// DefaultShape matches the standard screening round.
func DefaultShape() Shape {
	return Shape{Technical: 5, Behavioral: 3, Coding: 1}
}

const questionPrompt = `You are an expert technical interviewer. Generate interview questions
tailored to this candidate and role.

Candidate:
- Name: %s
- Skills: %s
- Experience: %d years

Role: %s
Required skills: %s

Generate exactly:
- %d technical questions probing the required skills at the candidate's level
- %d behavioral questions, each targeting one competency
  (teamwork, leadership, problem_solving, communication, adaptability)
- %d coding challenges with test cases

Respond with JSON only, in this exact structure:
{
  "technical": [{"id": "T1", "type": "technical", "question": "...", "skill": "...", "difficulty": "easy|medium|hard"}],
  "behavioral": [{"id": "B1", "type": "behavioral", "question": "...", "competency": "...", "difficulty": "easy|medium|hard"}],
  "coding": [{"id": "CODE1", "title": "...", "description": "...", "difficulty": "medium|hard", "language": "python",
              "concepts": ["..."], "constraints": ["..."],
              "examples": [{"input": "...", "output": "...", "explanation": "..."}],
              "test_cases": [{"input": "...", "expected_output": "..."}],
              "hints": ["..."]}]
}`

// questionPayload is the wire shape of the model's reply.
type questionPayload struct {
	Technical  []Question        `mapstructure:"technical"`
	Behavioral []Question        `mapstructure:"behavioral"`
	Coding     []CodingChallenge `mapstructure:"coding"`
}

// GenerateQuestions asks the reasoning service for a tailored question set
// and falls back to the static bank on any failure. It never returns an
// error: an interview link must always be creatable.
func GenerateQuestions(ctx context.Context, gen ai.Generator, log *zap.Logger, c *hiring.Candidate, req *hiring.JobRequirements, shape Shape) QuestionSet {
	if shape.Technical <= 0 && shape.Behavioral <= 0 && shape.Coding <= 0 {
		shape = DefaultShape()
	}

	if gen == nil {
		return fallbackQuestions(c.Skills, shape.Technical, shape.Behavioral, shape.Coding)
	}

	prompt := fmt.Sprintf(questionPrompt,
		c.Name,
		strings.Join(c.Skills, ", "),
		c.ExperienceYears,
		req.Title,
		strings.Join(req.MustHave, ", "),
		shape.Technical,
		shape.Behavioral,
		shape.Coding,
	)

	raw, err := gen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Warn("question generation failed, using fallback bank",
			zap.String("candidate_id", c.ID),
			zap.Error(err),
		)
		return fallbackQuestions(c.Skills, shape.Technical, shape.Behavioral, shape.Coding)
	}

	set, err := parseQuestionSet(raw)
	if err != nil {
		log.Warn("question payload unusable, using fallback bank",
			zap.String("candidate_id", c.ID),
			zap.Error(err),
		)
		return fallbackQuestions(c.Skills, shape.Technical, shape.Behavioral, shape.Coding)
	}

	set = backfillQuestions(set, c.Skills, shape)
	if set.Fallback {
		log.Warn("question payload missing categories, backfilled from bank",
			zap.String("candidate_id", c.ID),
		)
	}
	return set
}

// parseQuestionSet decodes the model reply and rejects empty sets. Question
// ids are reassigned positionally so ids are unique even when the model
// repeats them.
func parseQuestionSet(raw string) (QuestionSet, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &doc); err != nil {
		return QuestionSet{}, fmt.Errorf("decode question payload: %w", err)
	}

	var payload questionPayload
	if err := mapstructure.Decode(doc, &payload); err != nil {
		return QuestionSet{}, fmt.Errorf("map question payload: %w", err)
	}

	set := QuestionSet{
		Technical:  payload.Technical,
		Behavioral: payload.Behavioral,
		Coding:     normalizeChallenges(payload.Coding),
	}
	if set.Total() == 0 {
		return QuestionSet{}, fmt.Errorf("question payload contained no questions")
	}

	for i := range set.Technical {
		set.Technical[i].ID = fmt.Sprintf("T%d", i+1)
		set.Technical[i].Type = "technical"
	}
	for i := range set.Behavioral {
		set.Behavioral[i].ID = fmt.Sprintf("B%d", i+1)
		set.Behavioral[i].Type = "behavioral"
	}
	for i := range set.Coding {
		set.Coding[i].ID = fmt.Sprintf("CODE%d", i+1)
	}

	return set, nil
}

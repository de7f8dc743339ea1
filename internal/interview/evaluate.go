package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireflow/internal/ai"
)

// minAnswerLength is the threshold below which an answer counts as skipped
// and is scored zero without a model call.
const minAnswerLength = 10

// Evaluation is the scored assessment of one answer.
type Evaluation struct {
	QuestionID     string             `json:"question_id"`
	Type           string             `json:"type"`
	Dimensions     map[string]float64 `json:"dimensions,omitempty"`
	OverallScore   float64            `json:"overall_score"`
	Strengths      []string           `json:"strengths,omitempty"`
	AreasToImprove []string           `json:"areas_to_improve,omitempty"`
	Feedback       string             `json:"feedback,omitempty"`
	// Fallback marks scores produced by the length heuristic after the
	// reasoning service failed. Skipped marks answers too short to assess.
	Fallback    bool      `json:"fallback,omitempty"`
	Skipped     bool      `json:"skipped,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// rubrics lists the scoring dimensions per question type. Behavioral answers
// are assessed against the STAR structure.
var rubrics = map[string][]string{
	"technical":  {"technical_accuracy", "depth_of_knowledge", "practical_application", "clarity", "completeness"},
	"behavioral": {"situation_context", "task_clarity", "action_description", "result_impact", "communication"},
	"coding":     {"correctness", "code_quality", "efficiency", "edge_cases", "best_practices"},
}

const evaluatePrompt = `You are an expert interviewer scoring a candidate's answer.

Question type: %s
Question: %s

Candidate answer:
%s

Score each dimension 0-100:
%s

Respond with JSON only:
{
  "dimensions": {%s},
  "overall_score": <0-100>,
  "strengths": ["..."],
  "areas_to_improve": ["..."],
  "feedback": "<2-3 sentence summary>"
}`

// Evaluator scores free-text answers against the per-type rubric.
type Evaluator struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewEvaluator(gen ai.Generator, log *zap.Logger) *Evaluator {
	return &Evaluator{gen: gen, logger: log}
}

// EvaluateAnswer scores one answer. It never returns an error: answers too
// short to assess are skipped at zero, and a failing reasoning service
// degrades to a length-based fallback score so the interview always
// completes.
func (e *Evaluator) EvaluateAnswer(ctx context.Context, q *Question, answer string, now time.Time) Evaluation {
	answer = strings.TrimSpace(answer)
	if len(answer) < minAnswerLength {
		return Evaluation{
			QuestionID:   q.ID,
			Type:         q.Type,
			OverallScore: 0,
			Feedback:     "Answer too short to evaluate.",
			Skipped:      true,
			EvaluatedAt:  now,
		}
	}

	if e.gen == nil {
		return e.fallbackEvaluation(q, answer, now)
	}

	dims := rubrics[q.Type]
	if len(dims) == 0 {
		dims = rubrics["technical"]
	}

	prompt := fmt.Sprintf(evaluatePrompt,
		q.Type,
		q.Question,
		answer,
		"- "+strings.Join(dims, "\n- "),
		`"`+strings.Join(dims, `": <0-100>, "`)+`": <0-100>`,
	)

	raw, err := e.gen.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Warn("answer evaluation failed, using fallback score",
			zap.String("question_id", q.ID),
			zap.Error(err),
		)
		return e.fallbackEvaluation(q, answer, now)
	}

	eval, err := parseEvaluation(raw, q, now)
	if err != nil {
		e.logger.Warn("evaluation payload unusable, using fallback score",
			zap.String("question_id", q.ID),
			zap.Error(err),
		)
		return e.fallbackEvaluation(q, answer, now)
	}
	return eval
}

// fallbackEvaluation approximates engagement from answer length, capped well
// below a passing score so a dead reasoning service cannot hire anyone.
func (e *Evaluator) fallbackEvaluation(q *Question, answer string, now time.Time) Evaluation {
	score := math.Min(70, 30+float64(len(answer))/10)
	return Evaluation{
		QuestionID:   q.ID,
		Type:         q.Type,
		OverallScore: score,
		Feedback:     "Automated evaluation unavailable; score estimated from answer length.",
		Fallback:     true,
		EvaluatedAt:  now,
	}
}

// parseEvaluation decodes the model reply. The model's overall_score is
// taken verbatim when present; the mean of the dimensions is only a fill-in
// for replies that omit it.
func parseEvaluation(raw string, q *Question, now time.Time) (Evaluation, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &doc); err != nil {
		return Evaluation{}, fmt.Errorf("decode evaluation payload: %w", err)
	}

	eval := Evaluation{
		QuestionID:     q.ID,
		Type:           q.Type,
		Strengths:      ai.CoerceStringSlice(doc["strengths"]),
		AreasToImprove: ai.CoerceStringSlice(doc["areas_to_improve"]),
		Feedback:       ai.CoerceString(doc["feedback"]),
		EvaluatedAt:    now,
	}

	if rawDims, ok := doc["dimensions"].(map[string]any); ok {
		dims := make(map[string]float64, len(rawDims))
		for name, v := range rawDims {
			f := ai.CoerceFloat(v)
			if math.IsNaN(f) {
				continue
			}
			dims[name] = clampScore(f)
		}
		if len(dims) > 0 {
			eval.Dimensions = dims
		}
	}

	overall := ai.CoerceFloat(doc["overall_score"])
	switch {
	case !math.IsNaN(overall):
		eval.OverallScore = clampScore(overall)
	case len(eval.Dimensions) > 0:
		var sum float64
		for _, v := range eval.Dimensions {
			sum += v
		}
		eval.OverallScore = sum / float64(len(eval.Dimensions))
	default:
		return Evaluation{}, fmt.Errorf("evaluation payload has no usable score")
	}

	return eval, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

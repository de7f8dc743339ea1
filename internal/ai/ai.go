// Package ai defines the seam between the hiring core and the reasoning
// service that generates interview questions and scores free-text answers.
// The service is a black box: it may fail, time out, or return something that
// is not the requested JSON, and every caller owns a local fallback.
package ai

import "context"

// Generator produces a textual completion for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ModelGenerator additionally supports overriding the model per call, which
// the retry policy uses to degrade to a cheaper tier on the last attempt.
type ModelGenerator interface {
	Generator
	GenerateWithModel(ctx context.Context, model, prompt string) (string, error)
}

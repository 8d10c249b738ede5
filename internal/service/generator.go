package service

import (
	"context"
	"errors"

	"poli-assistant/internal/model"
)

// ErrGeneratorUnavailable is returned when no generation backend is configured or reachable
var ErrGeneratorUnavailable = errors.New("text generation is unavailable")

// Generator is the text-completion capability the dialogue consumes.
// Implementations are treated as blocking round trips.
type Generator interface {
	// Generate completes prompt and returns the cleaned assistant text
	Generate(ctx context.Context, prompt model.Prompt, params model.GenerationParams) (string, error)

	// IsEnabled returns whether the generator is configured and ready
	IsEnabled() bool
}

// GeneratorFunc adapts a plain function to Generator. It is always enabled.
type GeneratorFunc func(ctx context.Context, prompt model.Prompt, params model.GenerationParams) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt model.Prompt, params model.GenerationParams) (string, error) {
	return f(ctx, prompt, params)
}

// IsEnabled always reports true
func (f GeneratorFunc) IsEnabled() bool {
	return true
}

// Ensure OpenAIClient implements Generator
var _ Generator = (*OpenAIClient)(nil)

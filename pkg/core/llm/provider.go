// Package llm wraps the language-model backends used to draft report
// narratives.
package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// ProviderFunc adapts a plain function into a Provider.
type ProviderFunc func(ctx context.Context, prompt, systemPrompt string) (string, error)

func (f ProviderFunc) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, _ map[string]interface{}) (string, error) {
	return f(ctx, prompt, systemPrompt)
}

func (f ProviderFunc) AdaptInstructions(raw string) string { return raw }

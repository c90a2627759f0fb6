package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiProviderRequiresKey(t *testing.T) {
	p := &GeminiProvider{}
	_, err := p.GenerateResponse(context.Background(), "hi", "", nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestProviderFunc(t *testing.T) {
	var gotPrompt, gotSystem string
	var p Provider = ProviderFunc(func(_ context.Context, prompt, system string) (string, error) {
		gotPrompt, gotSystem = prompt, system
		return "ok", nil
	})

	out, err := p.GenerateResponse(context.Background(), "user", p.AdaptInstructions("sys"), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "user", gotPrompt)
	assert.Equal(t, "sys", gotSystem)
}

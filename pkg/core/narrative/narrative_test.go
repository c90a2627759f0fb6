package narrative

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_valuation/pkg/core/config"
	"startup_valuation/pkg/core/format"
	"startup_valuation/pkg/core/llm"
	"startup_valuation/pkg/core/valuation"
)

var labels = map[string]string{
	"pre_money_valuation": "Pre-Money Valuation",
	"investor_stake_pct":  "Investor Stake",
}

func simpleResult(t *testing.T) *valuation.Result {
	t.Helper()
	res, err := valuation.Compute(valuation.VariantSimple, valuation.DefaultParams())
	require.NoError(t, err)
	return res
}

func TestTemplateNarratorDefault(t *testing.T) {
	n, err := NewTemplateNarrator("", labels, format.Formatter{Symbol: "$"})
	require.NoError(t, err)

	text, err := n.Narrate(context.Background(), simpleResult(t))
	require.NoError(t, err)
	assert.Equal(t,
		"The company is valued at $1,115,833.33 pre-money and $1,615,833.33 post-money (simple model). "+
			"The investor receives 30.94% of the company, leaving founders with 69.06%.",
		text)
}

func TestTemplateNarratorESOP(t *testing.T) {
	p := valuation.DefaultParams()
	p.NewShares = 250_000
	res, err := valuation.Compute(valuation.VariantESOP, p)
	require.NoError(t, err)

	n, err := NewTemplateNarrator("", nil, format.Formatter{})
	require.NoError(t, err)

	text, err := n.Narrate(context.Background(), res)
	require.NoError(t, err)
	assert.Contains(t, text, "(esop model)")
	assert.Contains(t, text, "after ESOP dilution")
	assert.NotContains(t, text, "receives")
}

func TestTemplateNarratorCustom(t *testing.T) {
	n, err := NewTemplateNarrator(`{{range .Lines}}{{.Label}}={{.Display}};{{end}}`, labels, format.Formatter{})
	require.NoError(t, err)

	res := valuation.NewResult(valuation.VariantSimple,
		valuation.Metric{Key: "pre_money_valuation", Value: 1000, Kind: valuation.Currency},
		valuation.Metric{Key: "other", Value: 5, Kind: valuation.Percent},
	)
	text, err := n.Narrate(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, "Pre-Money Valuation=1,000.00;other=5.00%;", text)
}

func TestTemplateNarratorBadTemplate(t *testing.T) {
	_, err := NewTemplateNarrator("{{.Nope", nil, format.Formatter{})
	assert.Error(t, err)
}

func TestLLMNarrator(t *testing.T) {
	var prompt, system string
	provider := llm.ProviderFunc(func(_ context.Context, p, s string) (string, error) {
		prompt, system = p, s
		return "```markdown\nA **solid** seed valuation.\n```", nil
	})

	n := &LLMNarrator{Provider: provider, Labels: labels}
	text, err := n.Narrate(context.Background(), simpleResult(t))
	require.NoError(t, err)

	assert.Equal(t, "A **solid** seed valuation.", text)
	assert.Contains(t, prompt, "Valuation model: simple")
	assert.Contains(t, prompt, "- Pre-Money Valuation: 1,115,833.33")
	assert.Contains(t, prompt, "- free_cash_flow: 97,500.00")
	assert.Contains(t, system, "venture finance analyst")
}

func TestLLMNarratorPropagatesErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	n := &LLMNarrator{Provider: llm.ProviderFunc(func(context.Context, string, string) (string, error) {
		return "", boom
	})}

	_, err := n.Narrate(context.Background(), simpleResult(t))
	assert.ErrorIs(t, err, boom)

	_, err = (&LLMNarrator{}).Narrate(context.Background(), simpleResult(t))
	assert.Error(t, err)
}

func TestCleanMarkdown(t *testing.T) {
	assert.Equal(t, "plain", CleanMarkdown("  plain  "))
	assert.Equal(t, "x", CleanMarkdown("```\nx\n```"))
	assert.Equal(t, "y", CleanMarkdown("```markdown\ny\n```"))
}

func TestBuild(t *testing.T) {
	modes, err := Build(config.Config{})
	require.NoError(t, err)
	assert.Contains(t, modes, "template")
	assert.NotContains(t, modes, "llm")

	modes, err = Build(config.Config{GeminiAPIKey: "k", NarrativeModel: "gemini-test"})
	require.NoError(t, err)
	require.Contains(t, modes, "llm")

	n := modes["llm"].(*LLMNarrator)
	gp := n.Provider.(*llm.GeminiProvider)
	assert.Equal(t, "gemini-test", gp.Model)
}

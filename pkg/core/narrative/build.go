package narrative

import (
	"startup_valuation/pkg/core/config"
	"startup_valuation/pkg/core/format"
	"startup_valuation/pkg/core/llm"
	"startup_valuation/pkg/core/report"
)

// Build returns the narrative modes available under cfg, keyed by mode
// name. The llm mode is only offered when a Gemini API key is configured.
func Build(cfg config.Config) (map[string]Narrator, error) {
	labels := report.DefaultLabels()
	f := format.Formatter{Symbol: cfg.CurrencySymbol}

	tmpl, err := NewTemplateNarrator("", labels, f)
	if err != nil {
		return nil, err
	}
	out := map[string]Narrator{"template": tmpl}
	if cfg.GeminiAPIKey != "" {
		out["llm"] = &LLMNarrator{
			Provider:  &llm.GeminiProvider{APIKey: cfg.GeminiAPIKey, Model: cfg.NarrativeModel},
			Labels:    labels,
			Formatter: f,
		}
	}
	return out, nil
}

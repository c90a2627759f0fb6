// Package narrative drafts the optional commentary attached to report
// exports, either from a fixed template or through an LLM provider.
package narrative

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"startup_valuation/pkg/core/format"
	"startup_valuation/pkg/core/llm"
	"startup_valuation/pkg/core/valuation"
)

// Narrator produces narrative text for a valuation result.
type Narrator interface {
	Narrate(ctx context.Context, res *valuation.Result) (string, error)
}

// line is one formatted metric handed to templates and prompts.
type line struct {
	Key     string
	Label   string
	Display string
}

type view struct {
	Variant string
	Lines   []line
	Values  map[string]string
}

func buildView(res *valuation.Result, labels map[string]string, f format.Formatter) view {
	v := view{Variant: string(res.Variant()), Values: make(map[string]string, res.Len())}
	for _, m := range res.Metrics() {
		label := labels[m.Key]
		if label == "" {
			label = m.Key
		}
		display := f.Metric(m)
		v.Lines = append(v.Lines, line{Key: m.Key, Label: label, Display: display})
		v.Values[m.Key] = display
	}
	return v
}

// =============================================================================
// TEMPLATE NARRATOR
// =============================================================================

// DefaultTemplate summarises the headline numbers of any variant.
const DefaultTemplate = `{{with index .Values "pre_money_valuation"}}The company is valued at {{.}} pre-money{{end}}` +
	`{{with index .Values "post_money_valuation"}} and {{.}} post-money{{end}} ({{.Variant}} model).` +
	`{{with index .Values "investor_stake_pct"}} The investor receives {{.}} of the company{{end}}` +
	`{{with index .Values "investor_final_ownership_pct"}} The investor ends with {{.}} after ESOP dilution{{end}}` +
	`{{with index .Values "founder_stake_pct"}}, leaving founders with {{.}}{{end}}.`

// TemplateNarrator renders a text/template over the formatted metrics.
type TemplateNarrator struct {
	tmpl      *template.Template
	labels    map[string]string
	formatter format.Formatter
}

// NewTemplateNarrator parses text; an empty text selects DefaultTemplate.
func NewTemplateNarrator(text string, labels map[string]string, f format.Formatter) (*TemplateNarrator, error) {
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("narrative").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse narrative template: %w", err)
	}
	return &TemplateNarrator{tmpl: tmpl, labels: labels, formatter: f}, nil
}

func (n *TemplateNarrator) Narrate(_ context.Context, res *valuation.Result) (string, error) {
	if res == nil || res.Len() == 0 {
		return "", fmt.Errorf("narrate: empty result")
	}
	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, buildView(res, n.labels, n.formatter)); err != nil {
		return "", fmt.Errorf("execute narrative template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// =============================================================================
// LLM NARRATOR
// =============================================================================

const systemPrompt = `You are a venture finance analyst. Write a short, neutral commentary (at most 120 words, plain Markdown, no headings, no tables) on the valuation figures you are given. Do not invent numbers that are not in the input.`

var promptTemplate = template.Must(template.New("prompt").Parse(
	`Valuation model: {{.Variant}}
Figures:
{{range .Lines}}- {{.Label}}: {{.Display}}
{{end}}`))

// LLMNarrator asks a language model for commentary on the result.
type LLMNarrator struct {
	Provider  llm.Provider
	Labels    map[string]string
	Formatter format.Formatter
	Options   map[string]interface{}
}

func (n *LLMNarrator) Narrate(ctx context.Context, res *valuation.Result) (string, error) {
	if n.Provider == nil {
		return "", fmt.Errorf("narrate: no LLM provider configured")
	}
	if res == nil || res.Len() == 0 {
		return "", fmt.Errorf("narrate: empty result")
	}

	var prompt bytes.Buffer
	if err := promptTemplate.Execute(&prompt, buildView(res, n.Labels, n.Formatter)); err != nil {
		return "", fmt.Errorf("build narrative prompt: %w", err)
	}

	out, err := n.Provider.GenerateResponse(ctx, prompt.String(), n.Provider.AdaptInstructions(systemPrompt), n.Options)
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}
	return CleanMarkdown(out), nil
}

// CleanMarkdown strips conversational filler and outer markdown code blocks.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

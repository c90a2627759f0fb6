package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"startup_valuation/pkg/core/config"
	"startup_valuation/pkg/core/format"
	"startup_valuation/pkg/core/narrative"
	"startup_valuation/pkg/core/report"
	"startup_valuation/pkg/core/valuation"
)

// buildNarrators is swapped in tests.
var buildNarrators = narrative.Build

const narrativeTimeout = 60 * time.Second

type computeOptions struct {
	inputOptions
	export    string
	output    string
	narrative string
	currency  string
	format    string
}

func (a *app) computeCmd() *cobra.Command {
	opts := &computeOptions{}

	c := &cobra.Command{
		Use:   "compute",
		Short: "Compute a valuation and optionally export a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCompute(cmd, opts)
		},
	}

	opts.bind(c)
	c.Flags().StringVarP(&opts.export, "export", "e", "none", "Export format: none|xlsx|pdf|html")
	c.Flags().StringVarP(&opts.output, "output", "o", "", "Export path (default valuation-<variant>.<ext>)")
	c.Flags().StringVar(&opts.narrative, "narrative", "none", "Narrative mode: none|template|llm")
	c.Flags().StringVar(&opts.currency, "currency", "", "Currency symbol for display (default from config)")
	c.Flags().StringVar(&opts.format, "format", "text", "Output format: text|json")
	return c
}

func (a *app) runCompute(cmd *cobra.Command, opts *computeOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return usageError("compute", "format", fmt.Errorf("unsupported format %q (expected text|json)", opts.format))
	}

	var exportFormat report.Format
	if opts.export != "" && opts.export != "none" {
		f, err := report.ParseFormat(opts.export)
		if err != nil {
			return usageError("compute", "export", err)
		}
		exportFormat = f
	}

	p, variant, err := opts.resolve(cmd)
	if err != nil {
		return err
	}

	cfg := a.cfg
	if cmd.Flags().Changed("currency") {
		cfg.CurrencySymbol = opts.currency
	}
	formatter := format.Formatter{Symbol: cfg.CurrencySymbol}

	log := a.log.With().Str("variant", string(variant)).Logger()
	log.Debug().Interface("params", p).Msg("computing valuation")

	res, err := valuation.Compute(variant, p)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(valuation.KindOf(err))).Msg("valuation failed")
		return err
	}
	log.Info().Int("metrics", res.Len()).Msg("valuation computed")

	text, err := a.narrate(cmd.Context(), cfg, opts.narrative, res)
	if err != nil {
		return err
	}

	out := computeOutput{Variant: string(variant), Narrative: text}
	labels := report.DefaultLabels()
	for _, m := range res.Metrics() {
		out.Metrics = append(out.Metrics, metricOutput{
			Key:     m.Key,
			Label:   labels.Label(m.Key),
			Value:   m.Value,
			Kind:    m.Kind.String(),
			Display: formatter.Metric(m),
		})
	}

	if exportFormat != "" {
		path := opts.output
		if path == "" {
			path = fmt.Sprintf("valuation-%s.%s", variant, exportFormat.Extension())
		}
		serializer := report.Serializer{Formatter: formatter, Title: cfg.ReportTitle, Narrative: text}
		data, err := serializer.Serialize(res, exportFormat, labels)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return valuation.SerializationError("write_export", "output", err)
		}
		log.Info().Str("path", path).Str("format", string(exportFormat)).Int("bytes", len(data)).Msg("report exported")
		out.Export = path
	}

	return printCompute(a.stdout, out, opts.format)
}

func (a *app) narrate(ctx context.Context, cfg config.Config, mode string, res *valuation.Result) (string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" || mode == "none" {
		return "", nil
	}

	narrators, err := buildNarrators(cfg)
	if err != nil {
		return "", err
	}
	n, ok := narrators[mode]
	if !ok {
		available := make([]string, 0, len(narrators))
		for name := range narrators {
			available = append(available, name)
		}
		sort.Strings(available)
		return "", usageError("narrate", "narrative",
			fmt.Errorf("narrative mode %q is not available (have: none, %s)", mode, strings.Join(available, ", ")))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	text, err := n.Narrate(ctx, res)
	if err != nil {
		return "", fmt.Errorf("narrative: %w", err)
	}
	return text, nil
}

type metricOutput struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Kind    string  `json:"kind"`
	Display string  `json:"display"`
}

type computeOutput struct {
	Variant   string         `json:"variant"`
	Metrics   []metricOutput `json:"metrics"`
	Narrative string         `json:"narrative,omitempty"`
	Export    string         `json:"export,omitempty"`
}

func printCompute(w io.Writer, out computeOutput, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "variant=%s\n", out.Variant)
	for _, m := range out.Metrics {
		fmt.Fprintf(w, "%s=%s\n", m.Key, m.Display)
	}
	if out.Export != "" {
		fmt.Fprintf(w, "export=%s\n", out.Export)
	}
	if out.Narrative != "" {
		fmt.Fprintf(w, "\n%s\n", out.Narrative)
	}
	return nil
}

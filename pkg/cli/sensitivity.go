package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"startup_valuation/pkg/core/format"
	"startup_valuation/pkg/core/valuation"
)

type sensitivityOptions struct {
	inputOptions
	discountMin float64
	discountMax float64
	growthMin   float64
	growthMax   float64
	steps       int
	currency    string
	format      string
}

func (a *app) sensitivityCmd() *cobra.Command {
	opts := &sensitivityOptions{}

	c := &cobra.Command{
		Use:   "sensitivity",
		Short: "Tabulate pre-money valuation over discount rate and terminal growth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSensitivity(cmd, opts)
		},
	}

	opts.bind(c)
	c.Flags().Float64Var(&opts.discountMin, "discount-min", 10, "Lowest discount rate (%)")
	c.Flags().Float64Var(&opts.discountMax, "discount-max", 14, "Highest discount rate (%)")
	c.Flags().Float64Var(&opts.growthMin, "growth-min", 2, "Lowest terminal growth rate (%)")
	c.Flags().Float64Var(&opts.growthMax, "growth-max", 4, "Highest terminal growth rate (%)")
	c.Flags().IntVar(&opts.steps, "steps", 5, "Points per axis")
	c.Flags().StringVar(&opts.currency, "currency", "", "Currency symbol for display (default from config)")
	c.Flags().StringVar(&opts.format, "format", "text", "Output format: text|json")
	return c
}

func (a *app) runSensitivity(cmd *cobra.Command, opts *sensitivityOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return usageError("sensitivity", "format", fmt.Errorf("unsupported format %q (expected text|json)", opts.format))
	}

	p, variant, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	rates, err := valuation.Axis(opts.discountMin/100, opts.discountMax/100, opts.steps)
	if err != nil {
		return err
	}
	growth, err := valuation.Axis(opts.growthMin/100, opts.growthMax/100, opts.steps)
	if err != nil {
		return err
	}

	grid, err := valuation.Sensitivity(variant, p, rates, growth)
	if err != nil {
		return err
	}
	a.log.Info().Str("variant", string(variant)).Int("cells", len(rates)*len(growth)).Msg("sensitivity computed")

	if opts.format == "json" {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	}

	symbol := a.cfg.CurrencySymbol
	if cmd.Flags().Changed("currency") {
		symbol = opts.currency
	}
	return printGrid(a.stdout, grid, format.Formatter{Symbol: symbol})
}

// printGrid renders rows per discount rate and columns per terminal growth.
// Cells that failed validation show their error kind.
func printGrid(w io.Writer, g *valuation.Grid, f format.Formatter) error {
	headers := []string{"discount \\ growth"}
	for _, tg := range g.GrowthRates {
		headers = append(headers, f.Percent(tg*100))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for i, r := range g.DiscountRates {
		row := []string{f.Percent(r * 100)}
		for _, cell := range g.Cells[i] {
			if cell.Err != "" {
				row = append(row, string(cell.Err))
				continue
			}
			row = append(row, f.Currency(cell.Value))
		}
		t.Row(row...)
	}

	_, err := fmt.Fprintf(w, "variant=%s\n%s\n", g.Variant, t.Render())
	return err
}

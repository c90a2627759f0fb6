package cli

import (
	"github.com/spf13/cobra"

	"startup_valuation/pkg/core/ingest"
	"startup_valuation/pkg/core/valuation"
)

// paramFlag binds one command-line flag to a Document field. Rates are
// entered in percent, like in the input file.
type paramFlag struct {
	name  string
	def   float64
	usage string
	field func(*ingest.Document) **float64
}

var paramFlags = []paramFlag{
	{"revenue", 1_000_000, "Current annual revenue", func(d *ingest.Document) **float64 { return &d.Revenue }},
	{"growth-rate", 10, "Revenue growth rate (%)", func(d *ingest.Document) **float64 { return &d.GrowthRate }},
	{"operating-margin", 15, "Operating margin (%)", func(d *ingest.Document) **float64 { return &d.OperatingMargin }},
	{"depreciation", 10_000, "Depreciation", func(d *ingest.Document) **float64 { return &d.Depreciation }},
	{"interest", 5_000, "Interest expense", func(d *ingest.Document) **float64 { return &d.Interest }},
	{"tax-rate", 25, "Tax rate (%)", func(d *ingest.Document) **float64 { return &d.TaxRate }},
	{"capex", 20_000, "Capital expenditures", func(d *ingest.Document) **float64 { return &d.Capex }},
	{"working-capital", 5_000, "Change in working capital", func(d *ingest.Document) **float64 { return &d.WorkingCapital }},
	{"discount-rate", 12, "Discount rate (%)", func(d *ingest.Document) **float64 { return &d.DiscountRate }},
	{"terminal-growth", 3, "Terminal growth rate (%)", func(d *ingest.Document) **float64 { return &d.TerminalGrowth }},
	{"investment", 500_000, "Investment amount", func(d *ingest.Document) **float64 { return &d.Investment }},
	{"pre-money-shares", 1_000_000, "Shares outstanding before the round", func(d *ingest.Document) **float64 { return &d.PreMoneyShares }},
	{"esop-percent", 0, "ESOP pool (%)", func(d *ingest.Document) **float64 { return &d.ESOPPercent }},
	{"new-shares", 0, "New shares issued to the ESOP (esop variant dilution)", func(d *ingest.Document) **float64 { return &d.NewShares }},
}

// inputOptions are the flags shared by compute and sensitivity.
type inputOptions struct {
	input   string
	variant string
	values  map[string]*float64
}

func (o *inputOptions) bind(c *cobra.Command) {
	o.values = make(map[string]*float64, len(paramFlags))
	for _, pf := range paramFlags {
		o.values[pf.name] = c.Flags().Float64(pf.name, pf.def, pf.usage)
	}
	c.Flags().StringVarP(&o.input, "input", "i", "", "Parameter file (YAML, JSON or HJSON); explicit flags override it")
	c.Flags().StringVarP(&o.variant, "variant", "v", string(valuation.VariantSimple), "Model variant: simple|esop|direct")
}

// flagDocument collects only the flags set on the command line.
func (o *inputOptions) flagDocument(c *cobra.Command) ingest.Document {
	var doc ingest.Document
	for _, pf := range paramFlags {
		if !c.Flags().Changed(pf.name) {
			continue
		}
		v := *o.values[pf.name]
		*pf.field(&doc) = &v
	}
	return doc
}

// resolve layers defaults, the input file and explicit flags, in that
// order. The variant flag wins over the file only when set explicitly.
func (o *inputOptions) resolve(c *cobra.Command) (valuation.Params, valuation.Variant, error) {
	p := valuation.DefaultParams()
	variant := ""

	if o.input != "" {
		doc, err := ingest.LoadFile(o.input)
		if err != nil {
			return valuation.Params{}, "", usageError("load_input", "input", err)
		}
		if p, err = doc.Apply(p); err != nil {
			return valuation.Params{}, "", err
		}
		variant = doc.Variant
	}

	p, err := o.flagDocument(c).Apply(p)
	if err != nil {
		return valuation.Params{}, "", err
	}

	if variant == "" || c.Flags().Changed("variant") {
		variant = o.variant
	}
	v, err := valuation.ParseVariant(variant)
	if err != nil {
		return valuation.Params{}, "", err
	}
	return p, v, nil
}

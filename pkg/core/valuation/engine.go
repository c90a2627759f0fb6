// Package valuation implements the startup valuation engine: a pure
// mapping from a Params set to an ordered Result, with one strategy per
// formula variant.
package valuation

import (
	"errors"
	"sort"
	"strings"
)

// =============================================================================
// VARIANTS
// =============================================================================

// Variant names one of the supported valuation formulas.
type Variant string

const (
	// VariantSimple values the company at its terminal value alone.
	VariantSimple Variant = "simple"
	// VariantESOP adds free cash flow to terminal value and adjusts the
	// investor stake for ESOP share dilution.
	VariantESOP Variant = "esop"
	// VariantDirect discounts next-year revenue directly and subtracts the
	// ESOP pool as a flat percentage.
	VariantDirect Variant = "direct"
)

var variantAliases = map[string]Variant{
	"a":                  VariantSimple,
	"simple":             VariantSimple,
	"b":                  VariantESOP,
	"esop":               VariantESOP,
	"esop-anti-dilution": VariantESOP,
	"c":                  VariantDirect,
	"direct":             VariantDirect,
	"direct-discounting": VariantDirect,
}

// ParseVariant resolves a user-supplied variant name or letter.
func ParseVariant(s string) (Variant, error) {
	v, ok := variantAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", invalidInput("parse_variant", "variant", "unknown variant %q (expected simple|esop|direct)", s)
	}
	return v, nil
}

// =============================================================================
// MODEL INTERFACE
// =============================================================================

// Model is a pluggable valuation formula.
type Model interface {
	// Variant returns the strategy identifier
	Variant() Variant

	// Description is a one-line human summary
	Description() string

	// Compute runs the formula on already validated params
	Compute(p Params) (*Result, error)
}

var registry = map[Variant]Model{
	VariantSimple: SimpleModel{},
	VariantESOP:   ESOPModel{},
	VariantDirect: DirectModel{},
}

// Lookup returns the model registered for v.
func Lookup(v Variant) (Model, error) {
	m, ok := registry[v]
	if !ok {
		return nil, invalidInput("lookup", "variant", "unknown variant %q", v)
	}
	return m, nil
}

// Models returns every registered model sorted by variant name.
func Models() []Model {
	out := make([]Model, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variant() < out[j].Variant() })
	return out
}

var errTerminalGrowth = errors.New("terminal growth must be strictly less than discount rate")

// Compute validates p and runs the formula selected by variant. It never
// returns a result holding NaN or infinite values.
func Compute(variant Variant, p Params) (*Result, error) {
	model, err := Lookup(variant)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res, err := model.Compute(p)
	if err != nil {
		return nil, err
	}
	if key, bad := res.CheckFinite(); bad {
		return nil, invalidInput("compute", key, "%s evaluated to a non-finite value", key)
	}
	return res, nil
}

// =============================================================================
// SHARED STEPS
// =============================================================================

// cashFlow holds the intermediate values of the free-cash-flow chain.
type cashFlow struct {
	ProjectedRevenue float64
	OperatingProfit  float64
	EBIT             float64
	EBT              float64
	NetIncome        float64
	FreeCashFlow     float64
	TerminalValue    float64
}

func (c cashFlow) metrics() []Metric {
	return []Metric{
		{Key: "projected_revenue", Value: c.ProjectedRevenue, Kind: Currency},
		{Key: "operating_profit", Value: c.OperatingProfit, Kind: Currency},
		{Key: "ebit", Value: c.EBIT, Kind: Currency},
		{Key: "ebt", Value: c.EBT, Kind: Currency},
		{Key: "net_income", Value: c.NetIncome, Kind: Currency},
		{Key: "free_cash_flow", Value: c.FreeCashFlow, Kind: Currency},
		{Key: "terminal_value", Value: c.TerminalValue, Kind: Currency},
	}
}

// projectCashFlow runs steps 1-7: revenue through Gordon-growth terminal value.
func projectCashFlow(p Params) cashFlow {
	var c cashFlow
	c.ProjectedRevenue = p.Revenue * (1 + p.GrowthRate)
	c.OperatingProfit = c.ProjectedRevenue * p.OperatingMargin
	c.EBIT = c.OperatingProfit - p.Depreciation
	c.EBT = c.EBIT - p.Interest
	c.NetIncome = c.EBT * (1 - p.TaxRate)
	c.FreeCashFlow = c.NetIncome + p.Depreciation - p.Capex - p.WorkingCapital
	c.TerminalValue = c.FreeCashFlow * (1 + p.TerminalGrowth) / (p.DiscountRate - p.TerminalGrowth)
	return c
}

// postMoney adds the investment and rejects non-positive results, which
// would make every stake percentage meaningless.
func postMoney(op string, preMoney, investment float64) (float64, error) {
	post := preMoney + investment
	if post <= 0 {
		return 0, invalidInput(op, "post_money_valuation", "post-money valuation must be > 0, got %.2f", post)
	}
	return post, nil
}

package valuation

import (
	"math"
)

// Params is the validated set of numeric inputs to a valuation run.
// Rates are decimal fractions (0.12 for 12%). Params is passed by value and
// never mutated by the engine.
type Params struct {
	Revenue         float64 `json:"revenue" yaml:"revenue"`
	GrowthRate      float64 `json:"growth_rate" yaml:"growth_rate"`
	OperatingMargin float64 `json:"operating_margin" yaml:"operating_margin"`
	Depreciation    float64 `json:"depreciation" yaml:"depreciation"`
	Interest        float64 `json:"interest" yaml:"interest"`
	TaxRate         float64 `json:"tax_rate" yaml:"tax_rate"`
	Capex           float64 `json:"capex" yaml:"capex"`
	WorkingCapital  float64 `json:"working_capital" yaml:"working_capital"`
	DiscountRate    float64 `json:"discount_rate" yaml:"discount_rate"`
	TerminalGrowth  float64 `json:"terminal_growth" yaml:"terminal_growth"`
	Investment      float64 `json:"investment" yaml:"investment"`
	PreMoneyShares  float64 `json:"pre_money_shares" yaml:"pre_money_shares"`
	ESOPPercent     float64 `json:"esop_percent" yaml:"esop_percent"`
	NewShares       float64 `json:"new_shares" yaml:"new_shares"`
}

// DefaultParams returns the input form defaults. ESOP and new shares start at zero.
func DefaultParams() Params {
	return Params{
		Revenue:         1_000_000,
		GrowthRate:      0.10,
		OperatingMargin: 0.15,
		Depreciation:    10_000,
		Interest:        5_000,
		TaxRate:         0.25,
		Capex:           20_000,
		WorkingCapital:  5_000,
		DiscountRate:    0.12,
		TerminalGrowth:  0.03,
		Investment:      500_000,
		PreMoneyShares:  1_000_000,
	}
}

// field pairs a parameter name with its value so validation can report
// the offending field in declaration order.
type field struct {
	name  string
	value float64
}

func (p Params) fields() []field {
	return []field{
		{"revenue", p.Revenue},
		{"growth_rate", p.GrowthRate},
		{"operating_margin", p.OperatingMargin},
		{"depreciation", p.Depreciation},
		{"interest", p.Interest},
		{"tax_rate", p.TaxRate},
		{"capex", p.Capex},
		{"working_capital", p.WorkingCapital},
		{"discount_rate", p.DiscountRate},
		{"terminal_growth", p.TerminalGrowth},
		{"investment", p.Investment},
		{"pre_money_shares", p.PreMoneyShares},
		{"esop_percent", p.ESOPPercent},
		{"new_shares", p.NewShares},
	}
}

// Validate checks every constraint that can be decided before any
// arithmetic runs. The equal-rates case is reported as DivisionByZero,
// everything else as InvalidInput.
func (p Params) Validate() error {
	const op = "validate"

	for _, f := range p.fields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalidInput(op, f.name, "%s must be a finite number, got %v", f.name, f.value)
		}
	}

	if p.DiscountRate == p.TerminalGrowth {
		return &Error{
			Op:    op,
			Kind:  KindDivisionByZero,
			Field: "terminal_growth",
			Err:   errTerminalGrowth,
		}
	}
	if p.TerminalGrowth > p.DiscountRate {
		return invalidInput(op, "terminal_growth", "terminal growth must be strictly less than discount rate (%v >= %v)", p.TerminalGrowth, p.DiscountRate)
	}

	switch {
	case p.Revenue < 0:
		return invalidInput(op, "revenue", "revenue must be >= 0, got %v", p.Revenue)
	case p.Investment < 0:
		return invalidInput(op, "investment", "investment must be >= 0, got %v", p.Investment)
	case p.PreMoneyShares <= 0:
		return invalidInput(op, "pre_money_shares", "pre-money shares must be > 0, got %v", p.PreMoneyShares)
	case p.NewShares < 0:
		return invalidInput(op, "new_shares", "new shares must be >= 0, got %v", p.NewShares)
	case p.ESOPPercent < 0 || p.ESOPPercent > 1:
		return invalidInput(op, "esop_percent", "ESOP percent must be between 0 and 1, got %v", p.ESOPPercent)
	}
	return nil
}

// Package ingest turns structured input (YAML, JSON, HJSON files or HTTP
// bodies) into a validated-ready valuation.Params. Rates are written in
// percent, the way the input form asks for them.
package ingest

import (
	"startup_valuation/pkg/core/valuation"
)

// Document is the on-disk / on-wire shape of a valuation request. Every
// field is optional; missing fields keep the value of the base Params.
type Document struct {
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`

	Revenue         *float64 `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	GrowthRate      *float64 `json:"growth_rate,omitempty" yaml:"growth_rate,omitempty"`           // %
	OperatingMargin *float64 `json:"operating_margin,omitempty" yaml:"operating_margin,omitempty"` // %
	Depreciation    *float64 `json:"depreciation,omitempty" yaml:"depreciation,omitempty"`
	Interest        *float64 `json:"interest,omitempty" yaml:"interest,omitempty"`
	TaxRate         *float64 `json:"tax_rate,omitempty" yaml:"tax_rate,omitempty"` // %
	Capex           *float64 `json:"capex,omitempty" yaml:"capex,omitempty"`
	WorkingCapital  *float64 `json:"working_capital,omitempty" yaml:"working_capital,omitempty"`
	DiscountRate    *float64 `json:"discount_rate,omitempty" yaml:"discount_rate,omitempty"`     // %
	TerminalGrowth  *float64 `json:"terminal_growth,omitempty" yaml:"terminal_growth,omitempty"` // %
	Investment      *float64 `json:"investment,omitempty" yaml:"investment,omitempty"`
	PreMoneyShares  *float64 `json:"pre_money_shares,omitempty" yaml:"pre_money_shares,omitempty"`
	ESOPPercent     *float64 `json:"esop_percent,omitempty" yaml:"esop_percent,omitempty"` // %
	NewShares       *float64 `json:"new_shares,omitempty" yaml:"new_shares,omitempty"`

	// WACC, when present, replaces DiscountRate with the computed cost of capital.
	WACC *WACCBlock `json:"wacc,omitempty" yaml:"wacc,omitempty"`
}

// WACCBlock carries capital-structure assumptions. Rates are in percent;
// beta and leverage are plain ratios.
type WACCBlock struct {
	UnleveredBeta     float64 `json:"unlevered_beta" yaml:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt" yaml:"pre_tax_cost_of_debt"`
	DebtToEquity      float64 `json:"debt_to_equity" yaml:"debt_to_equity"`
}

func pct(v float64) float64 { return v / 100 }

// Apply overlays the document on base and returns the result. It only
// converts units; constraint checks belong to valuation.Params.Validate.
func (d Document) Apply(base valuation.Params) (valuation.Params, error) {
	p := base
	set := func(dst *float64, src *float64, scale func(float64) float64) {
		if src == nil {
			return
		}
		if scale != nil {
			*dst = scale(*src)
			return
		}
		*dst = *src
	}

	set(&p.Revenue, d.Revenue, nil)
	set(&p.GrowthRate, d.GrowthRate, pct)
	set(&p.OperatingMargin, d.OperatingMargin, pct)
	set(&p.Depreciation, d.Depreciation, nil)
	set(&p.Interest, d.Interest, nil)
	set(&p.TaxRate, d.TaxRate, pct)
	set(&p.Capex, d.Capex, nil)
	set(&p.WorkingCapital, d.WorkingCapital, nil)
	set(&p.DiscountRate, d.DiscountRate, pct)
	set(&p.TerminalGrowth, d.TerminalGrowth, pct)
	set(&p.Investment, d.Investment, nil)
	set(&p.PreMoneyShares, d.PreMoneyShares, nil)
	set(&p.ESOPPercent, d.ESOPPercent, pct)
	set(&p.NewShares, d.NewShares, nil)

	if d.WACC != nil {
		res, err := valuation.CalculateWACC(valuation.WACCInput{
			UnleveredBeta:     d.WACC.UnleveredBeta,
			RiskFreeRate:      pct(d.WACC.RiskFreeRate),
			MarketRiskPremium: pct(d.WACC.MarketRiskPremium),
			PreTaxCostOfDebt:  pct(d.WACC.PreTaxCostOfDebt),
			DebtToEquity:      d.WACC.DebtToEquity,
		}, p.TaxRate)
		if err != nil {
			return valuation.Params{}, err
		}
		p.DiscountRate = res.WACC
	}
	return p, nil
}

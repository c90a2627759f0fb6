package valuation

import "math"

// WACCInput holds the capital-structure assumptions used to derive a
// discount rate when the caller does not supply one directly.
type WACCInput struct {
	UnleveredBeta     float64 `json:"unlevered_beta" yaml:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt" yaml:"pre_tax_cost_of_debt"`
	DebtToEquity      float64 `json:"debt_to_equity" yaml:"debt_to_equity"` // Target leverage (D/E)
}

// WACCResult holds the calculated rates
type WACCResult struct {
	LeveredBeta  float64
	CostOfEquity float64
	CostOfDebt   float64 // After-tax
	WACC         float64
	WeightDebt   float64
	WeightEquity float64
}

// CalculateWACC computes the weighted average cost of capital using CAPM
// for equity and the Hamada equation to re-lever beta.
func CalculateWACC(in WACCInput, taxRate float64) (WACCResult, error) {
	const op = "wacc"

	for _, f := range []field{
		{"unlevered_beta", in.UnleveredBeta},
		{"risk_free_rate", in.RiskFreeRate},
		{"market_risk_premium", in.MarketRiskPremium},
		{"pre_tax_cost_of_debt", in.PreTaxCostOfDebt},
		{"debt_to_equity", in.DebtToEquity},
		{"tax_rate", taxRate},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return WACCResult{}, invalidInput(op, f.name, "%s must be a finite number", f.name)
		}
	}
	if in.DebtToEquity < 0 {
		return WACCResult{}, invalidInput(op, "debt_to_equity", "debt to equity must be >= 0, got %v", in.DebtToEquity)
	}

	// BetaL = BetaU * (1 + (1-t)*(D/E))
	leveredBeta := in.UnleveredBeta * (1 + (1-taxRate)*in.DebtToEquity)

	// Ke = Rf + BetaL * ERP
	ke := in.RiskFreeRate + leveredBeta*in.MarketRiskPremium

	// Kd = PreTaxKd * (1 - t)
	kd := in.PreTaxCostOfDebt * (1 - taxRate)

	// D = xE  =>  Wd = x / (1+x), We = 1 / (1+x)
	wd := in.DebtToEquity / (1 + in.DebtToEquity)
	we := 1.0 / (1 + in.DebtToEquity)

	return WACCResult{
		LeveredBeta:  leveredBeta,
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         ke*we + kd*wd,
		WeightDebt:   wd,
		WeightEquity: we,
	}, nil
}

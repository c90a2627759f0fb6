package valuation

// =============================================================================
// VARIANT A: SIMPLE
// =============================================================================

// SimpleModel values the company at its terminal value.
// Formula: EV = TV, Pre-Money = EV, Investor Stake = Investment / Post-Money
type SimpleModel struct{}

func (SimpleModel) Variant() Variant { return VariantSimple }

func (SimpleModel) Description() string {
	return "terminal value as enterprise value; stake = investment / post-money"
}

func (SimpleModel) Compute(p Params) (*Result, error) {
	const op = "compute.simple"

	cf := projectCashFlow(p)
	enterpriseValue := cf.TerminalValue
	preMoney := enterpriseValue

	post, err := postMoney(op, preMoney, p.Investment)
	if err != nil {
		return nil, err
	}
	investorStake := p.Investment / post * 100

	metrics := append(cf.metrics(),
		Metric{Key: "enterprise_value", Value: enterpriseValue, Kind: Currency},
		Metric{Key: "pre_money_valuation", Value: preMoney, Kind: Currency},
		Metric{Key: "post_money_valuation", Value: post, Kind: Currency},
		Metric{Key: "price_per_share", Value: preMoney / p.PreMoneyShares, Kind: Currency},
		Metric{Key: "investor_stake_pct", Value: investorStake, Kind: Percent},
		Metric{Key: "founder_stake_pct", Value: 100 - investorStake, Kind: Percent},
	)
	return NewResult(VariantSimple, metrics...), nil
}

// =============================================================================
// VARIANT B: ESOP ANTI-DILUTION
// =============================================================================

// ESOPModel adds next-year free cash flow to the terminal value and scales
// the investor stake up so it survives the founder-side ESOP issuance.
// Formula: Final = (Investment / Post-Money) / (1 - NewShares / (Shares + NewShares))
type ESOPModel struct{}

func (ESOPModel) Variant() Variant { return VariantESOP }

func (ESOPModel) Description() string {
	return "FCF plus terminal value; investor ownership adjusted for ESOP share dilution"
}

func (ESOPModel) Compute(p Params) (*Result, error) {
	const op = "compute.esop"

	cf := projectCashFlow(p)
	enterpriseValue := cf.FreeCashFlow + cf.TerminalValue
	preMoney := enterpriseValue

	post, err := postMoney(op, preMoney, p.Investment)
	if err != nil {
		return nil, err
	}

	ownershipBefore := p.Investment / post
	esopDilution := p.NewShares / (p.PreMoneyShares + p.NewShares)
	finalOwnership := ownershipBefore / (1 - esopDilution)

	metrics := append(cf.metrics(),
		Metric{Key: "enterprise_value", Value: enterpriseValue, Kind: Currency},
		Metric{Key: "pre_money_valuation", Value: preMoney, Kind: Currency},
		Metric{Key: "post_money_valuation", Value: post, Kind: Currency},
		Metric{Key: "price_per_share", Value: preMoney / p.PreMoneyShares, Kind: Currency},
		Metric{Key: "investor_ownership_before_esop_pct", Value: ownershipBefore * 100, Kind: Percent},
		Metric{Key: "founder_esop_dilution_pct", Value: esopDilution * 100, Kind: Percent},
		Metric{Key: "investor_final_ownership_pct", Value: finalOwnership * 100, Kind: Percent},
	)
	return NewResult(VariantESOP, metrics...), nil
}

// =============================================================================
// VARIANT C: DIRECT DISCOUNTING
// =============================================================================

// DirectModel capitalizes next-year revenue without the cash-flow chain and
// reserves the ESOP pool as a flat percentage of the cap table.
// Formula: Pre-Money = Revenue * (1 + g) / (r - g_terminal)
type DirectModel struct{}

func (DirectModel) Variant() Variant { return VariantDirect }

func (DirectModel) Description() string {
	return "revenue discounted directly; ESOP pool subtracted from founder stake"
}

func (DirectModel) Compute(p Params) (*Result, error) {
	const op = "compute.direct"

	projected := p.Revenue * (1 + p.GrowthRate)
	preMoney := projected / (p.DiscountRate - p.TerminalGrowth)

	post, err := postMoney(op, preMoney, p.Investment)
	if err != nil {
		return nil, err
	}

	investorStake := p.Investment / post * 100
	esopPool := p.ESOPPercent * 100

	return NewResult(VariantDirect,
		Metric{Key: "projected_revenue", Value: projected, Kind: Currency},
		Metric{Key: "pre_money_valuation", Value: preMoney, Kind: Currency},
		Metric{Key: "post_money_valuation", Value: post, Kind: Currency},
		Metric{Key: "investor_stake_pct", Value: investorStake, Kind: Percent},
		Metric{Key: "esop_pool_pct", Value: esopPool, Kind: Percent},
		Metric{Key: "founder_stake_pct", Value: 100 - investorStake - esopPool, Kind: Percent},
	), nil
}

package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestSimpleModelReferenceScenario(t *testing.T) {
	p := DefaultParams()

	res, err := Compute(VariantSimple, p)
	require.NoError(t, err)

	// Stepwise:
	// projected = 1,100,000; operating profit = 165,000; EBIT = 155,000
	// EBT = 150,000; net income = 112,500; FCF = 112,500 + 10,000 - 20,000 - 5,000 = 97,500
	// TV = 97,500 * 1.03 / 0.09 = 1,115,833.33
	expected := map[string]float64{
		"projected_revenue":    1_100_000,
		"operating_profit":     165_000,
		"ebit":                 155_000,
		"ebt":                  150_000,
		"net_income":           112_500,
		"free_cash_flow":       97_500,
		"terminal_value":       1_115_833.333333,
		"enterprise_value":     1_115_833.333333,
		"pre_money_valuation":  1_115_833.333333,
		"post_money_valuation": 1_615_833.333333,
		"price_per_share":      1.115833,
		"investor_stake_pct":   30.943785,
		"founder_stake_pct":    69.056215,
	}
	for key, want := range expected {
		got, ok := res.Get(key)
		require.True(t, ok, "missing metric %s", key)
		assert.InDelta(t, want, got, 1e-4, key)
	}
	assert.Equal(t, VariantSimple, res.Variant())
}

func TestComputeKeepsComputationOrder(t *testing.T) {
	res, err := Compute(VariantSimple, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"projected_revenue", "operating_profit", "ebit", "ebt", "net_income",
		"free_cash_flow", "terminal_value", "enterprise_value",
		"pre_money_valuation", "post_money_valuation", "price_per_share",
		"investor_stake_pct", "founder_stake_pct",
	}, res.Keys())
}

func TestESOPModel(t *testing.T) {
	p := DefaultParams()
	p.NewShares = 250_000

	res, err := Compute(VariantESOP, p)
	require.NoError(t, err)

	fcf, _ := res.Get("free_cash_flow")
	tv, _ := res.Get("terminal_value")
	ev, _ := res.Get("enterprise_value")
	assert.InDelta(t, fcf+tv, ev, tolerance)

	post, _ := res.Get("post_money_valuation")
	assert.InDelta(t, 1_713_333.333333, post, 1e-4)

	before, _ := res.Get("investor_ownership_before_esop_pct")
	dilution, _ := res.Get("founder_esop_dilution_pct")
	final, _ := res.Get("investor_final_ownership_pct")

	// 250k / (1M + 250k) = 20%
	assert.InDelta(t, 20.0, dilution, tolerance)
	assert.InDelta(t, 500_000/post*100, before, tolerance)
	assert.InDelta(t, before/(1-0.20), final, tolerance)
}

func TestESOPModelWithoutNewSharesKeepsOwnership(t *testing.T) {
	res, err := Compute(VariantESOP, DefaultParams())
	require.NoError(t, err)

	before, _ := res.Get("investor_ownership_before_esop_pct")
	final, _ := res.Get("investor_final_ownership_pct")
	assert.Equal(t, before, final)
}

func TestDirectModel(t *testing.T) {
	p := DefaultParams()
	p.ESOPPercent = 0.10

	res, err := Compute(VariantDirect, p)
	require.NoError(t, err)

	pre, _ := res.Get("pre_money_valuation")
	assert.InDelta(t, 1_100_000/0.09, pre, 1e-6)

	investor, _ := res.Get("investor_stake_pct")
	esop, _ := res.Get("esop_pool_pct")
	founder, _ := res.Get("founder_stake_pct")
	assert.InDelta(t, 10.0, esop, tolerance)
	assert.InDelta(t, 100.0, investor+founder+esop, tolerance)

	_, hasFCF := res.Get("free_cash_flow")
	assert.False(t, hasFCF, "direct variant does not expose the cash-flow chain")
}

func TestStakesSumToHundred(t *testing.T) {
	cases := []Params{
		DefaultParams(),
		func() Params { p := DefaultParams(); p.Investment = 0; return p }(),
		func() Params { p := DefaultParams(); p.Revenue = 25_000_000; p.GrowthRate = 0.8; return p }(),
		func() Params { p := DefaultParams(); p.DiscountRate = 0.35; p.TerminalGrowth = -0.02; return p }(),
	}

	for _, p := range cases {
		res, err := Compute(VariantSimple, p)
		require.NoError(t, err)
		investor, _ := res.Get("investor_stake_pct")
		founder, _ := res.Get("founder_stake_pct")
		assert.InDelta(t, 100.0, investor+founder, tolerance)

		p.ESOPPercent = 0.15
		res, err = Compute(VariantDirect, p)
		require.NoError(t, err)
		investor, _ = res.Get("investor_stake_pct")
		founder, _ = res.Get("founder_stake_pct")
		esop, _ := res.Get("esop_pool_pct")
		assert.InDelta(t, 100.0, investor+founder+esop, tolerance)
	}
}

func TestPostMoneyCoversInvestment(t *testing.T) {
	for _, v := range []Variant{VariantSimple, VariantESOP, VariantDirect} {
		res, err := Compute(v, DefaultParams())
		require.NoError(t, err)

		pre, _ := res.Get("pre_money_valuation")
		post, _ := res.Get("post_money_valuation")
		require.GreaterOrEqual(t, pre, 0.0)
		assert.GreaterOrEqual(t, post, DefaultParams().Investment, v)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	p := DefaultParams()
	p.NewShares = 120_000
	p.ESOPPercent = 0.07

	for _, v := range []Variant{VariantSimple, VariantESOP, VariantDirect} {
		first, err := Compute(v, p)
		require.NoError(t, err)
		second, err := Compute(v, p)
		require.NoError(t, err)

		a, b := first.Metrics(), second.Metrics()
		require.Len(t, b, len(a))
		for i := range a {
			assert.Equal(t, a[i].Key, b[i].Key)
			assert.Equal(t, math.Float64bits(a[i].Value), math.Float64bits(b[i].Value), a[i].Key)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	p := DefaultParams()
	p.DiscountRate = 0.12
	p.TerminalGrowth = 0.12

	for _, v := range []Variant{VariantSimple, VariantESOP, VariantDirect} {
		res, err := Compute(v, p)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrDivisionByZero), v)
		assert.True(t, IsKind(err, KindDivisionByZero))
		assert.Contains(t, err.Error(), "terminal growth must be strictly less than discount rate")
	}
}

func TestInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"nan growth", func(p *Params) { p.GrowthRate = math.NaN() }, "growth_rate"},
		{"inf discount", func(p *Params) { p.DiscountRate = math.Inf(1) }, "discount_rate"},
		{"negative revenue", func(p *Params) { p.Revenue = -1 }, "revenue"},
		{"negative investment", func(p *Params) { p.Investment = -10 }, "investment"},
		{"zero shares", func(p *Params) { p.PreMoneyShares = 0 }, "pre_money_shares"},
		{"negative new shares", func(p *Params) { p.NewShares = -5 }, "new_shares"},
		{"esop above one", func(p *Params) { p.ESOPPercent = 1.5 }, "esop_percent"},
		{"growth above discount", func(p *Params) { p.TerminalGrowth = 0.2 }, "terminal_growth"},
		{"non-positive post money", func(p *Params) {
			p.OperatingMargin = -1
			p.Investment = 0
		}, "post_money_valuation"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)

			_, err := Compute(VariantSimple, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var ve *Error
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestComputeUnknownVariant(t *testing.T) {
	_, err := Compute(Variant("monte-carlo"), DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{
		"A":      VariantSimple,
		"simple": VariantSimple,
		" b ":    VariantESOP,
		"C":      VariantDirect,
		"Direct": VariantDirect,
	} {
		got, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseVariant("d")
	assert.True(t, IsKind(err, KindInvalidInput))
}

func TestModelsSorted(t *testing.T) {
	models := Models()
	require.Len(t, models, 3)
	assert.Equal(t, VariantDirect, models[0].Variant())
	assert.Equal(t, VariantESOP, models[1].Variant())
	assert.Equal(t, VariantSimple, models[2].Variant())
	for _, m := range models {
		assert.NotEmpty(t, m.Description())
	}
}

func TestResultIsImmutable(t *testing.T) {
	res, err := Compute(VariantSimple, DefaultParams())
	require.NoError(t, err)

	metrics := res.Metrics()
	metrics[0].Value = -1

	got, _ := res.Get(metrics[0].Key)
	assert.NotEqual(t, -1.0, got)
}

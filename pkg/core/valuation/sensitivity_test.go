package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestAxis(t *testing.T) {
	axis, err := Axis(0.10, 0.14, 5)
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(axis, []float64{0.10, 0.11, 0.12, 0.13, 0.14}, 1e-12))

	single, err := Axis(0.12, 0.20, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.12}, single)

	_, err = Axis(0.1, 0.2, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSensitivityGrid(t *testing.T) {
	discount := []float64{0.10, 0.12}
	growth := []float64{0.03, 0.12}

	g, err := Sensitivity(VariantSimple, DefaultParams(), discount, growth)
	require.NoError(t, err)
	require.Len(t, g.Cells, 2)
	require.Len(t, g.Cells[0], 2)

	// (0.12, 0.03) is the reference scenario.
	ref := g.Cells[1][0]
	assert.Empty(t, ref.Err)
	assert.InDelta(t, 1_115_833.333333, ref.Value, 1e-4)

	// (0.12, 0.12) divides by zero, (0.10, 0.12) has growth above discount.
	assert.Equal(t, KindDivisionByZero, g.Cells[1][1].Err)
	assert.Equal(t, KindInvalidInput, g.Cells[0][1].Err)

	// Lower discount rate means higher valuation.
	assert.Greater(t, g.Cells[0][0].Value, ref.Value)
}

func TestAxisValuesAreExact(t *testing.T) {
	axis, err := Axis(0.02, 0.06, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.02, 0.03, 0.04, 0.05, 0.06}, axis)
}

func TestSensitivityDiagonalFromOverlappingAxes(t *testing.T) {
	cases := []struct {
		name               string
		dLo, dHi, gLo, gHi float64
	}{
		{"discount below growth", 0.01, 0.05, 0.02, 0.06},
		{"discount above growth", 0.02, 0.06, 0.01, 0.05},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			discount, err := Axis(tc.dLo, tc.dHi, 5)
			require.NoError(t, err)
			growth, err := Axis(tc.gLo, tc.gHi, 5)
			require.NoError(t, err)

			g, err := Sensitivity(VariantSimple, DefaultParams(), discount, growth)
			require.NoError(t, err)

			diagonal := 0
			for _, row := range g.Cells {
				for _, cell := range row {
					switch {
					case math.Abs(cell.DiscountRate-cell.TerminalGrowth) < 1e-9:
						diagonal++
						assert.Equal(t, KindDivisionByZero, cell.Err, "d=%v g=%v", cell.DiscountRate, cell.TerminalGrowth)
						assert.Zero(t, cell.Value)
					case cell.TerminalGrowth > cell.DiscountRate:
						assert.Equal(t, KindInvalidInput, cell.Err)
					default:
						assert.Empty(t, cell.Err)
						assert.False(t, math.IsInf(cell.Value, 0))
					}
				}
			}
			assert.Equal(t, 4, diagonal)
		})
	}
}

func TestSensitivityRejectsEmptyAxes(t *testing.T) {
	_, err := Sensitivity(VariantSimple, DefaultParams(), nil, []float64{0.03})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Sensitivity(Variant("nope"), DefaultParams(), []float64{0.1}, []float64{0.03})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateWACC(t *testing.T) {
	res, err := CalculateWACC(WACCInput{
		UnleveredBeta:     1.0,
		RiskFreeRate:      0.04,
		MarketRiskPremium: 0.05,
		PreTaxCostOfDebt:  0.08,
		DebtToEquity:      0.5,
	}, 0.25)
	require.NoError(t, err)

	// BetaL = 1 * (1 + 0.75*0.5) = 1.375; Ke = 0.04 + 1.375*0.05 = 0.10875
	// Kd = 0.06; Wd = 1/3; We = 2/3; WACC = 0.0725 + 0.02 = 0.0925
	assert.InDelta(t, 1.375, res.LeveredBeta, 1e-12)
	assert.InDelta(t, 0.10875, res.CostOfEquity, 1e-12)
	assert.InDelta(t, 0.06, res.CostOfDebt, 1e-12)
	assert.InDelta(t, 0.0925, res.WACC, 1e-12)
	assert.InDelta(t, 1.0, res.WeightDebt+res.WeightEquity, 1e-12)
}

func TestCalculateWACCRejectsNegativeLeverage(t *testing.T) {
	_, err := CalculateWACC(WACCInput{UnleveredBeta: 1, DebtToEquity: -0.2}, 0.25)
	assert.True(t, IsKind(err, KindInvalidInput))
}

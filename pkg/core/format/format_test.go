package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"startup_valuation/pkg/core/valuation"
)

func TestCurrency(t *testing.T) {
	f := Formatter{}
	cases := map[float64]string{
		0:                   "0.00",
		12.5:                "12.50",
		999.999:             "1,000.00",
		1_115_833.333333333: "1,115,833.33",
		1_000_000:           "1,000,000.00",
		-2_500.456:          "-2,500.46",
		-0.001:              "0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, f.Currency(in), "%v", in)
	}
}

func TestCurrencySymbol(t *testing.T) {
	f := Formatter{Symbol: "$"}
	assert.Equal(t, "$1,615,833.33", f.Currency(1_615_833.3333))
	assert.Equal(t, "-$42.00", f.Currency(-42))
}

func TestPercent(t *testing.T) {
	f := Formatter{}
	assert.Equal(t, "30.94%", f.Percent(30.94378545642083))
	assert.Equal(t, "100.00%", f.Percent(100))
	assert.Equal(t, "0.00%", f.Percent(-0.0001))
}

func TestMetricByKind(t *testing.T) {
	f := Formatter{Symbol: "€"}
	assert.Equal(t, "€1,234.50", f.Metric(valuation.Metric{Key: "x", Value: 1234.5, Kind: valuation.Currency}))
	assert.Equal(t, "12.35%", f.Metric(valuation.Metric{Key: "y", Value: 12.345, Kind: valuation.Percent}))
	assert.Equal(t, "1,000,000.00", f.Metric(valuation.Metric{Key: "z", Value: 1e6, Kind: valuation.Count}))
}

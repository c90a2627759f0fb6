package valuation

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// Cell is one point of a sensitivity grid. Err is empty when Value holds a
// valid pre-money valuation.
type Cell struct {
	DiscountRate   float64   `json:"discount_rate"`
	TerminalGrowth float64   `json:"terminal_growth"`
	Value          float64   `json:"value"`
	Err            ErrorKind `json:"error,omitempty"`
}

// Grid holds pre-money valuations for every (discount rate, terminal growth)
// pair. Rows follow DiscountRates, columns follow GrowthRates.
type Grid struct {
	Variant       Variant   `json:"variant"`
	DiscountRates []float64 `json:"discount_rates"`
	GrowthRates   []float64 `json:"growth_rates"`
	Cells         [][]Cell  `json:"cells"`
}

// axisPlaces is the precision axis values are snapped to, so rates that
// print the same compare equal.
const axisPlaces = 10

// Axis returns steps evenly spaced values from lo to hi inclusive, each
// rounded to axisPlaces decimals.
func Axis(lo, hi float64, steps int) ([]float64, error) {
	const op = "sensitivity.axis"
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return nil, invalidInput(op, "range", "axis bounds must be finite")
	}
	switch {
	case steps < 1:
		return nil, invalidInput(op, "steps", "steps must be >= 1, got %d", steps)
	case steps == 1:
		return []float64{snap(lo)}, nil
	}
	axis := floats.Span(make([]float64, steps), lo, hi)
	for i, v := range axis {
		axis[i] = snap(v)
	}
	return axis, nil
}

func snap(v float64) float64 {
	return decimal.NewFromFloat(v).Round(axisPlaces).InexactFloat64()
}

// Sensitivity recomputes the pre-money valuation of variant over the
// cartesian product of discountRates and growthRates, holding every other
// parameter of base fixed. Cells whose inputs fail validation carry the
// error kind instead of aborting the whole grid.
func Sensitivity(variant Variant, base Params, discountRates, growthRates []float64) (*Grid, error) {
	const op = "sensitivity"

	if _, err := Lookup(variant); err != nil {
		return nil, err
	}
	if len(discountRates) == 0 || len(growthRates) == 0 {
		return nil, invalidInput(op, "axis", "sensitivity needs at least one discount rate and one growth rate")
	}

	g := &Grid{
		Variant:       variant,
		DiscountRates: append([]float64(nil), discountRates...),
		GrowthRates:   append([]float64(nil), growthRates...),
		Cells:         make([][]Cell, len(discountRates)),
	}
	for i, r := range discountRates {
		row := make([]Cell, len(growthRates))
		for j, tg := range growthRates {
			p := base
			p.DiscountRate = r
			p.TerminalGrowth = tg

			cell := Cell{DiscountRate: r, TerminalGrowth: tg}
			res, err := Compute(variant, p)
			if err != nil {
				cell.Err = KindOf(err)
				if cell.Err == "" {
					return nil, err
				}
			} else {
				cell.Value, _ = res.Get("pre_money_valuation")
			}
			row[j] = cell
		}
		g.Cells[i] = row
	}
	return g, nil
}

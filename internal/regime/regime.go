// Package regime classifies the latest market state and derives the
// per-category weight table the aggregator applies.
package regime

import (
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/signal"
	"github.com/dhkim/tessa/internal/taconfig"
)

// Kind is the classified market regime.
type Kind string

const (
	Trend Kind = "trend"
	Range Kind = "range"
	Mixed Kind = "mixed"
)

// Inputs are the latest classifier readings. Any of them may be undefined.
type Inputs struct {
	ADX        series.Value
	BBWidthPct series.Value
	ATRPct     series.Value
}

// Classify applies the rules in priority order: trend on strong ADX with
// elevated (or unknown) volatility, range on a tight volatility band,
// otherwise mixed.
func Classify(in Inputs, th taconfig.Regime) Kind {
	adx, adxOK := in.ADX.Float()
	atrPct, atrOK := in.ATRPct.Float()
	if adxOK && adx >= th.ADXTrend && (!atrOK || atrPct >= th.ATRPctTrend) {
		return Trend
	}
	if width, ok := in.BBWidthPct.Float(); ok && width <= th.BBWidthLow {
		return Range
	}
	return Mixed
}

// Weights builds the category weight table for a regime. The matching one of
// trend/range gets 2.0 and the other 0.8; mixed lifts both to 1.2. Volume,
// pattern and baseline stay at 1.0 in every regime.
func (k Kind) Weights() map[signal.Category]float64 {
	w := map[signal.Category]float64{
		signal.CategoryTrend:    0.8,
		signal.CategoryRange:    0.8,
		signal.CategoryVolume:   1.0,
		signal.CategoryPattern:  1.0,
		signal.CategoryBaseline: 1.0,
	}
	switch k {
	case Trend:
		w[signal.CategoryTrend] = 2.0
	case Range:
		w[signal.CategoryRange] = 2.0
	default:
		w[signal.CategoryTrend] = 1.2
		w[signal.CategoryRange] = 1.2
	}
	return w
}

// Package overlay computes the path-shaped sequences that need their own
// bookkeeping on top of the base indicator feed: the SuperTrend band
// recurrence, Ichimoku cloud, price channels, money-flow family, momentum
// extras, VWMA and Fibonacci retracement levels. Every computation is causal:
// index i never reads an index greater than i.
package overlay

import (
	"math"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
)

// Direction is the SuperTrend trend state at one index.
type Direction int8

const (
	DirUndefined Direction = 0
	DirBull      Direction = 1
	DirBear      Direction = -1
)

// SuperTrend holds the band recurrence output. Line is the overlay value:
// the lower band while bullish, the upper band while bearish.
type SuperTrend struct {
	Upper     series.Series
	Lower     series.Series
	Line      series.Series
	Direction []Direction
}

// ComputeSuperTrend runs the first-order band recurrence over the bar
// history. The ATR sequence is supplied by the caller and is typically a
// different period from the base feed's ATR. Bands and direction stay
// undefined while ATR is undefined.
//
// The initial direction compares the close against the previous index's
// upper band, not the current one the flip rules use. Historical signal
// parity depends on this, so it stays as is.
func ComputeSuperTrend(bars market.History, atr series.Series, multiplier float64) SuperTrend {
	high := bars.Highs()
	low := bars.Lows()
	close := bars.Closes()
	n := len(close)

	st := SuperTrend{
		Upper:     series.Make(n),
		Lower:     series.Make(n),
		Line:      series.Make(n),
		Direction: make([]Direction, n),
	}

	for i := 0; i < n; i++ {
		a, ok := atr.At(i).Float()
		mid := (high[i] + low[i]) / 2
		if !ok || math.IsNaN(mid) || math.IsNaN(close[i]) {
			continue
		}
		basicUpper := mid + multiplier*a
		basicLower := mid - multiplier*a

		upper, lower := basicUpper, basicLower
		if i > 0 {
			if prev, ok := st.Upper[i-1].Float(); ok {
				upper = math.Min(basicUpper, prev)
			}
			if prev, ok := st.Lower[i-1].Float(); ok {
				lower = math.Max(basicLower, prev)
			}
		}

		dir := DirUndefined
		if i > 0 {
			switch st.Direction[i-1] {
			case DirUndefined:
				if prevUpper, ok := st.Upper[i-1].Float(); ok && close[i] >= prevUpper {
					dir = DirBull
				} else {
					dir = DirBear
				}
			case DirBull:
				if close[i] < lower {
					dir = DirBear
					upper = basicUpper
				} else {
					dir = DirBull
				}
			case DirBear:
				if close[i] > upper {
					dir = DirBull
					lower = basicLower
				} else {
					dir = DirBear
				}
			}
		}

		st.Upper[i] = series.Def(upper)
		st.Lower[i] = series.Def(lower)
		st.Direction[i] = dir
		switch dir {
		case DirBull:
			st.Line[i] = st.Lower[i]
		case DirBear:
			st.Line[i] = st.Upper[i]
		}
	}

	return st
}

// DirectionSeries renders the direction column as a numeric sequence
// (+1 bull, -1 bear, null undefined) for presentation.
func (st SuperTrend) DirectionSeries() series.Series {
	out := series.Make(len(st.Direction))
	for i, d := range st.Direction {
		if d != DirUndefined {
			out[i] = series.Def(float64(d))
		}
	}
	return out
}

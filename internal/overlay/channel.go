package overlay

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/taconfig"
)

// Channel is a generic upper/middle/lower band triple.
type Channel struct {
	Upper  series.Series
	Middle series.Series
	Lower  series.Series
}

// ComputeDonchian builds the rolling-extreme channel. Unlike the other
// overlays it is defined from the very first bar: a short window narrows
// instead of going undefined.
func ComputeDonchian(bars market.History, period int) Channel {
	high := bars.Highs()
	low := bars.Lows()
	n := len(high)

	ch := Channel{Upper: series.Make(n), Middle: series.Make(n), Lower: series.Make(n)}
	for i := 0; i < n; i++ {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		hi, lo := math.Inf(-1), math.Inf(1)
		seen := false
		for j := start; j <= i; j++ {
			if math.IsNaN(high[j]) || math.IsNaN(low[j]) {
				continue
			}
			seen = true
			hi = math.Max(hi, high[j])
			lo = math.Min(lo, low[j])
		}
		if !seen {
			continue
		}
		ch.Upper[i] = series.Def(hi)
		ch.Lower[i] = series.Def(lo)
		ch.Middle[i] = series.Def((hi + lo) / 2)
	}
	return ch
}

// ComputeKeltner builds the channel around an EMA of the typical price,
// widened by multiplier·ATR. One period drives both smoothings.
func ComputeKeltner(bars market.History, cfg taconfig.Keltner) Channel {
	high := bars.Highs()
	low := bars.Lows()
	close := bars.Closes()
	n := len(close)

	ch := Channel{Upper: series.Make(n), Middle: series.Make(n), Lower: series.Make(n)}
	if n <= cfg.EMAPeriod {
		return ch
	}

	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}
	mid := series.FromFloats(talib.Ema(tp, cfg.EMAPeriod), cfg.EMAPeriod-1)
	atr := series.FromFloats(talib.Atr(high, low, close, cfg.EMAPeriod), cfg.EMAPeriod)

	for i := 0; i < n; i++ {
		m, mok := mid[i].Float()
		a, aok := atr[i].Float()
		if mok && aok {
			ch.Middle[i] = series.Def(m)
			ch.Upper[i] = series.Def(m + cfg.Multiplier*a)
			ch.Lower[i] = series.Def(m - cfg.Multiplier*a)
		}
	}
	return ch
}

package overlay

import (
	talib "github.com/markcheno/go-talib"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/taconfig"
)

// Ichimoku holds the cloud sequences. SenkouA/SenkouB are already shifted
// forward by the displacement (their first displacement entries are
// undefined); Chikou is the close shifted backward (its last displacement
// entries are undefined).
type Ichimoku struct {
	Tenkan  series.Series
	Kijun   series.Series
	SenkouA series.Series
	SenkouB series.Series
	Chikou  series.Series
}

// ComputeIchimoku builds the cloud from rolling high/low midpoints.
func ComputeIchimoku(bars market.History, cfg taconfig.Ichimoku) Ichimoku {
	high := bars.Highs()
	low := bars.Lows()
	close := bars.Closes()
	n := len(close)

	tenkan := rollingMid(high, low, cfg.Conversion)
	kijun := rollingMid(high, low, cfg.Base)

	senkouA := series.Make(n)
	for i := 0; i < n; i++ {
		t, tok := tenkan[i].Float()
		k, kok := kijun[i].Float()
		if tok && kok {
			senkouA[i] = series.Def((t + k) / 2)
		}
	}
	senkouB := rollingMid(high, low, cfg.SpanB)

	return Ichimoku{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: senkouA.ShiftForward(cfg.Displacement),
		SenkouB: senkouB.ShiftForward(cfg.Displacement),
		Chikou:  series.FromFloats(close, 0).ShiftBack(cfg.Displacement),
	}
}

// rollingMid is (period-high + period-low) / 2, undefined until a full
// window exists.
func rollingMid(high, low []float64, period int) series.Series {
	n := len(high)
	if n < period {
		return series.Make(n)
	}
	hh := series.FromFloats(talib.Max(high, period), period-1)
	ll := series.FromFloats(talib.Min(low, period), period-1)
	out := series.Make(n)
	for i := 0; i < n; i++ {
		h, hok := hh[i].Float()
		l, lok := ll[i].Float()
		if hok && lok {
			out[i] = series.Def((h + l) / 2)
		}
	}
	return out
}

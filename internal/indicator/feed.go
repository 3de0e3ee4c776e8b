// Package indicator adapts the go-talib indicator math into the
// defined-or-undefined series model. go-talib zero-fills warm-up regions, so
// every output is masked with its lookback before anything downstream sees
// it.
package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/taconfig"
)

// Set maps canonical indicator names ("RSI_14", "MACD_Signal", "BB_Upper",
// ...) to series index-aligned with the bar history.
type Set map[string]series.Series

// Latest returns the most recent value of a named sequence; undefined when
// the name is unknown.
func (s Set) Latest(name string) series.Value {
	return s[name].Last()
}

// Window returns the trailing n values of a named sequence.
func (s Set) Window(name string, n int) series.Series {
	return s[name].Window(n)
}

// Compute produces the base indicator set for a bar history. A failure here
// is fatal for the evaluation: every signal evaluator consumes these
// sequences.
func Compute(bars market.History, cfg taconfig.Indicators) (Set, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("need at least 2 bars, got %d", len(bars))
	}

	high := bars.Highs()
	low := bars.Lows()
	close := bars.Closes()
	volume := bars.Volumes()
	n := len(close)

	out := make(Set)

	// Moving averages.
	for _, p := range cfg.SMAPeriods {
		out[fmt.Sprintf("SMA_%d", p)] = masked(n, p-1, func() []float64 { return talib.Sma(close, p) })
	}
	for _, p := range cfg.EMAPeriods {
		out[fmt.Sprintf("EMA_%d", p)] = masked(n, p-1, func() []float64 { return talib.Ema(close, p) })
	}
	out[fmt.Sprintf("WMA_%d", cfg.WMAPeriod)] = masked(n, cfg.WMAPeriod-1,
		func() []float64 { return talib.Wma(close, cfg.WMAPeriod) })

	// MACD.
	macdLookback := cfg.MACD.Slow - 1 + cfg.MACD.Signal - 1
	if n > macdLookback {
		macd, sig, hist := talib.Macd(close, cfg.MACD.Fast, cfg.MACD.Slow, cfg.MACD.Signal)
		out["MACD"] = series.FromFloats(macd, macdLookback)
		out["MACD_Signal"] = series.FromFloats(sig, macdLookback)
		out["MACD_Hist"] = series.FromFloats(hist, macdLookback)
	} else {
		out["MACD"], out["MACD_Signal"], out["MACD_Hist"] = series.Make(n), series.Make(n), series.Make(n)
	}

	// RSI.
	for _, p := range cfg.RSIPeriods {
		out[fmt.Sprintf("RSI_%d", p)] = masked(n, p, func() []float64 { return talib.Rsi(close, p) })
	}

	// KDJ via slow stochastic; J = 3K - 2D.
	kdjLookback := cfg.KDJ.FastK - 1 + cfg.KDJ.SlowK - 1 + cfg.KDJ.SlowD - 1
	if n > kdjLookback {
		k, d := talib.Stoch(high, low, close, cfg.KDJ.FastK, cfg.KDJ.SlowK, talib.SMA, cfg.KDJ.SlowD, talib.SMA)
		ks := series.FromFloats(k, kdjLookback)
		ds := series.FromFloats(d, kdjLookback)
		j := series.Make(n)
		for i := 0; i < n; i++ {
			kv, kok := ks[i].Float()
			dv, dok := ds[i].Float()
			if kok && dok {
				j[i] = series.Def(3*kv - 2*dv)
			}
		}
		out["K"], out["D"], out["J"] = ks, ds, j
	} else {
		out["K"], out["D"], out["J"] = series.Make(n), series.Make(n), series.Make(n)
	}

	// Bollinger bands and %B.
	bbLookback := cfg.BBands.Period - 1
	if n > bbLookback {
		up, mid, lo := talib.BBands(close, cfg.BBands.Period, cfg.BBands.DevUp, cfg.BBands.DevDn, talib.SMA)
		upper := series.FromFloats(up, bbLookback)
		middle := series.FromFloats(mid, bbLookback)
		lower := series.FromFloats(lo, bbLookback)
		pctB := series.Make(n)
		width := series.Make(n)
		for i := 0; i < n; i++ {
			u, uok := upper[i].Float()
			l, lok := lower[i].Float()
			m, mok := middle[i].Float()
			if uok && lok && u != l {
				pctB[i] = series.Def((close[i] - l) / (u - l) * 100)
			}
			if uok && lok && mok && m != 0 {
				width[i] = series.Def((u - l) / m * 100)
			}
		}
		out["BB_Upper"], out["BB_Middle"], out["BB_Lower"] = upper, middle, lower
		out["BB_PctB"], out["BB_Width"] = pctB, width
	} else {
		for _, name := range []string{"BB_Upper", "BB_Middle", "BB_Lower", "BB_PctB", "BB_Width"} {
			out[name] = series.Make(n)
		}
	}

	// Volatility.
	atr := masked(n, cfg.ATRPeriod, func() []float64 { return talib.Atr(high, low, close, cfg.ATRPeriod) })
	out["ATR"] = atr
	out["NATR"] = masked(n, cfg.ATRPeriod, func() []float64 { return talib.Natr(high, low, close, cfg.ATRPeriod) })
	out["TRANGE"] = masked(n, 1, func() []float64 { return talib.TRange(high, low, close) })

	atrPct := series.Make(n)
	for i := 0; i < n; i++ {
		if v, ok := atr[i].Float(); ok && close[i] != 0 {
			atrPct[i] = series.Def(v / close[i] * 100)
		}
	}
	out["ATR_Pct"] = atrPct

	// Trend.
	adxP := cfg.ADXPeriod
	out["ADX"] = masked(n, 2*adxP-1, func() []float64 { return talib.Adx(high, low, close, adxP) })
	out["ADXR"] = masked(n, 3*adxP-2, func() []float64 { return talib.AdxR(high, low, close, adxP) })
	out["+DI"] = masked(n, adxP, func() []float64 { return talib.PlusDI(high, low, close, adxP) })
	out["-DI"] = masked(n, adxP, func() []float64 { return talib.MinusDI(high, low, close, adxP) })
	out["TRIX"] = masked(n, 3*(12-1)+1, func() []float64 { return talib.Trix(close, 12) })
	if n > 25 {
		down, up := talib.Aroon(high, low, 25)
		out["Aroon_Down"] = series.FromFloats(down, 25)
		out["Aroon_Up"] = series.FromFloats(up, 25)
	} else {
		out["Aroon_Down"], out["Aroon_Up"] = series.Make(n), series.Make(n)
	}
	out["SAR"] = masked(n, 1, func() []float64 { return talib.Sar(high, low, 0.02, 0.2) })

	// Volume.
	out["OBV"] = masked(n, 0, func() []float64 { return talib.Obv(close, volume) })
	out["AD"] = masked(n, 0, func() []float64 { return talib.Ad(high, low, close, volume) })
	out["ADOSC"] = masked(n, 9, func() []float64 { return talib.AdOsc(high, low, close, volume, 3, 10) })

	// Oscillators.
	out["WILLR"] = masked(n, 13, func() []float64 { return talib.WillR(high, low, close, 14) })
	out["CCI"] = masked(n, 13, func() []float64 { return talib.Cci(high, low, close, 14) })
	out["ROC"] = masked(n, 10, func() []float64 { return talib.Roc(close, 10) })
	out["MOM"] = masked(n, 10, func() []float64 { return talib.Mom(close, 10) })
	stochRsiLookback := 14 + 5 - 1 + 3 - 1
	if n > stochRsiLookback {
		fastK, fastD := talib.StochRsi(close, 14, 5, 3, talib.SMA)
		out["StochRSI_K"] = series.FromFloats(fastK, stochRsiLookback)
		out["StochRSI_D"] = series.FromFloats(fastD, stochRsiLookback)
	} else {
		out["StochRSI_K"], out["StochRSI_D"] = series.Make(n), series.Make(n)
	}
	out["ULTOSC"] = masked(n, 28, func() []float64 { return talib.UltOsc(high, low, close, 7, 14, 28) })

	return out, nil
}

// masked runs a talib computation when enough bars exist and masks its
// warm-up; otherwise it returns an all-undefined series of length n.
func masked(n, lookback int, compute func() []float64) series.Series {
	if n <= lookback || lookback < 0 {
		return series.Make(n)
	}
	return series.FromFloats(compute(), lookback)
}

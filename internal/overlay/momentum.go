package overlay

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/taconfig"
)

// Momentum bundles the extended momentum sequences.
type Momentum struct {
	PPO       series.Series
	PPOSignal series.Series
	TSI       series.Series
	TSISignal series.Series
	DPO       series.Series
	KAMA      series.Series
	KAMASlope series.Series
	DEMA      series.Series
	TEMA      series.Series
}

// ComputeMomentum builds the extended momentum family.
func ComputeMomentum(bars market.History, cfg taconfig.Indicators) Momentum {
	close := bars.Closes()
	n := len(close)

	m := Momentum{
		PPO:       series.Make(n),
		PPOSignal: series.Make(n),
		TSI:       series.Make(n),
		TSISignal: series.Make(n),
		DPO:       series.Make(n),
		KAMA:      series.Make(n),
		KAMASlope: series.Make(n),
		DEMA:      series.Make(n),
		TEMA:      series.Make(n),
	}

	if n >= cfg.PPO.Slow {
		ppo := talib.Ppo(close, cfg.PPO.Fast, cfg.PPO.Slow, talib.EMA)
		m.PPO = series.FromFloats(ppo, cfg.PPO.Slow-1)
		m.PPOSignal = emaOf(m.PPO, cfg.PPO.Signal)
	}

	m.TSI, m.TSISignal = computeTSI(close, cfg.TSI)
	m.DPO = computeDPO(close, cfg.DPOPeriod)

	if n > cfg.KAMAPeriod {
		m.KAMA = series.FromFloats(talib.Kama(close, cfg.KAMAPeriod), cfg.KAMAPeriod)
		for i := 1; i < n; i++ {
			cur, cok := m.KAMA[i].Float()
			prev, pok := m.KAMA[i-1].Float()
			if cok && pok {
				m.KAMASlope[i] = series.Def(cur - prev)
			}
		}
	}
	if n >= 2*(cfg.DEMAPeriod-1)+1 {
		m.DEMA = series.FromFloats(talib.Dema(close, cfg.DEMAPeriod), 2*(cfg.DEMAPeriod-1))
	}
	if n >= 3*(cfg.TEMAPeriod-1)+1 {
		m.TEMA = series.FromFloats(talib.Tema(close, cfg.TEMAPeriod), 3*(cfg.TEMAPeriod-1))
	}

	return m
}

// computeTSI double-smooths the close delta and its absolute value with
// EMAs, seeding the delta with 0 at the first bar. A zero denominator maps
// to a 0 reading, not an undefined point.
func computeTSI(close []float64, cfg taconfig.TSI) (tsi, signal series.Series) {
	n := len(close)
	tsi = series.Make(n)
	signal = series.Make(n)

	delta := make([]float64, n)
	absDelta := make([]float64, n)
	for i := 1; i < n; i++ {
		delta[i] = close[i] - close[i-1]
		absDelta[i] = math.Abs(delta[i])
	}

	num := emaOf(emaOf(series.FromFloats(delta, 0), cfg.Long), cfg.Short)
	den := emaOf(emaOf(series.FromFloats(absDelta, 0), cfg.Long), cfg.Short)
	for i := 0; i < n; i++ {
		nv, nok := num[i].Float()
		dv, dok := den[i].Float()
		if !nok || !dok {
			continue
		}
		if dv == 0 {
			tsi[i] = series.Def(0)
			continue
		}
		tsi[i] = series.Def(100 * nv / dv)
	}
	signal = emaOf(tsi, cfg.Signal)
	return tsi, signal
}

// computeDPO subtracts a simple moving average displaced forward by
// period/2+1 bars from the close.
func computeDPO(close []float64, period int) series.Series {
	n := len(close)
	out := series.Make(n)
	if n < period {
		return out
	}
	sma := series.FromFloats(talib.Sma(close, period), period-1)
	shifted := sma.ShiftForward(period/2 + 1)
	for i := 0; i < n; i++ {
		s, ok := shifted[i].Float()
		if ok {
			out[i] = series.Def(close[i] - s)
		}
	}
	return out
}

// emaOf runs an EMA over the defined suffix of s, preserving the leading
// undefined region and masking the EMA's own warm-up.
func emaOf(s series.Series, period int) series.Series {
	out := series.Make(len(s))
	first := s.FirstDefined()
	if first < 0 {
		return out
	}
	vals := make([]float64, len(s)-first)
	for i := first; i < len(s); i++ {
		f, ok := s[i].Float()
		if !ok {
			f = math.NaN()
		}
		vals[i-first] = f
	}
	if len(vals) < period {
		return out
	}
	masked := series.FromFloats(talib.Ema(vals, period), period-1)
	for i, v := range masked {
		out[first+i] = v
	}
	return out
}

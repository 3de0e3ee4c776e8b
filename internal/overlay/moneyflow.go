package overlay

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/taconfig"
)

// zeroRangeEpsilon substitutes for a high=low bar range in the Chaikin
// money-flow multiplier so the ratio stays finite.
const zeroRangeEpsilon = 1e-9

// MoneyFlow bundles the volume-and-price flow sequences.
type MoneyFlow struct {
	MFI        series.Series
	CMF        series.Series
	EOM        series.Series
	ForceIndex series.Series
}

// ComputeMoneyFlow builds the money-flow family. EOM and Force Index keep
// their raw (unguarded) divisions: a flat bar makes the EOM point non-finite
// and the rolling mean skips it. The epsilon guard applies only to the CMF
// multiplier.
func ComputeMoneyFlow(bars market.History, cfg taconfig.Indicators) MoneyFlow {
	high := bars.Highs()
	low := bars.Lows()
	close := bars.Closes()
	volume := bars.Volumes()
	n := len(close)

	mf := MoneyFlow{
		MFI:        series.Make(n),
		CMF:        series.Make(n),
		EOM:        series.Make(n),
		ForceIndex: series.Make(n),
	}

	if n > cfg.MFIPeriod {
		mf.MFI = series.FromFloats(talib.Mfi(high, low, close, volume, cfg.MFIPeriod), cfg.MFIPeriod)
	}

	// Chaikin Money Flow: rolling money-flow volume over rolling volume.
	mfv := make([]float64, n)
	for i := 0; i < n; i++ {
		rng := high[i] - low[i]
		if rng == 0 {
			rng = zeroRangeEpsilon
		}
		mfm := ((close[i] - low[i]) - (high[i] - close[i])) / rng
		mfv[i] = mfm * volume[i]
	}
	mfvSum := rollingSum(mfv, cfg.CMFPeriod)
	volSum := rollingSum(volume, cfg.CMFPeriod)
	for i := 0; i < n; i++ {
		num, nok := mfvSum[i].Float()
		den, dok := volSum[i].Float()
		if nok && dok && den != 0 {
			mf.CMF[i] = series.Def(num / den)
		}
	}

	// Ease of Movement: midpoint delta over the box ratio, then a rolling
	// mean.
	eomRaw := make([]float64, n)
	eomRaw[0] = math.NaN()
	for i := 1; i < n; i++ {
		boxRatio := (high[i] - low[i]) / volume[i]
		eomRaw[i] = ((high[i]+low[i])/2 - (high[i-1]+low[i-1])/2) / boxRatio
	}
	mf.EOM = rollingMean(eomRaw, cfg.EOMPeriod)

	// Force Index: EMA of close delta times volume, seeded with 0 at index 0.
	force := make([]float64, n)
	for i := 1; i < n; i++ {
		force[i] = (close[i] - close[i-1]) * volume[i]
	}
	mf.ForceIndex = emaOf(series.FromFloats(force, 0), cfg.ForcePeriod)

	return mf
}

// rollingSum sums the trailing window, skipping non-finite points; it is
// defined from the first bar (minimum one point).
func rollingSum(vals []float64, period int) series.Series {
	out := series.Make(len(vals))
	for i := range vals {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		sum, count := 0.0, 0
		for j := start; j <= i; j++ {
			if math.IsNaN(vals[j]) || math.IsInf(vals[j], 0) {
				continue
			}
			sum += vals[j]
			count++
		}
		if count > 0 {
			out[i] = series.Def(sum)
		}
	}
	return out
}

// rollingMean averages the trailing window, skipping non-finite points.
func rollingMean(vals []float64, period int) series.Series {
	out := series.Make(len(vals))
	for i := range vals {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		sum, count := 0.0, 0
		for j := start; j <= i; j++ {
			if math.IsNaN(vals[j]) || math.IsInf(vals[j], 0) {
				continue
			}
			sum += vals[j]
			count++
		}
		if count > 0 {
			out[i] = series.Def(sum / float64(count))
		}
	}
	return out
}

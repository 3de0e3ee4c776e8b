package overlay

import (
	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
)

// ComputeVWMA weights the close by volume over a full trailing window.
// Unlike the money-flow rollups it requires every bar of the window, so the
// first period-1 points stay undefined.
func ComputeVWMA(bars market.History, period int) series.Series {
	close := bars.Closes()
	volume := bars.Volumes()
	n := len(close)
	out := series.Make(n)

	for i := period - 1; i < n; i++ {
		pvSum, vSum := 0.0, 0.0
		for j := i - period + 1; j <= i; j++ {
			pvSum += close[j] * volume[j]
			vSum += volume[j]
		}
		if vSum != 0 {
			out[i] = series.Def(pvSum / vSum)
		}
	}
	return out
}

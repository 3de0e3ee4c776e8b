package indicator

import (
	talib "github.com/markcheno/go-talib"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
)

// ATR computes an average true range at an arbitrary period, for overlays
// whose period differs from the base feed's.
func ATR(bars market.History, period int) series.Series {
	n := len(bars)
	if n <= period {
		return series.Make(n)
	}
	return series.FromFloats(talib.Atr(bars.Highs(), bars.Lows(), bars.Closes(), period), period)
}

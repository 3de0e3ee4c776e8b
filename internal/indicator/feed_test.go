package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/taconfig"
)

func feedBars(n int) market.History {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	bars := make(market.History, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)
		bars[i] = market.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   base - 1,
			High:   base + 2,
			Low:    base - 2,
			Close:  base,
			Volume: 1000,
		}
	}
	return bars
}

func TestComputeTooFewBars(t *testing.T) {
	_, err := Compute(feedBars(1), taconfig.Default().Indicators)
	assert.Error(t, err)
}

func TestComputeVolatilitySeries(t *testing.T) {
	feed, err := Compute(feedBars(40), taconfig.Default().Indicators)
	require.NoError(t, err)

	tr, ok := feed["TRANGE"]
	require.True(t, ok)
	assert.False(t, tr[0].Defined, "true range needs a previous close")
	// max(high-low, |high-prevClose|, |low-prevClose|) = max(4, 3, 1)
	v, defined := tr[1].Float()
	require.True(t, defined)
	assert.InDelta(t, 4.0, v, 1e-9)

	atr := feed["ATR"]
	assert.False(t, atr[13].Defined)
	assert.True(t, atr[14].Defined)

	atrPct := feed["ATR_Pct"]
	av, _ := atr.Last().Float()
	pv, defined := atrPct.Last().Float()
	require.True(t, defined)
	assert.InDelta(t, av/139*100, pv, 1e-9)
}

func TestComputeWarmupMasks(t *testing.T) {
	feed, err := Compute(feedBars(40), taconfig.Default().Indicators)
	require.NoError(t, err)

	sma := feed["SMA_5"]
	assert.False(t, sma[3].Defined)
	v, defined := sma[4].Float()
	require.True(t, defined)
	assert.InDelta(t, 102.0, v, 1e-9)

	// 40 bars are not enough for the 60-period average.
	assert.False(t, feed["SMA_60"].Last().Defined)

	macd := feed["MACD"]
	assert.False(t, macd[32].Defined)
	assert.True(t, macd[33].Defined)

	rsi := feed["RSI_14"]
	assert.False(t, rsi[13].Defined)
	require.True(t, rsi.Last().Defined)
	rv, _ := rsi.Last().Float()
	assert.InDelta(t, 100.0, rv, 1e-9, "monotone rising closes max out RSI")
}

func TestSetHelpers(t *testing.T) {
	feed, err := Compute(feedBars(40), taconfig.Default().Indicators)
	require.NoError(t, err)

	assert.True(t, feed.Latest("SMA_5").Defined)
	assert.False(t, feed.Latest("NO_SUCH_SERIES").Defined)
	assert.Len(t, feed.Window("SMA_5", 10), 10)
}

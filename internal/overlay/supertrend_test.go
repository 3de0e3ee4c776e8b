package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/series"
)

// flatBars builds n identical bars at the given price.
func flatBars(n int, price float64) market.History {
	bars := make(market.History, n)
	for i := range bars {
		bars[i] = market.Bar{
			Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open: price, High: price, Low: price, Close: price, Volume: 1000,
		}
	}
	return bars
}

// constATR builds an always-defined ATR series of the given value.
func constATR(n int, v float64) series.Series {
	s := series.Make(n)
	for i := range s {
		s[i] = series.Def(v)
	}
	return s
}

func TestSuperTrendFlatHistoryStaysBearish(t *testing.T) {
	bars := flatBars(5, 100)
	st := ComputeSuperTrend(bars, constATR(5, 2), 3)

	// First bar has no previous direction to extend.
	assert.Equal(t, DirUndefined, st.Direction[0])
	assert.InDelta(t, 106, st.Upper[0].F, 1e-9)
	assert.InDelta(t, 94, st.Lower[0].F, 1e-9)

	// A flat close below the previous upper band reads bearish and holds.
	for i := 1; i < 5; i++ {
		assert.Equal(t, DirBear, st.Direction[i], "index %d", i)
		assert.InDelta(t, 106, st.Line[i].F, 1e-9, "bearish line tracks the upper band")
	}
}

func TestSuperTrendFlipsBullOnBreakout(t *testing.T) {
	bars := flatBars(4, 100)
	bars[3].Open, bars[3].High, bars[3].Low, bars[3].Close = 120, 120, 120, 120
	st := ComputeSuperTrend(bars, constATR(4, 2), 3)

	require.Equal(t, DirBear, st.Direction[2])
	assert.Equal(t, DirBull, st.Direction[3], "close above the upper band flips the trend")

	// On a flip the band resets to the basic band of the flip bar.
	assert.InDelta(t, 114, st.Lower[3].F, 1e-9)
	assert.InDelta(t, 114, st.Line[3].F, 1e-9, "bullish line tracks the lower band")
}

func TestSuperTrendUndefinedWhileATRUndefined(t *testing.T) {
	bars := flatBars(6, 100)
	atr := series.Make(6)
	for i := 3; i < 6; i++ {
		atr[i] = series.Def(2)
	}
	st := ComputeSuperTrend(bars, atr, 3)

	for i := 0; i < 3; i++ {
		assert.False(t, st.Upper[i].Defined, "index %d", i)
		assert.False(t, st.Line[i].Defined, "index %d", i)
		assert.Equal(t, DirUndefined, st.Direction[i])
	}
	assert.True(t, st.Upper[3].Defined)
	assert.Equal(t, DirBear, st.Direction[4])
}

func TestSuperTrendCausality(t *testing.T) {
	bars := flatBars(8, 100)
	full := ComputeSuperTrend(bars, constATR(8, 2), 3)
	prefix := ComputeSuperTrend(bars[:5], constATR(5, 2), 3)

	for i := 0; i < 5; i++ {
		assert.Equal(t, prefix.Line[i], full.Line[i], "index %d must not depend on future bars", i)
		assert.Equal(t, prefix.Direction[i], full.Direction[i])
	}
}

func TestDirectionSeries(t *testing.T) {
	st := SuperTrend{Direction: []Direction{DirUndefined, DirBull, DirBear}}
	s := st.DirectionSeries()

	assert.False(t, s[0].Defined)
	assert.Equal(t, 1.0, s[1].F)
	assert.Equal(t, -1.0, s[2].F)
}

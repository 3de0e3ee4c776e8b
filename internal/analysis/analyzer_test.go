package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/regime"
	"github.com/dhkim/tessa/internal/taconfig"
	"github.com/dhkim/tessa/pkg/config"
	"github.com/dhkim/tessa/pkg/logger"
)

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
	return New(taconfig.Default(), log)
}

// syntheticBars builds an uptrending history with a sine wobble and
// volume bursts, enough bars to warm up every overlay.
func syntheticBars(n int) market.History {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make(market.History, n)
	for i := 0; i < n; i++ {
		base := 100 + 0.3*float64(i) + 4*math.Sin(float64(i)/9)
		vol := 1_000_000 + 200_000*math.Cos(float64(i)/5)
		bars[i] = market.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   base - 0.5,
			High:   base + 1.5,
			Low:    base - 1.5,
			Close:  base + 0.5,
			Volume: vol,
		}
	}
	return bars
}

func TestAnalyzerRun(t *testing.T) {
	a := testAnalyzer(t)
	bars := syntheticBars(200)

	res, err := a.Run("TEST", market.Daily, bars)
	require.NoError(t, err)

	assert.Equal(t, "TEST", res.Symbol)
	assert.Equal(t, market.Daily, res.Interval)
	assert.Equal(t, 200, res.Bars)
	assert.True(t, res.LatestClose.Defined)

	require.Len(t, res.Signals, 19)
	assert.Equal(t, "MACD", res.Signals[0].Name)
	assert.Equal(t, "Divergence", res.Signals[18].Name)

	assert.GreaterOrEqual(t, res.Composite.Score, -100.0)
	assert.LessOrEqual(t, res.Composite.Score, 100.0)
	assert.Contains(t, []regime.Kind{regime.Trend, regime.Range, regime.Mixed}, res.Regime)
	assert.Len(t, res.Weights, 5)

	// 200 bars warm up the full stack.
	for _, name := range []string{"SMA_20", "MACD", "RSI_14", "SuperTrend", "Donchian_Upper", "MFI", "KAMA", "VWMA"} {
		s, ok := res.Series[name]
		require.True(t, ok, "missing series %s", name)
		assert.True(t, s.Last().Defined, "series %s undefined at the last bar", name)
	}
	assert.True(t, res.Fib.Defined)
}

func TestAnalyzerRunShortHistory(t *testing.T) {
	a := testAnalyzer(t)
	bars := syntheticBars(30)

	// Far too few bars for the slow overlays, but the run must still
	// complete with undefined values rather than fail.
	res, err := a.Run("TEST", market.Daily, bars)
	require.NoError(t, err)
	require.Len(t, res.Signals, 19)

	assert.False(t, res.Series["Ichimoku_SenkouB"].Last().Defined)
	assert.False(t, res.Series["KAMA"].Last().Defined)
}

func TestAnalyzerRunInvalidHistory(t *testing.T) {
	a := testAnalyzer(t)

	_, err := a.Run("TEST", market.Daily, syntheticBars(1))
	assert.Error(t, err)

	dup := syntheticBars(5)
	dup[2].Date = dup[1].Date
	_, err = a.Run("TEST", market.Daily, dup)
	assert.Error(t, err)
}

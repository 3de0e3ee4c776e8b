package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhkim/tessa/internal/taconfig"
)

func flowConfig() taconfig.Indicators {
	cfg := taconfig.Default().Indicators
	cfg.MFIPeriod = 3
	cfg.CMFPeriod = 3
	cfg.EOMPeriod = 3
	cfg.ForcePeriod = 3
	return cfg
}

func TestCMFZeroRangeBarsStayFinite(t *testing.T) {
	// high == low on every bar; the epsilon substitution keeps the
	// multiplier finite, and a symmetric close makes it exactly zero.
	bars := flatBars(6, 100)
	mf := ComputeMoneyFlow(bars, flowConfig())

	for i := 0; i < 6; i++ {
		require.True(t, mf.CMF[i].Defined, "index %d", i)
		assert.InDelta(t, 0, mf.CMF[i].F, 1e-9)
	}
}

func TestEOMFirstIndexUndefined(t *testing.T) {
	bars := barsFromHL([]float64{2, 4, 6, 8}, []float64{1, 3, 5, 7})
	mf := ComputeMoneyFlow(bars, flowConfig())

	assert.False(t, mf.EOM[0].Defined, "no previous midpoint at the first bar")
	for i := 1; i < 4; i++ {
		require.True(t, mf.EOM[i].Defined, "index %d", i)
		assert.Greater(t, mf.EOM[i].F, 0.0, "rising midpoints give positive ease of movement")
	}
}

func TestEOMFlatBarSkippedNotSubstituted(t *testing.T) {
	// The third bar has high == low: its raw box ratio is zero and the
	// division blows up to infinity, so the rolling mean must skip the
	// point instead of averaging in an epsilon-inflated value.
	bars := barsFromHL([]float64{102, 104, 105, 108}, []float64{98, 100, 105, 104})
	mf := ComputeMoneyFlow(bars, flowConfig())

	v1, ok := mf.EOM[1].Float()
	require.True(t, ok)
	assert.InDelta(t, 50.0, v1, 1e-9)

	v2, ok := mf.EOM[2].Float()
	require.True(t, ok, "the window still holds one finite point")
	assert.InDelta(t, 50.0, v2, 1e-9)

	v3, ok := mf.EOM[3].Float()
	require.True(t, ok)
	assert.InDelta(t, 37.5, v3, 1e-9)
}

func TestForceIndexWarmupAndSign(t *testing.T) {
	bars := flatBars(10, 100)
	for i := range bars {
		p := 100 + float64(i)
		bars[i].Open, bars[i].High, bars[i].Low, bars[i].Close = p, p, p, p
	}
	mf := ComputeMoneyFlow(bars, flowConfig())

	assert.False(t, mf.ForceIndex[1].Defined, "EMA warm-up")
	last, ok := mf.ForceIndex.Last().Float()
	require.True(t, ok)
	assert.Greater(t, last, 0.0, "rising closes produce positive force")
}

func TestMFIBounds(t *testing.T) {
	bars := flatBars(20, 100)
	for i := range bars {
		p := 100 + float64(i)
		bars[i].Open, bars[i].Low = p-1, p-1
		bars[i].High, bars[i].Close = p+1, p
	}
	mf := ComputeMoneyFlow(bars, flowConfig())

	v, ok := mf.MFI.Last().Float()
	require.True(t, ok)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestRollingHelpersSkipNaN(t *testing.T) {
	sum := rollingSum([]float64{1, math.NaN(), 3}, 2)
	assert.InDelta(t, 1, sum[0].F, 1e-9)
	assert.InDelta(t, 1, sum[1].F, 1e-9, "NaN contributes nothing")
	assert.InDelta(t, 3, sum[2].F, 1e-9)

	mean := rollingMean([]float64{2, 4, 6}, 3)
	assert.InDelta(t, 2, mean[0].F, 1e-9)
	assert.InDelta(t, 3, mean[1].F, 1e-9)
	assert.InDelta(t, 4, mean[2].F, 1e-9)

	allNaN := rollingSum([]float64{math.NaN(), math.NaN()}, 2)
	assert.False(t, allNaN[1].Defined)
}

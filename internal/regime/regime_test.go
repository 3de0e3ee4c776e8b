package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/signal"
	"github.com/dhkim/tessa/internal/taconfig"
)

func th() taconfig.Regime {
	return taconfig.Default().Regime
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want Kind
	}{
		{"strong ADX with high volatility", Inputs{ADX: series.Def(30), ATRPct: series.Def(3), BBWidthPct: series.Def(10)}, Trend},
		{"strong ADX with unknown volatility", Inputs{ADX: series.Def(30), BBWidthPct: series.Def(10)}, Trend},
		{"strong ADX but quiet volatility", Inputs{ADX: series.Def(30), ATRPct: series.Def(1), BBWidthPct: series.Def(4)}, Range},
		{"weak ADX with tight bands", Inputs{ADX: series.Def(15), BBWidthPct: series.Def(4)}, Range},
		{"weak ADX with wide bands", Inputs{ADX: series.Def(15), BBWidthPct: series.Def(9)}, Mixed},
		{"everything undefined", Inputs{}, Mixed},
		{"boundary ADX exactly at threshold", Inputs{ADX: series.Def(25), ATRPct: series.Def(2), BBWidthPct: series.Def(10)}, Trend},
		{"boundary band width exactly at threshold", Inputs{ADX: series.Def(10), BBWidthPct: series.Def(5)}, Range},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in, th()))
		})
	}
}

func TestWeightsTable(t *testing.T) {
	trend := Trend.Weights()
	assert.Equal(t, 2.0, trend[signal.CategoryTrend])
	assert.Equal(t, 0.8, trend[signal.CategoryRange])

	rng := Range.Weights()
	assert.Equal(t, 2.0, rng[signal.CategoryRange])
	assert.Equal(t, 0.8, rng[signal.CategoryTrend])

	mixed := Mixed.Weights()
	assert.Equal(t, 1.2, mixed[signal.CategoryTrend])
	assert.Equal(t, 1.2, mixed[signal.CategoryRange])

	for _, k := range []Kind{Trend, Range, Mixed} {
		w := k.Weights()
		assert.Len(t, w, 5)
		assert.Equal(t, 1.0, w[signal.CategoryVolume])
		assert.Equal(t, 1.0, w[signal.CategoryPattern])
		assert.Equal(t, 1.0, w[signal.CategoryBaseline])
		for _, v := range w {
			assert.Greater(t, v, 0.0)
		}
	}
}

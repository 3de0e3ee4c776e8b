package taconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, MACD{Fast: 12, Slow: 26, Signal: 9}, cfg.Indicators.MACD)
	assert.Equal(t, SuperTrend{ATRPeriod: 10, Multiplier: 3.0}, cfg.Indicators.SuperTrend)
	assert.Equal(t, 20, cfg.Signals.DivergenceLookback)
	assert.Equal(t, 25.0, cfg.Regime.ADXTrend)
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
indicators:
  supertrend:
    atr_period: 7
    multiplier: 2.5
signals:
  rsi_oversold: 25
`))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Indicators.SuperTrend.ATRPeriod)
	assert.Equal(t, 2.5, cfg.Indicators.SuperTrend.Multiplier)
	assert.Equal(t, 25.0, cfg.Signals.RSIOversold)
	// Untouched fields keep their defaults.
	assert.Equal(t, 26, cfg.Indicators.MACD.Slow)
	assert.Equal(t, 70.0, cfg.Signals.RSIOverbought)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("indicators:\n  supertrend_period: 7\n"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero period", "indicators:\n  atr_period: 0\n"},
		{"fast not below slow", "indicators:\n  macd:\n    fast: 30\n"},
		{"inverted rsi bands", "signals:\n  rsi_oversold: 75\n"},
		{"spike below dry", "signals:\n  volume_spike_ratio: 0.4\n"},
		{"negative regime threshold", "regime:\n  bb_width_low: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indicators:\n  donchian:\n    period: 10\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Indicators.Donchian.Period)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMinBars(t *testing.T) {
	cfg := Default()
	// Ichimoku span B plus displacement dominates the defaults.
	assert.Equal(t, 78, cfg.MinBars())

	cfg.Indicators.Ichimoku = Ichimoku{Conversion: 2, Base: 3, SpanB: 4, Displacement: 3}
	cfg.Indicators.ADXPeriod = 30
	assert.Equal(t, 90, cfg.MinBars())
}

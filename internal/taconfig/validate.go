package taconfig

import "fmt"

// ValidationError is fatal at configuration time, before any evaluation runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every period and threshold. A bad window or multiplier
// must never reach an evaluation.
func Validate(c *Config) error {
	ind := c.Indicators

	for _, g := range []struct {
		field   string
		periods []int
	}{
		{"indicators.sma_periods", ind.SMAPeriods},
		{"indicators.ema_periods", ind.EMAPeriods},
		{"indicators.rsi_periods", ind.RSIPeriods},
	} {
		if len(g.periods) == 0 {
			return ValidationError{g.field, "must not be empty"}
		}
		for _, p := range g.periods {
			if p <= 0 {
				return ValidationError{g.field, fmt.Sprintf("period %d must be > 0", p)}
			}
		}
	}

	positive := []struct {
		field string
		value int
	}{
		{"indicators.wma_period", ind.WMAPeriod},
		{"indicators.kdj.fastk", ind.KDJ.FastK},
		{"indicators.kdj.slowk", ind.KDJ.SlowK},
		{"indicators.kdj.slowd", ind.KDJ.SlowD},
		{"indicators.macd.fast", ind.MACD.Fast},
		{"indicators.macd.slow", ind.MACD.Slow},
		{"indicators.macd.signal", ind.MACD.Signal},
		{"indicators.bbands.period", ind.BBands.Period},
		{"indicators.atr_period", ind.ATRPeriod},
		{"indicators.adx_period", ind.ADXPeriod},
		{"indicators.supertrend.atr_period", ind.SuperTrend.ATRPeriod},
		{"indicators.ichimoku.conversion", ind.Ichimoku.Conversion},
		{"indicators.ichimoku.base", ind.Ichimoku.Base},
		{"indicators.ichimoku.span_b", ind.Ichimoku.SpanB},
		{"indicators.donchian.period", ind.Donchian.Period},
		{"indicators.keltner.ema_period", ind.Keltner.EMAPeriod},
		{"indicators.mfi_period", ind.MFIPeriod},
		{"indicators.cmf_period", ind.CMFPeriod},
		{"indicators.eom_period", ind.EOMPeriod},
		{"indicators.force_period", ind.ForcePeriod},
		{"indicators.ppo.fast", ind.PPO.Fast},
		{"indicators.ppo.slow", ind.PPO.Slow},
		{"indicators.ppo.signal", ind.PPO.Signal},
		{"indicators.tsi.long", ind.TSI.Long},
		{"indicators.tsi.short", ind.TSI.Short},
		{"indicators.tsi.signal", ind.TSI.Signal},
		{"indicators.dpo_period", ind.DPOPeriod},
		{"indicators.kama_period", ind.KAMAPeriod},
		{"indicators.dema_period", ind.DEMAPeriod},
		{"indicators.tema_period", ind.TEMAPeriod},
		{"indicators.vwma.period", ind.VWMA.Period},
		{"indicators.fib_lookback", ind.FibLookback},
		{"signals.divergence_lookback", c.Signals.DivergenceLookback},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return ValidationError{p.field, "must be > 0"}
		}
	}

	if ind.MACD.Fast >= ind.MACD.Slow {
		return ValidationError{"indicators.macd", "fast must be < slow"}
	}
	if ind.PPO.Fast >= ind.PPO.Slow {
		return ValidationError{"indicators.ppo", "fast must be < slow"}
	}
	if ind.SuperTrend.Multiplier <= 0 {
		return ValidationError{"indicators.supertrend.multiplier", "must be > 0"}
	}
	if ind.Keltner.Multiplier <= 0 {
		return ValidationError{"indicators.keltner.multiplier", "must be > 0"}
	}
	if ind.Ichimoku.Displacement < 0 {
		return ValidationError{"indicators.ichimoku.displacement", "must be >= 0"}
	}
	if ind.BBands.DevUp <= 0 || ind.BBands.DevDn <= 0 {
		return ValidationError{"indicators.bbands", "deviations must be > 0"}
	}

	s := c.Signals
	if s.RSIOversold >= s.RSIOverbought {
		return ValidationError{"signals.rsi", "oversold must be < overbought"}
	}
	if s.KDJOversold >= s.KDJOverbought {
		return ValidationError{"signals.kdj", "oversold must be < overbought"}
	}
	if s.WillROversold >= s.WillROverbought {
		return ValidationError{"signals.willr", "oversold must be < overbought"}
	}
	if s.MFIOversold >= s.MFIOverbought {
		return ValidationError{"signals.mfi", "oversold must be < overbought"}
	}
	if s.ADXWeakTrend > s.ADXStrongTrend {
		return ValidationError{"signals.adx", "weak_trend must be <= strong_trend"}
	}
	if s.VolumeSpikeRatio <= s.VolumeDryRatio {
		return ValidationError{"signals.volume", "spike ratio must be > dry ratio"}
	}

	if c.Regime.ADXTrend < 0 || c.Regime.BBWidthLow < 0 || c.Regime.ATRPctTrend < 0 {
		return ValidationError{"regime", "thresholds must be >= 0"}
	}

	return nil
}

package taconfig

// Config holds every tunable of an evaluation run: indicator periods, signal
// thresholds and regime thresholds. It is injected once per evaluation and
// never mutated mid-run.
type Config struct {
	Indicators Indicators `yaml:"indicators" json:"indicators"`
	Signals    Signals    `yaml:"signals" json:"signals"`
	Regime     Regime     `yaml:"regime" json:"regime"`
}

// Indicators are the periods and multipliers of every computed sequence.
type Indicators struct {
	SMAPeriods []int `yaml:"sma_periods" json:"sma_periods"`
	EMAPeriods []int `yaml:"ema_periods" json:"ema_periods"`
	WMAPeriod  int   `yaml:"wma_period" json:"wma_period"`
	RSIPeriods []int `yaml:"rsi_periods" json:"rsi_periods"`

	KDJ    Stochastic `yaml:"kdj" json:"kdj"`
	MACD   MACD       `yaml:"macd" json:"macd"`
	BBands BBands     `yaml:"bbands" json:"bbands"`

	ATRPeriod int `yaml:"atr_period" json:"atr_period"`
	ADXPeriod int `yaml:"adx_period" json:"adx_period"`

	SuperTrend SuperTrend `yaml:"supertrend" json:"supertrend"`
	Ichimoku   Ichimoku   `yaml:"ichimoku" json:"ichimoku"`
	Donchian   Window     `yaml:"donchian" json:"donchian"`
	Keltner    Keltner    `yaml:"keltner" json:"keltner"`

	MFIPeriod   int `yaml:"mfi_period" json:"mfi_period"`
	CMFPeriod   int `yaml:"cmf_period" json:"cmf_period"`
	EOMPeriod   int `yaml:"eom_period" json:"eom_period"`
	ForcePeriod int `yaml:"force_period" json:"force_period"`

	PPO        MACD   `yaml:"ppo" json:"ppo"`
	TSI        TSI    `yaml:"tsi" json:"tsi"`
	DPOPeriod  int    `yaml:"dpo_period" json:"dpo_period"`
	KAMAPeriod int    `yaml:"kama_period" json:"kama_period"`
	DEMAPeriod int    `yaml:"dema_period" json:"dema_period"`
	TEMAPeriod int    `yaml:"tema_period" json:"tema_period"`
	VWMA       Window `yaml:"vwma" json:"vwma"`

	FibLookback int `yaml:"fib_lookback" json:"fib_lookback"`
}

// Stochastic holds KDJ periods.
type Stochastic struct {
	FastK int `yaml:"fastk" json:"fastk"`
	SlowK int `yaml:"slowk" json:"slowk"`
	SlowD int `yaml:"slowd" json:"slowd"`
}

// MACD holds fast/slow/signal periods, reused for PPO.
type MACD struct {
	Fast   int `yaml:"fast" json:"fast"`
	Slow   int `yaml:"slow" json:"slow"`
	Signal int `yaml:"signal" json:"signal"`
}

// BBands holds Bollinger parameters.
type BBands struct {
	Period int     `yaml:"period" json:"period"`
	DevUp  float64 `yaml:"dev_up" json:"dev_up"`
	DevDn  float64 `yaml:"dev_dn" json:"dev_dn"`
}

// SuperTrend holds the band recurrence parameters.
type SuperTrend struct {
	ATRPeriod  int     `yaml:"atr_period" json:"atr_period"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// Ichimoku holds the cloud windows and displacement.
type Ichimoku struct {
	Conversion   int `yaml:"conversion" json:"conversion"`
	Base         int `yaml:"base" json:"base"`
	SpanB        int `yaml:"span_b" json:"span_b"`
	Displacement int `yaml:"displacement" json:"displacement"`
}

// Keltner holds the channel parameters; the EMA period also drives its ATR.
type Keltner struct {
	EMAPeriod  int     `yaml:"ema_period" json:"ema_period"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// TSI holds the double-smoothing periods.
type TSI struct {
	Long   int `yaml:"long" json:"long"`
	Short  int `yaml:"short" json:"short"`
	Signal int `yaml:"signal" json:"signal"`
}

// Window is a single rolling-window period.
type Window struct {
	Period int `yaml:"period" json:"period"`
}

// Signals are the evaluator decision thresholds.
type Signals struct {
	RSIOversold   float64 `yaml:"rsi_oversold" json:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought" json:"rsi_overbought"`

	KDJOversold   float64 `yaml:"kdj_oversold" json:"kdj_oversold"`
	KDJOverbought float64 `yaml:"kdj_overbought" json:"kdj_overbought"`

	ADXStrongTrend float64 `yaml:"adx_strong_trend" json:"adx_strong_trend"`
	ADXWeakTrend   float64 `yaml:"adx_weak_trend" json:"adx_weak_trend"`

	WillROversold   float64 `yaml:"willr_oversold" json:"willr_oversold"`
	WillROverbought float64 `yaml:"willr_overbought" json:"willr_overbought"`

	MFIOversold   float64 `yaml:"mfi_oversold" json:"mfi_oversold"`
	MFIOverbought float64 `yaml:"mfi_overbought" json:"mfi_overbought"`

	DivergenceLookback  int     `yaml:"divergence_lookback" json:"divergence_lookback"`
	DivergenceRSISlope  float64 `yaml:"divergence_rsi_slope" json:"divergence_rsi_slope"`
	DivergenceMACDSlope float64 `yaml:"divergence_macd_slope" json:"divergence_macd_slope"`

	VolumeSpikeRatio float64 `yaml:"volume_spike_ratio" json:"volume_spike_ratio"`
	VolumeDryRatio   float64 `yaml:"volume_dry_ratio" json:"volume_dry_ratio"`
}

// Regime are the market-regime classifier thresholds.
type Regime struct {
	ADXTrend    float64 `yaml:"adx_trend" json:"adx_trend"`
	BBWidthLow  float64 `yaml:"bb_width_low" json:"bb_width_low"`
	ATRPctTrend float64 `yaml:"atr_pct_trend" json:"atr_pct_trend"`
}

// Default returns the built-in parameter set. Callers that load a YAML profile
// start from these values too, so a partial file only overrides what it
// names.
func Default() *Config {
	return &Config{
		Indicators: Indicators{
			SMAPeriods:  []int{5, 10, 20, 60, 120, 250},
			EMAPeriods:  []int{12, 26, 50},
			WMAPeriod:   20,
			RSIPeriods:  []int{6, 12, 14, 24},
			KDJ:         Stochastic{FastK: 9, SlowK: 3, SlowD: 3},
			MACD:        MACD{Fast: 12, Slow: 26, Signal: 9},
			BBands:      BBands{Period: 20, DevUp: 2, DevDn: 2},
			ATRPeriod:   14,
			ADXPeriod:   14,
			SuperTrend:  SuperTrend{ATRPeriod: 10, Multiplier: 3.0},
			Ichimoku:    Ichimoku{Conversion: 9, Base: 26, SpanB: 52, Displacement: 26},
			Donchian:    Window{Period: 20},
			Keltner:     Keltner{EMAPeriod: 20, Multiplier: 2.0},
			MFIPeriod:   14,
			CMFPeriod:   20,
			EOMPeriod:   14,
			ForcePeriod: 13,
			PPO:         MACD{Fast: 12, Slow: 26, Signal: 9},
			TSI:         TSI{Long: 25, Short: 13, Signal: 7},
			DPOPeriod:   20,
			KAMAPeriod:  30,
			DEMAPeriod:  20,
			TEMAPeriod:  20,
			VWMA:        Window{Period: 20},
			FibLookback: 120,
		},
		Signals: Signals{
			RSIOversold:         30,
			RSIOverbought:       70,
			KDJOversold:         20,
			KDJOverbought:       80,
			ADXStrongTrend:      25,
			ADXWeakTrend:        20,
			WillROversold:       -80,
			WillROverbought:     -20,
			MFIOversold:         20,
			MFIOverbought:       80,
			DivergenceLookback:  20,
			DivergenceRSISlope:  0.5,
			DivergenceMACDSlope: 0.1,
			VolumeSpikeRatio:    2.0,
			VolumeDryRatio:      0.5,
		},
		Regime: Regime{
			ADXTrend:    25,
			BBWidthLow:  5.0,
			ATRPctTrend: 2.0,
		},
	}
}

// MinBars returns the number of bars after which every overlay in this
// configuration is fully defined.
func (c *Config) MinBars() int {
	min := c.Indicators.Ichimoku.SpanB + c.Indicators.Ichimoku.Displacement
	for _, p := range []int{
		c.Indicators.ADXPeriod * 3,
		c.Indicators.KAMAPeriod + 1,
		c.Indicators.VWMA.Period,
		c.Indicators.SuperTrend.ATRPeriod + 2,
	} {
		if p > min {
			min = p
		}
	}
	return min
}

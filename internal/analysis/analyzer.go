// Package analysis runs one full evaluation: base indicators, derived
// overlays, pattern detection, the signal catalog and the composite score.
package analysis

import (
	"fmt"
	"time"

	"github.com/dhkim/tessa/internal/indicator"
	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/overlay"
	"github.com/dhkim/tessa/internal/pattern"
	"github.com/dhkim/tessa/internal/regime"
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/signal"
	"github.com/dhkim/tessa/internal/taconfig"
	"github.com/dhkim/tessa/pkg/logger"
)

// Analyzer evaluates a bar history against one immutable configuration.
// Runs share no mutable state, so one Analyzer may serve concurrent callers.
type Analyzer struct {
	cfg *taconfig.Config
	log *logger.Logger
}

// New returns an analyzer bound to cfg. The configuration must already be
// validated; it is never mutated mid-run.
func New(cfg *taconfig.Config, log *logger.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, log: log}
}

// Result is the complete output of one evaluation. All numeric fields
// serialize undefined values as JSON null.
type Result struct {
	Symbol      string          `json:"symbol"`
	Interval    market.Interval `json:"interval"`
	GeneratedAt time.Time       `json:"generated_at"`
	Bars        int             `json:"bars"`
	LatestClose series.Value    `json:"latest_close"`
	ChangePct   series.Value    `json:"change_pct"`
	Regime      regime.Kind     `json:"regime"`

	Series    map[string]series.Series    `json:"series"`
	Fib       overlay.FibLevels           `json:"fibonacci"`
	Patterns  []pattern.Match             `json:"patterns"`
	Signals   []signal.Named              `json:"signals"`
	Weights   map[signal.Category]float64 `json:"weights"`
	Composite signal.CompositeScore       `json:"composite"`
}

// Run executes a single evaluation over bars. A base indicator failure is
// fatal; each derived overlay is isolated, so one bad overlay degrades to
// undefined series instead of aborting the run.
func (a *Analyzer) Run(symbol string, interval market.Interval, bars market.History) (*Result, error) {
	if err := bars.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: invalid bar history for %s: %w", symbol, err)
	}

	feed, err := indicator.Compute(bars, a.cfg.Indicators)
	if err != nil {
		return nil, fmt.Errorf("analysis: base indicators for %s: %w", symbol, err)
	}

	out := make(map[string]series.Series, len(feed)+24)
	for name, s := range feed {
		out[name] = s
	}

	n := len(bars)
	ind := a.cfg.Indicators

	var st overlay.SuperTrend
	a.isolate(symbol, "supertrend", func() {
		stATR := indicator.ATR(bars, ind.SuperTrend.ATRPeriod)
		st = overlay.ComputeSuperTrend(bars, stATR, ind.SuperTrend.Multiplier)
		out["SuperTrend"] = st.Line
		out["SuperTrend_Upper"] = st.Upper
		out["SuperTrend_Lower"] = st.Lower
		out["ST_Direction"] = st.DirectionSeries()
	})

	var cloud overlay.Ichimoku
	a.isolate(symbol, "ichimoku", func() {
		cloud = overlay.ComputeIchimoku(bars, ind.Ichimoku)
		out["Ichimoku_Tenkan"] = cloud.Tenkan
		out["Ichimoku_Kijun"] = cloud.Kijun
		out["Ichimoku_SenkouA"] = cloud.SenkouA
		out["Ichimoku_SenkouB"] = cloud.SenkouB
		out["Ichimoku_Chikou"] = cloud.Chikou
	})

	var donchian, keltner overlay.Channel
	a.isolate(symbol, "donchian", func() {
		donchian = overlay.ComputeDonchian(bars, ind.Donchian.Period)
		out["Donchian_Upper"] = donchian.Upper
		out["Donchian_Middle"] = donchian.Middle
		out["Donchian_Lower"] = donchian.Lower
	})
	a.isolate(symbol, "keltner", func() {
		keltner = overlay.ComputeKeltner(bars, ind.Keltner)
		out["Keltner_Upper"] = keltner.Upper
		out["Keltner_Middle"] = keltner.Middle
		out["Keltner_Lower"] = keltner.Lower
	})

	var flow overlay.MoneyFlow
	a.isolate(symbol, "moneyflow", func() {
		flow = overlay.ComputeMoneyFlow(bars, ind)
		out["MFI"] = flow.MFI
		out["CMF"] = flow.CMF
		out["EOM"] = flow.EOM
		out["ForceIndex"] = flow.ForceIndex
	})

	var mom overlay.Momentum
	a.isolate(symbol, "momentum", func() {
		mom = overlay.ComputeMomentum(bars, ind)
		out["PPO"] = mom.PPO
		out["PPO_Signal"] = mom.PPOSignal
		out["TSI"] = mom.TSI
		out["TSI_Signal"] = mom.TSISignal
		out["DPO"] = mom.DPO
		out["KAMA"] = mom.KAMA
		out["KAMA_Slope"] = mom.KAMASlope
		out["DEMA"] = mom.DEMA
		out["TEMA"] = mom.TEMA
	})

	a.isolate(symbol, "vwma", func() {
		out["VWMA"] = overlay.ComputeVWMA(bars, ind.VWMA.Period)
	})

	var fib overlay.FibLevels
	a.isolate(symbol, "fibonacci", func() {
		fib = overlay.ComputeFibLevels(bars, ind.FibLookback)
	})

	var matches []pattern.Match
	a.isolate(symbol, "patterns", func() {
		matches = pattern.Detect(bars, feed.Latest("ATR").Or(0))
	})

	snap := a.snapshot(bars, feed, out, st, matches)
	sigs := signal.Evaluate(snap, a.cfg.Signals)

	kind := regime.Classify(regime.Inputs{
		ADX:        feed.Latest("ADX"),
		BBWidthPct: feed.Latest("BB_Width"),
		ATRPct:     feed.Latest("ATR_Pct"),
	}, a.cfg.Regime)
	weights := kind.Weights()
	composite := signal.Aggregate(sigs, weights, string(kind))

	change := series.Undef()
	if pct, ok := bars.ChangePct(); ok {
		change = series.Def(pct)
	}

	return &Result{
		Symbol:      symbol,
		Interval:    interval,
		GeneratedAt: time.Now(),
		Bars:        n,
		LatestClose: series.Def(bars.Last().Close),
		ChangePct:   change,
		Regime:      kind,
		Series:      out,
		Fib:         fib,
		Patterns:    matches,
		Signals:     sigs,
		Weights:     weights,
		Composite:   composite,
	}, nil
}

// snapshot extracts the latest values the catalog consumes.
func (a *Analyzer) snapshot(bars market.History, feed indicator.Set, derived map[string]series.Series, st overlay.SuperTrend, matches []pattern.Match) signal.Snapshot {
	lb := a.cfg.Signals.DivergenceLookback
	bulls, bears, _ := pattern.Tally(matches)

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Kind != pattern.Neutral {
			names = append(names, m.Name)
		}
	}

	change := series.Undef()
	if pct, ok := bars.ChangePct(); ok {
		change = series.Def(pct)
	}

	dir := overlay.DirUndefined
	if len(st.Direction) > 0 {
		dir = st.Direction[len(st.Direction)-1]
	}

	latest := func(name string) series.Value {
		if s, ok := derived[name]; ok {
			return s.Last()
		}
		return series.Undef()
	}

	return signal.Snapshot{
		Close:     series.Def(bars.Last().Close),
		ChangePct: change,

		MACD:       feed.Latest("MACD"),
		MACDSignal: feed.Latest("MACD_Signal"),
		MACDHist:   feed.Latest("MACD_Hist"),
		RSI:        feed.Latest("RSI_14"),
		K:          feed.Latest("K"),
		D:          feed.Latest("D"),
		J:          feed.Latest("J"),
		BBUpper:    feed.Latest("BB_Upper"),
		BBLower:    feed.Latest("BB_Lower"),
		BBPctB:     feed.Latest("BB_PctB"),
		SMA5:       feed.Latest("SMA_5"),
		SMA10:      feed.Latest("SMA_10"),
		SMA20:      feed.Latest("SMA_20"),
		SMA60:      feed.Latest("SMA_60"),
		ADX:        feed.Latest("ADX"),
		PlusDI:     feed.Latest("+DI"),
		MinusDI:    feed.Latest("-DI"),
		WillR:      feed.Latest("WILLR"),
		CCI:        feed.Latest("CCI"),

		SuperTrendDir:   dir,
		SuperTrendValue: st.Line.Last(),

		Tenkan:        latest("Ichimoku_Tenkan"),
		Kijun:         latest("Ichimoku_Kijun"),
		SenkouA:       latest("Ichimoku_SenkouA"),
		SenkouB:       latest("Ichimoku_SenkouB"),
		Chikou:        latest("Ichimoku_Chikou"),
		DonchianUpper: latest("Donchian_Upper"),
		DonchianLower: latest("Donchian_Lower"),
		KeltnerUpper:  latest("Keltner_Upper"),
		KeltnerLower:  latest("Keltner_Lower"),

		MFI:        latest("MFI"),
		CMF:        latest("CMF"),
		PPO:        latest("PPO"),
		PPOSignal:  latest("PPO_Signal"),
		TSI:        latest("TSI"),
		TSISignal:  latest("TSI_Signal"),
		KAMA:       latest("KAMA"),
		KAMASlope:  latest("KAMA_Slope"),
		ForceIndex: latest("ForceIndex"),

		CloseWindow: series.FromFloats(bars.Closes(), 0).Window(lb),
		RSIWindow:   feed.Window("RSI_14", lb),
		MACDWindow:  feed.Window("MACD", lb),

		BullishPatterns: bulls,
		BearishPatterns: bears,
		PatternNames:    names,

		Volumes: bars.Volumes(),
	}
}

// isolate runs one overlay stage, converting a panic into a warning so the
// remaining evaluators still score.
func (a *Analyzer) isolate(symbol, stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(map[string]interface{}{
				"symbol": symbol,
				"stage":  stage,
				"panic":  fmt.Sprint(r),
			}).Warn("Overlay stage failed, continuing without it")
		}
	}()
	fn()
}

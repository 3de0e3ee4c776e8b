package signal

import (
	"fmt"
	"math"

	"github.com/dhkim/tessa/internal/taconfig"
)

// Legacy rule family. Each evaluator is a direct threshold comparison
// against one or two snapshot values, category baseline.

func macdRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.MACD, s.MACDSignal, s.MACDHist) {
		return undefined(CategoryBaseline)
	}
	macd, _ := s.MACD.Float()
	sig, _ := s.MACDSignal.Float()
	hist, _ := s.MACDHist.Float()

	strength := clampStrength(math.Abs(hist) * 1000)
	switch {
	case macd > sig && hist > 0:
		return Signal{CategoryBaseline, Buy, strength, fmt.Sprintf("MACD above signal (hist=%.3f)", hist)}
	case macd < sig && hist < 0:
		return Signal{CategoryBaseline, Sell, strength, fmt.Sprintf("MACD below signal (hist=%.3f)", hist)}
	default:
		return neutral(CategoryBaseline, "MACD crossing")
	}
}

func rsiRule(s Snapshot, th taconfig.Signals) Signal {
	if !s.RSI.Defined {
		return undefined(CategoryBaseline)
	}
	rsi, _ := s.RSI.Float()
	switch {
	case rsi < th.RSIOversold:
		strength := clampStrength((th.RSIOversold - rsi) / th.RSIOversold * 100)
		return Signal{CategoryBaseline, Buy, strength, fmt.Sprintf("oversold (RSI=%.1f)", rsi)}
	case rsi > th.RSIOverbought:
		strength := clampStrength((rsi - th.RSIOverbought) / (100 - th.RSIOverbought) * 100)
		return Signal{CategoryBaseline, Sell, strength, fmt.Sprintf("overbought (RSI=%.1f)", rsi)}
	default:
		return neutral(CategoryBaseline, fmt.Sprintf("neutral (RSI=%.1f)", rsi))
	}
}

func kdjRule(s Snapshot, th taconfig.Signals) Signal {
	if !defined(s.K, s.D, s.J) {
		return undefined(CategoryBaseline)
	}
	k, _ := s.K.Float()
	d, _ := s.D.Float()
	j, _ := s.J.Float()
	switch {
	case k > d && j < th.KDJOversold:
		strength := clampStrength((th.KDJOversold - j) / th.KDJOversold * 100)
		return Signal{CategoryBaseline, Buy, strength, fmt.Sprintf("golden cross oversold (K=%.1f J=%.1f)", k, j)}
	case k < d && j > th.KDJOverbought:
		strength := clampStrength((j - th.KDJOverbought) / (100 - th.KDJOverbought) * 100)
		return Signal{CategoryBaseline, Sell, strength, fmt.Sprintf("dead cross overbought (K=%.1f J=%.1f)", k, j)}
	case k > d:
		return Signal{CategoryBaseline, Neutral, 30, fmt.Sprintf("golden cross (K=%.1f)", k)}
	case k < d:
		return Signal{CategoryBaseline, Neutral, 30, fmt.Sprintf("dead cross (K=%.1f)", k)}
	default:
		return neutral(CategoryBaseline, "KDJ flat")
	}
}

func bollingerRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.Close, s.BBUpper, s.BBLower) {
		return undefined(CategoryBaseline)
	}
	close, _ := s.Close.Float()
	upper, _ := s.BBUpper.Float()
	lower, _ := s.BBLower.Float()
	pctB := s.BBPctB.Or(math.NaN())
	switch {
	case close <= lower:
		return Signal{CategoryBaseline, Buy, 80, fmt.Sprintf("touching lower band (%%B=%.1f)", pctB)}
	case close >= upper:
		return Signal{CategoryBaseline, Sell, 80, fmt.Sprintf("touching upper band (%%B=%.1f)", pctB)}
	default:
		return neutral(CategoryBaseline, fmt.Sprintf("inside bands (%%B=%.1f)", pctB))
	}
}

func maStackRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.Close, s.SMA5, s.SMA10, s.SMA20, s.SMA60) {
		return undefined(CategoryBaseline)
	}
	close, _ := s.Close.Float()
	sma5, _ := s.SMA5.Float()
	sma10, _ := s.SMA10.Float()
	sma20, _ := s.SMA20.Float()
	sma60, _ := s.SMA60.Float()
	switch {
	case sma5 > sma10 && sma10 > sma20 && sma20 > sma60:
		return Signal{CategoryBaseline, Buy, 90, "bullish MA alignment"}
	case sma5 < sma10 && sma10 < sma20 && sma20 < sma60:
		return Signal{CategoryBaseline, Sell, 90, "bearish MA alignment"}
	case close > sma20 && close > sma60:
		return Signal{CategoryBaseline, Buy, 60, "price above mid and long MAs"}
	case close < sma20 && close < sma60:
		return Signal{CategoryBaseline, Sell, 60, "price below mid and long MAs"}
	default:
		return neutral(CategoryBaseline, "MAs entangled")
	}
}

func adxTrendRule(s Snapshot, th taconfig.Signals) Signal {
	if !defined(s.ADX, s.PlusDI, s.MinusDI) {
		return undefined(CategoryBaseline)
	}
	adx, _ := s.ADX.Float()
	plusDI, _ := s.PlusDI.Float()
	minusDI, _ := s.MinusDI.Float()
	switch {
	case adx > th.ADXStrongTrend && plusDI > minusDI:
		return Signal{CategoryBaseline, Buy, clampStrength(adx), fmt.Sprintf("strong uptrend (ADX=%.1f)", adx)}
	case adx > th.ADXStrongTrend:
		return Signal{CategoryBaseline, Sell, clampStrength(adx), fmt.Sprintf("strong downtrend (ADX=%.1f)", adx)}
	case adx < th.ADXWeakTrend:
		return neutral(CategoryBaseline, fmt.Sprintf("no clear trend (ADX=%.1f)", adx))
	default:
		return Signal{CategoryBaseline, Neutral, clampStrength(adx), fmt.Sprintf("moderate trend (ADX=%.1f)", adx)}
	}
}

func willrRule(s Snapshot, th taconfig.Signals) Signal {
	if !s.WillR.Defined {
		return undefined(CategoryBaseline)
	}
	wr, _ := s.WillR.Float()
	switch {
	case wr < th.WillROversold:
		strength := clampStrength((th.WillROversold - wr) / math.Abs(th.WillROversold) * 100)
		return Signal{CategoryBaseline, Buy, strength, fmt.Sprintf("oversold (WR=%.1f)", wr)}
	case wr > th.WillROverbought:
		strength := clampStrength((wr - th.WillROverbought) / math.Abs(th.WillROverbought) * 100)
		return Signal{CategoryBaseline, Sell, strength, fmt.Sprintf("overbought (WR=%.1f)", wr)}
	default:
		return neutral(CategoryBaseline, fmt.Sprintf("neutral (WR=%.1f)", wr))
	}
}

func cciRule(s Snapshot, _ taconfig.Signals) Signal {
	if !s.CCI.Defined {
		return undefined(CategoryBaseline)
	}
	cci, _ := s.CCI.Float()
	switch {
	case cci < -100:
		return Signal{CategoryBaseline, Buy, clampStrength(math.Abs(cci+100) / 2), fmt.Sprintf("oversold (CCI=%.1f)", cci)}
	case cci > 100:
		return Signal{CategoryBaseline, Sell, clampStrength((cci - 100) / 2), fmt.Sprintf("overbought (CCI=%.1f)", cci)}
	default:
		return neutral(CategoryBaseline, fmt.Sprintf("normal (CCI=%.1f)", cci))
	}
}

func patternTallyRule(s Snapshot, _ taconfig.Signals) Signal {
	if s.BullishPatterns == 0 && s.BearishPatterns == 0 {
		return neutral(CategoryBaseline, "no notable pattern")
	}
	names := s.PatternNames
	if len(names) > 2 {
		names = names[:2]
	}
	switch {
	case s.BullishPatterns > s.BearishPatterns:
		return Signal{CategoryBaseline, Buy, clampStrength(float64(s.BullishPatterns * 30)), fmt.Sprintf("bullish patterns: %v", names)}
	case s.BearishPatterns > s.BullishPatterns:
		return Signal{CategoryBaseline, Sell, clampStrength(float64(s.BearishPatterns * 30)), fmt.Sprintf("bearish patterns: %v", names)}
	default:
		return neutral(CategoryBaseline, "pattern reads balanced")
	}
}

func volumeSpikeRule(s Snapshot, th taconfig.Signals) Signal {
	if len(s.Volumes) < 6 || !s.ChangePct.Defined {
		return undefined(CategoryBaseline)
	}
	recent := s.Volumes[len(s.Volumes)-5:]
	sum := 0.0
	for _, v := range recent {
		sum += v
	}
	mean := sum / float64(len(recent))
	if mean == 0 {
		return undefined(CategoryBaseline)
	}
	ratio := s.Volumes[len(s.Volumes)-1] / mean
	change, _ := s.ChangePct.Float()
	switch {
	case ratio >= th.VolumeSpikeRatio && change > 0:
		return Signal{CategoryBaseline, Buy, clampStrength(ratio * 30), fmt.Sprintf("volume surge up (ratio=%.1f)", ratio)}
	case ratio >= th.VolumeSpikeRatio && change < 0:
		return Signal{CategoryBaseline, Sell, clampStrength(ratio * 30), fmt.Sprintf("volume surge down (ratio=%.1f)", ratio)}
	case ratio < th.VolumeDryRatio:
		return neutral(CategoryBaseline, fmt.Sprintf("volume drying up (ratio=%.1f)", ratio))
	default:
		return neutral(CategoryBaseline, fmt.Sprintf("normal volume (ratio=%.1f)", ratio))
	}
}

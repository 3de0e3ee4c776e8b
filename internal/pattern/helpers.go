package pattern

import (
	"math"

	"github.com/dhkim/tessa/internal/market"
)

// Body sizing thresholds, expressed as ATR multiples with a body-to-range
// fraction fallback when ATR is unavailable.
const (
	longBodyATRMul  = 0.8
	smallBodyATRMul = 0.3
	dojiBodyFrac    = 0.1
)

func bodySize(b market.Bar) float64 { return math.Abs(b.Close - b.Open) }

func candleRange(b market.Bar) float64 { return b.High - b.Low }

func upperShadow(b market.Bar) float64 { return b.High - math.Max(b.Open, b.Close) }

func lowerShadow(b market.Bar) float64 { return math.Min(b.Open, b.Close) - b.Low }

func isBullish(b market.Bar) bool { return b.Close > b.Open }

func isBearish(b market.Bar) bool { return b.Close < b.Open }

func isLongBody(b market.Bar, atr float64) bool {
	if atr > 0 {
		return bodySize(b) > atr*longBodyATRMul
	}
	return candleRange(b) > 0 && bodySize(b) > 0.6*candleRange(b)
}

func isSmallBody(b market.Bar, atr float64) bool {
	if atr > 0 {
		return bodySize(b) < atr*smallBodyATRMul
	}
	return candleRange(b) == 0 || bodySize(b) < 0.3*candleRange(b)
}

func isDoji(b market.Bar, atr float64) bool {
	if atr > 0 {
		return bodySize(b) < atr*dojiBodyFrac
	}
	return candleRange(b) == 0 || bodySize(b) < dojiBodyFrac*candleRange(b)
}

// engulfs reports whether the body of cur fully wraps the body of prev.
func engulfs(cur, prev market.Bar) bool {
	return math.Min(cur.Open, cur.Close) < math.Min(prev.Open, prev.Close) &&
		math.Max(cur.Open, cur.Close) > math.Max(prev.Open, prev.Close)
}

// insideBody reports whether the body of cur sits inside the body of prev.
func insideBody(cur, prev market.Bar) bool {
	return math.Min(cur.Open, cur.Close) > math.Min(prev.Open, prev.Close) &&
		math.Max(cur.Open, cur.Close) < math.Max(prev.Open, prev.Close)
}

func midBody(b market.Bar) float64 { return (b.Open + b.Close) / 2 }

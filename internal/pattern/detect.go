package pattern

// Candlestick detectors over a short trailing window. Each detector is a
// named pure function registered in a static table; detection always targets
// the last bar of the window.

import (
	"github.com/dhkim/tessa/internal/market"
)

// Kind is the directional reading of a matched pattern.
type Kind int

const (
	Bullish Kind = iota
	Bearish
	Neutral
)

func (k Kind) String() string {
	switch k {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// Detector is one named candlestick rule. Lookback is the number of trailing
// bars Match needs; Match receives exactly that many bars, most recent last,
// plus the latest ATR (0 when ATR is undefined).
type Detector struct {
	Name     string
	Kind     Kind
	Lookback int
	Match    func(w []market.Bar, atr float64) bool
}

// Match is one recognized pattern on the latest bar.
type Match struct {
	Name string `json:"name"`
	Kind Kind   `json:"-"`
	Type string `json:"type"`
}

// Registry is the full detector table. Order is fixed so detection output is
// deterministic.
var Registry = []Detector{
	{"three_white_soldiers", Bullish, 3, threeWhiteSoldiers},
	{"morning_star", Bullish, 3, morningStar},
	{"hammer", Bullish, 1, hammer},
	{"piercing_line", Bullish, 2, piercingLine},
	{"bullish_engulfing", Bullish, 2, bullishEngulfing},
	{"bullish_harami", Bullish, 2, bullishHarami},
	{"three_inside_up", Bullish, 3, threeInsideUp},
	{"inverted_hammer", Bullish, 1, invertedHammer},
	{"dragonfly_doji", Bullish, 1, dragonflyDoji},

	{"three_black_crows", Bearish, 3, threeBlackCrows},
	{"evening_star", Bearish, 3, eveningStar},
	{"hanging_man", Bearish, 2, hangingMan},
	{"dark_cloud_cover", Bearish, 2, darkCloudCover},
	{"shooting_star", Bearish, 2, shootingStar},
	{"bearish_engulfing", Bearish, 2, bearishEngulfing},
	{"gravestone_doji", Bearish, 1, gravestoneDoji},

	{"doji", Neutral, 1, doji},
	{"spinning_top", Neutral, 1, spinningTop},
	{"high_wave", Neutral, 1, highWave},
}

// Detect runs every registered detector against the tail of bars and returns
// the matches in registry order. atr may be 0 when undefined.
func Detect(bars market.History, atr float64) []Match {
	var matches []Match
	for _, d := range Registry {
		if len(bars) < d.Lookback {
			continue
		}
		w := bars[len(bars)-d.Lookback:]
		if d.Match(w, atr) {
			matches = append(matches, Match{Name: d.Name, Kind: d.Kind, Type: d.Kind.String()})
		}
	}
	return matches
}

// Tally counts matches per kind.
func Tally(matches []Match) (bullish, bearish, neutral int) {
	for _, m := range matches {
		switch m.Kind {
		case Bullish:
			bullish++
		case Bearish:
			bearish++
		default:
			neutral++
		}
	}
	return bullish, bearish, neutral
}

func hammer(w []market.Bar, atr float64) bool {
	b := w[0]
	return isSmallBody(b, atr) &&
		lowerShadow(b) > 2*bodySize(b) &&
		upperShadow(b) < 0.1*candleRange(b)
}

func invertedHammer(w []market.Bar, atr float64) bool {
	b := w[0]
	return isSmallBody(b, atr) &&
		upperShadow(b) > 2*bodySize(b) &&
		lowerShadow(b) < 0.1*candleRange(b)
}

func dragonflyDoji(w []market.Bar, atr float64) bool {
	b := w[0]
	return isDoji(b, atr) &&
		lowerShadow(b) > 5*bodySize(b) &&
		upperShadow(b) < 0.1*candleRange(b)
}

func bullishEngulfing(w []market.Bar, _ float64) bool {
	prev, cur := w[0], w[1]
	return isBearish(prev) && isBullish(cur) && engulfs(cur, prev)
}

func piercingLine(w []market.Bar, atr float64) bool {
	prev, cur := w[0], w[1]
	return isBearish(prev) && isLongBody(prev, atr) &&
		isBullish(cur) &&
		cur.Open < prev.Low &&
		cur.Close > midBody(prev) &&
		cur.Close < prev.Open
}

func bullishHarami(w []market.Bar, atr float64) bool {
	prev, cur := w[0], w[1]
	return isBearish(prev) && isLongBody(prev, atr) &&
		isBullish(cur) && isSmallBody(cur, atr) &&
		insideBody(cur, prev)
}

func morningStar(w []market.Bar, atr float64) bool {
	first, star, last := w[0], w[1], w[2]
	return isBearish(first) && isLongBody(first, atr) &&
		isSmallBody(star, atr) && star.Open < first.Close &&
		isBullish(last) && isLongBody(last, atr) &&
		last.Close > midBody(first)
}

func threeWhiteSoldiers(w []market.Bar, _ float64) bool {
	a, b, c := w[0], w[1], w[2]
	return isBullish(a) && isBullish(b) && isBullish(c) &&
		b.Close > a.Close && c.Close > b.Close &&
		b.Open > a.Open && b.Open < a.Close &&
		c.Open > b.Open && c.Open < b.Close
}

func threeInsideUp(w []market.Bar, atr float64) bool {
	first, mid, last := w[0], w[1], w[2]
	return isBearish(first) && isLongBody(first, atr) &&
		isBullish(mid) && insideBody(mid, first) &&
		isBullish(last) && last.Close > first.Close
}

func hangingMan(w []market.Bar, atr float64) bool {
	prev, cur := w[0], w[1]
	return prev.Close < cur.Close && // appears after an up move
		isSmallBody(cur, atr) &&
		lowerShadow(cur) > 2*bodySize(cur) &&
		upperShadow(cur) < 0.1*candleRange(cur)
}

func shootingStar(w []market.Bar, atr float64) bool {
	prev, cur := w[0], w[1]
	return prev.Close < cur.Close &&
		isSmallBody(cur, atr) &&
		upperShadow(cur) > 2*bodySize(cur) &&
		lowerShadow(cur) < 0.1*candleRange(cur)
}

func gravestoneDoji(w []market.Bar, atr float64) bool {
	b := w[0]
	return isDoji(b, atr) &&
		upperShadow(b) > 5*bodySize(b) &&
		lowerShadow(b) < 0.1*candleRange(b)
}

func bearishEngulfing(w []market.Bar, _ float64) bool {
	prev, cur := w[0], w[1]
	return isBullish(prev) && isBearish(cur) && engulfs(cur, prev)
}

func darkCloudCover(w []market.Bar, atr float64) bool {
	prev, cur := w[0], w[1]
	return isBullish(prev) && isLongBody(prev, atr) &&
		isBearish(cur) &&
		cur.Open > prev.High &&
		cur.Close < midBody(prev) &&
		cur.Close > prev.Open
}

func eveningStar(w []market.Bar, atr float64) bool {
	first, star, last := w[0], w[1], w[2]
	return isBullish(first) && isLongBody(first, atr) &&
		isSmallBody(star, atr) && star.Open > first.Close &&
		isBearish(last) && isLongBody(last, atr) &&
		last.Close < midBody(first)
}

func threeBlackCrows(w []market.Bar, _ float64) bool {
	a, b, c := w[0], w[1], w[2]
	return isBearish(a) && isBearish(b) && isBearish(c) &&
		b.Close < a.Close && c.Close < b.Close &&
		b.Open < a.Open && b.Open > a.Close &&
		c.Open < b.Open && c.Open > b.Close
}

func doji(w []market.Bar, atr float64) bool {
	return isDoji(w[0], atr)
}

func spinningTop(w []market.Bar, atr float64) bool {
	b := w[0]
	rng := candleRange(b)
	return isSmallBody(b, atr) && rng > 0 &&
		upperShadow(b) >= 0.2*rng &&
		lowerShadow(b) >= 0.2*rng
}

func highWave(w []market.Bar, atr float64) bool {
	b := w[0]
	rng := candleRange(b)
	return isSmallBody(b, atr) && rng > 0 &&
		upperShadow(b) >= 0.3*rng &&
		lowerShadow(b) >= 0.3*rng
}

package overlay

import (
	"github.com/dhkim/tessa/internal/market"
)

// fibRatios are the retracement fractions measured down from the lookback
// high toward the lookback low.
var fibRatios = [...]float64{0.236, 0.382, 0.5, 0.618, 0.786}

// FibLevels is a snapshot of the retracement ladder over the trailing
// lookback window, not a per-bar sequence.
type FibLevels struct {
	High    float64            `json:"high"`
	Low     float64            `json:"low"`
	Levels  map[string]float64 `json:"levels"`
	Defined bool               `json:"defined"`
}

// ComputeFibLevels measures the lookback high/low and spaces the standard
// ratios between them. Fewer than two bars leaves the snapshot undefined.
func ComputeFibLevels(bars market.History, lookback int) FibLevels {
	if len(bars) < 2 {
		return FibLevels{}
	}
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	window := bars[start:]

	high := window[0].High
	low := window[0].Low
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	span := high - low
	levels := make(map[string]float64, len(fibRatios))
	for _, r := range fibRatios {
		levels[fibKey(r)] = high - span*r
	}
	return FibLevels{High: high, Low: low, Levels: levels, Defined: true}
}

func fibKey(r float64) string {
	switch r {
	case 0.236:
		return "23.6"
	case 0.382:
		return "38.2"
	case 0.5:
		return "50.0"
	case 0.618:
		return "61.8"
	default:
		return "78.6"
	}
}

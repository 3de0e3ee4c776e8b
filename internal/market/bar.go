package market

import (
	"fmt"
	"math"
	"time"
)

// Interval is the bar aggregation period.
type Interval string

const (
	Daily   Interval = "daily"
	Weekly  Interval = "weekly"
	Monthly Interval = "monthly"
)

// ParseInterval maps a request string to an Interval, defaulting to daily.
func ParseInterval(s string) Interval {
	switch s {
	case string(Weekly):
		return Weekly
	case string(Monthly):
		return Monthly
	default:
		return Daily
	}
}

// Bar is one OHLCV observation for a fixed time interval.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Valid reports whether every numeric field is finite. A malformed bar does
// not abort an evaluation; recurrences depending on it go undefined instead.
func (b Bar) Valid() bool {
	for _, f := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// History is an ordered bar sequence, strictly increasing by date, immutable
// once fetched.
type History []Bar

// Validate checks ordering. At least two bars are required for basic
// operation; overlays document their own larger warm-ups.
func (h History) Validate() error {
	if len(h) < 2 {
		return fmt.Errorf("history too short: %d bars", len(h))
	}
	for i := 1; i < len(h); i++ {
		if !h[i].Date.After(h[i-1].Date) {
			return fmt.Errorf("bars out of order at index %d: %s !> %s",
				i, h[i].Date.Format("2006-01-02"), h[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Opens returns the open column. Malformed fields surface as NaN so that
// downstream maskers mark them undefined.
func (h History) Opens() []float64  { return h.column(func(b Bar) float64 { return b.Open }) }
func (h History) Highs() []float64  { return h.column(func(b Bar) float64 { return b.High }) }
func (h History) Lows() []float64   { return h.column(func(b Bar) float64 { return b.Low }) }
func (h History) Closes() []float64 { return h.column(func(b Bar) float64 { return b.Close }) }
func (h History) Volumes() []float64 {
	return h.column(func(b Bar) float64 { return b.Volume })
}

func (h History) column(get func(Bar) float64) []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		if b.Valid() {
			out[i] = get(b)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Last returns the most recent bar.
func (h History) Last() Bar {
	return h[len(h)-1]
}

// ChangePct returns the latest close-over-close change in percent, or false
// when fewer than two bars exist or the previous close is zero.
func (h History) ChangePct() (float64, bool) {
	if len(h) < 2 {
		return 0, false
	}
	prev := h[len(h)-2].Close
	if prev == 0 {
		return 0, false
	}
	return (h.Last().Close - prev) / prev * 100, true
}

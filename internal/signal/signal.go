// Package signal evaluates the catalog of trading rules against a snapshot
// of indicator values and aggregates them into one composite score.
package signal

import (
	"github.com/dhkim/tessa/internal/series"
)

// Category groups evaluators for regime weighting.
type Category string

const (
	CategoryTrend    Category = "trend"
	CategoryRange    Category = "range"
	CategoryVolume   Category = "volume"
	CategoryPattern  Category = "pattern"
	CategoryBaseline Category = "baseline"
)

// Categories lists every category in weighting order.
var Categories = []Category{
	CategoryTrend, CategoryRange, CategoryVolume, CategoryPattern, CategoryBaseline,
}

// Direction is an evaluator's reading. Undefined means the evaluator could
// not run for lack of defined inputs; it never participates in scoring.
type Direction string

const (
	Buy       Direction = "buy"
	Sell      Direction = "sell"
	Neutral   Direction = "neutral"
	Undefined Direction = "undefined"
)

// Signal is one evaluator's output. Strength is 0 to 100.
type Signal struct {
	Category    Category  `json:"category"`
	Direction   Direction `json:"direction"`
	Strength    int       `json:"strength"`
	Description string    `json:"description"`
}

// Named pairs an evaluator name with its output. The catalog produces an
// ordered list of these, built once per evaluation and passed unmodified to
// the aggregator.
type Named struct {
	Name   string `json:"name"`
	Signal Signal `json:"signal"`
}

func undefined(cat Category) Signal {
	return Signal{Category: cat, Direction: Undefined, Strength: 0, Description: "insufficient data"}
}

func neutral(cat Category, desc string) Signal {
	return Signal{Category: cat, Direction: Neutral, Strength: 0, Description: desc}
}

func clampStrength(s float64) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return int(s)
}

func defined(vals ...series.Value) bool {
	for _, v := range vals {
		if !v.Defined {
			return false
		}
	}
	return true
}

package signal

// Recommendation is one of the five ordered composite classes.
type Recommendation string

const (
	StrongBuy  Recommendation = "strong_buy"
	RecBuy     Recommendation = "buy"
	Hold       Recommendation = "hold"
	RecSell    Recommendation = "sell"
	StrongSell Recommendation = "strong_sell"
)

// CompositeScore is the weighted aggregate of every directional signal.
type CompositeScore struct {
	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	BuyCount       int            `json:"buy_count"`
	SellCount      int            `json:"sell_count"`
	NeutralCount   int            `json:"neutral_count"`
	Regime         string         `json:"regime"`
}

// Aggregate folds the signal set into one score using the per-category
// weights. Only sums are involved, so the result does not depend on the
// order of signals. Undefined signals carry no weight at all.
func Aggregate(signals []Named, weights map[Category]float64, regime string) CompositeScore {
	var agg, totalWeight float64
	var buys, sells, neutrals int

	for _, n := range signals {
		s := n.Signal
		if s.Direction == Undefined {
			continue
		}
		weight, ok := weights[s.Category]
		if !ok {
			weight = 1.0
		}
		normalized := float64(s.Strength) / 100.0
		switch s.Direction {
		case Buy:
			agg += weight * normalized
			totalWeight += weight
			buys++
		case Sell:
			agg -= weight * normalized
			totalWeight += weight
			sells++
		default:
			neutrals++
		}
	}

	score := 0.0
	if totalWeight != 0 {
		score = 100.0 * agg / totalWeight
	}

	return CompositeScore{
		Score:          score,
		Recommendation: bucket(score),
		BuyCount:       buys,
		SellCount:      sells,
		NeutralCount:   neutrals,
		Regime:         regime,
	}
}

// bucket maps a score to its recommendation class. Boundaries are fixed.
func bucket(score float64) Recommendation {
	switch {
	case score > 50:
		return StrongBuy
	case score > 20:
		return RecBuy
	case score > -20:
		return Hold
	case score > -50:
		return RecSell
	default:
		return StrongSell
	}
}

package signal

import (
	"github.com/dhkim/tessa/internal/taconfig"
)

// evaluator is the shared shape of every catalog rule.
type evaluator func(Snapshot, taconfig.Signals) Signal

// catalog fixes the evaluator set and its output order.
var catalog = []struct {
	name string
	eval evaluator
}{
	{"MACD", macdRule},
	{"RSI", rsiRule},
	{"KDJ", kdjRule},
	{"Bollinger", bollingerRule},
	{"MA", maStackRule},
	{"Trend", adxTrendRule},
	{"WilliamsR", willrRule},
	{"CCI", cciRule},
	{"Pattern", patternTallyRule},
	{"Volume", volumeSpikeRule},

	{"SuperTrend", superTrendRule},
	{"Ichimoku", ichimokuRule},
	{"Donchian", donchianRule},
	{"KeltnerSqueeze", keltnerSqueezeRule},
	{"MoneyFlow", moneyFlowRule},
	{"PPO_TSI", ppoTsiRule},
	{"KAMA", kamaRule},
	{"ForceIndex", forceIndexRule},
	{"Divergence", divergenceRule},
}

// Evaluate runs the full catalog against one snapshot and returns the
// signals in catalog order. The returned slice is freshly built per call.
func Evaluate(s Snapshot, th taconfig.Signals) []Named {
	out := make([]Named, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, Named{Name: e.name, Signal: e.eval(s, th)})
	}
	return out
}

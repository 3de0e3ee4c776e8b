package signal

import (
	"github.com/dhkim/tessa/internal/overlay"
	"github.com/dhkim/tessa/internal/series"
)

// Snapshot is the full set of latest indicator values (and the short
// trailing windows the divergence rule needs) one evaluation run feeds to the
// catalog. Every evaluator reads only this struct, so each rule can be tested
// with a stubbed snapshot.
type Snapshot struct {
	Close     series.Value
	ChangePct series.Value

	// Legacy rule inputs.
	MACD       series.Value
	MACDSignal series.Value
	MACDHist   series.Value
	RSI        series.Value
	K, D, J    series.Value
	BBUpper    series.Value
	BBLower    series.Value
	BBPctB     series.Value
	SMA5       series.Value
	SMA10      series.Value
	SMA20      series.Value
	SMA60      series.Value
	ADX        series.Value
	PlusDI     series.Value
	MinusDI    series.Value
	WillR      series.Value
	CCI        series.Value

	// Band overlay state at the latest index.
	SuperTrendDir   overlay.Direction
	SuperTrendValue series.Value

	// Cloud and channel state.
	Tenkan, Kijun    series.Value
	SenkouA, SenkouB series.Value
	Chikou           series.Value
	DonchianUpper    series.Value
	DonchianLower    series.Value
	KeltnerUpper     series.Value
	KeltnerLower     series.Value

	// Money flow and extended momentum.
	MFI, CMF        series.Value
	PPO, PPOSignal  series.Value
	TSI, TSISignal  series.Value
	KAMA, KAMASlope series.Value
	ForceIndex      series.Value

	// Trailing windows for the divergence rule.
	CloseWindow series.Series
	RSIWindow   series.Series
	MACDWindow  series.Series

	// Candlestick tallies on the latest bar.
	BullishPatterns int
	BearishPatterns int
	PatternNames    []string

	// Trailing raw volumes, most recent last, for the volume-spike rule.
	Volumes []float64
}

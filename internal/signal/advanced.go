package signal

import (
	"fmt"
	"math"

	"github.com/dhkim/tessa/internal/overlay"
	"github.com/dhkim/tessa/internal/series"
	"github.com/dhkim/tessa/internal/taconfig"
)

// Regime-aware rule family built on the derived overlays.

func superTrendRule(s Snapshot, _ taconfig.Signals) Signal {
	if s.SuperTrendDir == overlay.DirUndefined || !defined(s.Close, s.SuperTrendValue) {
		return undefined(CategoryTrend)
	}
	price, _ := s.Close.Float()
	line, _ := s.SuperTrendValue.Float()

	rel := 0.0
	if price != 0 {
		rel = math.Min(math.Abs(price-line)/price*1000, 1.0)
	}
	strength := clampStrength(50 + 50*rel)
	switch {
	case s.SuperTrendDir == overlay.DirBull && price >= line:
		return Signal{CategoryTrend, Buy, strength, "SuperTrend rising"}
	case s.SuperTrendDir == overlay.DirBear && price <= line:
		return Signal{CategoryTrend, Sell, strength, "SuperTrend falling"}
	default:
		return neutral(CategoryTrend, "SuperTrend neutral")
	}
}

func ichimokuRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.Close, s.SenkouA, s.SenkouB, s.Tenkan, s.Kijun) {
		return undefined(CategoryTrend)
	}
	price, _ := s.Close.Float()
	sa, _ := s.SenkouA.Float()
	sb, _ := s.SenkouB.Float()
	tenkan, _ := s.Tenkan.Float()
	kijun, _ := s.Kijun.Float()

	cloudTop := math.Max(sa, sb)
	cloudBottom := math.Min(sa, sb)

	bullish := price > cloudTop && tenkan > kijun
	bearish := price < cloudBottom && tenkan < kijun
	if chikou, ok := s.Chikou.Float(); ok {
		bullish = bullish && chikou > price
		bearish = bearish && chikou < price
	}

	span := cloudTop - cloudBottom
	rel := 0.0
	if span != 0 {
		ref := cloudBottom
		if bullish {
			ref = cloudTop
		}
		rel = math.Min(math.Abs(price-ref)/span, 1.0)
	}
	strength := clampStrength(50 + 50*rel)
	switch {
	case bullish:
		return Signal{CategoryTrend, Buy, strength, "price above bullish cloud"}
	case bearish:
		return Signal{CategoryTrend, Sell, strength, "price below bearish cloud"}
	default:
		return neutral(CategoryTrend, "inside or near cloud")
	}
}

func donchianRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.Close, s.DonchianUpper, s.DonchianLower) {
		return undefined(CategoryTrend)
	}
	price, _ := s.Close.Float()
	upper, _ := s.DonchianUpper.Float()
	lower, _ := s.DonchianLower.Float()
	if upper-lower <= 0 {
		return neutral(CategoryTrend, "degenerate channel")
	}
	switch {
	case price >= upper:
		return Signal{CategoryTrend, Buy, 70, "Donchian upper breakout"}
	case price <= lower:
		return Signal{CategoryTrend, Sell, 70, "Donchian lower breakdown"}
	default:
		return neutral(CategoryRange, "inside channel")
	}
}

// keltnerSqueezeRule reads a squeeze when the volatility bands sit strictly
// inside the Keltner channel, then signals on a breakout through the Keltner
// bound. Outside a squeeze it is always range-neutral.
func keltnerSqueezeRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.Close, s.KeltnerUpper, s.KeltnerLower, s.BBUpper, s.BBLower) {
		return undefined(CategoryRange)
	}
	price, _ := s.Close.Float()
	ku, _ := s.KeltnerUpper.Float()
	kl, _ := s.KeltnerLower.Float()
	bu, _ := s.BBUpper.Float()
	bl, _ := s.BBLower.Float()

	squeezeOn := bu < ku && bl > kl
	switch {
	case squeezeOn && price > ku:
		return Signal{CategoryTrend, Buy, 80, "squeeze breakout up"}
	case squeezeOn && price < kl:
		return Signal{CategoryTrend, Sell, 80, "squeeze breakout down"}
	case squeezeOn:
		return neutral(CategoryRange, "squeeze holding")
	default:
		return neutral(CategoryRange, "no squeeze")
	}
}

func moneyFlowRule(s Snapshot, th taconfig.Signals) Signal {
	if !defined(s.MFI, s.CMF) {
		return undefined(CategoryVolume)
	}
	mfi, _ := s.MFI.Float()
	cmf, _ := s.CMF.Float()
	switch {
	case mfi < th.MFIOversold && cmf > 0:
		return Signal{CategoryVolume, Buy, 70, fmt.Sprintf("MFI oversold with positive flow (%.1f, %.2f)", mfi, cmf)}
	case mfi > th.MFIOverbought && cmf < 0:
		return Signal{CategoryVolume, Sell, 70, fmt.Sprintf("MFI overbought with negative flow (%.1f, %.2f)", mfi, cmf)}
	default:
		return neutral(CategoryVolume, fmt.Sprintf("money flow neutral (%.1f, %.2f)", mfi, cmf))
	}
}

func ppoTsiRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.PPO, s.PPOSignal, s.TSI, s.TSISignal) {
		return undefined(CategoryTrend)
	}
	ppo, _ := s.PPO.Float()
	ppoSig, _ := s.PPOSignal.Float()
	tsi, _ := s.TSI.Float()
	tsiSig, _ := s.TSISignal.Float()

	ppoBull := ppo > ppoSig
	tsiBull := tsi > tsiSig
	switch {
	case ppoBull && tsiBull:
		return Signal{CategoryTrend, Buy, 75, "PPO and TSI aligned bullish"}
	case !ppoBull && !tsiBull:
		return Signal{CategoryTrend, Sell, 75, "PPO and TSI aligned bearish"}
	default:
		return neutral(CategoryTrend, "PPO/TSI disagree")
	}
}

func kamaRule(s Snapshot, _ taconfig.Signals) Signal {
	if !defined(s.Close, s.KAMA, s.KAMASlope) {
		return undefined(CategoryTrend)
	}
	price, _ := s.Close.Float()
	kama, _ := s.KAMA.Float()
	slope, _ := s.KAMASlope.Float()
	switch {
	case price > kama && slope > 0:
		return Signal{CategoryTrend, Buy, 60, "KAMA rising"}
	case price < kama && slope < 0:
		return Signal{CategoryTrend, Sell, 60, "KAMA falling"}
	default:
		return neutral(CategoryTrend, "KAMA neutral")
	}
}

func forceIndexRule(s Snapshot, _ taconfig.Signals) Signal {
	if !s.ForceIndex.Defined {
		return undefined(CategoryVolume)
	}
	v, _ := s.ForceIndex.Float()
	strength := clampStrength(math.Min(math.Abs(v)/(math.Abs(v)+1)*100, 80))
	switch {
	case v > 0:
		return Signal{CategoryVolume, Buy, strength, "positive buying pressure"}
	case v < 0:
		return Signal{CategoryVolume, Sell, strength, "negative selling pressure"}
	default:
		return neutral(CategoryVolume, "flat money force")
	}
}

// divergenceRule fits independent least-squares slopes to the trailing
// price, RSI and MACD windows and flags regular divergence when the
// oscillators lean against the price trend.
func divergenceRule(s Snapshot, th taconfig.Signals) Signal {
	lb := th.DivergenceLookback
	if len(s.CloseWindow) < lb || len(s.RSIWindow) < lb || len(s.MACDWindow) < lb {
		return undefined(CategoryPattern)
	}
	pSlope, pok := series.OLSSlope(s.CloseWindow)
	rsiSlope, rok := series.OLSSlope(s.RSIWindow)
	macdSlope, mok := series.OLSSlope(s.MACDWindow)
	if !pok || !rok || !mok {
		return undefined(CategoryPattern)
	}

	strength := 0
	var dir Direction = Neutral
	var desc string
	switch {
	case pSlope < 0:
		if rsiSlope > th.DivergenceRSISlope {
			strength += 40
			desc = "RSI bullish divergence"
		}
		if macdSlope > th.DivergenceMACDSlope {
			strength += 40
			if desc != "" {
				desc += " & "
			}
			desc += "MACD bullish divergence"
		}
		if strength > 0 {
			dir = Buy
		}
	case pSlope > 0:
		if rsiSlope < -th.DivergenceRSISlope {
			strength += 40
			desc = "RSI bearish divergence"
		}
		if macdSlope < -th.DivergenceMACDSlope {
			strength += 40
			if desc != "" {
				desc += " & "
			}
			desc += "MACD bearish divergence"
		}
		if strength > 0 {
			dir = Sell
		}
	}
	if dir == Neutral {
		return neutral(CategoryPattern, "no divergence")
	}
	if strength > 90 {
		strength = 90
	}
	return Signal{CategoryPattern, dir, strength, desc}
}

package scanner

import (
	"math"

	"github.com/stockpulse/stockpulse-go/internal/market"
)

// Setup pattern names, ordered by evaluation priority.
const (
	PatternUptrendPullback  = "Uptrend Pullback"
	PatternSupportBounce    = "Support Bounce"
	PatternDowntrendRally   = "Downtrend Rally (Short)"
	PatternOversoldReversal = "Oversold Reversal"
	PatternEMACrossover     = "EMA Crossover Setup"
	PatternATRBased         = "ATR-Based Setup"
)

// TradeSetup is a priced entry/stop/target plan for one symbol.
type TradeSetup struct {
	EntryPrice      float64 `json:"entry_price"`
	StopLoss        float64 `json:"stop_loss"`
	TargetPrice     float64 `json:"target_price"`
	RiskAmount      float64 `json:"risk_amount"`
	RewardAmount    float64 `json:"reward_amount"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	Pattern         string  `json:"pattern"`
}

// EvaluateSetup classifies the quote against the indicator bundle and
// prices a trade plan. The first matching branch wins. Returns nil when
// no plan can be priced (zero ATR, zero price or non-positive risk).
func EvaluateSetup(quote market.Quote, tech IndicatorBundle) *TradeSetup {
	price := quote.Price
	atr := tech.ATR

	if atr == 0 || price == 0 {
		return nil
	}

	trendUp := price > tech.SMA20 && tech.SMA20 > tech.SMA50
	trendDown := price < tech.SMA20 && tech.SMA20 < tech.SMA50
	nearSupport := price <= tech.SwingLow*1.02
	oversold := tech.RSI < 35
	overbought := tech.RSI > 65

	entry := price
	var stop, target float64
	var pattern string

	switch {
	case trendUp && oversold:
		pattern = PatternUptrendPullback
		stop = price - atr*1.5
		target = price + atr*7.5

	case trendUp && nearSupport:
		pattern = PatternSupportBounce
		stop = tech.SwingLow - atr*0.5
		target = price + (price-stop)*5

	case trendDown && overbought:
		// Short setup: the target sits below the entry and the ratio is
		// taken in the short direction.
		pattern = PatternDowntrendRally
		stop = price + atr*1.5
		target = math.Abs(price - atr*7.5)
		return finalizeSetup(entry, stop, target, (price-target)/(stop-price), pattern)

	case price < tech.BBLower && oversold:
		pattern = PatternOversoldReversal
		stop = price - atr*1.2
		target = tech.SMA20
		if ratio := (target - entry) / (entry - stop); ratio >= 5 {
			return finalizeSetup(entry, stop, target, ratio, pattern)
		}
		target = entry + (entry-stop)*5

	case price > tech.EMA9 && price < tech.SMA20:
		pattern = PatternEMACrossover
		stop = price - atr*1.3
		target = price + (price-stop)*5

	default:
		pattern = PatternATRBased
		stop = price - atr*1.5
		target = price + atr*7.5
	}

	risk := math.Abs(entry - stop)
	if risk <= 0 {
		return nil
	}
	reward := math.Abs(target - entry)

	return finalizeSetup(entry, stop, target, reward/risk, pattern)
}

func finalizeSetup(entry, stop, target, ratio float64, pattern string) *TradeSetup {
	return &TradeSetup{
		EntryPrice:      entry,
		StopLoss:        stop,
		TargetPrice:     target,
		RiskAmount:      math.Abs(entry - stop),
		RewardAmount:    math.Abs(target - entry),
		RiskRewardRatio: ratio,
		Pattern:         pattern,
	}
}

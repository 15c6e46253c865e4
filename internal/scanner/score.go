package scanner

import (
	"math"

	"github.com/stockpulse/stockpulse-go/internal/market"
)

// Composite score weights. Reward is split between volatility quality
// and the risk/reward ratio of the priced setup.
const (
	weightTrend      = 0.25
	weightMomentum   = 0.25
	weightVolume     = 0.20
	weightVolatility = 0.15
	weightRiskReward = 0.15
)

// ScoreSet holds the per-dimension sub-scores and their weighted blend.
type ScoreSet struct {
	Composite  float64 `json:"composite"`
	Trend      float64 `json:"trend"`
	Momentum   float64 `json:"momentum"`
	Volume     float64 `json:"volume"`
	Volatility float64 `json:"volatility"`
	RiskReward float64 `json:"risk_reward"`
}

// ComputeScores grades the quote on trend, momentum, volume and
// volatility step functions, folds in the risk/reward ratio and blends
// them into the composite.
func ComputeScores(quote market.Quote, tech IndicatorBundle, rrRatio float64) ScoreSet {
	trendScore := 30.0
	switch {
	case quote.Price > tech.SMA20 && tech.SMA20 > tech.SMA50:
		trendScore = 90
	case quote.Price > tech.SMA20:
		trendScore = 70
	case quote.Price > tech.SMA50:
		trendScore = 50
	}

	momentumScore := 20.0
	switch {
	case tech.RSI < 30:
		momentumScore = 95
	case tech.RSI < 40:
		momentumScore = 80
	case tech.RSI < 50:
		momentumScore = 65
	case tech.RSI < 60:
		momentumScore = 50
	case tech.RSI < 70:
		momentumScore = 35
	}

	avgVolume := quote.AvgVolume
	if avgVolume == 0 {
		avgVolume = 1
	}
	volumeRatio := float64(quote.Volume) / float64(avgVolume)
	volumeScore := 20.0
	switch {
	case volumeRatio > 2:
		volumeScore = 95
	case volumeRatio > 1.5:
		volumeScore = 80
	case volumeRatio > 1:
		volumeScore = 60
	case volumeRatio > 0.7:
		volumeScore = 40
	}

	volatilityPct := tech.ATR / quote.Price * 100
	volatilityScore := 30.0
	switch {
	case volatilityPct > 3 && volatilityPct < 8:
		volatilityScore = 90
	case volatilityPct > 2 && volatilityPct < 10:
		volatilityScore = 70
	case volatilityPct > 1:
		volatilityScore = 50
	}

	rrScore := math.Min(100, rrRatio*15)

	composite := trendScore*weightTrend +
		momentumScore*weightMomentum +
		volumeScore*weightVolume +
		volatilityScore*weightVolatility +
		rrScore*weightRiskReward

	return ScoreSet{
		Composite:  composite,
		Trend:      trendScore,
		Momentum:   momentumScore,
		Volume:     volumeScore,
		Volatility: volatilityScore,
		RiskReward: rrScore,
	}
}

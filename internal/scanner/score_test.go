package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockpulse/stockpulse-go/internal/market"
)

func TestComputeScores_StrongCandidate(t *testing.T) {
	quote := market.Quote{Price: 100, Volume: 2100, AvgVolume: 1000}
	tech := IndicatorBundle{SMA20: 90, SMA50: 80, RSI: 25, ATR: 5}

	scores := ComputeScores(quote, tech, 5.0)

	assert.InDelta(t, 90.0, scores.Trend, 1e-9)
	assert.InDelta(t, 95.0, scores.Momentum, 1e-9)
	assert.InDelta(t, 95.0, scores.Volume, 1e-9)
	assert.InDelta(t, 90.0, scores.Volatility, 1e-9)
	assert.InDelta(t, 75.0, scores.RiskReward, 1e-9)
	assert.InDelta(t, 90.0, scores.Composite, 1e-9)
}

func TestComputeScores_TrendSteps(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		sma20 float64
		sma50 float64
		want  float64
	}{
		{"stacked uptrend", 100, 90, 80, 90},
		{"above short average only", 100, 90, 95, 70},
		{"above long average only", 100, 110, 95, 50},
		{"below both", 100, 110, 120, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := market.Quote{Price: tt.price, Volume: 100, AvgVolume: 100}
			tech := IndicatorBundle{SMA20: tt.sma20, SMA50: tt.sma50, RSI: 50, ATR: 1}
			scores := ComputeScores(quote, tech, 5)
			assert.InDelta(t, tt.want, scores.Trend, 1e-9)
		})
	}
}

func TestComputeScores_MomentumSteps(t *testing.T) {
	tests := []struct {
		rsi  float64
		want float64
	}{
		{25, 95}, {30, 80}, {35, 80}, {45, 65}, {55, 50}, {65, 35}, {75, 20},
	}

	quote := market.Quote{Price: 100, Volume: 100, AvgVolume: 100}
	for _, tt := range tests {
		tech := IndicatorBundle{SMA20: 90, SMA50: 80, RSI: tt.rsi, ATR: 1}
		scores := ComputeScores(quote, tech, 5)
		assert.InDeltaf(t, tt.want, scores.Momentum, 1e-9, "rsi=%v", tt.rsi)
	}
}

func TestComputeScores_VolumeSteps(t *testing.T) {
	tests := []struct {
		volume int64
		avg    int64
		want   float64
	}{
		{2100, 1000, 95},
		{1600, 1000, 80},
		{1100, 1000, 60},
		{1000, 1000, 40}, // exactly 1x is not a surge
		{750, 1000, 40},
		{500, 1000, 20},
	}

	for _, tt := range tests {
		quote := market.Quote{Price: 100, Volume: tt.volume, AvgVolume: tt.avg}
		tech := IndicatorBundle{SMA20: 90, SMA50: 80, RSI: 50, ATR: 1}
		scores := ComputeScores(quote, tech, 5)
		assert.InDeltaf(t, tt.want, scores.Volume, 1e-9, "volume=%d avg=%d", tt.volume, tt.avg)
	}
}

func TestComputeScores_ZeroAvgVolume(t *testing.T) {
	quote := market.Quote{Price: 100, Volume: 1000, AvgVolume: 0}
	tech := IndicatorBundle{SMA20: 90, SMA50: 80, RSI: 50, ATR: 1}

	scores := ComputeScores(quote, tech, 5)

	// Division guard treats missing average volume as a surge
	assert.InDelta(t, 95.0, scores.Volume, 1e-9)
}

func TestComputeScores_VolatilitySteps(t *testing.T) {
	tests := []struct {
		atr  float64
		want float64
	}{
		{5, 90},    // 5% sits in the sweet spot
		{9, 70},    // 9% is tradeable but wide
		{1.5, 50},  // 1.5% is quiet
		{0.5, 30},  // under 1% is dead
		{12, 30},   // over 10% is untradeable
	}

	for _, tt := range tests {
		quote := market.Quote{Price: 100, Volume: 100, AvgVolume: 100}
		tech := IndicatorBundle{SMA20: 90, SMA50: 80, RSI: 50, ATR: tt.atr}
		scores := ComputeScores(quote, tech, 5)
		assert.InDeltaf(t, tt.want, scores.Volatility, 1e-9, "atr=%v", tt.atr)
	}
}

func TestComputeScores_RiskRewardCapped(t *testing.T) {
	quote := market.Quote{Price: 100, Volume: 100, AvgVolume: 100}
	tech := IndicatorBundle{SMA20: 90, SMA50: 80, RSI: 50, ATR: 1}

	scores := ComputeScores(quote, tech, 12)

	assert.InDelta(t, 100.0, scores.RiskReward, 1e-9)
}

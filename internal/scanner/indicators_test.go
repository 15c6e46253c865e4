package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func constantSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func risingSeries(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func TestComputeIndicators_ShortHistoryDegrades(t *testing.T) {
	closes := []float64{10, 12, 11}
	bundle := ComputeIndicators(closes, closes, closes)

	assert.InDelta(t, 50.0, bundle.RSI, 1e-9)
	assert.InDelta(t, 0.0, bundle.ATR, 1e-9)
	assert.InDelta(t, 11.0, bundle.SMA20, 1e-9)
	assert.InDelta(t, 11.0, bundle.SMA50, 1e-9)
	assert.InDelta(t, 11.0, bundle.EMA9, 1e-9)
	assert.InDelta(t, 12.0, bundle.SwingHigh, 1e-9)
	assert.InDelta(t, 10.0, bundle.SwingLow, 1e-9)
}

func TestComputeIndicators_EmptyHistory(t *testing.T) {
	bundle := ComputeIndicators(nil, nil, nil)

	assert.InDelta(t, 50.0, bundle.RSI, 1e-9)
	assert.InDelta(t, 0.0, bundle.ATR, 1e-9)
	assert.InDelta(t, 0.0, bundle.SMA20, 1e-9)
}

func TestComputeIndicators_MovingAverages(t *testing.T) {
	closes := risingSeries(20, 1) // 1..20
	bundle := ComputeIndicators(closes, closes, closes)

	assert.InDelta(t, 10.5, bundle.SMA20, 1e-9)
	// Under 50 closes the long average falls back to the short one
	assert.InDelta(t, 10.5, bundle.SMA50, 1e-9)
	assert.Greater(t, bundle.EMA9, closes[0])
	assert.Less(t, bundle.EMA9, closes[len(closes)-1])
}

func TestComputeIndicators_SMA50WithLongHistory(t *testing.T) {
	closes := risingSeries(60, 1) // 1..60
	bundle := ComputeIndicators(closes, closes, closes)

	// last 20: 41..60, last 50: 11..60
	assert.InDelta(t, 50.5, bundle.SMA20, 1e-9)
	assert.InDelta(t, 35.5, bundle.SMA50, 1e-9)
}

func TestComputeIndicators_RSISaturatesAt100(t *testing.T) {
	closes := risingSeries(30, 100)
	bundle := ComputeIndicators(closes, closes, closes)

	assert.InDelta(t, 100.0, bundle.RSI, 1e-9)
}

func TestComputeIndicators_RSIZeroOnPureLosses(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	bundle := ComputeIndicators(closes, closes, closes)

	assert.InDelta(t, 0.0, bundle.RSI, 1e-9)
}

func TestComputeIndicators_ATR(t *testing.T) {
	closes := constantSeries(20, 100)
	highs := constantSeries(20, 101)
	lows := constantSeries(20, 99)

	bundle := ComputeIndicators(closes, highs, lows)

	// Every true range is high-low = 2 over 14 sessions
	assert.InDelta(t, 2.0, bundle.ATR, 1e-9)
}

func TestComputeIndicators_ATRUsesGapOverRange(t *testing.T) {
	// A gap from the previous close dominates the intraday range
	closes := constantSeries(20, 100)
	closes[19] = 110
	highs := make([]float64, 20)
	lows := make([]float64, 20)
	copy(highs, closes)
	copy(lows, closes)

	bundle := ComputeIndicators(closes, highs, lows)

	// One session with |high-prevClose| = 10, thirteen with zero
	assert.InDelta(t, 10.0/14.0, bundle.ATR, 1e-9)
}

func TestComputeIndicators_SwingWindow(t *testing.T) {
	closes := risingSeries(20, 1) // 1..20, swing window is the last 10
	bundle := ComputeIndicators(closes, closes, closes)

	assert.InDelta(t, 20.0, bundle.SwingHigh, 1e-9)
	assert.InDelta(t, 11.0, bundle.SwingLow, 1e-9)
}

func TestComputeIndicators_BollingerBands(t *testing.T) {
	closes := constantSeries(20, 100)
	bundle := ComputeIndicators(closes, closes, closes)

	// Zero deviation collapses the bands onto the mean
	assert.InDelta(t, 100.0, bundle.BBUpper, 1e-9)
	assert.InDelta(t, 100.0, bundle.BBLower, 1e-9)
}

package scanner

import "math"

// rsiPeriod and atrPeriod are the fixed lookbacks for momentum and
// volatility. swingLookback bounds the swing high/low window.
const (
	rsiPeriod     = 14
	atrPeriod     = 14
	swingLookback = 10
	smaPeriod     = 20
)

// IndicatorBundle holds the technical indicator values computed from a
// single symbol's price history.
type IndicatorBundle struct {
	RSI       float64 `json:"rsi"`
	ATR       float64 `json:"atr"`
	SMA20     float64 `json:"sma20"`
	SMA50     float64 `json:"sma50"`
	EMA9      float64 `json:"ema9"`
	BBUpper   float64 `json:"bb_upper"`
	BBLower   float64 `json:"bb_lower"`
	SwingHigh float64 `json:"swing_high"`
	SwingLow  float64 `json:"swing_low"`
}

// ComputeIndicators derives the indicator bundle from null-filtered
// close, high and low series. With fewer than 20 closes a degraded
// bundle is returned: neutral RSI, zero ATR and the last close standing
// in for every moving average.
func ComputeIndicators(closes, highs, lows []float64) IndicatorBundle {
	if len(closes) < smaPeriod {
		return degradedBundle(closes)
	}

	last20 := closes[len(closes)-20:]
	sma20 := mean(last20)

	sma50 := sma20
	if len(closes) >= 50 {
		sma50 = mean(closes[len(closes)-50:])
	}

	// EMA seeded at the first close and folded over the whole series
	ema9 := closes[0]
	mult := 2.0 / 10.0
	for i := 1; i < len(closes); i++ {
		ema9 = (closes[i]-ema9)*mult + ema9
	}

	rsi := computeRSI(closes)

	stdDev := 0.0
	for _, p := range last20 {
		stdDev += (p - sma20) * (p - sma20)
	}
	stdDev = math.Sqrt(stdDev / 20)
	bbUpper := sma20 + 2*stdDev
	bbLower := sma20 - 2*stdDev

	atr := computeATR(closes, highs, lows)

	lookback := swingLookback
	if len(closes) < lookback {
		lookback = len(closes)
	}
	window := closes[len(closes)-lookback:]
	swingHigh := window[0]
	swingLow := window[0]
	for _, p := range window[1:] {
		if p > swingHigh {
			swingHigh = p
		}
		if p < swingLow {
			swingLow = p
		}
	}

	return IndicatorBundle{
		RSI:       rsi,
		ATR:       atr,
		SMA20:     sma20,
		SMA50:     sma50,
		EMA9:      ema9,
		BBUpper:   bbUpper,
		BBLower:   bbLower,
		SwingHigh: swingHigh,
		SwingLow:  swingLow,
	}
}

func degradedBundle(closes []float64) IndicatorBundle {
	bundle := IndicatorBundle{RSI: 50}
	if len(closes) == 0 {
		return bundle
	}

	lastClose := closes[len(closes)-1]
	bundle.SMA20 = lastClose
	bundle.SMA50 = lastClose
	bundle.EMA9 = lastClose

	bundle.SwingHigh = closes[0]
	bundle.SwingLow = closes[0]
	for _, p := range closes[1:] {
		if p > bundle.SwingHigh {
			bundle.SwingHigh = p
		}
		if p < bundle.SwingLow {
			bundle.SwingLow = p
		}
	}
	return bundle
}

// computeRSI sums gains and losses over the trailing period. A window
// with no losses saturates at 100.
func computeRSI(closes []float64) float64 {
	gains := 0.0
	losses := 0.0
	steps := rsiPeriod
	if len(closes)-1 < steps {
		steps = len(closes) - 1
	}
	for i := 1; i <= steps; i++ {
		change := closes[len(closes)-i] - closes[len(closes)-i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	if losses == 0 {
		return 100
	}
	rs := gains / losses
	return 100 - 100/(1+rs)
}

// computeATR averages the true range over the trailing period. Missing
// highs or lows fall back to the close of the same session.
func computeATR(closes, highs, lows []float64) float64 {
	atrSum := 0.0
	steps := atrPeriod
	if len(closes)-1 < steps {
		steps = len(closes) - 1
	}
	for i := 1; i <= steps; i++ {
		h := closes[len(closes)-i]
		if len(highs)-i >= 0 {
			h = highs[len(highs)-i]
		}
		l := closes[len(closes)-i]
		if len(lows)-i >= 0 {
			l = lows[len(lows)-i]
		}
		pc := closes[len(closes)-i-1]
		atrSum += math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc)))
	}
	return atrSum / atrPeriod
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

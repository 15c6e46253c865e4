package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stockpulse/stockpulse-go/internal/config"
)

// avgVolumeWindow is the number of recent sessions averaged for
// relative volume comparisons.
const avgVolumeWindow = 20

// ValidationError indicates the chart API returned a payload that
// cannot be used for scanning (missing meta, bars or timestamps).
type ValidationError struct {
	Symbol string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid chart data for %s: %s", e.Symbol, e.Reason)
}

// Client fetches daily price history from a chart API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	interval   string
	chartRange string
	titleCaser cases.Caser
}

// NewClient creates a chart API client from market configuration.
func NewClient(cfg config.MarketConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		interval:   cfg.Interval,
		chartRange: cfg.Range,
		titleCaser: cases.Title(language.English),
	}
}

// FetchChart retrieves the price history for a symbol and condenses it
// into a Snapshot. A nil error guarantees at least one close.
func (c *Client) FetchChart(ctx context.Context, symbol string) (*Snapshot, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, strings.ToUpper(symbol), c.interval, c.chartRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart request for %s: %w", symbol, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stockpulse-go/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart response for %s: %w", symbol, err)
	}

	if payload.Chart.Error != nil {
		return nil, &ValidationError{Symbol: symbol, Reason: payload.Chart.Error.Description}
	}
	if len(payload.Chart.Result) == 0 {
		return nil, &ValidationError{Symbol: symbol, Reason: "empty result"}
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &ValidationError{Symbol: symbol, Reason: "missing quote indicators"}
	}
	if len(result.Timestamp) == 0 {
		return nil, &ValidationError{Symbol: symbol, Reason: "missing timestamps"}
	}

	return c.buildSnapshot(symbol, result)
}

func (c *Client) buildSnapshot(symbol string, result chartResult) (*Snapshot, error) {
	bars := result.Indicators.Quote[0]

	snapshot := &Snapshot{
		Closes: filterFloats(bars.Close),
		Highs:  filterFloats(bars.High),
		Lows:   filterFloats(bars.Low),
	}
	if len(snapshot.Closes) == 0 {
		return nil, &ValidationError{Symbol: symbol, Reason: "no usable closes"}
	}

	for i, ts := range result.Timestamp {
		if i >= len(bars.Close) || bars.Close[i] == nil {
			continue
		}
		if i >= len(bars.High) || bars.High[i] == nil || i >= len(bars.Low) || bars.Low[i] == nil {
			continue
		}
		candle := Candle{
			Time:  time.Unix(ts, 0).UTC(),
			High:  *bars.High[i],
			Low:   *bars.Low[i],
			Close: *bars.Close[i],
		}
		candle.Open = candle.Close
		if i < len(bars.Open) && bars.Open[i] != nil {
			candle.Open = *bars.Open[i]
		}
		if i < len(bars.Volume) && bars.Volume[i] != nil {
			candle.Volume = *bars.Volume[i]
		}
		snapshot.Candles = append(snapshot.Candles, candle)
	}

	lastIdx := len(result.Timestamp) - 1
	prevIdx := lastIdx - 1
	if prevIdx < 0 {
		prevIdx = 0
	}

	quote := Quote{
		Symbol: strings.ToUpper(symbol),
		Name:   c.displayName(result.Meta, symbol),
		Sector: "Equity",
	}

	quote.Price = floatAt(bars.Close, lastIdx)
	if quote.Price == 0 {
		quote.Price = result.Meta.RegularMarketPrice
	}
	quote.PreviousClose = floatAt(bars.Close, prevIdx)
	quote.Change = floatAt(bars.Close, lastIdx) - quote.PreviousClose
	if quote.PreviousClose != 0 {
		quote.ChangePercent = quote.Change / quote.PreviousClose * 100
	}
	quote.High = floatAt(bars.High, lastIdx)
	quote.Low = floatAt(bars.Low, lastIdx)
	quote.Open = floatAt(bars.Open, lastIdx)
	quote.Volume = intAt(bars.Volume, lastIdx)
	quote.AvgVolume = averageVolume(bars.Volume, avgVolumeWindow)

	snapshot.Quote = quote
	return snapshot, nil
}

// displayName prefers the names reported by the API and falls back to a
// title-cased symbol so responses never carry an empty name.
func (c *Client) displayName(meta chartMeta, symbol string) string {
	if meta.ShortName != "" {
		return meta.ShortName
	}
	if meta.LongName != "" {
		return meta.LongName
	}
	return c.titleCaser.String(strings.ToLower(symbol))
}

func filterFloats(vals []*float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func floatAt(vals []*float64, idx int) float64 {
	if idx < 0 || idx >= len(vals) || vals[idx] == nil {
		return 0
	}
	return *vals[idx]
}

func intAt(vals []*int64, idx int) int64 {
	if idx < 0 || idx >= len(vals) || vals[idx] == nil {
		return 0
	}
	return *vals[idx]
}

// averageVolume is the mean volume of the trailing window, with nulls
// counted as zero sessions.
func averageVolume(vals []*int64, window int) int64 {
	if len(vals) == 0 {
		return 0
	}
	start := len(vals) - window
	if start < 0 {
		start = 0
	}
	var sum int64
	for _, v := range vals[start:] {
		if v != nil {
			sum += *v
		}
	}
	return int64(math.Round(float64(sum) / float64(window)))
}

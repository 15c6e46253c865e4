package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/market"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/telemetry"
)

// ErrScanInProgress is returned when a scan is requested while another
// scan is still running.
var ErrScanInProgress = errors.New("scan already in progress")

// QuoteCache caches chart snapshots between scans.
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (*market.Snapshot, bool)
	Set(ctx context.Context, symbol string, snapshot *market.Snapshot)
	Size(ctx context.Context) int
}

// Notifier delivers the top pick alert to an external channel.
type Notifier interface {
	NotifyTopPick(ctx context.Context, alert *models.ScannerAlert) error
}

// ScanResultSet bundles a completed job with its candidates and alert.
type ScanResultSet struct {
	Job         *models.ScanJob           `json:"job"`
	Candidates  []models.ScannerCandidate `json:"candidates"`
	ActiveAlert *models.ScannerAlert      `json:"active_alert,omitempty"`
}

// Service runs full-universe scans and serves scan results.
type Service struct {
	store    *Store
	provider SnapshotProvider
	cache    QuoteCache
	notifier Notifier
	cfg      config.ScannerConfig
	universe []string

	isScanning   atomic.Bool
	lastScanUnix atomic.Int64
}

// NewService creates the scanner service. The cache and notifier are
// optional.
func NewService(store *Store, provider SnapshotProvider, quoteCache QuoteCache, notifier Notifier, cfg config.ScannerConfig) *Service {
	universe := cfg.Universe
	if len(universe) == 0 {
		universe = DefaultUniverse
	}
	return &Service{
		store:    store,
		provider: provider,
		cache:    quoteCache,
		notifier: notifier,
		cfg:      cfg,
		universe: universe,
	}
}

// TriggerScan starts a scan in the background. Only one scan may run at
// a time; a concurrent request gets ErrScanInProgress.
func (s *Service) TriggerScan(ctx context.Context) (*models.ScanJob, error) {
	if !s.isScanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}

	job, err := s.store.CreateJob(ctx)
	if err != nil {
		s.isScanning.Store(false)
		return nil, err
	}

	go s.runScan(job)

	return job, nil
}

// Status reports the live scanner state.
func (s *Service) Status(ctx context.Context) models.ScanStatus {
	status := models.ScanStatus{
		IsScanning:   s.isScanning.Load(),
		UniverseSize: len(s.universe),
	}
	if unix := s.lastScanUnix.Load(); unix > 0 {
		t := time.UnixMilli(unix).UTC()
		status.LastScanTime = &t
	}
	if s.cache != nil {
		status.CacheSize = s.cache.Size(ctx)
	}
	return status
}

// LatestScan returns the most recent completed scan with its candidates
// and alert, or nil when no scan has completed yet.
func (s *Service) LatestScan(ctx context.Context) (*ScanResultSet, error) {
	job, err := s.store.LatestCompletedJob(ctx)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	candidates, err := s.store.CandidatesByJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	alert, err := s.store.AlertByJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	return &ScanResultSet{Job: job, Candidates: candidates, ActiveAlert: alert}, nil
}

// ActiveAlert returns the most recent active alert, or nil.
func (s *Service) ActiveAlert(ctx context.Context) (*models.ScannerAlert, error) {
	return s.store.ActiveAlert(ctx)
}

// runScan walks the universe in batches, ranks the qualified setups and
// persists the result. It always releases the scanning flag.
func (s *Service) runScan(job *models.ScanJob) {
	ctx, span := telemetry.GetScannerTracer().Start(context.Background(), "scanner.full_scan")
	defer span.End()

	start := time.Now()
	defer func() {
		s.lastScanUnix.Store(time.Now().UnixMilli())
		s.isScanning.Store(false)
	}()

	log := logrus.WithField("job_id", job.ID)
	log.WithField("universe_size", len(s.universe)).Info("Starting full scan")

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	var candidates []models.ScannerCandidate
	var processed, errorCount int64
	batches := 0

	for i := 0; i < len(s.universe); i += batchSize {
		end := i + batchSize
		if end > len(s.universe) {
			end = len(s.universe)
		}
		batch := s.universe[i:end]
		batches++

		results := make([]*models.ScannerCandidate, len(batch))
		var wg sync.WaitGroup
		for j, symbol := range batch {
			wg.Add(1)
			go func(idx int, sym string) {
				defer wg.Done()
				candidate, err := s.scanSymbol(ctx, sym)
				if err != nil {
					atomic.AddInt64(&errorCount, 1)
					logrus.WithError(err).WithField("symbol", sym).Debug("Symbol scan failed")
					return
				}
				atomic.AddInt64(&processed, 1)
				results[idx] = candidate
			}(j, symbol)
		}
		wg.Wait()

		for _, r := range results {
			if r != nil {
				r.JobID = job.ID
				candidates = append(candidates, *r)
			}
		}

		time.Sleep(s.cfg.BatchDelay())
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].CompositeScore.GreaterThan(candidates[b].CompositeScore)
	})

	topN := s.cfg.TopN
	if topN <= 0 {
		topN = 15
	}
	top := candidates
	if len(top) > topN {
		top = top[:topN]
	}

	if len(top) > 0 {
		top[0].IsTopAlert = true
		if err := s.store.InsertCandidates(ctx, top); err != nil {
			log.WithError(err).Error("Failed to persist candidates")
		}
		s.raiseAlert(ctx, job.ID, &top[0], log)
		job.TopAlertSymbol = top[0].Symbol
	}

	job.TotalScanned = int(processed)
	job.QualifiedCount = len(candidates)
	job.ErrorCount = int(errorCount)
	job.BatchesProcessed = batches
	job.ScanDurationMs = time.Since(start).Milliseconds()

	if err := s.store.CompleteJob(ctx, job); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to complete scan job")
		log.WithError(err).Error("Failed to complete scan job")
		if failErr := s.store.FailJob(ctx, job.ID, job.ScanDurationMs); failErr != nil {
			log.WithError(failErr).Error("Failed to mark scan job failed")
		}
		return
	}

	span.SetAttributes(
		attribute.Int("scan.total_scanned", job.TotalScanned),
		attribute.Int("scan.qualified", job.QualifiedCount),
		attribute.Int("scan.errors", job.ErrorCount),
		attribute.Int64("scan.duration_ms", job.ScanDurationMs),
	)

	log.WithFields(logrus.Fields{
		"total_scanned": job.TotalScanned,
		"qualified":     job.QualifiedCount,
		"errors":        job.ErrorCount,
		"top_alert":     job.TopAlertSymbol,
		"duration_ms":   job.ScanDurationMs,
	}).Info("Full scan completed")
}

// scanSymbol fetches one symbol and grades it. A nil candidate with nil
// error means the symbol did not qualify.
func (s *Service) scanSymbol(ctx context.Context, symbol string) (*models.ScannerCandidate, error) {
	snapshot, found := s.cachedSnapshot(ctx, symbol)
	if !found {
		var err error
		snapshot, err = s.provider.FetchChart(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(ctx, symbol, snapshot)
		}
	}

	quote := snapshot.Quote
	tech := ComputeIndicators(snapshot.Closes, snapshot.Highs, snapshot.Lows)

	setup := EvaluateSetup(quote, tech)
	if setup == nil || setup.RiskRewardRatio < s.cfg.MinRiskReward {
		return nil, nil
	}

	scores := ComputeScores(quote, tech, setup.RiskRewardRatio)
	if scores.Composite < s.cfg.MinCompositeScore {
		return nil, nil
	}

	return buildCandidate(quote, tech, setup, scores), nil
}

func (s *Service) cachedSnapshot(ctx context.Context, symbol string) (*market.Snapshot, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, symbol)
}

// raiseAlert persists the top pick alert and pushes it to the
// notification channel when one is configured.
func (s *Service) raiseAlert(ctx context.Context, jobID string, top *models.ScannerCandidate, log *logrus.Entry) {
	entry, _ := top.EntryPrice.Float64()
	stop, _ := top.StopLoss.Float64()
	target, _ := top.TargetPrice.Float64()
	ratio, _ := top.RiskRewardRatio.Float64()

	alert := &models.ScannerAlert{
		JobID:           jobID,
		CandidateID:     top.ID,
		Symbol:          top.Symbol,
		AlertType:       models.AlertTypeTopPick,
		EntryPrice:      top.EntryPrice,
		StopLoss:        top.StopLoss,
		TargetPrice:     top.TargetPrice,
		RiskRewardRatio: top.RiskRewardRatio,
		CompositeScore:  top.CompositeScore,
		IsActive:        true,
		ExpiresAt:       time.Now().UTC().Add(s.cfg.AlertTTLDuration()),
		AlertMessage: fmt.Sprintf("TOP PICK: %s - %s. Entry: $%.2f, Stop: $%.2f, Target: $%.2f (%.1f:1 R/R)",
			top.Symbol, top.Pattern, entry, stop, target, ratio),
	}

	if err := s.store.InsertAlert(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to persist top pick alert")
		return
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyTopPick(ctx, alert); err != nil {
		log.WithError(err).WithField("symbol", alert.Symbol).Warn("Failed to deliver top pick notification")
		return
	}
	if err := s.store.MarkAlertSent(ctx, alert.ID); err != nil {
		log.WithError(err).Warn("Failed to mark alert sent")
	}
}

// buildCandidate rounds the raw setup numbers into the persisted shape.
func buildCandidate(quote market.Quote, tech IndicatorBundle, setup *TradeSetup, scores ScoreSet) *models.ScannerCandidate {
	above := "below"
	if quote.Price > tech.SMA20 {
		above = "above"
	}

	return &models.ScannerCandidate{
		Symbol:          quote.Symbol,
		CompanyName:     quote.Name,
		Sector:          quote.Sector,
		Price:           decimal.NewFromFloat(quote.Price).Round(2),
		EntryPrice:      decimal.NewFromFloat(setup.EntryPrice).Round(2),
		StopLoss:        decimal.NewFromFloat(setup.StopLoss).Round(2),
		TargetPrice:     decimal.NewFromFloat(setup.TargetPrice).Round(2),
		RiskAmount:      decimal.NewFromFloat(setup.RiskAmount).Round(4),
		RewardAmount:    decimal.NewFromFloat(setup.RewardAmount).Round(4),
		RiskRewardRatio: decimal.NewFromFloat(setup.RiskRewardRatio).Round(2),
		Pattern:         setup.Pattern,
		CompositeScore:  decimal.NewFromFloat(scores.Composite).Round(4),
		TrendScore:      decimal.NewFromFloat(scores.Trend).Round(2),
		MomentumScore:   decimal.NewFromFloat(scores.Momentum).Round(2),
		VolumeScore:     decimal.NewFromFloat(scores.Volume).Round(2),
		VolatilityScore: decimal.NewFromFloat(scores.Volatility).Round(2),
		RiskRewardScore: decimal.NewFromFloat(scores.RiskReward).Round(2),
		RSI:             decimal.NewFromFloat(tech.RSI).Round(2),
		ATR:             decimal.NewFromFloat(tech.ATR).Round(4),
		Volume:          quote.Volume,
		AvgVolume:       quote.AvgVolume,
		Reasoning: fmt.Sprintf("%s with %.1f:1 R/R. RSI at %.0f, price %s SMA20.",
			setup.Pattern, setup.RiskRewardRatio, tech.RSI, above),
	}
}

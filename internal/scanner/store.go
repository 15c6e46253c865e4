package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stockpulse/stockpulse-go/internal/models"
)

// Store persists scan jobs, candidates and alerts.
type Store struct {
	db DBPool
}

// NewStore creates a scanner store backed by the given pool.
func NewStore(db DBPool) *Store {
	return &Store{db: db}
}

// CreateJob inserts a new running scan job and returns it.
func (s *Store) CreateJob(ctx context.Context) (*models.ScanJob, error) {
	job := &models.ScanJob{
		ID:        uuid.New().String(),
		Status:    models.ScanStatusRunning,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO scanner_jobs (id, status, created_at) VALUES ($1, $2, $3)`,
		job.ID, job.Status, job.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan job: %w", err)
	}
	return job, nil
}

// CompleteJob records the final counters of a finished scan.
func (s *Store) CompleteJob(ctx context.Context, job *models.ScanJob) error {
	completedAt := time.Now().UTC()
	job.CompletedAt = &completedAt
	job.Status = models.ScanStatusCompleted

	_, err := s.db.Exec(ctx,
		`UPDATE scanner_jobs
		 SET status = $2, total_scanned = $3, qualified_count = $4, error_count = $5,
		     batches_processed = $6, top_alert_symbol = $7, scan_duration_ms = $8, completed_at = $9
		 WHERE id = $1`,
		job.ID, job.Status, job.TotalScanned, job.QualifiedCount, job.ErrorCount,
		job.BatchesProcessed, job.TopAlertSymbol, job.ScanDurationMs, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to complete scan job %s: %w", job.ID, err)
	}
	return nil
}

// FailJob marks a scan job as failed.
func (s *Store) FailJob(ctx context.Context, jobID string, durationMs int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE scanner_jobs SET status = $2, scan_duration_ms = $3, completed_at = $4 WHERE id = $1`,
		jobID, models.ScanStatusFailed, durationMs, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark scan job %s failed: %w", jobID, err)
	}
	return nil
}

// InsertCandidates persists the ranked candidates of a scan job.
func (s *Store) InsertCandidates(ctx context.Context, candidates []models.ScannerCandidate) error {
	for i := range candidates {
		c := &candidates[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}

		_, err := s.db.Exec(ctx,
			`INSERT INTO scanner_candidates (
				id, job_id, symbol, company_name, sector, price, entry_price, stop_loss,
				target_price, risk_amount, reward_amount, risk_reward_ratio, pattern,
				composite_score, trend_score, momentum_score, volume_score, volatility_score,
				risk_reward_score, rsi, atr, volume, avg_volume, reasoning, is_top_alert, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
			c.ID, c.JobID, c.Symbol, c.CompanyName, c.Sector, c.Price, c.EntryPrice, c.StopLoss,
			c.TargetPrice, c.RiskAmount, c.RewardAmount, c.RiskRewardRatio, c.Pattern,
			c.CompositeScore, c.TrendScore, c.MomentumScore, c.VolumeScore, c.VolatilityScore,
			c.RiskRewardScore, c.RSI, c.ATR, c.Volume, c.AvgVolume, c.Reasoning, c.IsTopAlert, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candidate %s: %w", c.Symbol, err)
		}
	}
	return nil
}

// InsertAlert persists the top pick alert of a scan job.
func (s *Store) InsertAlert(ctx context.Context, alert *models.ScannerAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO scanner_alerts (
			id, job_id, candidate_id, symbol, alert_type, alert_message, entry_price,
			stop_loss, target_price, risk_reward_ratio, composite_score, is_sent,
			is_active, expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		alert.ID, alert.JobID, nullIfEmpty(alert.CandidateID), alert.Symbol, alert.AlertType,
		alert.AlertMessage, alert.EntryPrice, alert.StopLoss, alert.TargetPrice,
		alert.RiskRewardRatio, alert.CompositeScore, alert.IsSent, alert.IsActive,
		alert.ExpiresAt, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert for %s: %w", alert.Symbol, err)
	}
	return nil
}

// nullIfEmpty maps "" to SQL NULL for nullable foreign keys.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// LatestCompletedJob returns the most recent completed scan job, or nil
// when no scan has finished yet.
func (s *Store) LatestCompletedJob(ctx context.Context) (*models.ScanJob, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, status, total_scanned, qualified_count, error_count, batches_processed,
		        COALESCE(top_alert_symbol, ''), scan_duration_ms, completed_at, created_at
		 FROM scanner_jobs
		 WHERE status = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		models.ScanStatusCompleted,
	)

	var job models.ScanJob
	err := row.Scan(&job.ID, &job.Status, &job.TotalScanned, &job.QualifiedCount,
		&job.ErrorCount, &job.BatchesProcessed, &job.TopAlertSymbol,
		&job.ScanDurationMs, &job.CompletedAt, &job.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest scan job: %w", err)
	}
	return &job, nil
}

// CandidatesByJob returns the candidates of a scan job ordered by
// composite score, best first.
func (s *Store) CandidatesByJob(ctx context.Context, jobID string) ([]models.ScannerCandidate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, job_id, symbol, company_name, COALESCE(sector, ''), price, entry_price,
		        stop_loss, target_price, risk_amount, reward_amount, risk_reward_ratio, pattern,
		        composite_score, trend_score, momentum_score, volume_score, volatility_score,
		        risk_reward_score, rsi, atr, volume, avg_volume, reasoning, is_top_alert, created_at
		 FROM scanner_candidates
		 WHERE job_id = $1
		 ORDER BY composite_score DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates for job %s: %w", jobID, err)
	}
	defer rows.Close()

	var candidates []models.ScannerCandidate
	for rows.Next() {
		var c models.ScannerCandidate
		if err := rows.Scan(&c.ID, &c.JobID, &c.Symbol, &c.CompanyName, &c.Sector, &c.Price,
			&c.EntryPrice, &c.StopLoss, &c.TargetPrice, &c.RiskAmount, &c.RewardAmount,
			&c.RiskRewardRatio, &c.Pattern, &c.CompositeScore, &c.TrendScore, &c.MomentumScore,
			&c.VolumeScore, &c.VolatilityScore, &c.RiskRewardScore, &c.RSI, &c.ATR,
			&c.Volume, &c.AvgVolume, &c.Reasoning, &c.IsTopAlert, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("candidate rows error: %w", err)
	}
	return candidates, nil
}

// AlertByJob returns the most recent alert of a scan job, or nil.
func (s *Store) AlertByJob(ctx context.Context, jobID string) (*models.ScannerAlert, error) {
	return s.scanAlertRow(s.db.QueryRow(ctx,
		alertSelect+` WHERE job_id = $1 ORDER BY created_at DESC LIMIT 1`, jobID))
}

// ActiveAlert returns the most recent active, unexpired alert, or nil.
func (s *Store) ActiveAlert(ctx context.Context) (*models.ScannerAlert, error) {
	return s.scanAlertRow(s.db.QueryRow(ctx,
		alertSelect+` WHERE is_active = true AND expires_at > now() ORDER BY created_at DESC LIMIT 1`))
}

// MarkAlertSent flags an alert as delivered to the notification channel.
func (s *Store) MarkAlertSent(ctx context.Context, alertID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE scanner_alerts SET is_sent = true WHERE id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("failed to mark alert %s sent: %w", alertID, err)
	}
	return nil
}

const alertSelect = `SELECT id, job_id, COALESCE(candidate_id, ''), symbol, alert_type, alert_message,
       entry_price, stop_loss, target_price, risk_reward_ratio, composite_score,
       is_sent, is_active, expires_at, created_at
FROM scanner_alerts`

func (s *Store) scanAlertRow(row pgx.Row) (*models.ScannerAlert, error) {
	var a models.ScannerAlert
	err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.Symbol, &a.AlertType, &a.AlertMessage,
		&a.EntryPrice, &a.StopLoss, &a.TargetPrice, &a.RiskRewardRatio, &a.CompositeScore,
		&a.IsSent, &a.IsActive, &a.ExpiresAt, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan alert row: %w", err)
	}
	return &a, nil
}

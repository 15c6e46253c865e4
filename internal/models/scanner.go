package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scan job status values
const (
	ScanStatusRunning   = "running"
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

// Alert type for the single best candidate of a scan
const AlertTypeTopPick = "top_pick"

// ScanJob represents one run of the full-universe scan
type ScanJob struct {
	ID               string     `json:"id" db:"id"`
	Status           string     `json:"status" db:"status"`
	TotalScanned     int        `json:"total_scanned" db:"total_scanned"`
	QualifiedCount   int        `json:"qualified_count" db:"qualified_count"`
	ErrorCount       int        `json:"error_count" db:"error_count"`
	BatchesProcessed int        `json:"batches_processed" db:"batches_processed"`
	TopAlertSymbol   string     `json:"top_alert_symbol,omitempty" db:"top_alert_symbol"`
	ScanDurationMs   int64      `json:"scan_duration_ms" db:"scan_duration_ms"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// ScannerCandidate represents a qualified setup persisted for a scan job
type ScannerCandidate struct {
	ID              string          `json:"id" db:"id"`
	JobID           string          `json:"job_id" db:"job_id"`
	Symbol          string          `json:"symbol" db:"symbol"`
	CompanyName     string          `json:"company_name" db:"company_name"`
	Sector          string          `json:"sector,omitempty" db:"sector"`
	Price           decimal.Decimal `json:"price" db:"price"`
	EntryPrice      decimal.Decimal `json:"entry_price" db:"entry_price"`
	StopLoss        decimal.Decimal `json:"stop_loss" db:"stop_loss"`
	TargetPrice     decimal.Decimal `json:"target_price" db:"target_price"`
	RiskAmount      decimal.Decimal `json:"risk_amount" db:"risk_amount"`
	RewardAmount    decimal.Decimal `json:"reward_amount" db:"reward_amount"`
	RiskRewardRatio decimal.Decimal `json:"risk_reward_ratio" db:"risk_reward_ratio"`
	Pattern         string          `json:"pattern" db:"pattern"`
	CompositeScore  decimal.Decimal `json:"composite_score" db:"composite_score"`
	TrendScore      decimal.Decimal `json:"trend_score" db:"trend_score"`
	MomentumScore   decimal.Decimal `json:"momentum_score" db:"momentum_score"`
	VolumeScore     decimal.Decimal `json:"volume_score" db:"volume_score"`
	VolatilityScore decimal.Decimal `json:"volatility_score" db:"volatility_score"`
	RiskRewardScore decimal.Decimal `json:"risk_reward_score" db:"risk_reward_score"`
	RSI             decimal.Decimal `json:"rsi" db:"rsi"`
	ATR             decimal.Decimal `json:"atr" db:"atr"`
	Volume          int64           `json:"volume" db:"volume"`
	AvgVolume       int64           `json:"avg_volume" db:"avg_volume"`
	Reasoning       string          `json:"reasoning" db:"reasoning"`
	IsTopAlert      bool            `json:"is_top_alert" db:"is_top_alert"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// ScannerAlert represents the actionable alert raised for the best candidate
type ScannerAlert struct {
	ID              string          `json:"id" db:"id"`
	JobID           string          `json:"job_id" db:"job_id"`
	CandidateID     string          `json:"candidate_id,omitempty" db:"candidate_id"`
	Symbol          string          `json:"symbol" db:"symbol"`
	AlertType       string          `json:"alert_type" db:"alert_type"`
	AlertMessage    string          `json:"alert_message" db:"alert_message"`
	EntryPrice      decimal.Decimal `json:"entry_price" db:"entry_price"`
	StopLoss        decimal.Decimal `json:"stop_loss" db:"stop_loss"`
	TargetPrice     decimal.Decimal `json:"target_price" db:"target_price"`
	RiskRewardRatio decimal.Decimal `json:"risk_reward_ratio" db:"risk_reward_ratio"`
	CompositeScore  decimal.Decimal `json:"composite_score" db:"composite_score"`
	IsSent          bool            `json:"is_sent" db:"is_sent"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	ExpiresAt       time.Time       `json:"expires_at" db:"expires_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// ScanStatus is the live state reported by the scanner service
type ScanStatus struct {
	IsScanning   bool       `json:"is_scanning"`
	LastScanTime *time.Time `json:"last_scan_time,omitempty"`
	UniverseSize int        `json:"universe_size"`
	CacheSize    int        `json:"cache_size"`
}

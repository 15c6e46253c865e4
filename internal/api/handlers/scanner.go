package handlers

import (
	"errors"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/middleware"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/scanner"
)

// ScannerHandler serves the scanner API endpoints.
type ScannerHandler struct {
	scanner *scanner.Service
}

// NewScannerHandler creates a scanner handler.
func NewScannerHandler(svc *scanner.Service) *ScannerHandler {
	return &ScannerHandler{scanner: svc}
}

// TriggerScan starts a full-universe scan in the background.
// POST /api/v1/scanner/scan
func (h *ScannerHandler) TriggerScan(c *gin.Context) {
	job, err := h.scanner.TriggerScan(c.Request.Context())
	if err != nil {
		if errors.Is(err, scanner.ErrScanInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Scan already in progress",
				"status":  h.scanner.Status(c.Request.Context()),
			})
			return
		}
		logrus.WithError(err).Error("Failed to trigger scan")
		middleware.RecordError(c, err, "Failed to start scan")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to start scan",
		})
		return
	}

	middleware.AddSpanAttribute(c, "scan.job_id", job.ID)
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Scan started. This may take 1-2 minutes.",
		"job_id":  job.ID,
		"status":  h.scanner.Status(c.Request.Context()),
	})
}

// GetStatus reports the live scanner state with process resource usage.
// GET /api/v1/scanner/status
func (h *ScannerHandler) GetStatus(c *gin.Context) {
	status := h.scanner.Status(c.Request.Context())

	resources := gin.H{
		"goroutines": runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resources["memory_used_percent"] = vm.UsedPercent
		resources["memory_available_mb"] = vm.Available / 1024 / 1024
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      status,
		"resources": resources,
	})
}

// GetLatest returns the most recent completed scan with candidates and alert.
// GET /api/v1/scanner/latest
func (h *ScannerHandler) GetLatest(c *gin.Context) {
	_, span := middleware.StartSpan(c, "scanner.latest_results")
	defer span.End()

	result, err := h.scanner.LatestScan(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load latest scan")
		middleware.RecordError(c, err, "Failed to load latest scan")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load latest scan",
		})
		return
	}

	if result == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    nil,
			"message": "No scans found. Run a scan first.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetActiveAlert returns the most recent active top pick alert.
// GET /api/v1/scanner/alert
func (h *ScannerHandler) GetActiveAlert(c *gin.Context) {
	alert, err := h.scanner.ActiveAlert(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load active alert")
		middleware.RecordError(c, err, "Failed to load active alert")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load active alert",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    alert,
	})
}

// GetScanResults returns the latest scan together with live progress.
// GET /api/v1/scanner/scan/results
func (h *ScannerHandler) GetScanResults(c *gin.Context) {
	result, err := h.scanner.LatestScan(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load scan results")
		middleware.RecordError(c, err, "Failed to load scan results")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load scan results",
		})
		return
	}

	status := h.scanner.Status(c.Request.Context())
	isComplete := !status.IsScanning && result != nil && result.Job != nil &&
		result.Job.Status == models.ScanStatusCompleted
	middleware.AddSpanAttribute(c, "scan.is_complete", isComplete)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        result,
		"status":      status,
		"is_complete": isComplete,
	})
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"BrandMonitor/internal/ports"
)

// ScanScheduler runs the batch scan on the configured cadence.
type ScanScheduler struct {
	monitor *Monitor
	driver  ports.Scheduler
	logger  *slog.Logger
}

// NewScanScheduler wires the monitor to a scheduler driver.
func NewScanScheduler(monitor *Monitor, driver ports.Scheduler, logger *slog.Logger) *ScanScheduler {
	return &ScanScheduler{monitor: monitor, driver: driver, logger: logger}
}

// Start begins scheduled scans.
func (s *ScanScheduler) Start(ctx context.Context) error {
	return s.driver.Start(ctx, func(t time.Time) {
		batch, err := s.monitor.ScanAllClients(ctx)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled scan failed", "error", err)
			}
			return
		}
		if s.logger != nil {
			s.logger.Info("scheduled scan finished",
				"at", t.Format(time.RFC3339),
				"clients", len(batch.Scanned),
				"new", batch.TotalResults)
		}
	})
}

// Stop halts scheduled scans.
func (s *ScanScheduler) Stop(ctx context.Context) error {
	return s.driver.Stop(ctx)
}

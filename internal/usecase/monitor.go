package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/ports"
	"BrandMonitor/internal/provider"
	"BrandMonitor/internal/urlutil"
)

// ErrNoKeywords is returned when a client has nothing to search for.
var ErrNoKeywords = errors.New("client has no keywords configured")

// Monitor drives the scan lifecycle: collect candidates, verify them, store
// the ones the client has not seen before, and keep the audit trail.
type Monitor struct {
	aggregator *Aggregator
	results    ports.ResultStore
	clients    ports.ClientStore
	audit      ports.AuditLog
	validator  ports.URLValidator
	analyzer   ports.SentimentAnalyzer
	notifier   ports.Notifier
	maxResults int
	logger     *slog.Logger
}

// NewMonitor wires the scan dependencies. analyzer and notifier may be nil.
func NewMonitor(
	aggregator *Aggregator,
	results ports.ResultStore,
	clients ports.ClientStore,
	audit ports.AuditLog,
	validator ports.URLValidator,
	analyzer ports.SentimentAnalyzer,
	notifier ports.Notifier,
	maxResults int,
	logger *slog.Logger,
) *Monitor {
	return &Monitor{
		aggregator: aggregator,
		results:    results,
		clients:    clients,
		audit:      audit,
		validator:  validator,
		analyzer:   analyzer,
		notifier:   notifier,
		maxResults: maxResults,
		logger:     logger,
	}
}

// ScanClient runs one full scan for a single client. Provider failures are
// soft as long as at least one source answered; a previously stored URL is
// never inserted twice, even when its row was soft-deleted since.
func (m *Monitor) ScanClient(ctx context.Context, clientID int64) (domain.ScanReport, error) {
	client, err := m.clients.Get(ctx, clientID)
	if err != nil {
		return domain.ScanReport{}, fmt.Errorf("load client %d: %w", clientID, err)
	}

	if strings.TrimSpace(client.Keywords) == "" {
		return domain.ScanReport{}, ErrNoKeywords
	}

	m.record(ctx, &client.ID, "scan_started", fmt.Sprintf("Scanning mentions for %s", client.Name), domain.LogInfo)

	q := provider.Query{
		Keywords:   client.Keywords,
		ClientName: client.Name,
		MaxResults: m.maxResults,
	}

	candidates, softErrs := m.aggregator.Collect(ctx, q)
	if len(candidates) == 0 && len(softErrs) > 0 && len(softErrs) >= m.aggregator.ProviderCount() {
		err := fmt.Errorf("all providers failed: %s", strings.Join(softErrs, "; "))
		m.record(ctx, &client.ID, "scan_failed", err.Error(), domain.LogError)
		return domain.ScanReport{Errors: softErrs}, err
	}

	report := domain.ScanReport{Errors: softErrs}
	for _, c := range candidates {
		if !m.validator.Validate(ctx, c.URL) {
			m.debug("candidate not reachable", "url", c.URL)
			continue
		}

		canonical := urlutil.Canonicalize(c.URL)
		exists, err := m.results.Exists(ctx, client.ID, canonical, c.URL)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("store: %v", err))
			continue
		}
		if exists {
			continue
		}

		if c.Title == "" || c.Title == "Mention found" || c.Title == "Untitled" {
			if title := m.validator.PageTitle(ctx, c.URL); title != "" {
				c.Title = title
			}
		}

		// The lexicon scorer often lands on neutral; let the chat model take
		// a second look when one is configured.
		if m.analyzer != nil && c.Sentiment == domain.SentimentNeutral && c.Content != "" {
			c.Sentiment = m.analyzer.AnalyzeSentiment(ctx, c.Content)
		}

		result := domain.MonitoringResult{
			ClientID:       client.ID,
			Title:          c.Title,
			URL:            c.URL,
			CanonicalURL:   canonical,
			Content:        c.Content,
			Source:         c.Source,
			Type:           c.Type,
			Sentiment:      c.Sentiment,
			RelevanceScore: c.RelevanceScore,
			FoundAt:        time.Now(),
			Status:         domain.StatusNew,
		}

		id, err := m.results.Insert(ctx, result)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("store: %v", err))
			continue
		}
		result.ID = id
		report.Results = append(report.Results, result)
		report.NewResults++
	}

	m.record(ctx, &client.ID, "scan_completed",
		fmt.Sprintf("Found %d new mentions for %s", report.NewResults, client.Name), domain.LogSuccess)
	m.info("scan completed", "client", client.Name, "new", report.NewResults, "errors", len(report.Errors))

	return report, nil
}

// ScanAllClients scans every active client sequentially. A failing client is
// reported and skipped; the batch keeps going.
func (m *Monitor) ScanAllClients(ctx context.Context) (domain.BatchReport, error) {
	clients, err := m.clients.Active(ctx)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("load active clients: %w", err)
	}

	var batch domain.BatchReport
	for _, client := range clients {
		report, err := m.ScanClient(ctx, client.ID)
		if err != nil {
			batch.Errors = append(batch.Errors, fmt.Sprintf("Client %s: %v", client.Name, err))
			continue
		}
		batch.TotalResults += report.NewResults
		batch.Scanned = append(batch.Scanned, domain.ClientScanSummary{
			ClientID:   client.ID,
			Name:       client.Name,
			NewResults: report.NewResults,
		})
	}

	m.record(ctx, nil, "batch_scan",
		fmt.Sprintf("Scanned %d clients, %d new mentions, %d failures",
			len(batch.Scanned), batch.TotalResults, len(batch.Errors)),
		batchStatus(batch))

	if m.notifier != nil {
		if err := m.notifier.PublishSummary(ctx, formatBatchSummary(batch)); err != nil {
			m.warn("summary notification failed", "error", err)
		}
	}

	return batch, nil
}

// ValidateResults re-probes every stored active URL and soft-deletes the dead
// ones. clientID 0 sweeps all clients.
func (m *Monitor) ValidateResults(ctx context.Context, clientID int64) (domain.ValidationReport, error) {
	urls, err := m.results.ActiveURLs(ctx, clientID)
	if err != nil {
		return domain.ValidationReport{}, fmt.Errorf("load stored urls: %w", err)
	}

	var report domain.ValidationReport
	for _, u := range urls {
		report.Checked++
		if m.validator.Validate(ctx, u.URL) {
			report.Valid++
			continue
		}
		if err := m.results.SoftDelete(ctx, u.ID); err != nil {
			m.warn("soft delete failed", "id", u.ID, "error", err)
			continue
		}
		report.Deleted++
	}

	scope := &clientID
	if clientID == 0 {
		scope = nil
	}
	m.record(ctx, scope, "validate_results",
		fmt.Sprintf("Checked %d URLs, %d valid, %d removed", report.Checked, report.Valid, report.Deleted),
		domain.LogInfo)

	return report, nil
}

// PurgeDeleted permanently removes soft-deleted rows. clientID 0 purges all.
func (m *Monitor) PurgeDeleted(ctx context.Context, clientID int64) (int64, error) {
	purged, err := m.results.Purge(ctx, clientID)
	if err != nil {
		return 0, fmt.Errorf("purge deleted results: %w", err)
	}

	scope := &clientID
	if clientID == 0 {
		scope = nil
	}
	m.record(ctx, scope, "purge_deleted",
		fmt.Sprintf("Permanently removed %d results", purged), domain.LogInfo)

	return purged, nil
}

func batchStatus(batch domain.BatchReport) domain.LogStatus {
	if len(batch.Errors) > 0 {
		return domain.LogError
	}
	return domain.LogSuccess
}

func formatBatchSummary(batch domain.BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Brand scan finished*\n%d new mentions across %d clients\n",
		batch.TotalResults, len(batch.Scanned))
	for _, s := range batch.Scanned {
		if s.NewResults > 0 {
			fmt.Fprintf(&b, "- %s: %d new\n", s.Name, s.NewResults)
		}
	}
	if len(batch.Errors) > 0 {
		fmt.Fprintf(&b, "%d clients failed\n", len(batch.Errors))
	}
	return b.String()
}

func (m *Monitor) record(ctx context.Context, clientID *int64, action, details string, status domain.LogStatus) {
	if m.audit == nil {
		return
	}
	if err := m.audit.Record(ctx, clientID, action, details, status); err != nil {
		m.warn("audit record failed", "action", action, "error", err)
	}
}

func (m *Monitor) info(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}

func (m *Monitor) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}

func (m *Monitor) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

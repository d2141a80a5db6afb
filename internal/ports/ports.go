package ports

import (
	"context"
	"time"

	"BrandMonitor/internal/domain"
)

// ResultFilter narrows List queries. Zero values mean "any".
type ResultFilter struct {
	ClientID int64
	Type     domain.ContentType
	Status   domain.ResultStatus
	Limit    int
}

// StoredURL is the minimal projection the validation sweep needs.
type StoredURL struct {
	ID  int64
	URL string
}

// ResultStore persists monitoring results. Rows are immutable once inserted
// except for the status flag; Purge is the only hard delete.
type ResultStore interface {
	// Exists reports whether any row for the client, active or soft-deleted,
	// shares the canonical URL or the exact URL.
	Exists(ctx context.Context, clientID int64, canonicalURL, rawURL string) (bool, error)
	Insert(ctx context.Context, result domain.MonitoringResult) (int64, error)
	SoftDelete(ctx context.Context, id int64) error
	// SoftDeleteAll marks every active row as deleted; clientID 0 means all clients.
	SoftDeleteAll(ctx context.Context, clientID int64) (int64, error)
	// Purge removes rows already in deleted status; clientID 0 means all clients.
	Purge(ctx context.Context, clientID int64) (int64, error)
	List(ctx context.Context, filter ResultFilter) ([]domain.MonitoringResult, error)
	// ActiveURLs lists non-deleted rows for the validation sweep; clientID 0 means all.
	ActiveURLs(ctx context.Context, clientID int64) ([]StoredURL, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// ClientStore exposes read-only access to clients; the admin layer writes them.
type ClientStore interface {
	Get(ctx context.Context, id int64) (domain.Client, error)
	Active(ctx context.Context) ([]domain.Client, error)
}

// AuditLog appends monitoring log entries. Entries are never mutated.
type AuditLog interface {
	Record(ctx context.Context, clientID *int64, action, details string, status domain.LogStatus) error
	Recent(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

// URLValidator confirms a URL is syntactically acceptable and alive.
type URLValidator interface {
	Validate(ctx context.Context, rawURL string) bool
	// PageTitle fetches the page and extracts its <title>, or "" on any failure.
	PageTitle(ctx context.Context, rawURL string) string
}

// SentimentAnalyzer scores a snippet's tone. Implementations degrade to
// neutral rather than failing.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, content string) domain.Sentiment
}

// Notifier delivers batch scan summaries to an external channel.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}

// Scheduler controls when recurring scans execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

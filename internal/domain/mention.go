package domain

import "time"

// Sentiment is the coarse three-way tone classification of a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ContentType categorizes where a mention was published.
type ContentType string

const (
	TypeArticle ContentType = "article"
	TypeNews    ContentType = "news"
	TypeBlog    ContentType = "blog"
	TypeForum   ContentType = "forum"
	TypeSocial  ContentType = "social"
)

// ResultStatus tracks the lifecycle of a persisted mention.
type ResultStatus string

const (
	StatusNew     ResultStatus = "new"
	StatusDeleted ResultStatus = "deleted"
)

// LogStatus marks the severity of an audit log entry.
type LogStatus string

const (
	LogInfo    LogStatus = "info"
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
)

// Client is a monitored brand. The pipeline reads it, the admin layer owns it.
type Client struct {
	ID        int64
	Name      string
	Keywords  string // comma-separated terms
	Website   string
	Email     string
	Status    string
	CreatedAt time.Time
}

// Candidate is an in-flight mention produced by a provider adapter. It may
// still be discarded by validation before it ever reaches storage.
type Candidate struct {
	Title          string
	URL            string
	Content        string
	Source         string
	Type           ContentType
	Sentiment      Sentiment
	RelevanceScore float64
}

// MonitoringResult is a persisted mention.
type MonitoringResult struct {
	ID             int64
	ClientID       int64
	Title          string
	URL            string
	CanonicalURL   string // dedup key: lower-cased host + trimmed path
	Content        string
	Source         string
	Type           ContentType
	Sentiment      Sentiment
	RelevanceScore float64
	FoundAt        time.Time
	Status         ResultStatus
}

// LogEntry is one row of the append-only monitoring audit trail.
type LogEntry struct {
	ID        int64
	ClientID  *int64
	Action    string
	Details   string
	Status    LogStatus
	CreatedAt time.Time
}

// ScanReport summarizes a single client scan.
type ScanReport struct {
	NewResults int
	Results    []MonitoringResult
	Errors     []string // per-provider soft failures; non-empty means partial success
}

// ClientScanSummary is one client's line in a batch report.
type ClientScanSummary struct {
	ClientID   int64
	Name       string
	NewResults int
}

// BatchReport summarizes a scan across all active clients.
type BatchReport struct {
	TotalResults int
	Scanned      []ClientScanSummary
	Errors       []string
}

// ValidationReport summarizes a maintenance sweep over stored URLs.
type ValidationReport struct {
	Checked int
	Valid   int
	Deleted int
}

// Stats backs the dashboard widgets.
type Stats struct {
	TotalClients  int
	TotalResults  int
	RecentResults int // last 7 days
	ByType        map[ContentType]int
	BySentiment   map[Sentiment]int
}

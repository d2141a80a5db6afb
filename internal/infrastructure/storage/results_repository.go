package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ResultsRepository persists monitoring results into Postgres.
type ResultsRepository struct {
	db *sql.DB
}

var _ ports.ResultStore = (*ResultsRepository)(nil)

// NewResultsRepository wires a sql.DB implementation.
func NewResultsRepository(db *sql.DB) *ResultsRepository {
	return &ResultsRepository{db: db}
}

// Exists reports whether the client has ever seen this mention, by canonical
// or exact URL, regardless of status. Soft-deleted rows still block
// re-insertion; only a purge clears the way.
func (r *ResultsRepository) Exists(ctx context.Context, clientID int64, canonicalURL, rawURL string) (bool, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("monitoring_results").
		Where(sq.Eq{"client_id": clientID}).
		Where(sq.Or{sq.Eq{"canonical_url": canonicalURL}, sq.Eq{"url": rawURL}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}

	return count > 0, nil
}

// Insert appends a new row and returns its id. Rows are never updated.
func (r *ResultsRepository) Insert(ctx context.Context, result domain.MonitoringResult) (int64, error) {
	foundAt := result.FoundAt
	if foundAt.IsZero() {
		foundAt = time.Now()
	}
	status := result.Status
	if status == "" {
		status = domain.StatusNew
	}

	query, args, err := psql.
		Insert("monitoring_results").
		Columns("client_id", "title", "url", "canonical_url", "content", "source",
			"type", "sentiment", "relevance_score", "found_at", "status").
		Values(result.ClientID, result.Title, result.URL, result.CanonicalURL,
			result.Content, result.Source, result.Type, result.Sentiment,
			result.RelevanceScore, foundAt, status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}

	return id, nil
}

// SoftDelete flips one row to deleted status.
func (r *ResultsRepository) SoftDelete(ctx context.Context, id int64) error {
	query, args, err := psql.
		Update("monitoring_results").
		Set("status", domain.StatusDeleted).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete %d: %w", id, err)
	}

	return nil
}

// SoftDeleteAll marks every active row as deleted; clientID 0 means all clients.
func (r *ResultsRepository) SoftDeleteAll(ctx context.Context, clientID int64) (int64, error) {
	builder := psql.
		Update("monitoring_results").
		Set("status", domain.StatusDeleted).
		Where(sq.NotEq{"status": domain.StatusDeleted})
	if clientID > 0 {
		builder = builder.Where(sq.Eq{"client_id": clientID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build soft delete all: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("soft delete all: %w", err)
	}

	return res.RowsAffected()
}

// Purge hard-deletes rows already in deleted status; clientID 0 means all.
func (r *ResultsRepository) Purge(ctx context.Context, clientID int64) (int64, error) {
	builder := psql.
		Delete("monitoring_results").
		Where(sq.Eq{"status": domain.StatusDeleted})
	if clientID > 0 {
		builder = builder.Where(sq.Eq{"client_id": clientID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge deleted: %w", err)
	}

	return res.RowsAffected()
}

// List returns results matching the filter, most recent first.
func (r *ResultsRepository) List(ctx context.Context, filter ports.ResultFilter) ([]domain.MonitoringResult, error) {
	builder := psql.
		Select("id", "client_id", "title", "url", "canonical_url", "content",
			"source", "type", "sentiment", "relevance_score", "found_at", "status").
		From("monitoring_results").
		OrderBy("found_at DESC")

	if filter.ClientID > 0 {
		builder = builder.Where(sq.Eq{"client_id": filter.ClientID})
	}
	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"type": filter.Type})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	} else {
		builder = builder.Where(sq.NotEq{"status": domain.StatusDeleted})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query list: %w", err)
	}
	defer rows.Close()

	var results []domain.MonitoringResult
	for rows.Next() {
		var m domain.MonitoringResult
		var canonical, content, source, sentiment sql.NullString
		var relevance sql.NullFloat64
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Title, &m.URL, &canonical,
			&content, &source, &m.Type, &sentiment, &relevance, &m.FoundAt, &m.Status); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		m.CanonicalURL = canonical.String
		m.Content = content.String
		m.Source = source.String
		m.Sentiment = domain.Sentiment(sentiment.String)
		m.RelevanceScore = relevance.Float64
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return results, nil
}

// ActiveURLs lists non-deleted rows for the validation sweep.
func (r *ResultsRepository) ActiveURLs(ctx context.Context, clientID int64) ([]ports.StoredURL, error) {
	builder := psql.
		Select("id", "url").
		From("monitoring_results").
		Where(sq.NotEq{"status": domain.StatusDeleted})
	if clientID > 0 {
		builder = builder.Where(sq.Eq{"client_id": clientID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active urls: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active urls: %w", err)
	}
	defer rows.Close()

	var urls []ports.StoredURL
	for rows.Next() {
		var u ports.StoredURL
		if err := rows.Scan(&u.ID, &u.URL); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls = append(urls, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return urls, nil
}

// Stats aggregates dashboard counters, excluding soft-deleted rows.
func (r *ResultsRepository) Stats(ctx context.Context) (domain.Stats, error) {
	stats := domain.Stats{
		ByType:      map[domain.ContentType]int{},
		BySentiment: map[domain.Sentiment]int{},
	}

	clientsQ, clientsArgs, err := psql.
		Select("COUNT(*)").From("clients").
		Where(sq.Eq{"status": "active"}).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("build client count: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, clientsQ, clientsArgs...).Scan(&stats.TotalClients); err != nil {
		return stats, fmt.Errorf("count clients: %w", err)
	}

	active := sq.NotEq{"status": domain.StatusDeleted}

	totalQ, totalArgs, err := psql.
		Select("COUNT(*)").From("monitoring_results").
		Where(active).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("build total count: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, totalQ, totalArgs...).Scan(&stats.TotalResults); err != nil {
		return stats, fmt.Errorf("count results: %w", err)
	}

	recentQ, recentArgs, err := psql.
		Select("COUNT(*)").From("monitoring_results").
		Where(active).
		Where(sq.Expr("found_at >= NOW() - INTERVAL '7 days'")).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("build recent count: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, recentQ, recentArgs...).Scan(&stats.RecentResults); err != nil {
		return stats, fmt.Errorf("count recent: %w", err)
	}

	if err := r.countBy(ctx, "type", func(key string, count int) {
		stats.ByType[domain.ContentType(key)] = count
	}); err != nil {
		return stats, err
	}
	if err := r.countBy(ctx, "sentiment", func(key string, count int) {
		stats.BySentiment[domain.Sentiment(key)] = count
	}); err != nil {
		return stats, err
	}

	return stats, nil
}

func (r *ResultsRepository) countBy(ctx context.Context, column string, assign func(string, int)) error {
	query, args, err := psql.
		Select(column, "COUNT(*)").
		From("monitoring_results").
		Where(sq.NotEq{"status": domain.StatusDeleted}).
		Where(sq.NotEq{column: nil}).
		GroupBy(column).
		ToSql()
	if err != nil {
		return fmt.Errorf("build %s count: %w", column, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		assign(key, count)
	}

	return rows.Err()
}

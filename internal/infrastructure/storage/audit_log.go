package storage

import (
	"context"
	"database/sql"
	"fmt"

	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/ports"
)

// AuditLog writes pipeline actions into monitoring_logs so operators can
// reconstruct what a scan did after the fact.
type AuditLog struct {
	db *sql.DB
}

var _ ports.AuditLog = (*AuditLog)(nil)

func NewAuditLog(db *sql.DB) *AuditLog {
	return &AuditLog{db: db}
}

// Record appends one log row. A nil clientID marks a batch-level entry.
func (l *AuditLog) Record(ctx context.Context, clientID *int64, action, details string, status domain.LogStatus) error {
	query, args, err := psql.
		Insert("monitoring_logs").
		Columns("client_id", "action", "details", "status").
		Values(clientID, action, details, status).
		ToSql()
	if err != nil {
		return fmt.Errorf("build log insert: %w", err)
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record log: %w", err)
	}

	return nil
}

// Recent returns the newest entries first.
func (l *AuditLog) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := psql.
		Select("id", "client_id", "action", "details", "status", "created_at").
		From("monitoring_logs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent logs query: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		var clientID sql.NullInt64
		var details sql.NullString
		if err := rows.Scan(&e.ID, &clientID, &e.Action, &details, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if clientID.Valid {
			id := clientID.Int64
			e.ClientID = &id
		}
		e.Details = details.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return entries, nil
}

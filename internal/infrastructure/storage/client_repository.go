package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/ports"
)

// ErrClientNotFound is returned when the requested client id has no row.
var ErrClientNotFound = errors.New("client not found")

// ClientRepository reads client records. The monitoring pipeline never
// writes to the clients table.
type ClientRepository struct {
	db *sql.DB
}

var _ ports.ClientStore = (*ClientRepository)(nil)

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Get fetches a single client by id.
func (r *ClientRepository) Get(ctx context.Context, id int64) (domain.Client, error) {
	query, args, err := clientSelect().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Client{}, fmt.Errorf("build client query: %w", err)
	}

	client, err := scanClient(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Client{}, fmt.Errorf("client %d: %w", id, ErrClientNotFound)
	}
	if err != nil {
		return domain.Client{}, fmt.Errorf("query client %d: %w", id, err)
	}

	return client, nil
}

// Active lists clients eligible for scanning.
func (r *ClientRepository) Active(ctx context.Context) ([]domain.Client, error) {
	query, args, err := clientSelect().
		Where(sq.Eq{"status": "active"}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active clients query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return clients, nil
}

func clientSelect() sq.SelectBuilder {
	return psql.
		Select("id", "name", "website", "keywords", "status").
		From("clients")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var c domain.Client
	var website, keywords sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &website, &keywords, &c.Status); err != nil {
		return domain.Client{}, err
	}
	c.Website = website.String
	c.Keywords = keywords.String
	return c, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema mirrors the admin installer: the pipeline only reads clients but
// owns results and logs.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    address TEXT,
    website VARCHAR(255),
    phone VARCHAR(50),
    email VARCHAR(255),
    keywords TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    status VARCHAR(20) NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS monitoring_results (
    id BIGSERIAL PRIMARY KEY,
    client_id BIGINT NOT NULL,
    title VARCHAR(500) NOT NULL,
    url VARCHAR(1000) NOT NULL,
    canonical_url VARCHAR(1000),
    content TEXT,
    source VARCHAR(255),
    type VARCHAR(50) NOT NULL,
    sentiment VARCHAR(20),
    relevance_score DECIMAL(3,2),
    found_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    status VARCHAR(20) NOT NULL DEFAULT 'new'
);

CREATE INDEX IF NOT EXISTS idx_results_client ON monitoring_results (client_id);
CREATE INDEX IF NOT EXISTS idx_results_type ON monitoring_results (type);
CREATE INDEX IF NOT EXISTS idx_results_found_at ON monitoring_results (found_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_results_canonical ON monitoring_results (client_id, canonical_url);

CREATE TABLE IF NOT EXISTS monitoring_logs (
    id BIGSERIAL PRIMARY KEY,
    client_id BIGINT,
    action VARCHAR(100) NOT NULL,
    details TEXT,
    status VARCHAR(20) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_logs_client ON monitoring_logs (client_id);
CREATE INDEX IF NOT EXISTS idx_logs_created_at ON monitoring_logs (created_at);
`

// EnsureSchema creates the monitoring tables when they are absent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

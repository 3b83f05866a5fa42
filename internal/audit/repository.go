package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const defaultTable = "audit_logs"

// DB is satisfied by *sql.DB and *sql.Tx.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repository stores audit entries in Postgres.
type Repository struct {
	db    DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*Repository)

// WithTable overrides the audit table name.
func WithTable(table string) RepositoryOption {
	return func(r *Repository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewRepository returns nil when db is nil so callers can fall back to StdLogger.
func NewRepository(db DB, opts ...RepositoryOption) *Repository {
	if db == nil {
		return nil
	}
	repo := &Repository{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Log inserts an entry, filling id, timestamp and digest when missing.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("audit repo: nil db")
	}
	if entry.Action == "" {
		return errors.New("audit repo: empty action")
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	metadata := []byte(entry.Metadata)
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(metadata)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id, partner_id, subject, action, resource_type, resource_id,
	metadata, payload_digest, ip, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, r.table)
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.PartnerID, entry.Subject, entry.Action, entry.ResourceType, entry.ResourceID,
		metadata, entry.PayloadDigest, entry.IP, entry.UserAgent, entry.CreatedAt)
	return err
}

// ListByResource returns the entries of one resource, oldest first.
func (r *Repository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]Entry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("audit repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, partner_id, subject, action, resource_type, resource_id,
	metadata, payload_digest, ip, user_agent, created_at
FROM %s
WHERE resource_type = $1 AND resource_id = $2
ORDER BY created_at ASC, id ASC`, r.table)
	rows, err := r.db.QueryContext(ctx, query, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			metadata []byte
		)
		if err := rows.Scan(&e.ID, &e.PartnerID, &e.Subject, &e.Action, &e.ResourceType, &e.ResourceID,
			&metadata, &e.PayloadDigest, &e.IP, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Metadata = metadata
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

package integration_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"energy-simulator/internal/audit"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestAuditRepository_LogAndList(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	content, err := os.ReadFile(filepath.Join(projectRoot(), "migrations", "003_audit.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS audit_logs_it (LIKE audit_logs INCLUDING ALL);
TRUNCATE audit_logs_it;`); err != nil {
		t.Fatalf("prepare table: %v", err)
	}

	repo := audit.NewRepository(db, audit.WithTable("audit_logs_it"))
	for _, action := range []string{audit.ActionSimulate, audit.ActionExport} {
		if err := repo.Log(ctx, audit.Entry{
			PartnerID:    "partner-1",
			Action:       action,
			ResourceType: "simulation",
			ResourceID:   "run-1",
			Metadata:     []byte(`{"type":"electricity"}`),
			IP:           "203.0.113.7",
		}); err != nil {
			t.Fatalf("log %s: %v", action, err)
		}
	}
	entries, err := repo.ListByResource(ctx, "simulation", "run-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries got=%d want=2", len(entries))
	}
	if entries[0].PartnerID != "partner-1" || entries[0].PayloadDigest == "" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Clean(filepath.Join(dir, "..", "..", ".."))
}

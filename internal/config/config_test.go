package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "DATABASE_URL", "PG_DSN", "CATALOG_SOURCE", "CATALOG_FILE", "REDIS_ADDR",
		"CATALOG_CACHE_TTL", "WHATSAPP_NUMBER", "COMPANY_NAME", "EMBED_JWT_SECRET",
		"CORS_ALLOWED_ORIGINS", "RESULT_LIMIT", "LOCALE", "CURRENCY", "SIMULATOR_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.CatalogSource != CatalogFile || cfg.CatalogFile != "catalog.yaml" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.WhatsAppNumber != defaultWhatsAppNumber || cfg.ResultLimit != 3 || cfg.CatalogCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PG_DSN", "postgres://localhost/sim")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RESULT_LIMIT", "5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CatalogSource != CatalogPostgres || cfg.DatabaseURL != "postgres://localhost/sim" {
		t.Fatalf("unexpected catalog: %+v", cfg)
	}
	if cfg.CatalogCacheTTL != 30*time.Second || cfg.ResultLimit != 5 {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "simulator.yaml")
	content := `
company_name: Energia Certa
catalog_source: file
catalog_file: /etc/simulator/catalog.yaml
catalog_cache_ttl: 1m
whatsapp_templates:
  contact: "Hi {{.CurrentProvider}}"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SIMULATOR_CONFIG", path)
	t.Setenv("COMPANY_NAME", "Ignored")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CompanyName != "Energia Certa" || cfg.CatalogFile != "/etc/simulator/catalog.yaml" {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.CatalogCacheTTL != time.Minute {
		t.Fatalf("ttl got=%s want=1m", cfg.CatalogCacheTTL)
	}
	if cfg.Templates.Contact != "Hi {{.CurrentProvider}}" || cfg.Templates.Adhesion != "" {
		t.Fatalf("unexpected templates: %+v", cfg.Templates)
	}
}

func TestValidate(t *testing.T) {
	cases := []Config{
		{CatalogSource: CatalogPostgres, ResultLimit: 3, WhatsAppNumber: "1"},
		{CatalogSource: CatalogFile, ResultLimit: 3, WhatsAppNumber: "1"},
		{CatalogSource: "mongo", ResultLimit: 3, WhatsAppNumber: "1"},
		{CatalogSource: CatalogFile, CatalogFile: "c.yaml", ResultLimit: 0, WhatsAppNumber: "1"},
	}
	for i, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	CatalogPostgres = "postgres"
	CatalogFile     = "file"
)

const defaultWhatsAppNumber = "351928203793"

// Templates overrides the WhatsApp message templates. Empty entries keep the defaults.
type Templates struct {
	Contact   string `yaml:"contact"`
	Adhesion  string `yaml:"adhesion"`
	NoResults string `yaml:"no_results"`
}

// Config defines simulator configuration.
type Config struct {
	HTTPAddr           string        `yaml:"http_addr"`
	DatabaseURL        string        `yaml:"database_url"`
	CatalogSource      string        `yaml:"catalog_source"`
	CatalogFile        string        `yaml:"catalog_file"`
	RedisAddr          string        `yaml:"redis_addr"`
	CatalogCacheTTL    time.Duration `yaml:"catalog_cache_ttl"`
	WhatsAppNumber     string        `yaml:"whatsapp_number"`
	CompanyName        string        `yaml:"company_name"`
	EmbedJWTSecret     string        `yaml:"embed_jwt_secret"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	ResultLimit        int           `yaml:"result_limit"`
	Locale             string        `yaml:"locale"`
	Currency           string        `yaml:"currency"`
	Templates          Templates     `yaml:"whatsapp_templates"`
}

// Load reads configuration from the environment, then overlays the YAML file
// named by SIMULATOR_CONFIG when set.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:           getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:        getenvDefault("DATABASE_URL", os.Getenv("PG_DSN")),
		CatalogSource:      os.Getenv("CATALOG_SOURCE"),
		CatalogFile:        os.Getenv("CATALOG_FILE"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		CatalogCacheTTL:    getenvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		WhatsAppNumber:     getenvDefault("WHATSAPP_NUMBER", defaultWhatsAppNumber),
		CompanyName:        getenvDefault("COMPANY_NAME", "Energy Simulator"),
		EmbedJWTSecret:     os.Getenv("EMBED_JWT_SECRET"),
		CORSAllowedOrigins: splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ResultLimit:        getenvIntDefault("RESULT_LIMIT", 3),
		Locale:             getenvDefault("LOCALE", "pt-PT"),
		Currency:           getenvDefault("CURRENCY", "€"),
	}

	if path := os.Getenv("SIMULATOR_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if cfg.CatalogSource == "" {
		cfg.CatalogSource = CatalogPostgres
		if cfg.DatabaseURL == "" {
			cfg.CatalogSource = CatalogFile
		}
	}
	if cfg.CatalogSource == CatalogFile && cfg.CatalogFile == "" {
		cfg.CatalogFile = "catalog.yaml"
	}
	return cfg, cfg.Validate()
}

// Validate checks that the selected sources are usable.
func (c Config) Validate() error {
	switch c.CatalogSource {
	case CatalogPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: postgres catalog requires DATABASE_URL")
		}
	case CatalogFile:
		if c.CatalogFile == "" {
			return errors.New("config: file catalog requires CATALOG_FILE")
		}
	default:
		return fmt.Errorf("config: unknown catalog source %q", c.CatalogSource)
	}
	if c.ResultLimit <= 0 {
		return errors.New("config: result limit must be positive")
	}
	if c.WhatsAppNumber == "" {
		return errors.New("config: whatsapp number required")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"energy-simulator/internal/audit"
	catalog "energy-simulator/internal/catalog/domain"
	catalogcache "energy-simulator/internal/catalog/infrastructure/cache"
	catalogfile "energy-simulator/internal/catalog/infrastructure/file"
	catalogrepo "energy-simulator/internal/catalog/infrastructure/postgres"
	"energy-simulator/internal/config"
	"energy-simulator/internal/embed"
	"energy-simulator/internal/format"
	leadapp "energy-simulator/internal/leads/application"
	leads "energy-simulator/internal/leads/domain"
	leadmemory "energy-simulator/internal/leads/infrastructure/memory"
	leadrepo "energy-simulator/internal/leads/infrastructure/postgres"
	leadhttp "energy-simulator/internal/leads/interfaces/http"
	"energy-simulator/internal/observability/metrics"
	simapp "energy-simulator/internal/simulation/application"
	siminterfaces "energy-simulator/internal/simulation/interfaces"
	simhttp "energy-simulator/internal/simulation/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}
	decimal.MarshalJSONWithoutQuotes = true

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}
	metrics.Init(db, logger)

	reader, err := buildCatalogReader(cfg, db, logger)
	if err != nil {
		logger.Fatalf("catalog error: %v", err)
	}

	var auditLogger audit.Logger = audit.NewStdLogger(logger)
	var leadRepository leads.Repository = leadmemory.NewLeadRepository()
	if db != nil {
		auditLogger = audit.NewRepository(db)
		leadRepository = leadrepo.NewLeadRepository(db)
	}

	formatter := format.New(cfg.Locale, format.WithCurrencySymbol(cfg.Currency))
	comparisonService, err := simapp.NewComparisonService(reader,
		simapp.WithResultLimit(cfg.ResultLimit),
		simapp.WithCatalogSource(cfg.CatalogSource),
		simapp.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("comparison service error: %v", err)
	}
	messages, err := siminterfaces.NewMessages(cfg.WhatsAppNumber,
		siminterfaces.WithFormatter(formatter),
		siminterfaces.WithTemplate(siminterfaces.MessageContact, cfg.Templates.Contact),
		siminterfaces.WithTemplate(siminterfaces.MessageAdhesion, cfg.Templates.Adhesion),
		siminterfaces.WithTemplate(siminterfaces.MessageNoResults, cfg.Templates.NoResults),
	)
	if err != nil {
		logger.Fatalf("whatsapp messages error: %v", err)
	}
	simulationHandler, err := simhttp.NewHandler(comparisonService, messages,
		simhttp.WithAuditLogger(auditLogger),
		simhttp.WithCompanyName(cfg.CompanyName),
		simhttp.WithFormatter(formatter),
		simhttp.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("simulation handler error: %v", err)
	}

	leadService, err := leadapp.NewService(leadRepository,
		leadapp.WithComparer(comparisonService),
		leadapp.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("lead service error: %v", err)
	}
	leadHandler, err := leadhttp.NewHandler(leadService, auditLogger, logger)
	if err != nil {
		logger.Fatalf("lead handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/simulations", simulationHandler)
	mux.Handle("/api/v1/simulations/", simulationHandler)
	mux.Handle("/api/v1/availability", simulationHandler)
	mux.Handle("/api/v1/providers/market", simulationHandler)
	mux.Handle("/api/v1/leads", leadHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	embedMiddleware := embed.NewMiddleware([]byte(cfg.EmbedJWTSecret))
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(corsMiddleware.Handler(embedMiddleware.Wrap(mux)), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Printf("http listening on %s (catalog=%s)", cfg.HTTPAddr, cfg.CatalogSource)
	logger.Fatal(server.ListenAndServe())
}

func buildCatalogReader(cfg config.Config, db *sql.DB, logger *log.Logger) (catalog.Reader, error) {
	var reader catalog.Reader
	switch cfg.CatalogSource {
	case config.CatalogPostgres:
		reader = catalogrepo.NewCatalogRepository(db)
	default:
		repo, err := catalogfile.NewCatalogRepository(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		reader = repo
	}
	if cfg.RedisAddr == "" {
		return reader, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return catalogcache.NewCatalogCache(client, reader,
		catalogcache.WithTTL(cfg.CatalogCacheTTL),
		catalogcache.WithLogger(logger),
	)
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

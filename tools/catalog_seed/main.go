package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	catalogcache "energy-simulator/internal/catalog/infrastructure/cache"
	catalogfile "energy-simulator/internal/catalog/infrastructure/file"
	catalogrepo "energy-simulator/internal/catalog/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type config struct {
	dsn       string
	file      string
	redisAddr string
	dryRun    bool
}

func main() {
	cfg := parseConfig()
	if cfg.file == "" {
		log.Fatal("catalog file is required")
	}

	snapshot, err := catalogfile.Load(cfg.file)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	log.Printf("catalog %s: providers=%d discounts=%d", cfg.file, len(snapshot.Providers), len(snapshot.Discounts))
	if cfg.dryRun {
		return
	}
	if cfg.dsn == "" {
		log.Fatal("PG_DSN or DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", cfg.dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	repo := catalogrepo.NewCatalogRepository(tx)
	for i := range snapshot.Providers {
		if err := repo.SaveProvider(ctx, &snapshot.Providers[i]); err != nil {
			_ = tx.Rollback()
			log.Fatalf("save provider %s: %v", snapshot.Providers[i].ID, err)
		}
	}
	for i := range snapshot.Discounts {
		if err := repo.SaveDiscount(ctx, &snapshot.Discounts[i]); err != nil {
			_ = tx.Rollback()
			log.Fatalf("save discount %s/%s: %v", snapshot.Discounts[i].ProviderID, snapshot.Discounts[i].EnergyType, err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("commit: %v", err)
	}

	stored := catalogrepo.NewCatalogRepository(db)
	count, err := stored.CountProviders(ctx)
	if err != nil {
		log.Fatalf("count providers: %v", err)
	}
	log.Printf("seeded catalog: %d active providers", count)

	if cfg.redisAddr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
	defer client.Close()
	cache, err := catalogcache.NewCatalogCache(client, stored)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		log.Fatalf("invalidate cache: %v", err)
	}
	log.Printf("catalog cache invalidated on %s", cfg.redisAddr)
}

func parseConfig() config {
	cfg := config{}
	flag.StringVar(&cfg.dsn, "pg-dsn", envOrDefault("PG_DSN", envOrDefault("DATABASE_URL", "")), "Postgres DSN")
	flag.StringVar(&cfg.file, "file", envOrDefault("CATALOG_FILE", "catalog.example.yaml"), "YAML catalog to import")
	flag.StringVar(&cfg.redisAddr, "redis-addr", envOrDefault("REDIS_ADDR", ""), "Redis address of the catalog cache to invalidate")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "validate the file without writing")
	flag.Parse()
	return cfg
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

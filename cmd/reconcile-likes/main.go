// Command reconcile-likes recomputes every post's like counter from the like ledger.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/lib/pq"

	"Echo/internal/config"
	postgresRepo "Echo/internal/db/postgres"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "maximum time to spend reconciling")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Connecting to database...")
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	repo := postgresRepo.NewLikeRepository(db)

	log.Printf("Reconciling like counts...")
	fixed, err := repo.ReconcileCounts(ctx)
	if err != nil {
		log.Fatalf("Failed to reconcile like counts: %v", err)
	}

	log.Printf("✓ Corrected like counts on %d posts", fixed)
}

// Command cleanup-tokens prunes stale registration tokens and old USB
// events. Unused tokens past their expiry are deleted; used tokens are
// kept for 90 days of traceability. Events are kept EVENT_RETENTION_DAYS
// days (default 30).
//
// Usage:
//
//	cleanup-tokens
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	retentionDays := 30
	if v := os.Getenv("EVENT_RETENTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("EVENT_RETENTION_DAYS must be a positive integer, got %q", v)
		}
		retentionDays = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	tokens, err := pool.Exec(ctx,
		`DELETE FROM registration_tokens
		 WHERE (expires_at < now() AND used_at IS NULL)
		    OR used_at < now() - interval '90 days'`,
	)
	if err != nil {
		log.Fatalf("cleanup registration tokens: %v", err)
	}

	events, err := pool.Exec(ctx,
		"DELETE FROM usb_events WHERE received_at < now() - make_interval(days => $1)",
		retentionDays,
	)
	if err != nil {
		log.Fatalf("cleanup usb events: %v", err)
	}

	fmt.Printf("Deleted %d stale registration tokens and %d usb events older than %d days.\n",
		tokens.RowsAffected(), events.RowsAffected(), retentionDays)
}

// Command relay forwards captured USB events to the ledger server. It
// reads JSONL from a file or stdin (one event per line, the wire format
// of POST /api/v1/events) and posts them in batches. It stands in for
// the lab agent during development and for replaying captured logs.
//
// Flags:
//
//	--input       path to a JSONL events file, or "-" for stdin
//	--server      base URL of the ledger server
//	--token       agent bearer token (falls back to LABWATCH_AGENT_TOKEN)
//	--batch-size  events per posting batch
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/adapter/collector"
)

func main() {
	inputFlag := flag.String("input", "-", `path to JSONL events file, or "-" for stdin`)
	serverFlag := flag.String("server", "http://localhost:8080", "base URL of the ledger server")
	tokenFlag := flag.String("token", "", "agent bearer token")
	batchSizeFlag := flag.Int("batch-size", 100, "events per posting batch")
	flag.Parse()

	token := *tokenFlag
	if token == "" {
		token = os.Getenv("LABWATCH_AGENT_TOKEN")
	}
	if token == "" {
		log.Fatal("agent token is required (use --token or LABWATCH_AGENT_TOKEN)")
	}
	if *batchSizeFlag < 1 {
		log.Fatal("--batch-size must be at least 1")
	}

	in := os.Stdin
	if *inputFlag != "" && *inputFlag != "-" {
		f, err := os.Open(*inputFlag)
		if err != nil {
			log.Fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := collector.NewClient(collector.Config{
		BaseURL:    *serverFlag,
		Token:      token,
		RetryCount: 3,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sent, rejected, skipped, err := relay(ctx, client, in, *batchSizeFlag, logger)
	if err != nil {
		logger.Error("relay failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Forwarded %d events (%d rejected, %d malformed lines skipped).\n", sent, rejected, skipped)
}

// relay streams the input line by line and posts events in batches, so
// arbitrarily large capture files never have to fit in memory. Malformed
// lines are skipped with a warning instead of aborting the replay.
func relay(ctx context.Context, client *collector.Client, in io.Reader, batchSize int, logger *slog.Logger) (sent, rejected, skipped int, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	batch := make([]collector.Event, 0, batchSize)
	lineNo := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		result, err := client.ReportBatch(ctx, batch)
		sent += result.Sent
		rejected += result.Failed
		batch = batch[:0]
		return err
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev collector.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			skipped++
			logger.Warn("skipping malformed line",
				slog.Int("line", lineNo),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ev.ReportedAt.IsZero() {
			ev.ReportedAt = time.Now().UTC()
		}

		batch = append(batch, ev)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return sent, rejected, skipped, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return sent, rejected, skipped, fmt.Errorf("read input: %w", err)
	}

	if err := flush(); err != nil {
		return sent, rejected, skipped, err
	}
	return sent, rejected, skipped, nil
}

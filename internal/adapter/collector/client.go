// Package collector is the HTTP client side of the event ingest API,
// used by the relay to forward USB events captured on lab machines.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 10 * time.Second
	retryWaitTime    = 1 * time.Second
	retryMaxWaitTime = 5 * time.Second
)

// Config holds the connection settings for the ingest API.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// Event is one USB event in the wire format of POST /api/v1/events.
type Event struct {
	PCUniqueID         string    `json:"pc_unique_id"`
	PeripheralUniqueID string    `json:"peripheral_unique_id"`
	Kind               string    `json:"kind"`
	Name               *string   `json:"name,omitempty"`
	DeviceKind         *string   `json:"device_kind,omitempty"`
	ReportedAt         time.Time `json:"reported_at"`
}

// Outcome mirrors the ingest response body.
type Outcome struct {
	PeripheralID      *string `json:"peripheral_id"`
	PeripheralCreated bool    `json:"peripheral_created"`
	TransitionApplied *string `json:"transition_applied"`
	FaultyDetected    bool    `json:"faulty_detected"`
}

// BatchResult summarizes a batch report.
type BatchResult struct {
	Sent   int
	Failed int
}

// Client posts USB events to the server's ingest API.
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

// NewClient creates a Client. Transport errors and 5xx responses are
// retried cfg.RetryCount times with backoff.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http: httpClient,
		log:  logger.With("component", "collector"),
	}
}

// ReportEvent posts one event and returns what it caused on the server.
func (c *Client) ReportEvent(ctx context.Context, ev Event) (*Outcome, error) {
	var out Outcome
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(ev).
		SetResult(&out).
		Post("/api/v1/events")
	if err != nil {
		return nil, fmt.Errorf("post event: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("event rejected: %s: %s", resp.Status(), resp.String())
	}

	return &out, nil
}

// ReportBatch posts the events one by one in order. An event the server
// rejects is logged and skipped so one bad record cannot wedge the relay;
// a transport failure stops the batch.
func (c *Client) ReportBatch(ctx context.Context, events []Event) (BatchResult, error) {
	var result BatchResult

	for _, ev := range events {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(ev).
			Post("/api/v1/events")
		if err != nil {
			return result, fmt.Errorf("post event %q: %w", ev.PeripheralUniqueID, err)
		}
		if resp.IsError() {
			result.Failed++
			c.log.WarnContext(ctx, "event rejected",
				slog.String("peripheral_unique_id", ev.PeripheralUniqueID),
				slog.String("status", resp.Status()),
				slog.String("body", resp.String()),
			)
			continue
		}
		result.Sent++
	}

	return result, nil
}

//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/labwatch-backend/internal/adapter/postgres"
	alertrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/alert"
	auditrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/audit"
	labrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/lab"
	pcrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/pc"
	peripheralrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/peripheral"
	regtokenrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/regtoken"
	settingsrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/settings"
	historyrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/statushistory"
	"github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/testhelper"
	usbeventrepo "github.com/heartmarshall/labwatch-backend/internal/adapter/postgres/usbevent"
	authpkg "github.com/heartmarshall/labwatch-backend/internal/auth"
	"github.com/heartmarshall/labwatch-backend/internal/config"
	"github.com/heartmarshall/labwatch-backend/internal/service/alerts"
	auditsvc "github.com/heartmarshall/labwatch-backend/internal/service/audit"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
	settingssvc "github.com/heartmarshall/labwatch-backend/internal/service/settings"
	"github.com/heartmarshall/labwatch-backend/internal/transport/middleware"
	"github.com/heartmarshall/labwatch-backend/internal/transport/rest"
)

const (
	testJWTSecret = "test-secret-at-least-32-chars-long!!"
	testJWTIssuer = "test-issuer"

	// Fast polling keeps the SSE stream test well under a second.
	testStreamPoll = 50 * time.Millisecond
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	labs := labrepo.New(pool)
	pcs := pcrepo.New(pool)
	peripherals := peripheralrepo.New(pool)
	history := historyrepo.New(pool)
	alertStore := alertrepo.New(pool)
	events := usbeventrepo.New(pool)
	tokens := regtokenrepo.New(pool)
	settingsStore := settingsrepo.New(pool)
	auditStore := auditrepo.New(pool)

	// 4. Services, wired the same way the application entry point does.
	alertSvc := alerts.NewService(logger, alertStore, peripherals, auditStore, txm)
	ledgerSvc := ledger.NewService(logger, peripherals, history, alertSvc, auditStore, txm)
	settingsSvc := settingssvc.NewService(logger, settingsStore, auditStore, txm)
	inventorySvc := inventory.NewService(logger, labs, pcs, peripherals, history, tokens, alertStore, auditStore, txm)
	detectionSvc := detection.NewService(logger, pcs, peripherals, events, ledgerSvc, settingsSvc, auditStore)
	auditSvc := auditsvc.NewService(logger, auditStore)

	// 5. Token verifier with a test secret (>= 32 chars).
	verifier := authpkg.NewVerifier(testJWTSecret, testJWTIssuer)

	// 6. Handlers.
	alertsHandler := rest.NewAlertsHandler(alertSvc, logger)
	alertsHandler.SetStreamPollInterval(testStreamPoll)

	handlers := rest.Handlers{
		Ledger:    rest.NewLedgerHandler(ledgerSvc, logger),
		Inventory: rest.NewInventoryHandler(inventorySvc, logger),
		Alerts:    alertsHandler,
		Events:    rest.NewEventsHandler(detectionSvc, logger),
		Admin:     rest.NewAdminHandler(settingsSvc, auditSvc, inventorySvc, logger),
		Health:    rest.NewHealthHandler(pool, "test-version"),
	}

	// 7. Middleware chain. The rate limiter stays out so parallel tests
	// never trip it.
	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Auth(verifier),
	)

	router := rest.NewRouter(handlers, chain)

	// 8. httptest server.
	srv := httptest.NewServer(router)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// ---------------------------------------------------------------------------
// Token minting. The API only verifies tokens; tests sign their own the
// way the identity service in front of the API would.
// ---------------------------------------------------------------------------

type testClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// signToken mints an HS256 access token for the given actor and role.
func signToken(t *testing.T, actor, role string) string {
	t.Helper()

	now := time.Now()
	claims := testClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor,
			Issuer:    testJWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// staffToken mints a token for a regular staff member.
func staffToken(t *testing.T) string {
	t.Helper()
	return signToken(t, "staff.user", "staff")
}

// adminToken mints a token carrying the admin role.
func adminToken(t *testing.T) string {
	t.Helper()
	return signToken(t, "admin.user", "admin")
}

// agentToken mints a token for a lab agent identity.
func agentToken(t *testing.T) string {
	t.Helper()
	return signToken(t, "agent-kab-301", "agent")
}

// ---------------------------------------------------------------------------
// doJSON sends a request with an optional JSON body and bearer token and
// returns status + decoded body (nil for empty responses).
// ---------------------------------------------------------------------------

func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	// Middleware rejections are plain text; only decode JSON bodies.
	if len(raw) == 0 || !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return resp.StatusCode, nil
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode response %q: %v", raw, err)
	}
	return resp.StatusCode, result
}

// get is doJSON without a body.
func (ts *testServer) get(t *testing.T, path, token string) (int, map[string]any) {
	t.Helper()
	return ts.doJSON(t, http.MethodGet, path, nil, token)
}

// ---------------------------------------------------------------------------
// Flow helpers built on the public API.
// ---------------------------------------------------------------------------

// issueRegistrationToken issues a registration token as admin and
// returns the raw secret.
func issueRegistrationToken(t *testing.T, ts *testServer) string {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/admin/tokens",
		map[string]any{"ttl_hours": 1}, adminToken(t))
	if status != http.StatusCreated {
		t.Fatalf("issue token: expected 201, got %d: %v", status, body)
	}

	raw, ok := body["token"].(string)
	if !ok || raw == "" {
		t.Fatalf("issue token: missing raw token in %v", body)
	}
	return raw
}

// reportEvent posts one USB event as a lab agent and returns the outcome.
func reportEvent(t *testing.T, ts *testServer, event map[string]any) map[string]any {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/events", event, agentToken(t))
	if status != http.StatusAccepted {
		t.Fatalf("report event: expected 202, got %d: %v", status, body)
	}
	return body
}

// items pulls the "items" array out of a list response.
func items(t *testing.T, body map[string]any) []any {
	t.Helper()

	list, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("expected items array in %v", body)
	}
	return list
}

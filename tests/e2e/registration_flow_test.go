//go:build e2e

package e2e_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Device provisioning: admin issues a one-time token, the installer on the
// PC spends it, the PC shows up in the inventory.
// ---------------------------------------------------------------------------

func TestE2E_Registration_FullFlow(t *testing.T) {
	ts := setupTestServer(t)
	admin := adminToken(t)

	// Create a lab to register into.
	status, lab := ts.doJSON(t, http.MethodPost, "/api/v1/labs",
		map[string]any{"name": "Lab " + uuid.New().String()[:8], "room": "301"}, admin)
	require.Equal(t, http.StatusCreated, status, "create lab: %v", lab)
	labID := lab["id"].(string)

	// Issue a registration token.
	status, issued := ts.doJSON(t, http.MethodPost, "/api/v1/admin/tokens",
		map[string]any{"note": "imaging run", "ttl_hours": 2}, admin)
	require.Equal(t, http.StatusCreated, status, "issue token: %v", issued)
	assert.Equal(t, "admin.user", issued["created_by"])
	assert.Equal(t, "imaging run", issued["note"])
	raw := issued["token"].(string)
	require.NotEmpty(t, raw)

	// Register the PC. No bearer token: the registration token is the
	// credential.
	pcUniqueID := "BIOS-" + uuid.New().String()[:8]
	status, pc := ts.doJSON(t, http.MethodPost, "/api/v1/devices/register", map[string]any{
		"token":        raw,
		"pc_unique_id": pcUniqueID,
		"hostname":     "kab-301-pc-01",
		"lab_id":       labID,
	}, "")
	require.Equal(t, http.StatusCreated, status, "register: %v", pc)
	assert.Equal(t, pcUniqueID, pc["unique_id"])
	assert.Equal(t, "kab-301-pc-01", pc["hostname"])
	assert.Equal(t, labID, pc["lab_id"])
	pcID := pc["id"].(string)

	// The PC is listed under its lab.
	status, listed := ts.get(t, "/api/v1/pcs?lab_id="+labID, "")
	require.Equal(t, http.StatusOK, status)
	pcs := items(t, listed)
	require.Len(t, pcs, 1)
	assert.Equal(t, pcID, pcs[0].(map[string]any)["id"])

	// The detail view carries the lab and an empty peripheral list.
	status, detail := ts.get(t, "/api/v1/pcs/"+pcID, "")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, detail["lab"])
	assert.Equal(t, labID, detail["lab"].(map[string]any)["id"])
	assert.Empty(t, detail["peripherals"])
}

func TestE2E_Registration_TokenIsSingleUse(t *testing.T) {
	ts := setupTestServer(t)
	raw := issueRegistrationToken(t, ts)

	status, _ := ts.doJSON(t, http.MethodPost, "/api/v1/devices/register", map[string]any{
		"token":        raw,
		"pc_unique_id": "BIOS-" + uuid.New().String()[:8],
		"hostname":     "host-a",
	}, "")
	require.Equal(t, http.StatusCreated, status)

	// The second spend of the same token is rejected.
	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/devices/register", map[string]any{
		"token":        raw,
		"pc_unique_id": "BIOS-" + uuid.New().String()[:8],
		"hostname":     "host-b",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status, "reused token: %v", body)
}

func TestE2E_Registration_UnknownTokenRejected(t *testing.T) {
	ts := setupTestServer(t)

	status, _ := ts.doJSON(t, http.MethodPost, "/api/v1/devices/register", map[string]any{
		"token":        "not-a-real-token",
		"pc_unique_id": "BIOS-" + uuid.New().String()[:8],
		"hostname":     "host-x",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestE2E_Registration_UnknownLabRejected(t *testing.T) {
	ts := setupTestServer(t)
	raw := issueRegistrationToken(t, ts)

	status, _ := ts.doJSON(t, http.MethodPost, "/api/v1/devices/register", map[string]any{
		"token":        raw,
		"pc_unique_id": "BIOS-" + uuid.New().String()[:8],
		"hostname":     "host-x",
		"lab_id":       uuid.New().String(),
	}, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestE2E_Registration_MissingFieldsRejected(t *testing.T) {
	ts := setupTestServer(t)

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/devices/register",
		map[string]any{"token": "whatever"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation failed", body["error"])
}

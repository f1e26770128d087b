package catalog

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *Catalog) {
	c := New(1)
	return NewHandler(c, slog.New(slog.NewTextHandler(io.Discard, nil))), c
}

func TestServerStatusThresholds(t *testing.T) {
	require.Equal(t, StatusCritical, statusFor(89, 91, 58))
	require.Equal(t, StatusCritical, statusFor(10, 10, 56))
	require.Equal(t, StatusWarning, statusFor(78, 84, 52))
	require.Equal(t, StatusWarning, statusFor(71, 10, 40))
	require.Equal(t, StatusHealthy, statusFor(45, 62, 45))
}

func TestSeededDatasets(t *testing.T) {
	c := New(1)

	servers := c.Servers()
	require.Len(t, servers, 6)
	require.Equal(t, StatusCritical, servers[3].Status) // Cache Server
	require.Equal(t, StatusHealthy, servers[5].Status)  // Backup Server

	require.Len(t, c.VMs(), 6)
	require.Len(t, c.Algorithms(), 3)
	require.Len(t, c.Metrics(), 3)
	require.Len(t, c.EnergySeries(), 12)
	require.Len(t, c.EnergyBreakdown(), 5)

	qtable := c.QTable()
	require.Len(t, qtable, 80)
	for _, cell := range qtable {
		require.GreaterOrEqual(t, cell.Value, -1.0)
		require.LessOrEqual(t, cell.Value, 1.0)
	}

	// Same seed, same table.
	require.Equal(t, qtable, New(1).QTable())
}

func TestAddVM(t *testing.T) {
	c := New(1)
	vm := c.AddVM(VM{ID: "vm-007", ServerID: "server-5", CPUUsage: 10, RAMUsage: 20})
	require.Equal(t, VMRunning, vm.Status)
	require.False(t, vm.CreatedAt.IsZero())
	require.Len(t, c.VMs(), 7)
}

func TestDatasetEndpoints(t *testing.T) {
	h, _ := newTestHandler()
	r := chi.NewRouter()
	r.Route("/catalog", h.MountRoutes)

	for _, path := range []string{"/catalog/servers", "/catalog/vms", "/catalog/algorithms", "/catalog/algorithms/metrics", "/catalog/energy", "/catalog/energy/breakdown", "/catalog/qtable"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rr.Code, path)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"), path)
	}
}

func TestCreateVMValidation(t *testing.T) {
	h, c := newTestHandler()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/catalog/vms", strings.NewReader(`{"cpuUsage":10,"ramUsage":20}`))
	h.CreateVM(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Len(t, c.VMs(), 6)

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/catalog/vms", strings.NewReader(`{"serverId":"server-2","cpuUsage":10,"ramUsage":20}`))
	h.CreateVM(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, c.VMs(), 7)
}

func TestEnergyCSVExport(t *testing.T) {
	h, _ := newTestHandler()

	rr := httptest.NewRecorder()
	h.exportEnergyCSV(rr, httptest.NewRequest(http.MethodGet, "/catalog/energy/export", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/csv", rr.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 13)
	require.Equal(t, "time,consumption_watts,efficiency_pct,cost_usd", strings.TrimSpace(lines[0]))
	require.Contains(t, lines[1], "00:00,1200,85,24.5")
}

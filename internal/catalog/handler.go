package catalog

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/scro-cloud/scro/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the dashboard datasets.
type Handler struct {
	catalog   *Catalog
	logger    *slog.Logger
	validator *validator.Validate
	printer   *message.Printer
}

// NewHandler constructs a Handler instance.
func NewHandler(catalog *Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:   catalog,
		logger:    logger,
		validator: validator.New(),
		printer:   message.NewPrinter(language.English),
	}
}

// MountRoutes registers the read-only dataset routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/servers", h.servers)
	r.Get("/vms", h.vms)
	r.Get("/algorithms", h.algorithms)
	r.Get("/algorithms/metrics", h.metrics)
	r.Get("/energy", h.energy)
	r.Get("/energy/breakdown", h.breakdown)
	r.Get("/energy/export", h.exportEnergyCSV)
	r.Get("/qtable", h.qtable)
}

func (h *Handler) servers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.Servers())
}

func (h *Handler) vms(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.VMs())
}

func (h *Handler) algorithms(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.Algorithms())
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.Metrics())
}

func (h *Handler) energy(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.EnergySeries())
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.EnergyBreakdown())
}

func (h *Handler) qtable(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.QTable())
}

type createVMRequest struct {
	ServerID string `json:"serverId" validate:"required"`
	CPUUsage int    `json:"cpuUsage" validate:"min=0,max=100"`
	RAMUsage int    `json:"ramUsage" validate:"min=0,max=100"`
}

// CreateVM appends a placement to the inventory. The route is mounted
// behind the admin guard.
func (h *Handler) CreateVM(w http.ResponseWriter, r *http.Request) {
	var req createVMRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	vm := h.catalog.AddVM(VM{
		ID:       fmt.Sprintf("vm-%03d", len(h.catalog.VMs())+1),
		ServerID: req.ServerID,
		CPUUsage: req.CPUUsage,
		RAMUsage: req.RAMUsage,
	})
	h.logger.Info("vm added", slog.String("vm_id", vm.ID), slog.String("server_id", vm.ServerID))
	httpx.JSON(w, http.StatusCreated, vm)
}

func (h *Handler) exportEnergyCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="energy_metrics.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"time", "consumption_watts", "efficiency_pct", "cost_usd"}); err != nil {
		h.logger.Error("write csv header", slog.Any("error", err))
		return
	}
	for _, point := range h.catalog.EnergySeries() {
		row := []string{
			point.Time,
			strconv.Itoa(point.Consumption),
			strconv.Itoa(point.Efficiency),
			h.printer.Sprintf("%.1f", point.Cost),
		}
		if err := writer.Write(row); err != nil {
			h.logger.Error("write csv row", slog.Any("error", err))
			return
		}
	}
	writer.Flush()
}

// Package catalog serves the fixed datasets behind the dashboard
// views: the server fleet, the VM inventory, the placement algorithms
// and the energy figures. Everything here is simulated study data.
package catalog

import (
	"math/rand"
	"sync"
	"time"
)

// ServerStatus classifies server health from resource pressure.
type ServerStatus string

const (
	StatusHealthy  ServerStatus = "healthy"
	StatusWarning  ServerStatus = "warning"
	StatusCritical ServerStatus = "critical"
)

// Server is one machine in the simulated fleet.
type Server struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	CPUUsage          int          `json:"cpuUsage"`
	RAMUsage          int          `json:"ramUsage"`
	Temperature       int          `json:"temperature"`
	UptimeMinutes     int          `json:"uptime"`
	VMCount           int          `json:"vmCount"`
	EnergyConsumption int          `json:"energyConsumption"`
	Status            ServerStatus `json:"status"`
}

// VMStatus enumerates VM lifecycle states.
type VMStatus string

const (
	VMRunning  VMStatus = "running"
	VMMigrated VMStatus = "migrated"
	VMIdle     VMStatus = "idle"
)

// VM is one virtual machine placement.
type VM struct {
	ID        string    `json:"id"`
	ServerID  string    `json:"serverId"`
	CPUUsage  int       `json:"cpuUsage"`
	RAMUsage  int       `json:"ramUsage"`
	Status    VMStatus  `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Algorithm describes a placement strategy under comparison.
type Algorithm struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Complexity  string `json:"complexity"`
	Type        string `json:"type"`
}

// AlgorithmMetrics are the benchmark figures per algorithm.
type AlgorithmMetrics struct {
	Algorithm           string  `json:"algorithm"`
	EnergyEfficiency    int     `json:"energyEfficiency"`
	PlacementSuccess    int     `json:"placementSuccess"`
	AvgResponseTime     int     `json:"avgResponseTime"`
	Cost                float64 `json:"cost"`
	ResourceUtilization int     `json:"resourceUtilization"`
	MigrationCount      int     `json:"migrationCount"`
}

// EnergyPoint is one sample of the 24h consumption series.
type EnergyPoint struct {
	Time        string  `json:"time"`
	Consumption int     `json:"consumption"`
	Efficiency  int     `json:"efficiency"`
	Cost        float64 `json:"cost"`
}

// EnergyShare is one slice of the per-class energy breakdown.
type EnergyShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// QValue is one cell of the simulated Q-table.
type QValue struct {
	State  int     `json:"state"`
	Action int     `json:"action"`
	Value  float64 `json:"value"`
}

// Catalog holds the datasets. Servers, algorithms and energy figures
// are fixed; the VM inventory is mutable in-process (admins can add
// placements) and resets on restart.
type Catalog struct {
	mu      sync.RWMutex
	servers []Server
	vms     []VM

	algorithms []Algorithm
	metrics    []AlgorithmMetrics
	energy     []EnergyPoint
	breakdown  []EnergyShare
	qtable     []QValue
}

// New constructs a Catalog. seed drives the simulated Q-table so runs
// are reproducible under test.
func New(seed int64) *Catalog {
	c := &Catalog{
		servers:    seedServers(),
		vms:        seedVMs(),
		algorithms: seedAlgorithms(),
		metrics:    seedMetrics(),
		energy:     seedEnergy(),
		breakdown:  seedBreakdown(),
	}
	rng := rand.New(rand.NewSource(seed))
	for state := 0; state < 10; state++ {
		for action := 0; action < 8; action++ {
			c.qtable = append(c.qtable, QValue{State: state, Action: action, Value: rng.Float64()*2 - 1})
		}
	}
	return c
}

// Servers returns the fleet with derived health status.
func (c *Catalog) Servers() []Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Server, len(c.servers))
	copy(out, c.servers)
	return out
}

// VMs returns the current VM inventory.
func (c *Catalog) VMs() []VM {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]VM, len(c.vms))
	copy(out, c.vms)
	return out
}

// AddVM appends a placement to the in-memory inventory.
func (c *Catalog) AddVM(vm VM) VM {
	c.mu.Lock()
	defer c.mu.Unlock()
	vm.CreatedAt = time.Now().UTC()
	if vm.Status == "" {
		vm.Status = VMRunning
	}
	c.vms = append(c.vms, vm)
	return vm
}

// Algorithms returns the strategies under comparison.
func (c *Catalog) Algorithms() []Algorithm { return c.algorithms }

// Metrics returns the benchmark figures.
func (c *Catalog) Metrics() []AlgorithmMetrics { return c.metrics }

// EnergySeries returns the 24h consumption series.
func (c *Catalog) EnergySeries() []EnergyPoint { return c.energy }

// EnergyBreakdown returns the per-class consumption shares.
func (c *Catalog) EnergyBreakdown() []EnergyShare { return c.breakdown }

// QTable returns the simulated Q-table cells.
func (c *Catalog) QTable() []QValue { return c.qtable }

// statusFor applies the dashboard health thresholds.
func statusFor(cpu, ram, temperature int) ServerStatus {
	switch {
	case cpu > 85 || ram > 85 || temperature > 55:
		return StatusCritical
	case cpu > 70 || ram > 70 || temperature > 50:
		return StatusWarning
	default:
		return StatusHealthy
	}
}

func seedServers() []Server {
	servers := []Server{
		{ID: "server-1", Name: "Web Server 01", CPUUsage: 45, RAMUsage: 62, Temperature: 45, UptimeMinutes: 1450, VMCount: 8, EnergyConsumption: 285},
		{ID: "server-2", Name: "Database Server", CPUUsage: 78, RAMUsage: 84, Temperature: 52, UptimeMinutes: 2890, VMCount: 12, EnergyConsumption: 342},
		{ID: "server-3", Name: "App Server 01", CPUUsage: 23, RAMUsage: 38, Temperature: 38, UptimeMinutes: 850, VMCount: 5, EnergyConsumption: 198},
		{ID: "server-4", Name: "Cache Server", CPUUsage: 89, RAMUsage: 91, Temperature: 58, UptimeMinutes: 3200, VMCount: 15, EnergyConsumption: 398},
		{ID: "server-5", Name: "Storage Server", CPUUsage: 34, RAMUsage: 56, Temperature: 42, UptimeMinutes: 1920, VMCount: 7, EnergyConsumption: 256},
		{ID: "server-6", Name: "Backup Server", CPUUsage: 12, RAMUsage: 28, Temperature: 35, UptimeMinutes: 5400, VMCount: 3, EnergyConsumption: 145},
	}
	for i := range servers {
		servers[i].Status = statusFor(servers[i].CPUUsage, servers[i].RAMUsage, servers[i].Temperature)
	}
	return servers
}

func seedVMs() []VM {
	now := time.Now().UTC()
	return []VM{
		{ID: "vm-001", ServerID: "server-1", CPUUsage: 45, RAMUsage: 62, Status: VMRunning, CreatedAt: now},
		{ID: "vm-002", ServerID: "server-2", CPUUsage: 78, RAMUsage: 84, Status: VMRunning, CreatedAt: now},
		{ID: "vm-003", ServerID: "server-1", CPUUsage: 23, RAMUsage: 38, Status: VMIdle, CreatedAt: now},
		{ID: "vm-004", ServerID: "server-3", CPUUsage: 89, RAMUsage: 91, Status: VMMigrated, CreatedAt: now},
		{ID: "vm-005", ServerID: "server-2", CPUUsage: 34, RAMUsage: 45, Status: VMRunning, CreatedAt: now},
		{ID: "vm-006", ServerID: "server-4", CPUUsage: 67, RAMUsage: 72, Status: VMRunning, CreatedAt: now},
	}
}

func seedAlgorithms() []Algorithm {
	return []Algorithm{
		{ID: "first-fit", Name: "First-Fit", Description: "Places VMs on the first server with sufficient resources", Complexity: "O(n)", Type: "Static"},
		{ID: "best-fit", Name: "Best-Fit", Description: "Places VMs on the server with the least remaining resources after allocation", Complexity: "O(n log n)", Type: "Static"},
		{ID: "q-learning", Name: "Q-Learning", Description: "Uses reinforcement learning to optimize VM placement dynamically", Complexity: "O(|S| x |A|)", Type: "Dynamic"},
	}
}

func seedMetrics() []AlgorithmMetrics {
	return []AlgorithmMetrics{
		{Algorithm: "First-Fit", EnergyEfficiency: 72, PlacementSuccess: 85, AvgResponseTime: 245, Cost: 34.1, ResourceUtilization: 68, MigrationCount: 12},
		{Algorithm: "Best-Fit", EnergyEfficiency: 78, PlacementSuccess: 91, AvgResponseTime: 198, Cost: 30.2, ResourceUtilization: 74, MigrationCount: 8},
		{Algorithm: "Q-Learning", EnergyEfficiency: 89, PlacementSuccess: 96, AvgResponseTime: 156, Cost: 25.4, ResourceUtilization: 86, MigrationCount: 4},
	}
}

func seedEnergy() []EnergyPoint {
	return []EnergyPoint{
		{Time: "00:00", Consumption: 1200, Efficiency: 85, Cost: 24.5},
		{Time: "02:00", Consumption: 1080, Efficiency: 88, Cost: 22.1},
		{Time: "04:00", Consumption: 980, Efficiency: 92, Cost: 20.3},
		{Time: "06:00", Consumption: 1150, Efficiency: 87, Cost: 23.8},
		{Time: "08:00", Consumption: 1450, Efficiency: 78, Cost: 29.2},
		{Time: "10:00", Consumption: 1620, Efficiency: 75, Cost: 32.8},
		{Time: "12:00", Consumption: 1680, Efficiency: 82, Cost: 34.1},
		{Time: "14:00", Consumption: 1590, Efficiency: 84, Cost: 31.9},
		{Time: "16:00", Consumption: 1520, Efficiency: 88, Cost: 30.2},
		{Time: "18:00", Consumption: 1380, Efficiency: 89, Cost: 27.6},
		{Time: "20:00", Consumption: 1340, Efficiency: 90, Cost: 26.8},
		{Time: "22:00", Consumption: 1280, Efficiency: 87, Cost: 25.4},
	}
}

func seedBreakdown() []EnergyShare {
	return []EnergyShare{
		{Name: "Web Servers", Value: 35},
		{Name: "Database", Value: 28},
		{Name: "Storage", Value: 20},
		{Name: "Cache", Value: 12},
		{Name: "Other", Value: 5},
	}
}

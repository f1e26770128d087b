// Package telemetry simulates the cluster metrics stream the dashboard
// renders. Snapshots are synthetic: there is no real scheduler or
// energy meter behind them.
package telemetry

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerSample is the per-server slice of a snapshot.
type ServerSample struct {
	ID                string `json:"id"`
	CPUUsage          int    `json:"cpuUsage"`
	RAMUsage          int    `json:"ramUsage"`
	EnergyConsumption int    `json:"energyConsumption"`
}

// Snapshot is one full-replacement metrics emission. Each snapshot
// supersedes the previous one; consumers never queue them.
type Snapshot struct {
	Timestamp        time.Time      `json:"timestamp"`
	Servers          []ServerSample `json:"servers"`
	TotalEnergy      int            `json:"totalEnergy"`
	ActiveVMs        int            `json:"activeVMs"`
	LearningProgress int            `json:"learningProgress"`
}

const serverCount = 6

// Feed generates snapshots on a fixed cadence and broadcasts them to
// subscribers. Independent of session state.
type Feed struct {
	interval time.Duration

	mu     sync.Mutex
	rng    *rand.Rand
	subs   map[chan Snapshot]struct{}
	latest *Snapshot

	totalEnergy      prometheus.Gauge
	activeVMs        prometheus.Gauge
	learningProgress prometheus.Gauge
}

// NewFeed constructs a Feed ticking at the given interval. reg may be
// nil to skip metrics registration.
func NewFeed(interval time.Duration, reg prometheus.Registerer) *Feed {
	f := &Feed{
		interval:         interval,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
		subs:             make(map[chan Snapshot]struct{}),
		totalEnergy:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "scro_telemetry_total_energy_watts", Help: "Simulated total energy draw."}),
		activeVMs:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "scro_telemetry_active_vms", Help: "Simulated running VM count."}),
		learningProgress: prometheus.NewGauge(prometheus.GaugeOpts{Name: "scro_telemetry_learning_progress", Help: "Simulated Q-learning progress percentage."}),
	}
	if reg != nil {
		reg.MustRegister(f.totalEnergy, f.activeVMs, f.learningProgress)
	}
	return f
}

// Run emits a snapshot immediately and then on every tick until the
// context is cancelled. Subscriber channels are closed on return.
func (f *Feed) Run(ctx context.Context) error {
	f.publish(f.generate())
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.closeSubscribers()
			return nil
		case <-ticker.C:
			f.publish(f.generate())
		}
	}
}

// Subscribe registers a consumer. The channel carries the latest
// snapshot only: a slow consumer loses superseded snapshots instead of
// queueing them. The channel is closed when ctx is cancelled or the
// feed stops.
func (f *Feed) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}()
	return ch
}

// Latest returns the most recent snapshot, if any has been emitted.
func (f *Feed) Latest() (Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return Snapshot{}, false
	}
	return *f.latest, true
}

func (f *Feed) generate() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	servers := make([]ServerSample, serverCount)
	for i := range servers {
		servers[i] = ServerSample{
			ID:                fmt.Sprintf("server-%d", i+1),
			CPUUsage:          f.rng.Intn(100),
			RAMUsage:          f.rng.Intn(100),
			EnergyConsumption: f.rng.Intn(500) + 100,
		}
	}
	progress := f.rng.Intn(100) + 75
	if progress > 100 {
		progress = 100
	}
	return Snapshot{
		Timestamp:        time.Now().UTC(),
		Servers:          servers,
		TotalEnergy:      f.rng.Intn(2000) + 1000,
		ActiveVMs:        f.rng.Intn(50) + 20,
		LearningProgress: progress,
	}
}

func (f *Feed) publish(snap Snapshot) {
	f.totalEnergy.Set(float64(snap.TotalEnergy))
	f.activeVMs.Set(float64(snap.ActiveVMs))
	f.learningProgress.Set(float64(snap.LearningProgress))

	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = &snap
	for ch := range f.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale snapshot the consumer never read.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (f *Feed) closeSubscribers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		delete(f.subs, ch)
		close(ch)
	}
}

// Package monitor implements the availability monitor: a background tick
// that scrapes per-entry counters, computes error ratios, and feeds decay
// or recovery adjustments back into the weight store. It never blocks the
// executor — every weight write is a single atomic CAS.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-network/rpc-gateway/internal/envelope"
	"github.com/synnergy-network/rpc-gateway/internal/registry"
	"github.com/synnergy-network/rpc-gateway/internal/weight"
)

const (
	// DefaultInterval is the fixed tick period described in §4.E.
	DefaultInterval = 60 * time.Second
	// HighWater is the error ratio above which a provider's weight decays.
	HighWater = 0.5
	// LowWater is the error ratio below which a provider's weight recovers.
	LowWater = 0.1
	// DecayFactor multiplies weight when a provider is unhealthy.
	DecayFactor = 0.5
	// RecoveryFactor multiplies weight when a provider is healthy again.
	RecoveryFactor = 1.5
	// WeightFloor is the minimum weight left after decay, keeping the
	// provider eligible to be probed rather than permanently excluded.
	WeightFloor = 1.0
)

// Monitor owns the previous-tick counter snapshots needed to compute
// per-tick deltas without mutating registry.Entry itself.
type Monitor struct {
	reg      *registry.Registry
	log      *logrus.Logger
	interval time.Duration

	mu   sync.Mutex
	prev map[*registry.Entry]registry.Counters

	availability *prometheus.GaugeVec
	retries      *prometheus.CounterVec
	statusHist   *prometheus.CounterVec
}

// New builds a Monitor ticking at interval (DefaultInterval if zero) over
// reg, registering its metrics with registerer (skipped if registerer is nil).
func New(reg *registry.Registry, log *logrus.Logger, interval time.Duration, registerer prometheus.Registerer) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Monitor{
		reg:      reg,
		log:      log,
		interval: interval,
		prev:     make(map[*registry.Entry]registry.Counters),
		availability: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rpc_gateway_provider_availability",
			Help: "Fraction of non-error attempts in the most recent monitor tick, per provider/chain.",
		}, []string{"chain", "provider"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpc_gateway_provider_retries_total",
			Help: "Count of attempts against a provider that were not terminal.",
		}, []string{"chain", "provider"}),
		statusHist: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpc_gateway_provider_status_total",
			Help: "Per-provider outcome status counts.",
		}, []string{"chain", "provider", "status"}),
	}
	if registerer != nil {
		registerer.MustRegister(m.availability, m.retries, m.statusHist)
	}
	return m
}

// Run blocks, ticking every interval until ctx is cancelled. Call it from
// its own goroutine.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick runs one monitor pass over every registered entry. It is exported
// so tests can drive it deterministically instead of waiting on the ticker.
func (m *Monitor) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.reg.AllEntries() {
		cur := e.Snapshot()
		prev := m.prev[e]
		delta := deltaCounters(prev, cur)
		m.prev[e] = cur

		if delta.Attempts == 0 {
			continue
		}
		m.adjustWeight(e, delta)
		m.emitMetrics(e, delta)
	}
}

func deltaCounters(prev, cur registry.Counters) registry.Counters {
	var d registry.Counters
	d.Attempts = cur.Attempts - prev.Attempts
	for i := range cur.ByStatus {
		d.ByStatus[i] = cur.ByStatus[i] - prev.ByStatus[i]
	}
	return d
}

func (m *Monitor) adjustWeight(e *registry.Entry, delta registry.Counters) {
	errs := delta.TransientErrors()
	ratio := float64(errs) / float64(delta.Attempts)
	initial := e.Priority.InitialWeight()
	key := weight.Key{Kind: e.Kind.String(), Chain: e.Chain}

	store := m.reg.WeightStore()
	switch {
	case ratio > HighWater:
		store.Update(key, func(cur float64) float64 {
			next := cur * DecayFactor
			if next < WeightFloor {
				next = WeightFloor
			}
			return next
		})
	case ratio < LowWater:
		store.Update(key, func(cur float64) float64 {
			if cur >= initial {
				return cur
			}
			next := cur * RecoveryFactor
			if next > initial {
				next = initial
			}
			return next
		})
	}
}

func (m *Monitor) emitMetrics(e *registry.Entry, delta registry.Counters) {
	chainLabel := string(e.Chain)
	providerLabel := e.Kind.String()

	avail := float64(delta.Attempts-delta.Errors()) / float64(delta.Attempts)
	m.availability.WithLabelValues(chainLabel, providerLabel).Set(avail)

	if retryable := delta.Errors() - delta.ByStatus[envelope.UpstreamBadRequest]; retryable > 0 {
		m.retries.WithLabelValues(chainLabel, providerLabel).Add(float64(retryable))
	}
	statusNames := []string{"ok", "rate_limited", "upstream_5xx", "upstream_bad_request", "timeout", "network", "non_json"}
	for i, n := range delta.ByStatus {
		if n == 0 {
			continue
		}
		m.statusHist.WithLabelValues(chainLabel, providerLabel, statusNames[i]).Add(float64(n))
	}

	m.log.WithFields(logrus.Fields{
		"chain":    chainLabel,
		"provider": providerLabel,
		"attempts": delta.Attempts,
		"errors":   delta.Errors(),
		"weight":   m.reg.Weight(e),
	}).Debug("availability monitor tick")
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records pricing engine activity.
type PricingMetrics struct {
	duration  *prometheus.HistogramVec
	computed  *prometheus.CounterVec
	overrides prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_compute_duration_seconds",
		Help:    "Duration of unit price computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	computed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_computations_total",
		Help: "Unit price computations, labelled by rule applications.",
	}, []string{"zone_applied", "tier_applied"})
	overrides := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_manual_overrides_total",
		Help: "Manual price overrides recorded.",
	})
	reg.MustRegister(duration, computed, overrides)
	return &PricingMetrics{
		duration:  duration,
		computed:  computed,
		overrides: overrides,
	}
}

// ObserveCompute records the duration of a computation and its outcome.
func (p *PricingMetrics) ObserveCompute(outcome string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncComputed counts a computation, recording which rule kinds applied.
func (p *PricingMetrics) IncComputed(zoneApplied, tierApplied bool) {
	if p == nil || p.computed == nil {
		return
	}
	p.computed.WithLabelValues(boolLabel(zoneApplied), boolLabel(tierApplied)).Inc()
}

// IncOverride counts a manual price override.
func (p *PricingMetrics) IncOverride() {
	if p == nil || p.overrides == nil {
		return
	}
	p.overrides.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

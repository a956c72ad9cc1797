package instrument

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reago-dev/reago/pkg/reactive"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reago").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry MustRegister uses.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// defaultConfig returns the default collector configuration.
func defaultConfig() Config {
	return Config{
		Namespace: "reago",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector is a prometheus.Collector reading a Runtime's counters on
// every scrape. The counters are plain snapshots; scrape from the
// goroutine that owns the Runtime, or accept values that may lag one
// write behind.
//
// Metrics exposed:
//   - reago_track_operations_total: Counter of dependency edges recorded
//   - reago_trigger_resolutions_total: Counter of trigger resolutions
//   - reago_effect_runs_total: Counter of tracked effect executions
//   - reago_computed_recomputes_total: Counter of computed recomputations
//   - reago_dependency_sets: Gauge of live Dependency Sets
//   - reago_active_effects: Gauge of live effects
type Collector struct {
	rt *reactive.Runtime

	tracks     *prometheus.Desc
	triggers   *prometheus.Desc
	effectRuns *prometheus.Desc
	recomputes *prometheus.Desc
	depSets    *prometheus.Desc
	effects    *prometheus.Desc
}

// NewCollector builds a collector over rt without registering it.
func NewCollector(rt *reactive.Runtime, opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return newCollector(rt, config)
}

func newCollector(rt *reactive.Runtime, config Config) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(config.Namespace, config.Subsystem, n)
	}

	return &Collector{
		rt: rt,
		tracks: prometheus.NewDesc(name("track_operations_total"),
			"Total number of dependency edges recorded", nil, config.ConstLabels),
		triggers: prometheus.NewDesc(name("trigger_resolutions_total"),
			"Total number of trigger resolutions performed", nil, config.ConstLabels),
		effectRuns: prometheus.NewDesc(name("effect_runs_total"),
			"Total number of tracked effect executions", nil, config.ConstLabels),
		recomputes: prometheus.NewDesc(name("computed_recomputes_total"),
			"Total number of computed value recomputations", nil, config.ConstLabels),
		depSets: prometheus.NewDesc(name("dependency_sets"),
			"Number of live Dependency Sets in the store", nil, config.ConstLabels),
		effects: prometheus.NewDesc(name("active_effects"),
			"Number of effects created and not yet stopped", nil, config.ConstLabels),
	}
}

// MustRegister builds a collector over rt and registers it with the
// configured registry, panicking on registration conflicts.
func MustRegister(rt *reactive.Runtime, opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	c := newCollector(rt, config)
	config.Registry.MustRegister(c)
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tracks
	ch <- c.triggers
	ch <- c.effectRuns
	ch <- c.recomputes
	ch <- c.depSets
	ch <- c.effects
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.rt.Stats()
	ch <- prometheus.MustNewConstMetric(c.tracks, prometheus.CounterValue, float64(s.Tracks))
	ch <- prometheus.MustNewConstMetric(c.triggers, prometheus.CounterValue, float64(s.Triggers))
	ch <- prometheus.MustNewConstMetric(c.effectRuns, prometheus.CounterValue, float64(s.EffectRuns))
	ch <- prometheus.MustNewConstMetric(c.recomputes, prometheus.CounterValue, float64(s.ComputedRecomputes))
	ch <- prometheus.MustNewConstMetric(c.depSets, prometheus.GaugeValue, float64(s.DepSets))
	ch <- prometheus.MustNewConstMetric(c.effects, prometheus.GaugeValue, float64(s.ActiveEffects))
}

var _ prometheus.Collector = (*Collector)(nil)

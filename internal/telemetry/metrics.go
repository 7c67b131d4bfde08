package telemetry

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics exposes the telemetry methods required by server components.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// Metric keys recorded by the arena.
const (
	MetricTicks          = "arena_ticks_total"
	MetricTickOverruns   = "arena_tick_overruns_total"
	MetricShots          = "agent_shots_total"
	MetricReplans        = "agent_replans_total"
	MetricCollisions     = "agent_collisions_total"
	MetricSpectators     = "spectators_connected"
	MetricLastTickMicros = "arena_last_tick_micros"
)

// Counters is an in-process Metrics implementation that keeps the latest
// value per key. It backs the diagnostics endpoint and tests.
type Counters struct {
	mu     sync.Mutex
	values map[string]uint64
}

func NewCounters() *Counters {
	return &Counters{values: make(map[string]uint64)}
}

func (c *Counters) Add(key string, delta uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] += delta
}

func (c *Counters) Store(key string, value uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] = value
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() map[string]uint64 {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Keys lists recorded keys in sorted order.
func (c *Counters) Keys() []string {
	snapshot := c.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OTel records Add as Int64Counter increments and Store as Int64Gauge
// readings. Instruments are created lazily per key.
type OTel struct {
	meter  metric.Meter
	attrs  metric.MeasurementOption
	mu     sync.Mutex
	counts map[string]metric.Int64Counter
	gauges map[string]metric.Int64Gauge
	failed map[string]struct{}
}

// NewOTel records through meter. A nil meter uses the global provider, which
// is a no-op until one is installed.
func NewOTel(meter metric.Meter, attrs ...attribute.KeyValue) *OTel {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter("tank-arena")
	}
	return &OTel{
		meter:  meter,
		attrs:  metric.WithAttributes(attrs...),
		counts: make(map[string]metric.Int64Counter),
		gauges: make(map[string]metric.Int64Gauge),
		failed: make(map[string]struct{}),
	}
}

func (o *OTel) Add(key string, delta uint64) {
	if o == nil {
		return
	}
	counter, ok := o.counter(key)
	if !ok {
		return
	}
	counter.Add(context.Background(), int64(delta), o.attrs)
}

func (o *OTel) Store(key string, value uint64) {
	if o == nil {
		return
	}
	gauge, ok := o.gauge(key)
	if !ok {
		return
	}
	gauge.Record(context.Background(), int64(value), o.attrs)
}

func (o *OTel) counter(key string) (metric.Int64Counter, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if counter, ok := o.counts[key]; ok {
		return counter, true
	}
	if _, failed := o.failed[key]; failed {
		return nil, false
	}
	counter, err := o.meter.Int64Counter(key)
	if err != nil {
		o.failed[key] = struct{}{}
		return nil, false
	}
	o.counts[key] = counter
	return counter, true
}

func (o *OTel) gauge(key string) (metric.Int64Gauge, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gauge, ok := o.gauges[key]; ok {
		return gauge, true
	}
	if _, failed := o.failed[key]; failed {
		return nil, false
	}
	gauge, err := o.meter.Int64Gauge(key)
	if err != nil {
		o.failed[key] = struct{}{}
		return nil, false
	}
	o.gauges[key] = gauge
	return gauge, true
}

// Fanout forwards every call to each non-nil sink.
func Fanout(sinks ...Metrics) Metrics {
	kept := make(multi, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	return kept
}

type multi []Metrics

func (m multi) Add(key string, delta uint64) {
	for _, sink := range m {
		sink.Add(key, delta)
	}
}

func (m multi) Store(key string, value uint64) {
	for _, sink := range m {
		sink.Store(key, value)
	}
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) Add(string, uint64)   {}
func (Nop) Store(string, uint64) {}

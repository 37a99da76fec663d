package metrics

import (
	"sync"
	"sync/atomic"
)

// Basic is an in-memory Provider. Instruments are created on demand by name
// and reused for the same name; recorded values can be read back through
// CounterValue, UpDownValue, and HistogramSnapshot.
type Basic struct {
	mu         sync.Mutex
	counters   map[string]*gauge
	updowns    map[string]*gauge
	histograms map[string]*histogram
	meta       map[string]Config
}

// NewBasic constructs an empty Basic provider.
func NewBasic() *Basic {
	return &Basic{
		counters:   make(map[string]*gauge),
		updowns:    make(map[string]*gauge),
		histograms: make(map[string]*histogram),
		meta:       make(map[string]Config),
	}
}

func (b *Basic) Counter(name string, opts ...Option) Counter {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.counters[name]
	if !ok {
		g = &gauge{}
		b.counters[name] = g
		b.meta[name] = applyOptions(opts)
	}
	return g
}

func (b *Basic) UpDownCounter(name string, opts ...Option) UpDownCounter {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.updowns[name]
	if !ok {
		g = &gauge{}
		b.updowns[name] = g
		b.meta[name] = applyOptions(opts)
	}
	return g
}

func (b *Basic) Histogram(name string, opts ...Option) Histogram {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.histograms[name]
	if !ok {
		h = &histogram{}
		b.histograms[name] = h
		b.meta[name] = applyOptions(opts)
	}
	return h
}

// CounterValue returns the current value of the named counter (0 if unknown).
func (b *Basic) CounterValue(name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g, ok := b.counters[name]; ok {
		return g.val.Load()
	}
	return 0
}

// UpDownValue returns the current value of the named up/down counter.
func (b *Basic) UpDownValue(name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g, ok := b.updowns[name]; ok {
		return g.val.Load()
	}
	return 0
}

// InstrumentConfig returns the metadata recorded at instrument creation.
func (b *Basic) InstrumentConfig(name string) (Config, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cfg, ok := b.meta[name]
	return cfg, ok
}

// HistSnapshot is an immutable view of a histogram's state.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// HistogramSnapshot returns a snapshot of the named histogram.
func (b *Basic) HistogramSnapshot(name string) (HistSnapshot, bool) {
	b.mu.Lock()
	h, ok := b.histograms[name]
	b.mu.Unlock()
	if !ok {
		return HistSnapshot{}, false
	}
	return h.snapshot(), true
}

type gauge struct {
	val atomic.Int64
}

func (g *gauge) Add(n int64) { g.val.Add(n) }

type histogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

func (h *histogram) Record(v float64) {
	h.mu.Lock()
	if h.count == 0 {
		h.min, h.max = v, v
	} else {
		if v < h.min {
			h.min = v
		}
		if v > h.max {
			h.max = v
		}
	}
	h.count++
	h.sum += v
	h.mu.Unlock()
}

func (h *histogram) snapshot() HistSnapshot {
	h.mu.Lock()
	s := HistSnapshot{Count: h.count, Sum: h.sum, Min: h.min, Max: h.max}
	h.mu.Unlock()
	if s.Count > 0 {
		s.Mean = s.Sum / float64(s.Count)
	}
	return s
}

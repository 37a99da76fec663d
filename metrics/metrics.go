// Package metrics defines the instrumentation seam of the executor. The
// default provider discards everything; Basic offers an in-memory
// implementation for tests and lightweight applications. Adapters to real
// metrics backends implement Provider.
package metrics

// Provider constructs instruments used to record measurements.
// Implementations must be safe for concurrent use.
type Provider interface {
	Counter(name string, opts ...Option) Counter
	UpDownCounter(name string, opts ...Option) UpDownCounter
	Histogram(name string, opts ...Option) Histogram
}

// Counter records monotonic counts.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that can move up or down (e.g., in-flight
// task count).
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of float64 measurements (e.g., durations
// in seconds).
type Histogram interface {
	Record(v float64)
}

// Config carries advisory instrument metadata. Implementations may ignore it.
type Config struct {
	Description string
	Unit        string
	// Attributes are static key-value pairs tied to the instrument itself.
	// Keep cardinality bounded.
	Attributes map[string]string
}

// Option mutates Config.
type Option func(*Config)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) Option {
	return func(c *Config) { c.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g., "1", "seconds").
func WithUnit(unit string) Option {
	return func(c *Config) { c.Unit = unit }
}

// WithAttributes attaches static attributes to the instrument.
func WithAttributes(attrs map[string]string) Option {
	return func(c *Config) {
		if len(attrs) == 0 {
			return
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			c.Attributes[k] = v
		}
	}
}

func applyOptions(opts []Option) Config {
	var cfg Config
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Noop is a Provider that discards all measurements. It is the executor's
// default.
type Noop struct{}

func (Noop) Counter(string, ...Option) Counter { return noopInstrument{} }

func (Noop) UpDownCounter(string, ...Option) UpDownCounter { return noopInstrument{} }

func (Noop) Histogram(string, ...Option) Histogram { return noopInstrument{} }

type noopInstrument struct{}

func (noopInstrument) Add(int64)      {}
func (noopInstrument) Record(float64) {}

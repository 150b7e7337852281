// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

// ProcessorConfig is the engine's read-only-after-construction
// configuration. It is built with functional options.
type ProcessorConfig struct {
	// SkipMalformed, when true, makes adapters drop unparsable input rows
	// instead of failing the whole batch.
	SkipMalformed bool
	// LogWarnings enables warning-level logs for skipped/rejected events.
	LogWarnings bool
	// DecimalPrecision is the display precision for account snapshots.
	// decimal.Decimal always renders at decimal.Scale (4); this field
	// exists to round-trip the configuration option even though the
	// current Decimal implementation does not parameterize its own
	// display scale.
	DecimalPrecision int
	// MaxTxHistory is the transaction log capacity. 0 means unbounded.
	MaxTxHistory int
	// LogLevel names a log level. cmd/ledger parses it for validation only;
	// it does not change the logger's verbosity, which stays at info and
	// above.
	LogLevel string
	// MetricsEnabled gates prometheus registration in the metrics package.
	MetricsEnabled bool
}

// DefaultConfig returns the permissive defaults: malformed input skipped
// rather than fatal, warnings on, four-digit display precision, unbounded
// transaction history.
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		SkipMalformed:    true,
		LogWarnings:      true,
		DecimalPrecision: 4,
		MaxTxHistory:     0,
		LogLevel:         "info",
		MetricsEnabled:   false,
	}
}

// ProductionConfig is DefaultConfig with a bounded transaction history
// and metrics turned on.
func ProductionConfig() ProcessorConfig {
	c := DefaultConfig()
	c.MaxTxHistory = 10_000_000
	c.MetricsEnabled = true
	return c
}

// StrictConfig fails fast on malformed input and stays quiet.
func StrictConfig() ProcessorConfig {
	c := DefaultConfig()
	c.SkipMalformed = false
	c.LogWarnings = false
	return c
}

// Option mutates a ProcessorConfig during construction.
type Option func(*ProcessorConfig)

// WithSkipMalformed sets SkipMalformed.
func WithSkipMalformed(skip bool) Option {
	return func(c *ProcessorConfig) { c.SkipMalformed = skip }
}

// WithLogWarnings sets LogWarnings.
func WithLogWarnings(log bool) Option {
	return func(c *ProcessorConfig) { c.LogWarnings = log }
}

// WithDecimalPrecision sets DecimalPrecision.
func WithDecimalPrecision(precision int) Option {
	return func(c *ProcessorConfig) { c.DecimalPrecision = precision }
}

// WithMaxTxHistory sets MaxTxHistory. max <= 0 means unbounded.
func WithMaxTxHistory(max int) Option {
	return func(c *ProcessorConfig) {
		if max < 0 {
			max = 0
		}
		c.MaxTxHistory = max
	}
}

// WithLogLevel sets LogLevel.
func WithLogLevel(level string) Option {
	return func(c *ProcessorConfig) { c.LogLevel = level }
}

// WithMetrics sets MetricsEnabled.
func WithMetrics(enabled bool) Option {
	return func(c *ProcessorConfig) { c.MetricsEnabled = enabled }
}

// NewConfig returns DefaultConfig with opts applied in order.
func NewConfig(opts ...Option) ProcessorConfig {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

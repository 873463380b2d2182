package cgen

import "go.uber.org/zap"

// DefaultIndent is one nesting level.
const DefaultIndent = "    "

// Option configures Generate and NewEmitter.
type Option func(*config)

type config struct {
	logger  *zap.Logger
	indent  string
	workers int
	strict  bool
}

func newConfig(opts []Option) *config {
	cfg := &config{indent: DefaultIndent}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}
	return cfg
}

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStrict makes Generate return its diagnostics as an error.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithWorkers bounds the number of function bodies emitted concurrently.
// Zero or less means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithIndent sets the string written per nesting level.
func WithIndent(indent string) Option {
	return func(c *config) { c.indent = indent }
}

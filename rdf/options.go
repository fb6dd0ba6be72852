package rdf

import "context"

const (
	// DefaultMaxLineBytes bounds a single input line.
	DefaultMaxLineBytes = 1 << 20
	// SafeMaxLineBytes is the line limit applied by OptSafeLimits.
	SafeMaxLineBytes = 64 << 10
	// SafeMaxTriples is the triple limit applied by OptSafeLimits.
	SafeMaxTriples = 10_000_000
)

// Option configures parser behavior.
type Option func(*Options)

// Options configures parser behavior and limits.
// Zero values use defaults. Use negative values to disable specific limits.
type Options struct {
	// Context provides cancellation, checked once per parse step.
	Context context.Context

	// MaxLineBytes bounds the line buffer, and with it every term buffer.
	MaxLineBytes int
	// MaxTriples bounds the number of triples delivered by one parser.
	MaxTriples int64

	// StrictIRIValidation runs ValidateIRI on every decoded IRI.
	StrictIRIValidation bool
}

func defaultOptions() Options {
	return Options{
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

func normalizeOptions(opts Options) Options {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.MaxLineBytes < 0 {
		opts.MaxLineBytes = 0
	}
	if opts.MaxTriples < 0 {
		opts.MaxTriples = 0
	}
	return opts
}

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxTriples sets the maximum number of triples to deliver.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptSafeLimits applies limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		opts.MaxLineBytes = SafeMaxLineBytes
		opts.MaxTriples = SafeMaxTriples
	}
}

// OptStrictIRIValidation enables RFC 3987 style validation of every IRI.
// Invalid IRIs become parse errors wrapping ErrInvalidIRI.
func OptStrictIRIValidation() Option {
	return func(opts *Options) {
		opts.StrictIRIValidation = true
	}
}

// Package config provides configuration loading for the rdfconv converter.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdfstream/rdf"
)

// Config represents the complete converter configuration
type Config struct {
	// Prefixes maps prefix to namespace IRI for element abbreviation
	Prefixes map[string]string `yaml:"prefixes"`
	// Indent is the number of spaces per nesting level (0 = single line)
	Indent int `yaml:"indent"`
	// TypedNodes writes a subject's first rdf:type as its element name
	TypedNodes bool `yaml:"typed_nodes"`
	// BlankNodeContraction nests a blank node's description under the property referencing it
	BlankNodeContraction bool `yaml:"blank_node_contraction"`

	// MaxLineBytes bounds a single input line (e.g. "1MiB"; 0 = library default)
	MaxLineBytes ByteSize `yaml:"max_line_bytes"`
	// MaxTriples bounds the triples read per input (0 = unlimited)
	MaxTriples int64 `yaml:"max_triples"`
	// StrictIRIs validates every IRI beyond the absolute-IRI check
	StrictIRIs bool `yaml:"strict_iris"`
	// SkipInvalid logs and skips malformed lines instead of failing the input
	SkipInvalid bool `yaml:"skip_invalid"`

	// Workers is the number of files converted concurrently
	Workers int `yaml:"workers"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// ByteSize is a byte count that unmarshals from either an integer or a
// human-readable size such as "64KiB" or "1 MB".
type ByteSize int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: byte size must be a scalar", value.Line)
	}
	n, err := ParseByteSize(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*b = n
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b ByteSize) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b ByteSize) String() string {
	if b <= 0 {
		return "0"
	}
	return humanize.IBytes(uint64(b))
}

// ParseByteSize parses a size such as "1048576", "512KiB" or "1MB".
func ParseByteSize(s string) (ByteSize, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("byte size %q too large", s)
	}
	return ByteSize(n), nil
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Prefixes:   map[string]string{},
		TypedNodes: true,
		Workers:    1,
		LogLevel:   "info",
	}
}

// Load loads configuration from a YAML file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Prefixes == nil {
		cfg.Prefixes = map[string]string{}
	}
	return cfg, nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.MaxLineBytes < 0 {
		return fmt.Errorf("max_line_bytes must not be negative")
	}
	if c.MaxTriples < 0 {
		return fmt.Errorf("max_triples must not be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	seen := make(map[string]string, len(c.Prefixes))
	for prefix, ns := range c.Prefixes {
		if other, ok := seen[ns]; ok {
			return fmt.Errorf("prefixes %q and %q both bind %s", other, prefix, ns)
		}
		seen[ns] = prefix
	}
	// The encoder owns the prefix rules; build one against a discarded sink.
	if _, err := rdf.NewRDFXMLAbbrevEncoder(io.Discard, c.AbbrevConfig()); err != nil {
		return fmt.Errorf("prefixes: %w", err)
	}
	return nil
}

// AbbrevConfig returns the serializer configuration.
func (c *Config) AbbrevConfig() rdf.AbbrevConfig {
	nsToPrefix := make(map[string]string, len(c.Prefixes))
	for prefix, ns := range c.Prefixes {
		nsToPrefix[ns] = prefix
	}
	return rdf.AbbrevConfig{
		Prefixes:             nsToPrefix,
		Indent:               c.Indent,
		TypedNodes:           c.TypedNodes,
		BlankNodeContraction: c.BlankNodeContraction,
	}
}

// ParserOptions returns the parser options implied by the limits.
func (c *Config) ParserOptions() []rdf.Option {
	var opts []rdf.Option
	if c.MaxLineBytes > 0 {
		opts = append(opts, rdf.OptMaxLineBytes(int(c.MaxLineBytes)))
	}
	if c.MaxTriples > 0 {
		opts = append(opts, rdf.OptMaxTriples(c.MaxTriples))
	}
	if c.StrictIRIs {
		opts = append(opts, rdf.OptStrictIRIValidation())
	}
	return opts
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

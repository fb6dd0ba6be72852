// Package main provides the rdfconv binary, which converts N-Triples files
// into abbreviated RDF/XML.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstream/internal/config"
	"github.com/geoknoesis/rdfstream/internal/convert"
	"github.com/geoknoesis/rdfstream/internal/metrics"
)

const (
	// Version is the release reported by the version subcommand.
	Version = "0.1.0"
	appName = "rdfconv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath     string
	outDir         string
	indent         int
	prefixes       map[string]string
	typedNodes     bool
	contractBNodes bool
	skipInvalid    bool
	workers        int
	maxLineBytes   string
	maxTriples     int64
	strictIRIs     bool
	metricsFile    string
	logLevel       string
}

func rootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   appName + " [flags] [files...]",
		Short: "Convert N-Triples to abbreviated RDF/XML",
		Long: `rdfconv streams N-Triples input into RDF/XML, grouping consecutive
triples of a subject under one element and writing typed node elements.

With no files it reads standard input and writes standard output. Each
file argument is written next to the input (or into --out-dir) with the
extension replaced by .rdf. Memory use is bounded by the longest input line.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts, args, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVarP(&opts.outDir, "out-dir", "o", "", "Directory for converted files (default: next to each input)")
	flags.IntVar(&opts.indent, "indent", 0, "Spaces per nesting level (0 = no line breaks)")
	flags.StringToStringVarP(&opts.prefixes, "prefix", "p", nil, "Namespace prefix as prefix=namespace (repeatable)")
	flags.BoolVar(&opts.typedNodes, "typed-nodes", true, "Use a subject's rdf:type as its element name")
	flags.BoolVar(&opts.contractBNodes, "contract-bnodes", false, "Nest blank node descriptions under the referencing property")
	flags.BoolVar(&opts.skipInvalid, "skip-invalid", false, "Log and skip malformed lines instead of failing")
	flags.IntVarP(&opts.workers, "workers", "j", 1, "Number of files converted concurrently")
	flags.StringVar(&opts.maxLineBytes, "max-line-bytes", "", "Maximum input line size, e.g. 64KiB (default 1MiB)")
	flags.Int64Var(&opts.maxTriples, "max-triples", 0, "Maximum triples per input (0 = unlimited)")
	flags.BoolVar(&opts.strictIRIs, "strict-iris", false, "Validate every IRI strictly")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile when done")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// loadConfig reads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("indent") {
		cfg.Indent = opts.indent
	}
	for prefix, ns := range opts.prefixes {
		cfg.Prefixes[prefix] = ns
	}
	if flags.Changed("typed-nodes") {
		cfg.TypedNodes = opts.typedNodes
	}
	if flags.Changed("contract-bnodes") {
		cfg.BlankNodeContraction = opts.contractBNodes
	}
	if flags.Changed("skip-invalid") {
		cfg.SkipInvalid = opts.skipInvalid
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if opts.maxLineBytes != "" {
		n, err := config.ParseByteSize(opts.maxLineBytes)
		if err != nil {
			return nil, fmt.Errorf("--max-line-bytes: %w", err)
		}
		cfg.MaxLineBytes = n
	}
	if flags.Changed("max-triples") {
		cfg.MaxTriples = opts.maxTriples
	}
	if flags.Changed("strict-iris") {
		cfg.StrictIRIs = opts.strictIRIs
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, opts options, files []string, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	m, err := metrics.New()
	if err != nil {
		return err
	}
	conv := convert.New(cfg, logger, m)

	if len(files) == 0 {
		_, err = conv.ConvertStream(ctx, stdin, stdout, "<stdin>")
	} else {
		var total convert.Stats
		total, err = conv.ConvertFiles(ctx, convert.Jobs(files, opts.outDir))
		logger.Debug("Conversion finished",
			slog.Int("files", len(files)),
			slog.Int64("triples", total.Written),
			slog.Int("skipped", total.Skipped))
	}

	if opts.metricsFile != "" {
		if merr := m.WriteTextfile(opts.metricsFile); merr != nil {
			logger.Error("Failed to write metrics", slog.String("path", opts.metricsFile), slog.String("error", merr.Error()))
		}
	}
	return err
}

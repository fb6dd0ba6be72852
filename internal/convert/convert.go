// Package convert streams N-Triples input into abbreviated RDF/XML.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/rdfstream/internal/config"
	"github.com/geoknoesis/rdfstream/internal/metrics"
	"github.com/geoknoesis/rdfstream/rdf"
)

// OutputExt is the extension given to converted files.
const OutputExt = ".rdf"

// Stats summarizes one conversion.
type Stats struct {
	Triples  int64 // triples read
	Written  int64 // triples serialized
	Skipped  int   // lines or triples dropped under SkipInvalid
	BytesIn  int64
	BytesOut int64
}

// Job names one file conversion.
type Job struct {
	Input  string
	Output string
}

// Converter runs conversions with a shared configuration. It holds no
// per-conversion state, so one Converter may serve concurrent calls.
type Converter struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New returns a converter. A nil logger uses slog.Default; nil metrics
// record nothing.
func New(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{cfg: cfg, logger: logger, metrics: m}
}

// ConvertStream reads N-Triples from r and writes one RDF/XML document to w.
// name identifies the input in logs and errors.
//
// With SkipInvalid set, malformed lines and triples the serializer cannot
// represent (no XML name for the predicate, characters XML cannot carry)
// are logged and dropped; any other error ends the conversion.
func (c *Converter) ConvertStream(ctx context.Context, r io.Reader, w io.Writer, name string) (stats Stats, err error) {
	in := &countingReader{r: r}
	out := &countingWriter{w: w}
	defer func() {
		stats.BytesIn = in.n
		stats.BytesOut = out.n
	}()

	enc, err := rdf.NewRDFXMLAbbrevEncoder(out, c.cfg.AbbrevConfig())
	if err != nil {
		return stats, fmt.Errorf("%s: %w", name, err)
	}
	opts := append(c.cfg.ParserOptions(), rdf.OptContext(ctx))
	parser := rdf.NewNTriplesParser(in, opts...)

	handler := func(t rdf.Triple) error {
		stats.Triples++
		if err := enc.Write(t); err != nil {
			if c.cfg.SkipInvalid && rdf.Code(err) == rdf.ErrCodeUnrepresentable {
				c.skipped(name, parser.Line(), err)
				stats.Skipped++
				return nil
			}
			return fmt.Errorf("line %d: %w", parser.Line(), err)
		}
		stats.Written++
		return nil
	}

	err = c.drain(parser, handler, name, &stats)
	c.metrics.TriplesParsed(int(stats.Triples))
	c.metrics.TriplesWritten(int(stats.Written))
	if err != nil {
		return stats, fmt.Errorf("%s: %w", name, err)
	}
	if err := enc.Close(); err != nil {
		return stats, fmt.Errorf("%s: %w", name, err)
	}
	return stats, nil
}

func (c *Converter) drain(p *rdf.NTriplesParser, h rdf.TripleHandler, name string, stats *Stats) error {
	for {
		err := p.Step(h)
		if err == io.EOF {
			return nil
		}
		if err == nil {
			continue
		}
		if !c.cfg.SkipInvalid || !skippable(err) {
			return err
		}
		c.skipped(name, p.Line(), err)
		stats.Skipped++
		p.SkipLine()
	}
}

func (c *Converter) skipped(name string, line int, err error) {
	c.metrics.LineSkipped()
	c.logger.Warn("Skipping invalid input",
		slog.String("file", name),
		slog.Int("line", line),
		slog.String("error", err.Error()))
}

// skippable reports whether err concerns a single line, leaving the parser
// able to continue with the next one.
func skippable(err error) bool {
	switch rdf.Code(err) {
	case rdf.ErrCodeSyntax, rdf.ErrCodeLineTooLong, rdf.ErrCodeInvalidIRI:
		return true
	}
	return false
}

// ConvertFile converts one file. A failed conversion removes the partial
// output.
func (c *Converter) ConvertFile(ctx context.Context, job Job) (stats Stats, err error) {
	start := time.Now()
	c.logger.Debug("Converting", slog.String("file", job.Input), slog.String("output", job.Output))
	defer func() {
		c.metrics.FileConverted(err, time.Since(start))
	}()

	in, err := os.Open(job.Input)
	if err != nil {
		return stats, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	if dir := filepath.Dir(job.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return stats, fmt.Errorf("create output directory: %w", err)
		}
	}
	out, err := os.Create(job.Output)
	if err != nil {
		return stats, fmt.Errorf("create output: %w", err)
	}

	stats, err = c.ConvertStream(ctx, in, out, job.Input)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(job.Output)
		return stats, err
	}

	c.logger.Info("Converted",
		slog.String("file", job.Input),
		slog.String("output", job.Output),
		slog.Int64("triples", stats.Written),
		slog.Int("skipped", stats.Skipped),
		slog.String("read", humanize.IBytes(uint64(stats.BytesIn))),
		slog.String("written", humanize.IBytes(uint64(stats.BytesOut))),
		slog.Duration("elapsed", time.Since(start)))
	return stats, nil
}

// ConvertFiles converts every job with up to cfg.Workers conversions in
// flight. Each conversion owns its parser and serializer. The first failure
// cancels the remaining jobs and is returned.
func (c *Converter) ConvertFiles(ctx context.Context, jobs []Job) (Stats, error) {
	results := make([]Stats, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if c.cfg.Workers > 0 {
		g.SetLimit(c.cfg.Workers)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := c.ConvertFile(ctx, job)
			results[i] = stats
			return err
		})
	}
	err := g.Wait()

	var total Stats
	for _, s := range results {
		total.Triples += s.Triples
		total.Written += s.Written
		total.Skipped += s.Skipped
		total.BytesIn += s.BytesIn
		total.BytesOut += s.BytesOut
	}
	return total, err
}

// OutputPath returns where input is written: next to it, or inside outDir
// when set, with the extension replaced by OutputExt.
func OutputPath(input, outDir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input)) + OutputExt
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}

// Jobs builds one job per input.
func Jobs(inputs []string, outDir string) []Job {
	jobs := make([]Job, 0, len(inputs))
	for _, in := range inputs {
		jobs = append(jobs, Job{Input: in, Output: OutputPath(in, outDir)})
	}
	return jobs
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

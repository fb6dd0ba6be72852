package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `<http://example.org/foo> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Person> .
<http://example.org/foo> <http://schema.org/name> "Foo" .
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := rootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestStdinToStdout(t *testing.T) {
	out, _, err := execute(t, input, "--prefix", "schema=http://schema.org/")
	require.NoError(t, err)
	assert.Contains(t, out, `<schema:Person rdf:about="http://example.org/foo"><schema:name>Foo</schema:name></schema:Person>`)
	assert.True(t, strings.HasSuffix(out, "</rdf:RDF>\n"))
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "rdfconv.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("prefixes:\n  schema: http://schema.org/\nindent: 4\n"), 0644))

	out, _, err := execute(t, input, "--config", configPath, "--indent", "0", "--typed-nodes=false")
	require.NoError(t, err)
	assert.Contains(t, out, `<rdf:Description rdf:about="http://example.org/foo"><rdf:type rdf:resource="http://schema.org/Person"/><schema:name>Foo</schema:name></rdf:Description>`)
}

func TestFilesAndMetrics(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "people.nt")
	require.NoError(t, os.WriteFile(in, []byte(input), 0644))
	outDir := filepath.Join(dir, "out")
	metricsFile := filepath.Join(dir, "rdfconv.prom")

	_, stderr, err := execute(t, "", "-o", outDir, "--metrics-file", metricsFile, "-j", "2", in)
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=Converted")

	data, err := os.ReadFile(filepath.Join(outDir, "people.rdf"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `rdf:about="http://example.org/foo"`)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `rdfconv_files_converted_total{status="ok"} 1`)
	assert.Contains(t, string(prom), "rdfconv_triples_parsed_total 2")
}

func TestSkipInvalid(t *testing.T) {
	bad := input + "garbage\n"

	_, _, err := execute(t, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<stdin>")

	out, stderr, err := execute(t, bad, "--skip-invalid", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "</rdf:RDF>")
	assert.Contains(t, stderr, "level=WARN")
	assert.Contains(t, stderr, "line=3")
}

func TestInvalidFlags(t *testing.T) {
	_, _, err := execute(t, input, "--max-line-bytes", "huge")
	assert.ErrorContains(t, err, "--max-line-bytes")

	_, _, err = execute(t, input, "--prefix", "xmlns=http://example.org/")
	assert.ErrorContains(t, err, "invalid configuration")

	_, _, err = execute(t, input, "--workers", "0")
	assert.ErrorContains(t, err, "workers")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "rdfconv version "+Version+"\n", out)
}

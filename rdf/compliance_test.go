package rdf

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// TestW3CNTriplesSuite runs the W3C N-Triples syntax tests fetched by
// scripts/download-w3c-tests.go. Files whose name contains "-bad-" must be
// rejected; every other .nt file must parse and survive an RDF/XML encode.
func TestW3CNTriplesSuite(t *testing.T) {
	root := os.Getenv("W3C_TESTS_DIR")
	if root == "" {
		t.Skip("W3C_TESTS_DIR not set")
	}
	dir := filepath.Join(root, "ntriples")
	files, err := filepath.Glob(filepath.Join(dir, "*.nt"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Skipf("no .nt files in %s", dir)
	}
	sort.Strings(files)

	for _, path := range files {
		name := filepath.Base(path)
		t.Run(strings.TrimSuffix(name, ".nt"), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			var triples []Triple
			err = NewNTriplesParser(bytes.NewReader(data)).ParseAll(func(tr Triple) error {
				triples = append(triples, tr.Clone())
				return nil
			})

			if strings.Contains(name, "-bad-") {
				if err == nil {
					t.Fatalf("expected %s to be rejected", name)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			enc, err := NewRDFXMLAbbrevEncoder(&bytes.Buffer{}, DefaultAbbrevConfig())
			if err != nil {
				t.Fatalf("encoder: %v", err)
			}
			for _, tr := range triples {
				if err := enc.Write(tr); err != nil && Code(err) != ErrCodeUnrepresentable {
					t.Fatalf("encode %s: %v", tr, err)
				}
			}
			if err := enc.Close(); err != nil && Code(err) != ErrCodeUnrepresentable {
				t.Fatalf("close: %v", err)
			}
		})
	}
}

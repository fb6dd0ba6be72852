//go:build ignore

package main

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// testSuite represents a W3C test suite to download
type testSuite struct {
	name        string
	description string
	url         string
	dirs        []string // directories inside the archive holding .nt files
}

var ntriplesSuite = testSuite{
	name:        "rdf-tests",
	description: "W3C RDF Test Suite (N-Triples)",
	url:         "https://github.com/w3c/rdf-tests/archive/refs/heads/main.zip",
	dirs: []string{
		"rdf/rdf11/rdf-n-triples/",
		"ntriples/",
	},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output-directory>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nDownloads the W3C N-Triples syntax tests into <output-directory>/ntriples/.\n")
		fmt.Fprintf(os.Stderr, "\nExample: %s ./w3c-tests\n", os.Args[0])
		os.Exit(1)
	}

	outputDir := os.Args[1]
	targetDir := filepath.Join(outputDir, "ntriples")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Downloading %s...\n", ntriplesSuite.description)
	count, err := downloadTestSuite(ntriplesSuite, targetDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading %s: %v\n", ntriplesSuite.name, err)
		os.Exit(1)
	}

	fmt.Printf("\n✓ Extracted %d test files to %s\n", count, targetDir)
	fmt.Printf("Set W3C_TESTS_DIR=%s to run conformance tests.\n", outputDir)
}

func downloadTestSuite(suite testSuite, targetDir string) (int, error) {
	tempFile, err := os.CreateTemp("", suite.name+"-*.zip")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	fmt.Printf("  Fetching from %s...\n", suite.url)
	resp, err := http.Get(suite.url)
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if _, err := io.Copy(tempFile, resp.Body); err != nil {
		return 0, fmt.Errorf("failed to save download: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return 0, err
	}

	fmt.Printf("  Extracting...\n")
	return extractNTriples(tempFile.Name(), targetDir, suite)
}

// extractNTriples copies the .nt files of the suite's directories into
// targetDir, flattened.
func extractNTriples(zipFile, targetDir string, suite testSuite) (int, error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".nt") {
			continue
		}
		// Remove the archive's base directory (usually repo-name-main/).
		rel := f.Name
		if idx := strings.Index(rel, "/"); idx >= 0 {
			rel = rel[idx+1:]
		}
		if !inSuite(rel, suite.dirs) {
			continue
		}

		if err := extractFile(f, filepath.Join(targetDir, path.Base(rel))); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func inSuite(rel string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.HasPrefix(rel, dir) && !strings.Contains(rel[len(dir):], "/") {
			return true
		}
	}
	return false
}

func extractFile(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

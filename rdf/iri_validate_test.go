package rdf

import (
	"testing"
)

func TestValidateIRI(t *testing.T) {
	tests := []struct {
		name    string
		iri     string
		wantErr bool
	}{
		{name: "http", iri: "http://example.org/resource"},
		{name: "urn", iri: "urn:example:resource"},
		{name: "query and fragment", iri: "http://example.org/r?param=value#frag"},
		{name: "non-ascii", iri: "http://example.org/café"},
		{name: "percent encoded", iri: "http://example.org/a%20b"},
		{name: "empty", iri: "", wantErr: true},
		{name: "relative", iri: "/path/to/resource", wantErr: true},
		{name: "no scheme", iri: "example.org", wantErr: true},
		{name: "space", iri: "http://example.org/a b", wantErr: true},
		{name: "control", iri: "http://example.org/\x01", wantErr: true},
		{name: "brace", iri: "http://example.org/{x}", wantErr: true},
		{name: "backslash", iri: `http://example.org/a\b`, wantErr: true},
		{name: "invalid utf-8", iri: "http://example.org/\xff", wantErr: true},
		{name: "bad escape", iri: "http://example.org/%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIRI(tt.iri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateIRI(%q) error = %v, wantErr %v", tt.iri, err, tt.wantErr)
			}
		})
	}
}

func TestHasScheme(t *testing.T) {
	for _, iri := range []string{"http://x", "urn:x", "a+b-c.d:x"} {
		if !hasScheme(iri) {
			t.Errorf("hasScheme(%q) = false", iri)
		}
	}
	for _, iri := range []string{"", ":x", "1http://x", "ht tp://x", "nocolon"} {
		if hasScheme(iri) {
			t.Errorf("hasScheme(%q) = true", iri)
		}
	}
}

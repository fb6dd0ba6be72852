package rdf

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// ValidateIRI checks that iri is an absolute IRI in the sense of RFC 3987.
// It is a structural check only: scheme syntax, parseability by net/url,
// UTF-8 well-formedness, and the absence of characters that must be
// percent-encoded.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	if !utf8.ValidString(iri) {
		return fmt.Errorf("IRI is not valid UTF-8: %q", iri)
	}
	if !hasScheme(iri) {
		return fmt.Errorf("IRI has no scheme: %s", iri)
	}

	for i, r := range iri {
		switch {
		case r < 0x20 || r == 0x7f:
			return fmt.Errorf("invalid control character at position %d in IRI: %q", i, iri)
		case r == ' ':
			return fmt.Errorf("unencoded space at position %d in IRI: %q", i, iri)
		case r == '<' || r == '>' || r == '"' || r == '{' || r == '}' || r == '|' || r == '\\' || r == '^' || r == '`':
			return fmt.Errorf("invalid character '%c' at position %d in IRI (should be percent-encoded): %s", r, i, iri)
		}
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("IRI has no scheme: %s", iri)
	}
	return nil
}

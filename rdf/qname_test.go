package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIRI(t *testing.T) {
	tests := []struct {
		iri       string
		namespace string
		local     string
	}{
		{"http://schema.org/Person", "http://schema.org/", "Person"},
		{"http://www.w3.org/1999/02/22-rdf-syntax-ns#type", "http://www.w3.org/1999/02/22-rdf-syntax-ns#", "type"},
		{"http://example.org/a:b", "http://example.org/a:", "b"},
		{"urn:isbn:0451450523", "urn:isbn:0451450523", ""},
		{"http://example.org/item-42", "http://example.org/", "item-42"},
		{"http://example.org/123abc", "http://example.org/123", "abc"},
		{"http://example.org/.-", "http://example.org/.-", ""},
		{"http://example.org/", "http://example.org/", ""},
		{"http://example.org/résumé", "http://example.org/", "résumé"},
		{"http://example.org/v1.2", "http://example.org/", "v1.2"},
		{"abc", "abc", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		ns, local := SplitIRI(tt.iri)
		assert.Equal(t, tt.namespace, ns, "namespace of %q", tt.iri)
		assert.Equal(t, tt.local, local, "local of %q", tt.iri)
		assert.Equal(t, tt.iri, ns+local)
	}
}

func TestSplitIRIInvalidUTF8(t *testing.T) {
	ns, local := SplitIRI("http://example.org/a\xffb")
	assert.Equal(t, "http://example.org/a\xff", ns)
	assert.Equal(t, "b", local)
}

func TestNameChars(t *testing.T) {
	for _, r := range []rune{'A', 'z', '_', ':', 'é', 'Ω', '中', 0x10000} {
		assert.True(t, isNameStartChar(r), "%U", r)
		assert.True(t, isNameChar(r), "%U", r)
	}
	for _, r := range []rune{'0', '9', '-', '.', 0xB7, 0x0300, 0x203F} {
		assert.False(t, isNameStartChar(r), "%U", r)
		assert.True(t, isNameChar(r), "%U", r)
	}
	for _, r := range []rune{' ', '/', '#', '?', '%', '(', 0xD7, 0xF7, 0xFFFE} {
		assert.False(t, isNameChar(r), "%U", r)
	}
}

func TestIsNCName(t *testing.T) {
	for _, s := range []string{"ex", "schema", "a1", "_x", "dc-terms", "é"} {
		assert.True(t, isNCName(s), s)
	}
	for _, s := range []string{"", "1a", "a:b", "-x", "a b", "\xff"} {
		assert.False(t, isNCName(s), s)
	}
}

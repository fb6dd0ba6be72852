package rdf

import "unicode/utf8"

// SplitIRI splits an absolute IRI into a namespace and the longest suffix
// that is a valid XML local name. When no such suffix exists the whole IRI
// is returned as namespace and local is empty.
//
//	SplitIRI("http://schema.org/Person") // "http://schema.org/", "Person"
func SplitIRI(iri string) (namespace, local string) {
	base := -1
	for i := len(iri); i > 0; {
		r, size := utf8.DecodeLastRuneInString(iri[:i])
		i -= size
		if !isNameRune(r, size) || r == ':' {
			base = i
			break
		}
	}
	if base < 0 {
		return iri, ""
	}
	for j, r := range iri[base:] {
		if r == utf8.RuneError {
			continue
		}
		if isNameStartChar(r) && r != ':' {
			return iri[:base+j], iri[base+j:]
		}
	}
	return iri, ""
}

func isNameRune(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return isNameChar(r)
}

// isNameStartChar implements NameStartChar of XML 1.0 (fifth edition).
func isNameStartChar(r rune) bool {
	switch {
	case r == ':' || r == '_':
		return true
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D, r >= 0x37F && r <= 0x1FFF:
		return true
	case r >= 0x200C && r <= 0x200D, r >= 0x2070 && r <= 0x218F:
		return true
	case r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

// isNameChar implements NameChar of XML 1.0 (fifth edition).
func isNameChar(r rune) bool {
	switch {
	case isNameStartChar(r):
		return true
	case r == '-' || r == '.' || r == 0xB7:
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 0x300 && r <= 0x36F, r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}

// isNCName reports whether s is a name without colons, usable as a prefix
// or a local element name.
func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == ':' || (r == utf8.RuneError && !utf8.ValidString(s)) {
			return false
		}
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
		} else if !isNameChar(r) {
			return false
		}
	}
	return true
}

package rdf

import (
	"unicode/utf8"
)

// Unicode surrogate pair constants
const (
	unicodeSurrogateHighStart = 0xD800
	unicodeSurrogateHighEnd   = 0xDBFF
	unicodeSurrogateLowStart  = 0xDC00
	unicodeSurrogateLowEnd    = 0xDFFF
	unicodeSurrogateBase      = 0x10000
)

const hexDigits = "0123456789ABCDEF"

func parseHexDigit(c int) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0'), true
	case c >= 'a' && c <= 'f':
		return rune(c - 'a' + 10), true
	case c >= 'A' && c <= 'F':
		return rune(c - 'A' + 10), true
	default:
		return 0, false
	}
}

func isValidUnicodeCodePoint(r rune) bool {
	if r < 0 || r > utf8.MaxRune {
		return false
	}
	return r < unicodeSurrogateHighStart || r > unicodeSurrogateLowEnd
}

// decodeEscape decodes the escape sequence starting at the current '\'
// and appends the decoded bytes to buf. No intermediate value is built.
// IRIs only allow \u and \U; echar enables the single-character escapes.
func decodeEscape(r *lineReader, buf *[]byte, echar bool) error {
	start := r.pos + 1
	r.consume()
	c := r.current()
	if !echar && c != 'u' && c != 'U' {
		return r.unexpectedCharError()
	}
	switch c {
	case 'u', 'U':
		r.consume()
		digits := 4
		if c == 'U' {
			digits = 8
		}
		cp, err := readHex(r, digits)
		if err != nil {
			return err
		}
		if c == 'u' && cp >= unicodeSurrogateHighStart && cp <= unicodeSurrogateHighEnd {
			cp, err = readLowSurrogate(r, cp)
			if err != nil {
				return err
			}
		}
		if !isValidUnicodeCodePoint(cp) {
			return r.syntaxErrorAt(start, "invalid code point U+%04X in escape", cp)
		}
		*buf = utf8.AppendRune(*buf, cp)
	case 't':
		r.consume()
		*buf = append(*buf, '\t')
	case 'b':
		r.consume()
		*buf = append(*buf, '\b')
	case 'n':
		r.consume()
		*buf = append(*buf, '\n')
	case 'r':
		r.consume()
		*buf = append(*buf, '\r')
	case 'f':
		r.consume()
		*buf = append(*buf, '\f')
	case '"', '\'', '\\':
		r.consume()
		*buf = append(*buf, byte(c))
	default:
		return r.unexpectedCharError()
	}
	return nil
}

func readHex(r *lineReader, digits int) (rune, error) {
	var cp rune
	for i := 0; i < digits; i++ {
		d, ok := parseHexDigit(r.current())
		if !ok {
			return 0, r.unexpectedCharError()
		}
		cp = cp<<4 | d
		r.consume()
	}
	return cp, nil
}

// readLowSurrogate completes a \uXXXX\uYYYY surrogate pair.
func readLowSurrogate(r *lineReader, high rune) (rune, error) {
	if err := r.checkIsCurrent('\\'); err != nil {
		return 0, err
	}
	r.consume()
	if err := r.checkIsCurrent('u'); err != nil {
		return 0, err
	}
	r.consume()
	start := r.pos + 1
	low, err := readHex(r, 4)
	if err != nil {
		return 0, err
	}
	if low < unicodeSurrogateLowStart || low > unicodeSurrogateLowEnd {
		return 0, r.syntaxErrorAt(start, "expected low surrogate, got U+%04X", low)
	}
	return unicodeSurrogateBase + (high-unicodeSurrogateHighStart)<<10 + (low - unicodeSurrogateLowStart), nil
}

// appendEscapedLiteral appends value quoted and escaped for a literal.
func appendEscapedLiteral(dst []byte, value string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		default:
			if c < 0x20 || c == 0x7f {
				dst = appendUChar(dst, c)
			} else {
				dst = append(dst, c)
			}
		}
	}
	return append(dst, '"')
}

// appendEscapedIRI appends iri in angle brackets, escaping bytes IRIREF forbids.
func appendEscapedIRI(dst []byte, iri string) []byte {
	dst = append(dst, '<')
	for i := 0; i < len(iri); i++ {
		c := iri[i]
		if isForbiddenIRIByte(int(c)) || c == '>' || c == '\\' {
			dst = appendUChar(dst, c)
			continue
		}
		dst = append(dst, c)
	}
	return append(dst, '>')
}

func appendUChar(dst []byte, c byte) []byte {
	return append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
}

func isForbiddenIRIByte(c int) bool {
	switch c {
	case '<', '"', '{', '}', '|', '^', '`':
		return true
	}
	return c <= ' '
}

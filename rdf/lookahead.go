package rdf

import (
	"bufio"
	"fmt"
	"io"
)

// eof is what current reports once the input is exhausted. It is outside
// the byte range so it never collides with input.
const eof = -1

// lineReader presents the input as one current byte with one byte of
// lookahead. It buffers exactly one line, reusing the same backing array,
// so its footprint is the longest line seen so far.
//
// A line is only replaced by nextLine, once every byte of it has been
// consumed. Inside a line consume never touches the underlying reader.
type lineReader struct {
	reader   *bufio.Reader
	line     []byte
	pos      int
	lineNo   int
	last     bool // current line had no terminating newline
	done     bool
	maxBytes int
}

func newLineReader(r io.Reader, maxBytes int) *lineReader {
	return &lineReader{reader: bufio.NewReader(r), maxBytes: maxBytes}
}

func (l *lineReader) current() int {
	if l.pos < len(l.line) {
		return int(l.line[l.pos])
	}
	return eof
}

func (l *lineReader) consume() {
	if l.pos < len(l.line) {
		l.pos++
	}
}

// nextLine loads the next line if the current one is exhausted.
// It returns io.EOF, repeatedly, once no input is left.
func (l *lineReader) nextLine() error {
	if l.pos < len(l.line) {
		return nil
	}
	l.line = l.line[:0]
	l.pos = 0
	if l.done || l.last {
		l.done = true
		return io.EOF
	}
	for {
		part, err := l.reader.ReadSlice('\n')
		if l.maxBytes > 0 && len(l.line)+len(part) > l.maxBytes {
			l.lineNo++
			l.line = l.line[:0]
			switch err {
			case bufio.ErrBufferFull:
				if derr := l.discardRest(); derr != nil {
					return derr
				}
			case io.EOF:
				l.last = true
			case nil:
			default:
				return readError(err)
			}
			return &ParseError{Format: ntriplesFormat, Line: l.lineNo, Err: ErrLineTooLong}
		}
		l.line = append(l.line, part...)
		switch err {
		case nil:
			l.lineNo++
			return nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if len(l.line) == 0 {
				l.done = true
				return io.EOF
			}
			l.lineNo++
			l.last = true
			return nil
		default:
			l.line = l.line[:0]
			return readError(err)
		}
	}
}

func (l *lineReader) discardRest() error {
	for {
		_, err := l.reader.ReadSlice('\n')
		switch err {
		case nil:
			return nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			l.last = true
			return nil
		default:
			return readError(err)
		}
	}
}

func (l *lineReader) checkIsCurrent(expected byte) error {
	if l.current() != int(expected) {
		return l.unexpectedCharError()
	}
	return nil
}

func (l *lineReader) unexpectedCharError() error {
	c := l.current()
	switch {
	case c == eof:
		return l.syntaxErrorf("unexpected end of input")
	case c == '\n' || c == '\r':
		return l.syntaxErrorf("unexpected end of line")
	case c >= 0x20 && c < 0x7f:
		return l.syntaxErrorf("unexpected character %q", rune(c))
	default:
		return l.syntaxErrorf("unexpected byte 0x%02x", c)
	}
}

func (l *lineReader) syntaxErrorf(format string, args ...any) error {
	return l.syntaxErrorAt(l.pos+1, format, args...)
}

// syntaxErrorAt reports a syntax error at a 1-based column of the current line.
func (l *lineReader) syntaxErrorAt(column int, format string, args ...any) error {
	return &ParseError{
		Format:    ntriplesFormat,
		Statement: string(l.line),
		Line:      l.lineNo,
		Column:    column,
		Err:       fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...)),
	}
}

package rdf

import (
	"bufio"
	"fmt"
	"io"
)

// NTriplesEncoder writes triples one statement per line, escaping terms so
// that NTriplesParser decodes them back to identical values.
type NTriplesEncoder struct {
	writer *bufio.Writer
	line   []byte
	closed bool
	err    error
}

// NewNTriplesEncoder returns an encoder writing to w.
func NewNTriplesEncoder(w io.Writer) *NTriplesEncoder {
	return &NTriplesEncoder{writer: bufio.NewWriter(w)}
}

// Write encodes one triple.
func (e *NTriplesEncoder) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return ErrEncoderClosed
	}
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("ntriples: missing statement fields")
	}
	line := appendTerm(e.line[:0], t.S)
	line = append(line, ' ')
	line = appendEscapedIRI(line, t.P.Value)
	line = append(line, ' ')
	line = appendTerm(line, t.O)
	line = append(line, ' ', '.', '\n')
	e.line = line
	if _, err := e.writer.Write(line); err != nil {
		e.err = writeError(err)
		return e.err
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (e *NTriplesEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.writer.Flush(); err != nil {
		e.err = writeError(err)
	}
	return e.err
}

// Close flushes the encoder. Later writes fail with ErrEncoderClosed.
func (e *NTriplesEncoder) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	return e.Flush()
}

func appendTerm(dst []byte, term Term) []byte {
	switch v := term.(type) {
	case IRI:
		return appendEscapedIRI(dst, v.Value)
	case BlankNode:
		dst = append(dst, '_', ':')
		return append(dst, v.ID...)
	case Literal:
		dst = appendEscapedLiteral(dst, v.Value)
		switch v.LiteralKind() {
		case LiteralLanguageTagged:
			dst = append(dst, '@')
			dst = append(dst, v.Lang...)
		case LiteralTyped:
			dst = append(dst, '^', '^')
			dst = appendEscapedIRI(dst, v.Datatype.Value)
		}
		return dst
	default:
		return dst
	}
}

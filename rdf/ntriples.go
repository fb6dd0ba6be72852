package rdf

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"
	"unsafe"
)

const ntriplesFormat = "ntriples"

// TripleHandler receives one parsed triple. The triple borrows the parser's
// buffers and is only valid until the handler returns; use Triple.Clone to
// retain it.
type TripleHandler func(Triple) error

// NTriplesParser is a streaming parser for the line-oriented triple syntax:
// one `subject predicate object .` statement per line.
//
// Its memory use is proportional to the longest line read so far. Term text
// is decoded into four reusable buffers that are cleared, not released, after
// each triple is handed to the caller.
//
// A parser is not safe for concurrent use.
type NTriplesParser struct {
	read  *lineReader
	opts  Options
	count int64

	subjectBuf    []byte
	predicateBuf  []byte
	objectBuf     []byte
	annotationBuf []byte // datatype or language tag
}

// NewNTriplesParser returns a parser reading from r.
func NewNTriplesParser(r io.Reader, opts ...Option) *NTriplesParser {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	options = normalizeOptions(options)
	return &NTriplesParser{
		read: newLineReader(r, options.MaxLineBytes),
		opts: options,
	}
}

// ParseNTriples parses every statement of r and passes it to h.
// It stops at the first error.
func ParseNTriples(ctx context.Context, r io.Reader, h TripleHandler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = append([]Option{OptContext(ctx)}, opts...)
	return NewNTriplesParser(r, opts...).ParseAll(h)
}

// Step parses one input line. If the line holds a statement, h is called
// with it before Step returns. Blank and comment lines yield no call and a
// nil error. Once the input is exhausted Step returns io.EOF, on every call.
//
// A syntax error leaves the parser inside the offending line. Callers that
// want to continue past it call SkipLine before the next Step.
func (p *NTriplesParser) Step(h TripleHandler) error {
	if err := checkContext(p.opts.Context); err != nil {
		return err
	}
	if err := p.read.nextLine(); err != nil {
		return err
	}
	defer p.clearBuffers()

	triple, ok, err := p.parseLine()
	if err != nil || !ok {
		return err
	}
	if p.opts.MaxTriples > 0 && p.count >= p.opts.MaxTriples {
		return &ParseError{Format: ntriplesFormat, Line: p.read.lineNo, Err: ErrTripleLimitExceeded}
	}
	p.count++
	return h(triple)
}

// ParseAll calls Step until the input is exhausted or an error occurs.
func (p *NTriplesParser) ParseAll(h TripleHandler) error {
	for {
		err := p.Step(h)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// SkipLine discards the rest of the current line, newline included.
func (p *NTriplesParser) SkipLine() {
	skipUntilEOL(p.read)
}

// Line returns the 1-based number of the line being parsed.
func (p *NTriplesParser) Line() int {
	return p.read.lineNo
}

// Count returns the number of triples delivered so far.
func (p *NTriplesParser) Count() int64 {
	return p.count
}

func (p *NTriplesParser) clearBuffers() {
	p.subjectBuf = p.subjectBuf[:0]
	p.predicateBuf = p.predicateBuf[:0]
	p.objectBuf = p.objectBuf[:0]
	p.annotationBuf = p.annotationBuf[:0]
}

func (p *NTriplesParser) parseLine() (Triple, bool, error) {
	r := p.read
	skipWhitespace(r)

	switch r.current() {
	case eof, '#', '\r', '\n':
		skipUntilEOL(r)
		return Triple{}, false, nil
	}

	subject, err := p.parseSubject()
	if err != nil {
		return Triple{}, false, err
	}

	skipWhitespace(r)
	predicate, err := p.parseIRIRef(&p.predicateBuf)
	if err != nil {
		return Triple{}, false, err
	}

	skipWhitespace(r)
	object, terminated, err := p.parseObject()
	if err != nil {
		return Triple{}, false, err
	}

	if !terminated {
		skipWhitespace(r)
		if err := r.checkIsCurrent('.'); err != nil {
			return Triple{}, false, err
		}
		r.consume()
	}

	skipWhitespace(r)
	switch r.current() {
	case eof, '#', '\r', '\n':
		skipUntilEOL(r)
	default:
		return Triple{}, false, r.unexpectedCharError()
	}

	return Triple{S: subject, P: predicate, O: object}, true, nil
}

func (p *NTriplesParser) parseSubject() (Subject, error) {
	r := p.read
	switch r.current() {
	case '<':
		return p.parseIRIRef(&p.subjectBuf)
	case '_':
		bnode, terminated, err := p.parseBlankNodeLabel(&p.subjectBuf)
		if err != nil {
			return nil, err
		}
		if terminated {
			return nil, r.syntaxErrorAt(r.pos, "blank node label cannot end with '.'")
		}
		return bnode, nil
	default:
		return nil, r.unexpectedCharError()
	}
}

// parseObject reports terminated when a blank node label swallowed the
// statement's closing '.'.
func (p *NTriplesParser) parseObject() (Term, bool, error) {
	r := p.read
	switch r.current() {
	case '<':
		iri, err := p.parseIRIRef(&p.objectBuf)
		return iri, false, err
	case '_':
		return p.parseBlankNodeLabel(&p.objectBuf)
	case '"':
		lit, err := p.parseLiteral()
		return lit, false, err
	default:
		return nil, false, r.unexpectedCharError()
	}
}

func (p *NTriplesParser) parseIRIRef(buf *[]byte) (IRI, error) {
	r := p.read
	if err := r.checkIsCurrent('<'); err != nil {
		return IRI{}, err
	}
	column := r.pos + 1
	r.consume()
	for {
		c := r.current()
		switch {
		case c == '>':
			r.consume()
			if !utf8.Valid(*buf) {
				return IRI{}, r.syntaxErrorAt(column, "invalid UTF-8 in IRI")
			}
			value := bytesToString(*buf)
			if err := p.checkIRI(value, column); err != nil {
				return IRI{}, err
			}
			return IRI{Value: value}, nil
		case c == '\\':
			if err := decodeEscape(r, buf, false); err != nil {
				return IRI{}, err
			}
		case isForbiddenIRIByte(c):
			return IRI{}, r.unexpectedCharError()
		default:
			*buf = append(*buf, byte(c))
			r.consume()
		}
	}
}

func (p *NTriplesParser) checkIRI(value string, column int) error {
	if !hasScheme(value) {
		return p.read.syntaxErrorAt(column, "expected absolute IRI, got %q", value)
	}
	if p.opts.StrictIRIValidation {
		if err := ValidateIRI(value); err != nil {
			return &ParseError{
				Format:    ntriplesFormat,
				Statement: string(p.read.line),
				Line:      p.read.lineNo,
				Column:    column,
				Err:       fmt.Errorf("%w: %v", ErrInvalidIRI, err),
			}
		}
	}
	return nil
}

func (p *NTriplesParser) parseBlankNodeLabel(buf *[]byte) (BlankNode, bool, error) {
	r := p.read
	if err := r.checkIsCurrent('_'); err != nil {
		return BlankNode{}, false, err
	}
	r.consume()
	if err := r.checkIsCurrent(':'); err != nil {
		return BlankNode{}, false, err
	}
	r.consume()
	column := r.pos + 1

	if !isBlankLabelStart(r.current()) {
		return BlankNode{}, false, r.unexpectedCharError()
	}
	*buf = append(*buf, byte(r.current()))
	r.consume()
	for c := r.current(); isBlankLabelChar(c) || c == '.'; c = r.current() {
		*buf = append(*buf, byte(c))
		r.consume()
	}

	dots := 0
	for len(*buf) > 0 && (*buf)[len(*buf)-1] == '.' {
		*buf = (*buf)[:len(*buf)-1]
		dots++
	}
	if dots > 1 {
		return BlankNode{}, false, r.syntaxErrorAt(r.pos, "blank node label cannot end with '.'")
	}
	if !utf8.Valid(*buf) {
		return BlankNode{}, false, r.syntaxErrorAt(column, "invalid UTF-8 in blank node label")
	}
	return BlankNode{ID: bytesToString(*buf)}, dots == 1, nil
}

func (p *NTriplesParser) parseLiteral() (Literal, error) {
	r := p.read
	if err := r.checkIsCurrent('"'); err != nil {
		return Literal{}, err
	}
	column := r.pos + 1
	r.consume()

	for closed := false; !closed; {
		switch c := r.current(); c {
		case '"':
			r.consume()
			closed = true
			if !utf8.Valid(p.objectBuf) {
				return Literal{}, r.syntaxErrorAt(column, "invalid UTF-8 in literal")
			}
		case '\\':
			if err := decodeEscape(r, &p.objectBuf, true); err != nil {
				return Literal{}, err
			}
		case eof, '\n', '\r':
			return Literal{}, r.unexpectedCharError()
		default:
			p.objectBuf = append(p.objectBuf, byte(c))
			r.consume()
		}
	}

	skipWhitespace(r)
	switch r.current() {
	case '@':
		r.consume()
		if err := parseLangTag(r, &p.annotationBuf); err != nil {
			return Literal{}, err
		}
		return NewLangLiteral(bytesToString(p.objectBuf), bytesToString(p.annotationBuf)), nil
	case '^':
		r.consume()
		if err := r.checkIsCurrent('^'); err != nil {
			return Literal{}, err
		}
		r.consume()
		skipWhitespace(r)
		datatype, err := p.parseIRIRef(&p.annotationBuf)
		if err != nil {
			return Literal{}, err
		}
		return NewTypedLiteral(bytesToString(p.objectBuf), datatype), nil
	default:
		return NewSimpleLiteral(bytesToString(p.objectBuf)), nil
	}
}

func parseLangTag(r *lineReader, buf *[]byte) error {
	if !isASCIILetter(r.current()) {
		return r.unexpectedCharError()
	}
	for isASCIILetter(r.current()) {
		*buf = append(*buf, byte(r.current()))
		r.consume()
	}
	for r.current() == '-' {
		*buf = append(*buf, '-')
		r.consume()
		if !isASCIIAlnum(r.current()) {
			return r.unexpectedCharError()
		}
		for isASCIIAlnum(r.current()) {
			*buf = append(*buf, byte(r.current()))
			r.consume()
		}
	}
	return nil
}

func skipWhitespace(r *lineReader) {
	for {
		switch r.current() {
		case ' ', '\t':
			r.consume()
		default:
			return
		}
	}
}

func skipUntilEOL(r *lineReader) {
	for {
		switch r.current() {
		case eof:
			return
		case '\n':
			r.consume()
			return
		}
		r.consume()
	}
}

func isASCIILetter(c int) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIAlnum(c int) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9')
}

// isBlankLabelStart accepts PN_CHARS_U and digits; bytes of multi-byte
// UTF-8 sequences are accepted as a whole.
func isBlankLabelStart(c int) bool {
	return isASCIIAlnum(c) || c == '_' || c == ':' || c >= 0x80
}

func isBlankLabelChar(c int) bool {
	return isBlankLabelStart(c) || c == '-'
}

// hasScheme reports whether iri starts with an RFC 3986 scheme and ':'.
func hasScheme(iri string) bool {
	if iri == "" || !isASCIILetter(int(iri[0])) {
		return false
	}
	for i := 1; i < len(iri); i++ {
		c := int(iri[i])
		switch {
		case c == ':':
			return true
		case isASCIIAlnum(c) || c == '+' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return false
}

// bytesToString returns a view of b without copying. The string is only
// valid while b is not modified.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

type xmlAttr struct {
	name  string
	value string
}

// xmlTag is an element name plus its attributes. Names are written as given;
// callers only build them from validated prefixes and local names.
type xmlTag struct {
	name  string
	attrs []xmlAttr
}

// tagWriter is the primitive output sink. It knows nothing about RDF: it
// escapes, indents and writes start, end and empty tags and text. Errors are
// sticky.
type tagWriter struct {
	writer    *bufio.Writer
	indent    int
	depth     int
	bol       bool // nothing written on the current line yet
	afterText bool
	scratch   []byte
	err       error
}

func newTagWriter(w io.Writer, indent int) *tagWriter {
	if indent < 0 {
		indent = 0
	}
	return &tagWriter{writer: bufio.NewWriter(w), indent: indent, bol: true}
}

func (w *tagWriter) decl() error {
	if err := w.write(append(w.scratch[:0], xmlDeclaration...)); err != nil {
		return err
	}
	w.bol = true
	return w.write([]byte{'\n'})
}

// appendOpen renders '<' name and attributes, preceded by the line break and
// indentation the tag needs at the current depth. The closing '>' or "/>" is
// left to commit.
func (w *tagWriter) appendOpen(dst []byte, tag xmlTag) ([]byte, error) {
	dst = w.appendLineStart(dst, w.depth)
	dst = append(dst, '<')
	dst = append(dst, tag.name...)
	for _, a := range tag.attrs {
		dst = append(dst, ' ')
		dst = append(dst, a.name...)
		dst = append(dst, '=', '"')
		var err error
		if dst, err = appendEscapedXML(dst, a.value, true); err != nil {
			return dst, err
		}
		dst = append(dst, '"')
	}
	return dst, nil
}

// commit writes a tag rendered by appendOpen, either as a start tag or as a
// self-closed element.
func (w *tagWriter) commit(rendered []byte, selfClose bool) error {
	if err := w.write(rendered); err != nil {
		return err
	}
	var closer []byte
	if selfClose {
		closer = []byte{'/', '>'}
	} else {
		closer = []byte{'>'}
		w.depth++
	}
	w.bol = false
	w.afterText = false
	return w.write(closer)
}

func (w *tagWriter) start(tag xmlTag) error {
	b, err := w.appendOpen(w.scratch[:0], tag)
	w.scratch = b
	if err != nil {
		return err
	}
	return w.commit(b, false)
}

func (w *tagWriter) empty(tag xmlTag) error {
	b, err := w.appendOpen(w.scratch[:0], tag)
	w.scratch = b
	if err != nil {
		return err
	}
	return w.commit(b, true)
}

func (w *tagWriter) end(name string) error {
	if w.depth > 0 {
		w.depth--
	}
	b := w.scratch[:0]
	if !w.afterText {
		b = w.appendLineStart(b, w.depth)
	}
	b = append(b, '<', '/')
	b = append(b, name...)
	b = append(b, '>')
	w.scratch = b
	w.bol = false
	w.afterText = false
	return w.write(b)
}

func (w *tagWriter) text(s string) error {
	b, err := appendEscapedXML(w.scratch[:0], s, false)
	w.scratch = b
	if err != nil {
		return err
	}
	w.bol = false
	w.afterText = true
	return w.write(b)
}

func (w *tagWriter) newline() error {
	w.bol = true
	return w.write([]byte{'\n'})
}

func (w *tagWriter) flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.writer.Flush(); err != nil {
		w.err = writeError(err)
	}
	return w.err
}

func (w *tagWriter) appendLineStart(dst []byte, depth int) []byte {
	if w.indent == 0 {
		return dst
	}
	if !w.bol {
		dst = append(dst, '\n')
	}
	for i := 0; i < depth*w.indent; i++ {
		dst = append(dst, ' ')
	}
	return dst
}

func (w *tagWriter) write(b []byte) error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.writer.Write(b); err != nil {
		w.err = writeError(err)
	}
	return w.err
}

// appendEscapedXML escapes s as character data, or as an attribute value when
// attr is set. Characters outside the XML 1.0 Char production are rejected.
func appendEscapedXML(dst []byte, s string, attr bool) ([]byte, error) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || !isXMLChar(r) {
			return dst, fmt.Errorf("%w: %q", ErrInvalidXMLChar, s)
		}
		switch r {
		case '&':
			dst = append(dst, "&amp;"...)
		case '<':
			dst = append(dst, "&lt;"...)
		case '>':
			dst = append(dst, "&gt;"...)
		case '\r':
			dst = append(dst, "&#xD;"...)
		case '"':
			if attr {
				dst = append(dst, "&quot;"...)
			} else {
				dst = append(dst, '"')
			}
		case '\t':
			if attr {
				dst = append(dst, "&#x9;"...)
			} else {
				dst = append(dst, '\t')
			}
		case '\n':
			if attr {
				dst = append(dst, "&#xA;"...)
			} else {
				dst = append(dst, '\n')
			}
		default:
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return dst, nil
}

// isXMLText reports whether s is valid UTF-8 made of XML 1.0 characters.
func isXMLText(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || !isXMLChar(r) {
			return false
		}
		i += size
	}
	return true
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= utf8.MaxRune:
		return true
	}
	return false
}

// deferredTags holds at most one decided but unwritten start tag. Closing
// that element while it is still pending writes one self-closed tag; any
// other event writes it as a real start tag first.
//
// The close stack has one name per element that is open, written or not.
type deferredTags struct {
	out        *tagWriter
	closeStack []string
	pending    []byte
	hasPending bool
}

func (d *deferredTags) decideOpen(tag xmlTag) error {
	if err := d.flushPending(); err != nil {
		return err
	}
	b, err := d.out.appendOpen(d.pending[:0], tag)
	d.pending = b
	if err != nil {
		return err
	}
	d.closeStack = append(d.closeStack, strings.Clone(tag.name))
	d.hasPending = true
	return nil
}

func (d *deferredTags) flushPending() error {
	if !d.hasPending {
		return nil
	}
	d.hasPending = false
	return d.out.commit(d.pending, false)
}

func (d *deferredTags) emptyElem(tag xmlTag) error {
	if err := d.flushPending(); err != nil {
		return err
	}
	return d.out.empty(tag)
}

func (d *deferredTags) textElem(s string) error {
	if err := d.flushPending(); err != nil {
		return err
	}
	return d.out.text(s)
}

// closeOrCollapse closes the innermost open element.
func (d *deferredTags) closeOrCollapse() error {
	n := len(d.closeStack)
	if n == 0 {
		return ErrUnbalancedClose
	}
	name := d.closeStack[n-1]
	d.closeStack = d.closeStack[:n-1]
	if d.hasPending {
		d.hasPending = false
		return d.out.commit(d.pending, true)
	}
	return d.out.end(name)
}

func (d *deferredTags) depth() int {
	return len(d.closeStack)
}

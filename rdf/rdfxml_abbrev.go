package rdf

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

const rdfRootName = "rdf:RDF"

// AbbrevConfig configures RDFXMLAbbrevEncoder.
type AbbrevConfig struct {
	// Prefixes maps namespace IRIs to the prefixes declared on the root
	// element. The RDF namespace is always bound to "rdf".
	Prefixes map[string]string
	// Indent is the number of spaces per nesting level. Zero writes the
	// document without line breaks after the declaration.
	Indent int
	// TypedNodes writes a subject's leading rdf:type triple as the element
	// name instead of a generic rdf:Description wrapper.
	TypedNodes bool
	// BlankNodeContraction nests a blank node's description inside the
	// property that refers to it, when that description follows directly.
	BlankNodeContraction bool
}

// DefaultAbbrevConfig returns the configuration used when none is given:
// typed nodes on, compact output, no contraction.
func DefaultAbbrevConfig() AbbrevConfig {
	return AbbrevConfig{TypedNodes: true}
}

// RDFXMLAbbrevEncoder streams triples as abbreviated RDF/XML. Consecutive
// triples with the same subject share one element:
//
//	<schema:Person rdf:about="http://example.org/foo">
//	  <schema:name>Foo</schema:name>
//	</schema:Person>
//
// Triples for one subject must arrive together; nothing is buffered or
// reordered, so a subject that reappears later gets a second element.
//
// Triples passed to Write may borrow parser buffers: the encoder copies
// whatever it keeps across calls.
type RDFXMLAbbrevEncoder struct {
	out        *tagWriter
	tags       deferredTags
	nsToPrefix map[string]string
	cfg        AbbrevConfig
	attrs      []xmlAttr

	last Subject
	open bool // an element for last is open

	held   heldProperty
	scopes []contractScope

	closed bool
	err    error
}

// heldProperty is a property with a blank node object whose element is not
// written until the next triple shows whether it can be contracted.
type heldProperty struct {
	set   bool
	name  string
	xmlns string
	node  string
}

// contractScope records the subject whose property element encloses a
// nested blank node element.
type contractScope struct {
	outer Subject
}

// NewRDFXMLAbbrevEncoder validates cfg and writes the XML declaration and
// the root element start tag to w.
func NewRDFXMLAbbrevEncoder(w io.Writer, cfg AbbrevConfig) (*RDFXMLAbbrevEncoder, error) {
	nsToPrefix, prefixToNS, err := bindPrefixes(cfg.Prefixes)
	if err != nil {
		return nil, err
	}
	out := newTagWriter(w, cfg.Indent)
	e := &RDFXMLAbbrevEncoder{
		out:        out,
		tags:       deferredTags{out: out},
		nsToPrefix: nsToPrefix,
		cfg:        cfg,
	}

	root := xmlTag{name: rdfRootName}
	for _, prefix := range slices.Sorted(maps.Keys(prefixToNS)) {
		root.attrs = append(root.attrs, xmlAttr{name: "xmlns:" + prefix, value: prefixToNS[prefix]})
	}
	if err := out.decl(); err != nil {
		return nil, err
	}
	if err := out.start(root); err != nil {
		return nil, err
	}
	return e, nil
}

func bindPrefixes(prefixes map[string]string) (nsToPrefix, prefixToNS map[string]string, err error) {
	nsToPrefix = map[string]string{RDFNamespace: "rdf"}
	prefixToNS = map[string]string{"rdf": RDFNamespace}
	for ns, prefix := range prefixes {
		if ns == RDFNamespace {
			if prefix != "rdf" {
				return nil, nil, fmt.Errorf("%w: RDF namespace must use prefix rdf, got %q", ErrInvalidPrefix, prefix)
			}
			continue
		}
		switch {
		case ns == "":
			return nil, nil, fmt.Errorf("%w: empty namespace for prefix %q", ErrInvalidPrefix, prefix)
		case !isNCName(prefix):
			return nil, nil, fmt.Errorf("%w: %q is not an XML name", ErrInvalidPrefix, prefix)
		case prefix == "xml" || prefix == "xmlns":
			return nil, nil, fmt.Errorf("%w: %q is reserved", ErrInvalidPrefix, prefix)
		}
		if other, dup := prefixToNS[prefix]; dup {
			return nil, nil, fmt.Errorf("%w: %q bound to both %s and %s", ErrInvalidPrefix, prefix, other, ns)
		}
		prefixToNS[prefix] = ns
		nsToPrefix[ns] = prefix
	}
	return nsToPrefix, prefixToNS, nil
}

// Write encodes one triple.
//
// A predicate that has no XML local name fails with ErrInvalidQName, and a
// term holding a character XML cannot carry fails with ErrInvalidXMLChar.
// Both leave the encoder usable. Any other error is sticky.
func (e *RDFXMLAbbrevEncoder) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return ErrEncoderClosed
	}
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("rdfxml: missing statement fields")
	}
	name, xmlns, ok := e.qname(t.P.Value)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidQName, t.P.Value)
	}
	if err := checkXMLChars(t); err != nil {
		return err
	}
	if err := e.write(t, name, xmlns); err != nil {
		e.err = err
		return err
	}
	return nil
}

// checkXMLChars rejects t before any output is decided for it.
func checkXMLChars(t Triple) error {
	values := [4]string{t.P.Value}
	switch v := t.S.(type) {
	case IRI:
		values[1] = v.Value
	case BlankNode:
		values[1] = v.ID
	}
	switch v := t.O.(type) {
	case IRI:
		values[2] = v.Value
	case BlankNode:
		values[2] = v.ID
	case Literal:
		values[2] = v.Value
		values[3] = v.Lang + v.Datatype.Value
	}
	for _, s := range values {
		if !isXMLText(s) {
			return fmt.Errorf("%w: %q", ErrInvalidXMLChar, s)
		}
	}
	return nil
}

func (e *RDFXMLAbbrevEncoder) write(t Triple, name, xmlns string) error {
	if e.held.set {
		if b, ok := t.S.(BlankNode); ok && b.ID == e.held.node {
			if err := e.tags.decideOpen(e.tag(e.held.name, e.held.xmlns)); err != nil {
				return err
			}
			e.scopes = append(e.scopes, contractScope{outer: e.last})
			e.held = heldProperty{}
			e.open = false
		} else if err := e.emitHeld(); err != nil {
			return err
		}
	}

	if e.open && !SameSubject(e.last, t.S) {
		if err := e.closeSubject(t.S); err != nil {
			return err
		}
	}

	if !e.open {
		opened, err := e.openTypedNode(t)
		if err != nil || opened {
			return err
		}
		if err := e.tags.decideOpen(e.tag("rdf:Description", "", identityAttr(t.S))); err != nil {
			return err
		}
		e.last = cloneSubject(t.S)
		e.open = true
	}

	switch o := t.O.(type) {
	case IRI:
		return e.tags.emptyElem(e.tag(name, xmlns, xmlAttr{name: "rdf:resource", value: o.Value}))
	case BlankNode:
		if e.cfg.BlankNodeContraction {
			e.held = heldProperty{
				set:   true,
				name:  strings.Clone(name),
				xmlns: strings.Clone(xmlns),
				node:  strings.Clone(o.ID),
			}
			return nil
		}
		return e.tags.emptyElem(e.tag(name, xmlns, xmlAttr{name: "rdf:nodeID", value: nodeID(o.ID)}))
	case Literal:
		var tag xmlTag
		switch o.LiteralKind() {
		case LiteralLanguageTagged:
			tag = e.tag(name, xmlns, xmlAttr{name: "xml:lang", value: o.Lang})
		case LiteralTyped:
			tag = e.tag(name, xmlns, xmlAttr{name: "rdf:datatype", value: o.Datatype.Value})
		default:
			tag = e.tag(name, xmlns)
		}
		if err := e.tags.decideOpen(tag); err != nil {
			return err
		}
		if err := e.tags.textElem(o.Value); err != nil {
			return err
		}
		return e.tags.closeOrCollapse()
	default:
		return fmt.Errorf("rdfxml: unsupported object type %T", t.O)
	}
}

// openTypedNode opens the subject's element named after its type. It
// reports false when t is not a type triple or the type has no XML name.
func (e *RDFXMLAbbrevEncoder) openTypedNode(t Triple) (bool, error) {
	if !e.cfg.TypedNodes || t.P.Value != RDFType {
		return false, nil
	}
	typ, ok := t.O.(IRI)
	if !ok {
		return false, nil
	}
	name, xmlns, ok := e.qname(typ.Value)
	if !ok {
		return false, nil
	}
	if err := e.tags.decideOpen(e.tag(name, xmlns, identityAttr(t.S))); err != nil {
		return false, err
	}
	e.last = cloneSubject(t.S)
	e.open = true
	return true, nil
}

// closeSubject closes the element of the current subject and unwinds
// contraction scopes until next's element, if it is one of them, is current.
func (e *RDFXMLAbbrevEncoder) closeSubject(next Subject) error {
	if err := e.tags.closeOrCollapse(); err != nil {
		return err
	}
	e.open = false
	for len(e.scopes) > 0 {
		scope := e.scopes[len(e.scopes)-1]
		e.scopes = e.scopes[:len(e.scopes)-1]
		if err := e.tags.closeOrCollapse(); err != nil {
			return err
		}
		e.last = scope.outer
		e.open = true
		if SameSubject(scope.outer, next) {
			return nil
		}
		if err := e.tags.closeOrCollapse(); err != nil {
			return err
		}
		e.open = false
	}
	return nil
}

func (e *RDFXMLAbbrevEncoder) emitHeld() error {
	h := e.held
	e.held = heldProperty{}
	return e.tags.emptyElem(e.tag(h.name, h.xmlns, xmlAttr{name: "rdf:nodeID", value: nodeID(h.node)}))
}

// qname returns the element name for iri: prefix:local when the namespace
// is bound, or the bare local name plus a default namespace declaration.
func (e *RDFXMLAbbrevEncoder) qname(iri string) (name, xmlns string, ok bool) {
	ns, local := SplitIRI(iri)
	if local == "" {
		return "", "", false
	}
	if prefix, bound := e.nsToPrefix[ns]; bound {
		return prefix + ":" + local, "", true
	}
	return local, ns, true
}

// tag builds a tag on the encoder's attribute buffer. The result is only
// valid until the next call.
func (e *RDFXMLAbbrevEncoder) tag(name, xmlns string, attrs ...xmlAttr) xmlTag {
	a := e.attrs[:0]
	if xmlns != "" {
		a = append(a, xmlAttr{name: "xmlns", value: xmlns})
	}
	a = append(a, attrs...)
	e.attrs = a
	return xmlTag{name: name, attrs: a}
}

func identityAttr(s Subject) xmlAttr {
	switch v := s.(type) {
	case BlankNode:
		return xmlAttr{name: "rdf:nodeID", value: nodeID(v.ID)}
	case IRI:
		return xmlAttr{name: "rdf:about", value: v.Value}
	default:
		return xmlAttr{}
	}
}

// nodeIDPrefix marks blank node identifiers rewritten by nodeID.
const nodeIDPrefix = "x_"

// nodeID returns the rdf:nodeID value for a blank node label. rdf:nodeID
// must be an NCName, which N-Triples labels such as "1a" or "a:b" are not.
// Such labels, and labels that already start with nodeIDPrefix, become
// nodeIDPrefix followed by the label with '_', ':' and every non-name
// character written as "_HEX_". The rewrite is reversible, so distinct
// labels keep distinct identifiers.
func nodeID(label string) string {
	if isNCName(label) && !strings.HasPrefix(label, nodeIDPrefix) {
		return label
	}
	b := make([]byte, 0, len(nodeIDPrefix)+len(label)+8)
	b = append(b, nodeIDPrefix...)
	for i := 0; i < len(label); {
		r, size := utf8.DecodeRuneInString(label[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			// left for the XML escaper to reject
			b = append(b, label[i])
		case r == '_' || r == ':' || !isNameChar(r):
			b = append(b, '_')
			b = strconv.AppendInt(b, int64(r), 16)
			b = append(b, '_')
		default:
			b = append(b, label[i:i+size]...)
		}
		i += size
	}
	return string(b)
}

// Flush writes buffered output. A start tag that may still be written as an
// empty element stays pending.
func (e *RDFXMLAbbrevEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.out.flush()
	return e.err
}

// Close writes any held property, closes every open element and the root
// element, and flushes. Later writes fail with ErrEncoderClosed.
func (e *RDFXMLAbbrevEncoder) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}
	e.err = e.finish()
	return e.err
}

func (e *RDFXMLAbbrevEncoder) finish() error {
	if e.held.set {
		if err := e.emitHeld(); err != nil {
			return err
		}
	}
	for e.tags.depth() > 0 {
		if err := e.tags.closeOrCollapse(); err != nil {
			return err
		}
	}
	e.scopes = nil
	e.open = false
	if err := e.out.end(rdfRootName); err != nil {
		return err
	}
	if err := e.out.newline(); err != nil {
		return err
	}
	return e.out.flush()
}

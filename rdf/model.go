package rdf

import (
	"fmt"
	"strings"
)

const (
	// RDFNamespace is the RDF core vocabulary namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	// RDFType is the rdf:type predicate IRI.
	RDFType = RDFNamespace + "type"
	// XSDString is the xsd:string datatype IRI.
	XSDString = "http://www.w3.org/2001/XMLSchema#string"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
// The set of implementations is closed: IRI, BlankNode and Literal.
type Term interface {
	Kind() TermKind
	String() string
	isTerm()
}

// Subject is a term that can appear in subject position: IRI or BlankNode.
type Subject interface {
	Term
	isSubject()
}

// IRI represents an RDF IRI (a named node).
type IRI struct {
	// Value is the absolute, escape-decoded IRI.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI in angle brackets.
func (i IRI) String() string { return "<" + i.Value + ">" }

func (IRI) isTerm()    {}
func (IRI) isSubject() {}

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node label without the "_:" prefix.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

func (BlankNode) isTerm()    {}
func (BlankNode) isSubject() {}

// LiteralKind distinguishes the three literal shapes.
type LiteralKind uint8

const (
	// LiteralSimple is a plain string literal.
	LiteralSimple LiteralKind = iota
	// LiteralLanguageTagged carries a language tag.
	LiteralLanguageTagged
	// LiteralTyped carries a datatype IRI.
	LiteralTyped
)

// Literal represents an RDF literal.
// At most one of Lang and Datatype is set.
type Literal struct {
	// Value is the lexical form of the literal.
	Value string
	// Lang is the language tag, if any.
	Lang string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
}

// NewSimpleLiteral returns a literal without language or datatype.
func NewSimpleLiteral(value string) Literal {
	return Literal{Value: value}
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(value, lang string) Literal {
	return Literal{Value: value, Lang: lang}
}

// NewTypedLiteral returns a literal with a datatype IRI.
func NewTypedLiteral(value string, datatype IRI) Literal {
	return Literal{Value: value, Datatype: datatype}
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// LiteralKind reports which of the three literal shapes l has.
func (l Literal) LiteralKind() LiteralKind {
	switch {
	case l.Lang != "":
		return LiteralLanguageTagged
	case l.Datatype.Value != "":
		return LiteralTyped
	default:
		return LiteralSimple
	}
}

// String returns a string representation of the literal.
func (l Literal) String() string {
	switch l.LiteralKind() {
	case LiteralLanguageTagged:
		return fmt.Sprintf("%q@%s", l.Value, l.Lang)
	case LiteralTyped:
		return fmt.Sprintf("%q^^%s", l.Value, l.Datatype.String())
	default:
		return fmt.Sprintf("%q", l.Value)
	}
}

func (Literal) isTerm() {}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Subject
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// String renders the triple as a single statement line.
func (t Triple) String() string {
	var s, o string
	if t.S != nil {
		s = t.S.String()
	}
	if t.O != nil {
		o = t.O.String()
	}
	return s + " " + t.P.String() + " " + o + " ."
}

// Clone returns a copy of t that does not share memory with the
// parser buffers it may have been borrowed from.
func (t Triple) Clone() Triple {
	return Triple{
		S: cloneSubject(t.S),
		P: IRI{Value: strings.Clone(t.P.Value)},
		O: cloneTerm(t.O),
	}
}

func cloneSubject(s Subject) Subject {
	switch v := s.(type) {
	case IRI:
		return IRI{Value: strings.Clone(v.Value)}
	case BlankNode:
		return BlankNode{ID: strings.Clone(v.ID)}
	default:
		return nil
	}
}

func cloneTerm(t Term) Term {
	switch v := t.(type) {
	case IRI:
		return IRI{Value: strings.Clone(v.Value)}
	case BlankNode:
		return BlankNode{ID: strings.Clone(v.ID)}
	case Literal:
		return Literal{
			Value:    strings.Clone(v.Value),
			Lang:     strings.Clone(v.Lang),
			Datatype: IRI{Value: strings.Clone(v.Datatype.Value)},
		}
	default:
		return nil
	}
}

// SameSubject reports whether a and b denote the same subject term.
func SameSubject(a, b Subject) bool {
	switch av := a.(type) {
	case IRI:
		bv, ok := b.(IRI)
		return ok && av.Value == bv.Value
	case BlankNode:
		bv, ok := b.(BlankNode)
		return ok && av.ID == bv.ID
	default:
		return false
	}
}

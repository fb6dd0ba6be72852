// Package rdf provides a streaming N-Triples parser and an abbreviating
// RDF/XML encoder with bounded memory use.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// The parser reads one line at a time and decodes terms into a small set of
// reusable buffers, so its footprint is the longest line read so far rather
// than the size of the input:
//   - Parse: ParseNTriples() runs a handler for every statement.
//   - Step: NTriplesParser.Step() parses exactly one line, for callers that
//     want to resynchronize after a syntax error with SkipLine().
//   - Encode: NewNTriplesEncoder() writes the same syntax back.
//   - RDF/XML: NewRDFXMLAbbrevEncoder() groups consecutive triples of one
//     subject into a single element, uses rdf:type as the element name and
//     writes empty elements as self-closed tags.
//
// Triples handed to a TripleHandler borrow the parser's buffers and are only
// valid until the handler returns. Use Triple.Clone to keep one.
//
// Example (N-Triples to RDF/XML):
//
//	enc, err := rdf.NewRDFXMLAbbrevEncoder(os.Stdout, rdf.AbbrevConfig{
//	    Prefixes:   map[string]string{"http://schema.org/": "schema"},
//	    Indent:     2,
//	    TypedNodes: true,
//	})
//	if err != nil {
//	    // handle error
//	}
//	err = rdf.ParseNTriples(ctx, os.Stdin, enc.Write)
//	if err != nil {
//	    // handle error
//	}
//	if err := enc.Close(); err != nil {
//	    // handle error
//	}
//
// Parser options such as OptMaxLineBytes and OptMaxTriples bound resource
// use for untrusted input. Error classes are reported by Code.
package rdf

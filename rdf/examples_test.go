package rdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

func ExampleParseNTriples() {
	input := "<http://example.org/s> <http://example.org/p> \"v\"@en .\n"
	err := ParseNTriples(context.Background(), strings.NewReader(input), func(t Triple) error {
		fmt.Println(t.S, t.P, t.O)
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// <http://example.org/s> <http://example.org/p> "v"@en
}

func ExampleNTriplesParser_Step() {
	input := "<http://example.org/s> <http://example.org/p> \"1\" .\n" +
		"not a statement\n" +
		"<http://example.org/s> <http://example.org/p> \"2\" .\n"
	p := NewNTriplesParser(strings.NewReader(input))
	for {
		err := p.Step(func(t Triple) error {
			fmt.Println(t.O)
			return nil
		})
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println("skipping line", p.Line(), Code(err))
			p.SkipLine()
		}
	}

	// Output:
	// "1"
	// skipping line 2 SYNTAX_ERROR
	// "2"
}

func ExampleNewRDFXMLAbbrevEncoder() {
	enc, err := NewRDFXMLAbbrevEncoder(os.Stdout, AbbrevConfig{
		Prefixes:   map[string]string{"http://schema.org/": "schema"},
		Indent:     2,
		TypedNodes: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	foo := IRI{Value: "http://example.org/foo"}
	_ = enc.Write(Triple{S: foo, P: IRI{Value: RDFType}, O: IRI{Value: "http://schema.org/Person"}})
	_ = enc.Write(Triple{S: foo, P: IRI{Value: "http://schema.org/name"}, O: NewSimpleLiteral("Foo")})
	if err := enc.Close(); err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// <?xml version="1.0" encoding="UTF-8"?>
	// <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:schema="http://schema.org/">
	//   <schema:Person rdf:about="http://example.org/foo">
	//     <schema:name>Foo</schema:name>
	//   </schema:Person>
	// </rdf:RDF>
}

func ExampleSplitIRI() {
	ns, local := SplitIRI("http://schema.org/Person")
	fmt.Println(ns, local)

	// Output:
	// http://schema.org/ Person
}

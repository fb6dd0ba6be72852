package rdf

import (
	"io"
	"strings"
	"testing"
)

const benchLine = "<http://example.org/s> <http://schema.org/name> \"v\\u00E9\"@en .\n"

func BenchmarkNTriplesParse(b *testing.B) {
	input := strings.Repeat(benchLine, 1000)
	noop := func(Triple) error { return nil }
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := NewNTriplesParser(strings.NewReader(input)).ParseAll(noop); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRDFXMLAbbrevEncode(b *testing.B) {
	enc, err := NewRDFXMLAbbrevEncoder(io.Discard, AbbrevConfig{
		Prefixes:   map[string]string{"http://schema.org/": "schema"},
		TypedNodes: true,
	})
	if err != nil {
		b.Fatal(err)
	}
	subjects := []IRI{{Value: "http://example.org/a"}, {Value: "http://example.org/b"}}
	name := IRI{Value: "http://schema.org/name"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := enc.Write(Triple{S: subjects[i%2], P: name, O: NewSimpleLiteral("v")}); err != nil {
			b.Fatal(err)
		}
	}
	if err := enc.Close(); err != nil {
		b.Fatal(err)
	}
}

func FuzzNTriplesParse(f *testing.F) {
	f.Add([]byte(`<http://example.org/s> <http://example.org/p> "v" .`))
	f.Add([]byte("_:a <http://example.org/p> _:b.\n# c\n"))
	f.Add([]byte(`<http://example.org/s> <http://example.org/p> "1"^^<http://example.org/dt> .`))
	f.Fuzz(func(t *testing.T, data []byte) {
		p := NewNTriplesParser(strings.NewReader(string(data)), OptMaxLineBytes(8<<10))
		enc, err := NewRDFXMLAbbrevEncoder(io.Discard, DefaultAbbrevConfig())
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 1000; i++ {
			err := p.Step(func(tr Triple) error {
				_ = enc.Write(tr)
				return nil
			})
			if err == io.EOF {
				break
			}
			if err != nil {
				if Code(err) == ErrCodeUnknown {
					t.Fatalf("unclassified error: %v", err)
				}
				p.SkipLine()
			}
		}
		_ = enc.Close()
	})
}

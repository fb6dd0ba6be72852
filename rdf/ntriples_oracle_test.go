package rdf

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	ld "github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/require"
)

const oracleInput = `# people
<http://example.org/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Person> .
<http://example.org/alice> <http://schema.org/name> "Alice" .
<http://example.org/alice> <http://schema.org/name> "Alicia"@es .
<http://example.org/alice> <http://schema.org/age> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/alice> <http://schema.org/knows> _:bob .

_:bob <http://schema.org/name> "Bob \"the builder\"\nline two" .
_:bob <http://schema.org/description> "café and tab\tand backslash\\" .
<http://example.org/alice> <http://schema.org/url> <http://example.org/~alice?x=1#me> .
`

// TestNTriplesMatchesJSONGold parses the same document with json-gold's
// N-Quads reader and compares the resulting statements. json-gold does not
// accept comment lines, so it reads the document without them.
func TestNTriplesMatchesJSONGold(t *testing.T) {
	dataset, err := (&ld.NQuadRDFSerializer{}).Parse(stripComments(oracleInput))
	require.NoError(t, err)

	var want []string
	for _, quad := range dataset.Graphs["@default"] {
		want = append(want, fmt.Sprintf("%s %s %s", ldNodeString(quad.Subject), ldNodeString(quad.Predicate), ldNodeString(quad.Object)))
	}

	var got []string
	for _, tr := range collectTriples(t, oracleInput) {
		got = append(got, fmt.Sprintf("%s %s %s", termOracleString(tr.S), termOracleString(tr.P), termOracleString(tr.O)))
	}

	sort.Strings(want)
	sort.Strings(got)
	require.NotEmpty(t, want)
	require.Equal(t, want, got)
}

func stripComments(doc string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(doc, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "#") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

func ldNodeString(node ld.Node) string {
	switch v := node.(type) {
	case ld.IRI:
		return "<" + v.Value + ">"
	case ld.BlankNode:
		return v.Attribute
	case ld.Literal:
		if v.Language != "" {
			return fmt.Sprintf("%q@%s", v.Value, strings.ToLower(v.Language))
		}
		if v.Datatype == "" || v.Datatype == XSDString {
			return fmt.Sprintf("%q", v.Value)
		}
		return fmt.Sprintf("%q^^<%s>", v.Value, v.Datatype)
	default:
		return node.GetValue()
	}
}

func termOracleString(term Term) string {
	switch v := term.(type) {
	case BlankNode:
		return "_:" + v.ID
	case Literal:
		switch v.LiteralKind() {
		case LiteralLanguageTagged:
			return fmt.Sprintf("%q@%s", v.Value, strings.ToLower(v.Lang))
		case LiteralTyped:
			return fmt.Sprintf("%q^^<%s>", v.Value, v.Datatype.Value)
		}
		return fmt.Sprintf("%q", v.Value)
	default:
		return term.String()
	}
}

package lang

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

func TestParseGoldenTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "bare object type",
			src:  "way",
			want: "CHECK_OBJECT_TYPE[way]\n",
		},
		{
			name: "tag equality",
			src:  `'highway'=='primary'`,
			want: "CHECK_TAG[highway][equal][primary]\n",
		},
		{
			name: "and of two terms",
			src:  `way and 'highway'=='primary'`,
			want: "BOOL_AND\n CHECK_OBJECT_TYPE[way]\n CHECK_TAG[highway][equal][primary]\n",
		},
		{
			name: "or binds looser than and",
			src:  `node or way and @visible`,
			want: "BOOL_OR\n CHECK_OBJECT_TYPE[node]\n BOOL_AND\n  CHECK_OBJECT_TYPE[way]\n  BOOL_ATTR[visible]\n",
		},
		{
			name: "not of parenthesized or",
			src:  `not (node or way)`,
			want: "BOOL_NOT\n BOOL_OR\n  CHECK_OBJECT_TYPE[node]\n  CHECK_OBJECT_TYPE[way]\n",
		},
		{
			name: "int comparison",
			src:  `@id > 1000`,
			want: "INT_BIN_OP[greater_than]\n INT_ATTR[id]\n INT_VALUE[1000]\n",
		},
		{
			name: "inline id list",
			src:  `@id in (1, 2, 3)`,
			want: "IN_INT_LIST[in]\n INT_ATTR[id]\n VALUES[1, 2, 3]\n",
		},
		{
			name: "file sourced id list",
			src:  `@id not in (<'./excluded.txt')`,
			want: "IN_INT_LIST[not_in]\n INT_ATTR[id]\n FROM_FILE[./excluded.txt]\n",
		},
		{
			name: "bareword has-key",
			src:  "highway",
			want: "HAS_KEY[highway]\n",
		},
		{
			name: "bareword tag equality",
			src:  "highway == primary",
			want: "CHECK_TAG[highway][equal][primary]\n",
		},
		{
			name: "bareword string attribute value",
			src:  "@user == foo",
			want: "BIN_STR_OP[equal]\n STR_ATTR[user]\n STR_VALUE[foo]\n",
		},
		{
			name: "count nodes subexpression",
			src:  `@nodes[@ref > 0] > 2`,
			want: "INT_BIN_OP[greater_than]\n" +
				" COUNT_NODES\n" +
				"  INT_BIN_OP[greater_than]\n" +
				"   INT_ATTR[ref]\n" +
				"   INT_VALUE[0]\n" +
				" INT_VALUE[2]\n",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree, err := Parse(c.src)
			require.NoError(t, err)
			require.Equal(t, c.want, filter.Render(tree))
		})
	}
}

func TestParseRegexCaseInsensitiveFlag(t *testing.T) {
	tree, err := Parse(`'name'=~'^main'i`)
	require.NoError(t, err)
	require.Equal(t, "CHECK_TAG[name][match][^main][IGNORE_CASE]\n", filter.Render(tree))
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := Parse(`way )`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := Parse(`'highway`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Contains(t, perr.Error(), "unterminated string literal")
}

func TestParseUnknownAttribute(t *testing.T) {
	_, err := Parse(`@bogus = 1`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Contains(t, perr.Error(), "unknown attribute")
}

func TestParseRefOutsideNodeOrMemberContextIsRejected(t *testing.T) {
	// @ref is only valid inside @nodes[...] / @members[...]; at the
	// object-level context it is a context error (spec.md §3 invariant 2).
	_, err := Parse(`@ref == 1`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseErrorRenderHasCaretLine(t *testing.T) {
	_, err := Parse(`@bogus`)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	rendered := perr.Render()
	require.Contains(t, rendered, "@bogus")
	require.Contains(t, rendered, "^")
	require.Contains(t, rendered, "Expecting")
}

func TestParseCaseInsensitiveFlagRequiresNoIntermediateTrivia(t *testing.T) {
	// A space before the 'i' means it is not a case-insensitivity flag; the
	// parser should fail needing end-of-input instead of silently eating it.
	_, err := Parse(`'name'=~'^main' i`)
	require.Error(t, err)
}

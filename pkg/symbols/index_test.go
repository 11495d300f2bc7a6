package symbols

import (
	"strings"
	"testing"

	"github.com/bastiangx/cppcomplete/pkg/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(cacheSize int) *Indexer {
	return NewIndexer(tables.MustDefault(), cacheSize)
}

func TestIndexExtractsAllKinds(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"#include <iostream>",
		"#define MAXN 100005",
		"using namespace std;",
		"",
		"struct Edge {",
		"    int to, w;",
		"};",
		"enum class Color { Red, Green };",
		"",
		"static long solve(int n);",
		"char* name_of(int id) {",
		"    return names[id];",
		"}",
		"",
		"int main() {",
		"    int cnt = 0;",
		"    double ratio;",
		"    vector v;",
		"    Edge e;",
		"    e.to = 3;",
		"    p->weight = 1;",
		"    return 0;",
		"}",
	}, "\n")

	syms := newTestIndexer(0).Index(src)

	assertHas(t, syms, "name_of", KindFunction)
	assert.Nil(t, lookup(syms, "solve", KindFunction), "long is a reserved word")
	assert.Nil(t, lookup(syms, "main", KindFunction), "int is a reserved word")
	assertHas(t, syms, "cnt", KindVariable)
	assertHas(t, syms, "ratio", KindVariable)
	assertHas(t, syms, "to", KindVariable)
	assertHas(t, syms, "v", KindVariable)
	assertHas(t, syms, "Edge", KindType)
	assertHas(t, syms, "Color", KindEnum)
	assertHas(t, syms, "to", KindMember)
	assertHas(t, syms, "weight", KindMember)
	assertHas(t, syms, "MAXN", KindMacro)

	nameOf := lookup(syms, "name_of", KindFunction)
	require.NotNil(t, nameOf)
	assert.Equal(t, "char* name_of(...)", nameOf.Detail)
	assert.Equal(t, "User variable", lookup(syms, "cnt", KindVariable).Detail)
	assert.Equal(t, "User defined class/struct", lookup(syms, "Edge", KindType).Detail)
	assert.Equal(t, "User defined enum", lookup(syms, "Color", KindEnum).Detail)
	assert.Equal(t, "Member function/variable", lookup(syms, "weight", KindMember).Detail)
	assert.Equal(t, "Macro definition", lookup(syms, "MAXN", KindMacro).Detail)
}

func TestIndexPassOrder(t *testing.T) {
	t.Parallel()

	src := "#define LIM 10\nint x = 1;\nS f() { return S{}; }\nstruct S {};\n"
	syms := newTestIndexer(0).Index(src)

	var kinds []Kind
	for _, s := range syms {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []Kind{KindFunction, KindVariable, KindType, KindMacro}, kinds)
}

func TestIndexRejectsKeywords(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"Graph* build() {",
		"    return helper(x);",
		"    else if (a) {",
		"    }",
		"    obj.this;",
		"    int new = 1;",
		"}",
	}, "\n")
	syms := newTestIndexer(0).Index(src)

	for _, s := range syms {
		assert.NotEqual(t, "helper", s.Name, "return type 'return' is not a declaration")
		assert.NotEqual(t, "if", s.Name)
		assert.NotEqual(t, "this", s.Name)
		assert.NotEqual(t, "new", s.Name)
	}
	assertHas(t, syms, "build", KindFunction)
}

func TestIndexRejectsReservedReturnTypes(t *testing.T) {
	t.Parallel()

	syms := newTestIndexer(0).Index("int helper(int a) {\n  return a;\n}\nvoid run();\nNode make_node(int v);\n")

	assert.Nil(t, lookup(syms, "helper", KindFunction))
	assert.Nil(t, lookup(syms, "run", KindFunction))
	s := lookup(syms, "make_node", KindFunction)
	require.NotNil(t, s)
	assert.Equal(t, "Node make_node(...)", s.Detail)
}

func TestIndexPointerReturnType(t *testing.T) {
	t.Parallel()

	syms := newTestIndexer(0).Index("void* alloc_block(size_t n);\n")
	s := lookup(syms, "alloc_block", KindFunction)
	require.NotNil(t, s)
	assert.Equal(t, "void* alloc_block(...)", s.Detail)
}

func TestIndexDropsNumericCaptures(t *testing.T) {
	t.Parallel()

	syms := newTestIndexer(0).Index("double pi = 3.14;\n")
	for _, s := range syms {
		assert.NotEqual(t, "14", s.Name)
	}
	assertHas(t, syms, "pi", KindVariable)
}

func TestIndexDeduplicates(t *testing.T) {
	t.Parallel()

	src := "a.size(); b.size(); c->size();\nint n; int n;\n"
	syms := newTestIndexer(0).Index(src)

	count := map[symbolKey]int{}
	for _, s := range syms {
		count[s.key()]++
	}
	for key, n := range count {
		assert.Equal(t, 1, n, "%v indexed %d times", key, n)
	}
	assertHas(t, syms, "size", KindMember)
	assertHas(t, syms, "n", KindVariable)
}

func TestIndexIsTotal(t *testing.T) {
	t.Parallel()

	ix := newTestIndexer(0)
	inputs := []string{
		"",
		"{{{{",
		"int (",
		"class",
		"#define",
		"\"unterminated",
		"/* int hidden = 1;",
		"\x00\xff\xfe",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { ix.Index(in) }, "%q", in)
	}
	assert.Empty(t, ix.Index(""))
}

func TestIndexIsDeterministic(t *testing.T) {
	t.Parallel()

	src := "int a = 1; int b = 2;\nstruct P { int x; };\nP p; p.x = a + b;\n"
	ix := newTestIndexer(0)
	assert.Equal(t, ix.Index(src), ix.Index(src))
}

func TestIndexUsesCache(t *testing.T) {
	t.Parallel()

	ix := newTestIndexer(4)
	src := "int x = 1;"

	first := ix.Index(src)
	second := ix.Index(src)
	assert.Equal(t, first, second)

	stats := ix.Cache().Stats()
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 1, stats["cacheMisses"])

	second[0].Name = "mutated"
	assert.Equal(t, "x", ix.Index(src)[0].Name)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := map[string]Kind{
		"function": KindFunction,
		"Variable": KindVariable,
		"class":    KindType,
		"struct":   KindType,
		"enum":     KindEnum,
		"property": KindMember,
		"constant": KindMacro,
		" macro ":  KindMacro,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("widget")
	assert.Error(t, err)
	assert.Equal(t, "member", KindMember.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func assertHas(t *testing.T, syms []Symbol, name string, kind Kind) {
	t.Helper()
	if lookup(syms, name, kind) == nil {
		t.Errorf("expected %s %q in %+v", kind, name, syms)
	}
}

func lookup(syms []Symbol, name string, kind Kind) *Symbol {
	for i := range syms {
		if syms[i].Name == name && syms[i].Kind == kind {
			return &syms[i]
		}
	}
	return nil
}

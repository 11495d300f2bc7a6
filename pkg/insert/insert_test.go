package insert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// caret splits src at the <caret> marker and returns the buffer and byte offset.
func caret(t *testing.T, src string) (string, int) {
	t.Helper()
	const marker = "<caret>"
	idx := strings.Index(src, marker)
	if idx == -1 {
		t.Fatalf("caret marker not found in %q", src)
	}
	return src[:idx] + src[idx+len(marker):], idx
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src    string
		prefix string
	}{
		{"int main() {\n  co<caret>", "co"},
		{"x = foo_bar2<caret>;", "foo_bar2"},
		{"v.push<caret>", "push"},
		{"#include <vec<caret>", "vec"},
		{"#include <<caret>", ""},
		{`#include "my_hdr<caret>`, "my_hdr"},
		{"#include <sys/ty<caret>", "ty"},
		{"#include vec<caret>", "vec"},
		{"#include   <caret>", ""},
		{"#include<caret>", ""},
		{"vector<<caret>", "<"},
		{"a <caret>", ""},
		{"<caret>", ""},
		{"#def<caret>", "def"},
	}
	for _, tt := range tests {
		buf, cur := caret(t, tt.src)
		got, start := Prefix(buf, cur)
		assert.Equal(t, tt.prefix, got, tt.src)
		assert.Equal(t, cur-len(tt.prefix), start, tt.src)
	}
}

func TestWordStartClamps(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, WordStart("abc", -5))
	assert.Equal(t, 0, WordStart("abc", 99))
	assert.Equal(t, 4, WordStart("int x", 99))
}

func TestShouldTrigger(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"a", "Z", "_x", "#inc", "<", `"my`} {
		assert.True(t, ShouldTrigger(p), p)
	}
	for _, p := range []string{"", "1", "9abc", ".", "->"} {
		assert.False(t, ShouldTrigger(p), p)
	}
}

func TestNeedsTrailingSpace(t *testing.T) {
	t.Parallel()

	for _, next := range []byte(" \t\n()[]{};,.") {
		assert.False(t, NeedsTrailingSpace("cout", next, false), "next %q", next)
	}
	assert.True(t, NeedsTrailingSpace("cout", 'x', false))
	assert.True(t, NeedsTrailingSpace("cout", '<', false))
	assert.True(t, NeedsTrailingSpace("cout", 0, true))
	assert.False(t, NeedsTrailingSpace("<vector>", 'x', false))
	assert.False(t, NeedsTrailingSpace(`"local.h"`, 0, true))
	assert.False(t, NeedsTrailingSpace("#include <map>", 'x', false))
}

func TestInsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		text   string
		want   string
		cursor int
	}{
		{"punctuation follows", "co<caret>;", "cout", "cout;", 4},
		{"identifier follows", "co<caret>x", "cout", "cout x", 5},
		{"end of buffer", "int main() { co<caret>", "cout", "int main() { cout ", 18},
		{"header", "#include <caret>", "<vector>", "#include <vector>", 17},
		{"whitespace follows", "ret<caret> 0;", "return", "return 0;", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, cur := caret(t, tt.src)
			_, start := Prefix(buf, cur)
			got, newCursor := Insert(buf, cur, start, tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.cursor, newCursor)
		})
	}
}

func TestInsertPreservesSurroundings(t *testing.T) {
	t.Parallel()

	buf := "int a;\nfo;\nint b;"
	cur := strings.Index(buf, ";\nint b")
	_, start := Prefix(buf, cur)
	got, c := Insert(buf, cur, start, "for")
	assert.Equal(t, "int a;\nfor;\nint b;", got)
	assert.Equal(t, start+len("for"), c)
	assert.True(t, strings.HasPrefix(got, buf[:start]))
	assert.True(t, strings.HasSuffix(got, buf[cur:]))
}

func TestSpliceClamps(t *testing.T) {
	t.Parallel()

	got, c := Splice("abc", 5, 1, "X")
	assert.Equal(t, "aXbc", got)
	assert.Equal(t, 2, c)

	got, c = Splice("abc", -3, 99, "X")
	assert.Equal(t, "X", got)
	assert.Equal(t, 1, c)
}

package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDoc struct {
	text string
}

func (d *memDoc) BufferText() (string, error) { return d.text, nil }

func (d *memDoc) ReplaceRange(start, end int, text string) error {
	if start < 0 || end < start || end > len(d.text) {
		return fmt.Errorf("bad range [%d, %d)", start, end)
	}
	d.text = d.text[:start] + text + d.text[end:]
	return nil
}

func TestFind(t *testing.T) {
	t.Parallel()

	content := "int count = 0; Count++; recount(count);"
	tests := []struct {
		name  string
		query string
		opts  Options
		want  []string
	}{
		{"case insensitive", "count", Options{}, []string{"count", "Count", "count", "count"}},
		{"match case", "count", Options{MatchCase: true}, []string{"count", "count", "count"}},
		{"whole word", "count", Options{WholeWord: true}, []string{"count", "Count", "count"}},
		{"whole word and case", "Count", Options{WholeWord: true, MatchCase: true}, []string{"Count"}},
		{"literal metacharacters", "++", Options{}, []string{"++"}},
		{"regex", `c\w+t`, Options{UseRegex: true, MatchCase: true}, []string{"count", "count", "count"}},
		{"empty query", "", Options{}, nil},
		{"no hit", "zzz", Options{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(content, tt.query, tt.opts)
			var texts []string
			for _, m := range got {
				assert.Equal(t, content[m.Start:m.End], m.Text)
				texts = append(texts, m.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestFindBadPatternDegrades(t *testing.T) {
	t.Parallel()

	got := Find("a(b", "(", Options{UseRegex: true})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err := Compile("(", Options{UseRegex: true})
	assert.Error(t, err)

	assert.Len(t, Find("a(b", "(", Options{}), 1)
}

func TestSessionNavigation(t *testing.T) {
	t.Parallel()

	s := NewSession(&memDoc{text: "a x a x a"})
	assert.Equal(t, "No results", s.Status())

	require.Equal(t, 3, s.Search("a", Options{}))
	m, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 0, m.Start)
	assert.Equal(t, "1 of 3", s.Status())

	m, _ = s.Next()
	assert.Equal(t, 4, m.Start)
	s.Next()
	m, _ = s.Next()
	assert.Equal(t, 0, m.Start, "next wraps to the first match")

	m, _ = s.Previous()
	assert.Equal(t, 8, m.Start, "previous wraps to the last match")
	assert.Equal(t, "3 of 3", s.Status())

	s.Search("zzz", Options{})
	_, ok = s.Next()
	assert.False(t, ok)
	_, ok = s.Previous()
	assert.False(t, ok)
}

func TestSessionReplaceCurrent(t *testing.T) {
	t.Parallel()

	doc := &memDoc{text: "foo bar foo"}
	s := NewSession(doc)
	s.Search("foo", Options{})
	s.Next()

	require.NoError(t, s.ReplaceCurrent("baz"))
	assert.Equal(t, "foo bar baz", doc.text)
	assert.Len(t, s.Results(), 1, "searched again after replace")

	s.Search("none", Options{})
	assert.True(t, errors.Is(s.ReplaceCurrent("x"), ErrNoMatch))
}

func TestSessionReplaceAll(t *testing.T) {
	t.Parallel()

	doc := &memDoc{text: "i = i + ii;"}
	s := NewSession(doc)
	s.Search("i", Options{WholeWord: true})

	n, err := s.ReplaceAll("index")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "index = index + ii;", doc.text)
	assert.Empty(t, s.Results())

	_, err = s.ReplaceAll("x")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

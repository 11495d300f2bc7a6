package tables

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Group identifies which static table an entry came from.
type Group int

const (
	GroupKeyword Group = iota
	GroupBuiltin
	GroupLibrary
	GroupSnippet
)

func (g Group) String() string {
	switch g {
	case GroupKeyword:
		return "keyword"
	case GroupBuiltin:
		return "builtin"
	case GroupLibrary:
		return "library"
	case GroupSnippet:
		return "snippet"
	}
	return "unknown"
}

// Entry is one static identifier stored in the Index.
type Entry struct {
	Text    string
	Group   Group
	Method  bool
	Snippet *SnippetTemplate
}

// Index is a prefix trie over every non-header identifier of a Tables value.
// Several entries may share a key (e.g. "sort" is a library identifier and a snippet).
type Index struct {
	trie    *patricia.Trie
	headers []string
	size    int
}

// NewIndex builds the prefix trie for t.
func NewIndex(t *Tables) *Index {
	idx := &Index{trie: patricia.NewTrie()}
	if t == nil {
		return idx
	}

	for _, k := range t.Keywords {
		idx.add(Entry{Text: k, Group: GroupKeyword})
	}
	for _, b := range t.BuiltinFunctions {
		idx.add(Entry{Text: b, Group: GroupBuiltin})
	}
	for _, l := range t.Library {
		idx.add(Entry{Text: l, Group: GroupLibrary, Method: t.IsMethod(l)})
	}
	for i := range t.Snippets {
		s := t.Snippets[i]
		idx.add(Entry{Text: s.Trigger, Group: GroupSnippet, Snippet: &s})
	}
	idx.headers = append(idx.headers, t.Headers...)

	log.Debugf("Built tables index with %d entries, %d headers", idx.size, len(idx.headers))
	return idx
}

func (idx *Index) add(e Entry) {
	key := patricia.Prefix(e.Text)
	if existing := idx.trie.Get(key); existing != nil {
		entries := existing.([]Entry)
		for _, prev := range entries {
			if prev.Group == e.Group {
				return
			}
		}
		idx.trie.Set(key, append(entries, e))
	} else {
		idx.trie.Insert(key, []Entry{e})
	}
	idx.size++
}

// Lookup calls visit for every entry whose text starts with prefix (case-sensitive).
// An empty prefix visits every entry.
func (idx *Index) Lookup(prefix string, visit func(Entry)) {
	if idx == nil || idx.trie == nil {
		return
	}
	fn := func(_ patricia.Prefix, item patricia.Item) error {
		for _, e := range item.([]Entry) {
			visit(e)
		}
		return nil
	}

	var err error
	if prefix == "" {
		err = idx.trie.Visit(fn)
	} else {
		err = idx.trie.VisitSubtree(patricia.Prefix(prefix), fn)
	}
	if err != nil {
		log.Errorf("Error visiting tables trie: %v", err)
	}
}

// Headers returns header names whose <name> display contains needle, case-insensitively.
// With angle set, needle is matched against the bare name only (the caller already typed `<`).
func (idx *Index) Headers(needle string, angle bool) []string {
	if idx == nil {
		return nil
	}
	needle = strings.ToLower(needle)
	var out []string
	for _, h := range idx.headers {
		lower := strings.ToLower(h)
		var ok bool
		if angle {
			ok = needle == "" || strings.Contains(lower, needle)
		} else {
			ok = needle == "" || strings.Contains("<"+lower+">", needle)
		}
		if ok {
			out = append(out, h)
		}
	}
	return out
}

// Size returns the number of indexed entries, headers excluded.
func (idx *Index) Size() int {
	if idx == nil {
		return 0
	}
	return idx.size
}

// Package tables holds the static completion vocabulary: keywords, builtin
// functions, library identifiers, header names and snippet templates.
package tables

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed defaults.toml
var defaultTables []byte

// Tables is the static vocabulary loaded once at engine construction.
// It is read-only after Load/Default returns.
type Tables struct {
	Headers          []string          `toml:"headers"`
	Keywords         []string          `toml:"keywords"`
	BuiltinFunctions []string          `toml:"builtin_functions"`
	Library          []string          `toml:"library"`
	Methods          []string          `toml:"methods"`
	Snippets         []SnippetTemplate `toml:"snippets"`

	keywords map[string]struct{}
	methods  map[string]struct{}
}

// Default decodes the tables embedded in the binary.
func Default() (*Tables, error) {
	t, err := decode(defaultTables)
	if err != nil {
		return nil, fmt.Errorf("failed to decode builtin tables: %w", err)
	}
	return t, nil
}

// MustDefault is Default for callers that cannot recover from broken builtin data.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Load returns the builtin tables merged with the entries of extraPath.
// An empty extraPath yields the builtin tables only.
func Load(extraPath string) (*Tables, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if extraPath == "" {
		return base, nil
	}

	if err := ValidateFile(extraPath); err != nil {
		return nil, err
	}

	var extra Tables
	if _, err := toml.DecodeFile(extraPath, &extra); err != nil {
		return nil, fmt.Errorf("failed to decode tables file %s: %w", extraPath, err)
	}

	base.Merge(&extra)
	log.Debugf("Merged tables from %s: %d headers, %d library, %d snippets",
		extraPath, len(extra.Headers), len(extra.Library), len(extra.Snippets))
	return base, nil
}

func decode(data []byte) (*Tables, error) {
	var t Tables
	if _, err := toml.Decode(string(data), &t); err != nil {
		return nil, err
	}
	t.normalize()
	return &t, nil
}

// Merge appends the entries of other that are not already present.
// Snippets with an existing trigger replace the builtin body.
func (t *Tables) Merge(other *Tables) {
	if other == nil {
		return
	}
	t.Headers = append(t.Headers, other.Headers...)
	t.Keywords = append(t.Keywords, other.Keywords...)
	t.BuiltinFunctions = append(t.BuiltinFunctions, other.BuiltinFunctions...)
	t.Library = append(t.Library, other.Library...)
	t.Methods = append(t.Methods, other.Methods...)

	for _, s := range other.Snippets {
		replaced := false
		for i := range t.Snippets {
			if t.Snippets[i].Trigger == s.Trigger {
				t.Snippets[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			t.Snippets = append(t.Snippets, s)
		}
	}
	t.normalize()
}

func (t *Tables) normalize() {
	for i, h := range t.Headers {
		t.Headers[i] = strings.Trim(strings.TrimSpace(h), `<>"`)
	}
	t.Headers = uniqueNonEmpty(t.Headers)
	t.Keywords = uniqueNonEmpty(t.Keywords)
	t.BuiltinFunctions = uniqueNonEmpty(t.BuiltinFunctions)
	t.Library = uniqueNonEmpty(t.Library)
	t.Methods = uniqueNonEmpty(t.Methods)

	snippets := t.Snippets[:0]
	for _, s := range t.Snippets {
		if s.Trigger == "" {
			log.Warnf("Skipping snippet without trigger: %q", s.Description)
			continue
		}
		snippets = append(snippets, s)
	}
	t.Snippets = snippets

	t.keywords = toSet(t.Keywords)
	t.methods = toSet(t.Methods)
}

// IsKeyword reports whether name is a reserved word.
func (t *Tables) IsKeyword(name string) bool {
	_, ok := t.keywords[name]
	return ok
}

// IsMethod reports whether a library identifier is reachable after `.` or `->`.
func (t *Tables) IsMethod(name string) bool {
	_, ok := t.methods[name]
	return ok
}

// Snippet returns the template registered under trigger.
func (t *Tables) Snippet(trigger string) (SnippetTemplate, bool) {
	for _, s := range t.Snippets {
		if s.Trigger == trigger {
			return s, true
		}
	}
	return SnippetTemplate{}, false
}

func uniqueNonEmpty(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

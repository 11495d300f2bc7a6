// Package suggest is the ranker: it gathers candidates from the static tables,
// the user symbols and the custom suggestions, gates them on the cursor
// context and orders them for display.
package suggest

import (
	"fmt"

	"github.com/bastiangx/cppcomplete/pkg/symbols"
)

// Kind is the origin of a candidate.
type Kind int

const (
	KindKeyword Kind = iota
	KindBuiltinFunction
	KindLibrarySymbol
	KindHeader
	KindSnippet
	KindUserSymbol
)

var kindNames = map[Kind]string{
	KindKeyword:         "keyword",
	KindBuiltinFunction: "builtin",
	KindLibrarySymbol:   "library",
	KindHeader:          "header",
	KindSnippet:         "snippet",
	KindUserSymbol:      "symbol",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Priority tiers, highest first.
const (
	PriorityHeader  = 15
	PriorityKeyword = 10
	PriorityBuiltin = 8
	PriorityLibrary = 8
	PrioritySnippet = 7
	PrioritySymbol  = 6
	PriorityCustom  = 5
)

// DefaultMaxResults bounds the ranked list when no limit is configured.
const DefaultMaxResults = 10

// Candidate is one ranked completion option.
//
// Text is what the popup shows and what prefix filtering runs against. For
// snippets it is the trigger label and InsertText holds the template body;
// for every other kind InsertText equals Text.
type Candidate struct {
	Text        string
	InsertText  string
	Kind        Kind
	Priority    int
	Description string
	Method      bool
	SymbolKind  symbols.Kind
}

// Custom is a host-registered suggestion. It ranks like a user symbol but
// with its own priority and survives re-indexing.
type Custom struct {
	Name     string
	Kind     symbols.Kind
	Priority int
}

type candidateKey struct {
	text string
	kind Kind
}

func (c Candidate) key() candidateKey {
	return candidateKey{text: c.Text, kind: c.Kind}
}

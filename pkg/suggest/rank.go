package suggest

import (
	"sort"
	"strings"

	"github.com/bastiangx/cppcomplete/pkg/classify"
	"github.com/bastiangx/cppcomplete/pkg/symbols"
	"github.com/bastiangx/cppcomplete/pkg/tables"
	"github.com/charmbracelet/log"
)

const headerDescription = "Header file"

// Ranker turns a prefix and a cursor context into an ordered candidate list.
// It only reads its tables, so one Ranker can serve concurrent callers.
type Ranker struct {
	tables     *tables.Tables
	index      *tables.Index
	maxResults int
}

// NewRanker indexes t for prefix lookups. maxResults <= 0 selects DefaultMaxResults.
func NewRanker(t *tables.Tables, maxResults int) *Ranker {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Ranker{
		tables:     t,
		index:      tables.NewIndex(t),
		maxResults: maxResults,
	}
}

// MaxResults returns the truncation bound applied by Rank.
func (r *Ranker) MaxResults() int {
	return r.maxResults
}

// Rank returns the top candidates for prefix, truncated to MaxResults.
func (r *Ranker) Rank(prefix string, ctx classify.Context, syms []symbols.Symbol, customs []Custom) []Candidate {
	return truncate(r.RankAll(prefix, ctx, syms, customs), r.maxResults)
}

// RankAll returns every matching candidate in display order: priority
// descending, then Text ascending. Duplicate (Text, Kind) pairs keep the
// higher ranked entry.
func (r *Ranker) RankAll(prefix string, ctx classify.Context, syms []symbols.Symbol, customs []Custom) []Candidate {
	if ctx.Suppressed() {
		return []Candidate{}
	}

	var out []Candidate
	if strings.HasPrefix(prefix, "<") || ctx.AfterInclude || ctx.IsIncludeLine {
		out = r.headers(prefix)
	} else {
		out = r.identifiers(prefix, ctx, syms, customs)
	}

	sortCandidates(out)
	out = dedupeCandidates(out)
	log.Debugf("Ranked %d candidates for prefix %q", len(out), prefix)
	return out
}

func (r *Ranker) headers(prefix string) []Candidate {
	var names []string
	if strings.HasPrefix(prefix, "<") {
		names = r.index.Headers(prefix[1:], true)
	} else {
		names = r.index.Headers(prefix, false)
	}

	out := make([]Candidate, 0, len(names))
	for _, h := range names {
		display := "<" + h + ">"
		out = append(out, Candidate{
			Text:        display,
			InsertText:  display,
			Kind:        KindHeader,
			Priority:    PriorityHeader,
			Description: headerDescription,
		})
	}
	return out
}

func (r *Ranker) identifiers(prefix string, ctx classify.Context, syms []symbols.Symbol, customs []Custom) []Candidate {
	member := ctx.MemberAccess()
	var out []Candidate

	r.index.Lookup(prefix, func(e tables.Entry) {
		if member && !(e.Group == tables.GroupLibrary && e.Method) {
			return
		}
		out = append(out, fromEntry(e))
	})

	for _, s := range syms {
		if !strings.HasPrefix(s.Name, prefix) {
			continue
		}
		if member && s.Kind != symbols.KindMember {
			continue
		}
		out = append(out, Candidate{
			Text:        s.Name,
			InsertText:  s.Name,
			Kind:        KindUserSymbol,
			Priority:    PrioritySymbol,
			Description: s.Detail,
			SymbolKind:  s.Kind,
		})
	}

	for _, c := range customs {
		if !strings.HasPrefix(c.Name, prefix) {
			continue
		}
		if member && c.Kind != symbols.KindMember {
			continue
		}
		out = append(out, Candidate{
			Text:        c.Name,
			InsertText:  c.Name,
			Kind:        KindUserSymbol,
			Priority:    c.Priority,
			Description: "Custom " + c.Kind.String(),
			SymbolKind:  c.Kind,
		})
	}
	return out
}

func fromEntry(e tables.Entry) Candidate {
	c := Candidate{Text: e.Text, InsertText: e.Text, Method: e.Method}
	switch e.Group {
	case tables.GroupKeyword:
		c.Kind = KindKeyword
		c.Priority = PriorityKeyword
		c.Description = "C++ keyword"
	case tables.GroupBuiltin:
		c.Kind = KindBuiltinFunction
		c.Priority = PriorityBuiltin
		c.Description = "C standard library function"
	case tables.GroupLibrary:
		c.Kind = KindLibrarySymbol
		c.Priority = PriorityLibrary
		c.Description = "C++ standard library"
	case tables.GroupSnippet:
		c.Kind = KindSnippet
		c.Priority = PrioritySnippet
		if e.Snippet != nil {
			c.InsertText = e.Snippet.Body
			c.Description = e.Snippet.Description
		}
	}
	return c
}

func sortCandidates(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Priority != c[j].Priority {
			return c[i].Priority > c[j].Priority
		}
		if c[i].Text != c[j].Text {
			return c[i].Text < c[j].Text
		}
		return c[i].Kind < c[j].Kind
	})
}

func dedupeCandidates(in []Candidate) []Candidate {
	seen := make(map[candidateKey]struct{}, len(in))
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c.key()]; ok {
			continue
		}
		seen[c.key()] = struct{}{}
		out = append(out, c)
	}
	return out
}

func truncate(c []Candidate, n int) []Candidate {
	if n > 0 && len(c) > n {
		return c[:n]
	}
	return c
}

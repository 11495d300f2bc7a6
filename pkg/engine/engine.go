// Package engine wires the classifier, symbol indexer, ranker and insertion
// rules into one object driven by an editor Host.
package engine

import (
	"fmt"
	"sync"

	"github.com/bastiangx/cppcomplete/internal/utils"
	"github.com/bastiangx/cppcomplete/pkg/classify"
	"github.com/bastiangx/cppcomplete/pkg/insert"
	"github.com/bastiangx/cppcomplete/pkg/suggest"
	"github.com/bastiangx/cppcomplete/pkg/symbols"
	"github.com/bastiangx/cppcomplete/pkg/tables"
	"github.com/charmbracelet/log"
)

// Options tunes an Engine.
type Options struct {
	MaxResults     int
	CustomPriority int
	AutoTrigger    bool
	TrailingSpace  bool
	CacheSize      int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxResults:     suggest.DefaultMaxResults,
		CustomPriority: suggest.PriorityCustom,
		AutoTrigger:    true,
		TrailingSpace:  true,
		CacheSize:      32,
	}
}

// Engine owns the static tables, the current symbol snapshot and the custom
// suggestions. All methods are safe for concurrent use.
type Engine struct {
	tables  *tables.Tables
	ranker  *suggest.Ranker
	indexer *symbols.Indexer
	symbols *symbols.Table
	opts    Options

	mu      sync.RWMutex
	customs []suggest.Custom
}

// New builds an Engine over t. A nil t selects the builtin tables.
func New(t *tables.Tables, opts Options) *Engine {
	if t == nil {
		t = tables.MustDefault()
	}
	if opts.CustomPriority <= 0 {
		opts.CustomPriority = suggest.PriorityCustom
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = suggest.DefaultMaxResults
	}
	return &Engine{
		tables:  t,
		ranker:  suggest.NewRanker(t, opts.MaxResults),
		indexer: symbols.NewIndexer(t, opts.CacheSize),
		symbols: symbols.NewTable(),
		opts:    opts,
	}
}

func (e *Engine) Tables() *tables.Tables {
	return e.tables
}

func (e *Engine) Options() Options {
	return e.opts
}

// Classify computes the cursor context at a 1-based line and rune column.
func (e *Engine) Classify(buffer string, line, column int) classify.Context {
	return classify.Classify(buffer, line, column)
}

// Index rescans buffer and installs the result as the current snapshot.
func (e *Engine) Index(buffer string) []symbols.Symbol {
	syms := e.indexer.Index(buffer)
	e.symbols.Replace(syms)
	return syms
}

// Symbols returns the current snapshot.
func (e *Engine) Symbols() []symbols.Symbol {
	return e.symbols.Symbols()
}

// Rank orders candidates for prefix against syms plus the custom suggestions.
func (e *Engine) Rank(prefix string, ctx classify.Context, syms []symbols.Symbol) []suggest.Candidate {
	return e.ranker.Rank(prefix, ctx, syms, e.Customs())
}

// GetSuggestions ranks against the current snapshot.
func (e *Engine) GetSuggestions(prefix string, ctx classify.Context) []suggest.Candidate {
	return e.Rank(prefix, ctx, e.Symbols())
}

// Insert splices text over buffer[prefixStart:cursor] with the trailing space rule.
func (e *Engine) Insert(buffer string, cursor, prefixStart int, text string) (string, int) {
	if !e.opts.TrailingSpace {
		return insert.Splice(buffer, prefixStart, cursor, text)
	}
	return insert.Insert(buffer, cursor, prefixStart, text)
}

// AddCustomSuggestion registers name as a completion of the given kind.
// A priority <= 0 selects the configured default. Re-adding a name and kind
// updates its priority.
func (e *Engine) AddCustomSuggestion(name string, kind symbols.Kind, priority int) error {
	if !utils.IsIdentifier(name) {
		return fmt.Errorf("invalid custom suggestion name %q", name)
	}
	if priority <= 0 {
		priority = e.opts.CustomPriority
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.customs {
		if e.customs[i].Name == name && e.customs[i].Kind == kind {
			e.customs[i].Priority = priority
			return nil
		}
	}
	e.customs = append(e.customs, suggest.Custom{Name: name, Kind: kind, Priority: priority})
	log.Debugf("Added custom suggestion %s (%s, priority %d)", name, kind, priority)
	return nil
}

// RemoveCustomSuggestion drops every custom suggestion and every scanned
// symbol called name. It returns the number of entries removed.
func (e *Engine) RemoveCustomSuggestion(name string) int {
	e.mu.Lock()
	kept := e.customs[:0]
	for _, c := range e.customs {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	removed := len(e.customs) - len(kept)
	e.customs = kept
	e.mu.Unlock()

	return removed + e.symbols.Remove(name)
}

// Customs returns a copy of the registered custom suggestions.
func (e *Engine) Customs() []suggest.Custom {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]suggest.Custom(nil), e.customs...)
}

// ClearUserSymbols empties the scanned symbol snapshot and the index cache.
// Custom suggestions are kept.
func (e *Engine) ClearUserSymbols() {
	e.symbols.Clear()
	if c := e.indexer.Cache(); c != nil {
		c.Purge()
	}
}

// Stats reports sizes for health checks.
func (e *Engine) Stats() map[string]int {
	stats := map[string]int{
		"symbols":  e.symbols.Len(),
		"customs":  len(e.Customs()),
		"headers":  len(e.tables.Headers),
		"keywords": len(e.tables.Keywords),
		"library":  len(e.tables.Library),
		"snippets": len(e.tables.Snippets),
	}
	if c := e.indexer.Cache(); c != nil {
		for k, v := range c.Stats() {
			stats[k] = v
		}
	}
	return stats
}

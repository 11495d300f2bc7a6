// Package search implements find and replace over an editor buffer.
package search

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"
)

// Options control how a query is matched.
type Options struct {
	MatchCase bool
	WholeWord bool
	UseRegex  bool
}

// Match is one hit, as byte offsets into the searched content.
type Match struct {
	Start int
	End   int
	Text  string
}

// Compile builds the pattern for query. Literal queries are escaped; whole
// word matching wraps the pattern in \b anchors.
func Compile(query string, opts Options) (*regexp.Regexp, error) {
	pattern := query
	if !opts.UseRegex {
		pattern = regexp.QuoteMeta(query)
	}
	if opts.WholeWord {
		pattern = `\b` + pattern + `\b`
	}
	if !opts.MatchCase {
		pattern = `(?i)` + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", query, err)
	}
	return re, nil
}

// Find returns every match of query in content. An empty query or a pattern
// that does not compile yields no matches.
func Find(content, query string, opts Options) []Match {
	if query == "" {
		return []Match{}
	}
	re, err := Compile(query, opts)
	if err != nil {
		log.Warnf("Search failed: %v", err)
		return []Match{}
	}

	locs := re.FindAllStringIndex(content, -1)
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		out = append(out, Match{Start: loc[0], End: loc[1], Text: content[loc[0]:loc[1]]})
	}
	return out
}

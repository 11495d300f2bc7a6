package search

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrNoMatch is returned by replace operations when there is nothing selected.
var ErrNoMatch = errors.New("no current match")

// Document is the buffer a Session searches and edits.
type Document interface {
	BufferText() (string, error)
	ReplaceRange(start, end int, text string) error
}

// Session keeps the results of the last search and a current match.
type Session struct {
	doc     Document
	query   string
	opts    Options
	results []Match
	current int
}

func NewSession(doc Document) *Session {
	return &Session{doc: doc, current: -1}
}

// Search runs query against the document and selects the first match.
// It returns the number of matches.
func (s *Session) Search(query string, opts Options) int {
	s.query = query
	s.opts = opts
	return s.refresh()
}

func (s *Session) refresh() int {
	s.results = nil
	s.current = -1

	content, err := s.doc.BufferText()
	if err != nil {
		log.Warnf("Failed to read document for search: %v", err)
		return 0
	}
	s.results = Find(content, s.query, s.opts)
	if len(s.results) > 0 {
		s.current = 0
	}
	return len(s.results)
}

// Results returns the matches of the last search.
func (s *Session) Results() []Match {
	return s.results
}

// Current returns the selected match.
func (s *Session) Current() (Match, bool) {
	if s.current < 0 || s.current >= len(s.results) {
		return Match{}, false
	}
	return s.results[s.current], true
}

// Next moves to the following match, wrapping to the first.
func (s *Session) Next() (Match, bool) {
	if len(s.results) == 0 {
		return Match{}, false
	}
	s.current = (s.current + 1) % len(s.results)
	return s.results[s.current], true
}

// Previous moves to the preceding match, wrapping to the last.
func (s *Session) Previous() (Match, bool) {
	if len(s.results) == 0 {
		return Match{}, false
	}
	if s.current <= 0 {
		s.current = len(s.results) - 1
	} else {
		s.current--
	}
	return s.results[s.current], true
}

// Status renders the position line shown next to the search box.
func (s *Session) Status() string {
	if len(s.results) == 0 {
		return "No results"
	}
	current := s.current
	if current < 0 {
		current = 0
	}
	return fmt.Sprintf("%d of %d", current+1, len(s.results))
}

// ReplaceCurrent replaces the selected match with repl and searches again.
func (s *Session) ReplaceCurrent(repl string) error {
	m, ok := s.Current()
	if !ok {
		return ErrNoMatch
	}
	if err := s.doc.ReplaceRange(m.Start, m.End, repl); err != nil {
		return fmt.Errorf("failed to replace match at %d: %w", m.Start, err)
	}
	s.refresh()
	return nil
}

// ReplaceAll replaces every match with repl, last match first so earlier
// offsets stay valid, then searches again. It returns the number replaced.
func (s *Session) ReplaceAll(repl string) (int, error) {
	if len(s.results) == 0 {
		return 0, ErrNoMatch
	}
	replaced := 0
	for i := len(s.results) - 1; i >= 0; i-- {
		m := s.results[i]
		if err := s.doc.ReplaceRange(m.Start, m.End, repl); err != nil {
			s.refresh()
			return replaced, fmt.Errorf("failed to replace match at %d: %w", m.Start, err)
		}
		replaced++
	}
	log.Debugf("Replaced %d matches of %q", replaced, s.query)
	s.refresh()
	return replaced, nil
}

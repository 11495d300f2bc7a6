package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/cppcomplete/internal/utils"
	"github.com/bastiangx/cppcomplete/pkg/classify"
	"github.com/bastiangx/cppcomplete/pkg/config"
	"github.com/bastiangx/cppcomplete/pkg/engine"
	"github.com/bastiangx/cppcomplete/pkg/insert"
	"github.com/bastiangx/cppcomplete/pkg/search"
	"github.com/bastiangx/cppcomplete/pkg/suggest"
	"github.com/bastiangx/cppcomplete/pkg/symbols"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers msgpack completion requests for one engine.
type Server struct {
	engine         *engine.Engine
	dec            *msgpack.Decoder
	out            *bufio.Writer
	enc            *msgpack.Encoder
	maxBufferBytes int
	requestCount   int
}

// NewServer creates a server reading requests from r and writing responses
// to w. cfg may be nil.
func NewServer(e *engine.Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		engine:         e,
		dec:            msgpack.NewDecoder(bufio.NewReader(r)),
		out:            out,
		enc:            msgpack.NewEncoder(out),
		maxBufferBytes: cfg.Server.MaxBufferBytes,
	}
}

// Start sends a ready status and serves requests until the input ends.
// Requests that decode to something other than a Request get an error
// response; a stream that is no longer valid msgpack stops the loop.
func (s *Server) Start() error {
	log.Debug("Starting server.")
	if err := s.send(StatusResponse{ID: "ready", Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Reading request stream: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}
		s.requestCount++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Warnf("Malformed request: %v", err)
			if err := s.sendError(uuid.NewString(), "malformed request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.send(s.handleRequest(req)); err != nil {
			return err
		}
	}
}

// handleRequest dispatches req and returns the response value to encode.
func (s *Server) handleRequest(req Request) any {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if !utils.IsValidBuffer(req.Buffer, s.maxBufferBytes) {
		if s.maxBufferBytes > 0 && len(req.Buffer) > s.maxBufferBytes {
			return CompletionError{ID: req.ID, Error: fmt.Sprintf("buffer exceeds %d bytes", s.maxBufferBytes), Code: 413}
		}
		return CompletionError{ID: req.ID, Error: "buffer is not valid UTF-8", Code: 400}
	}

	start := time.Now()
	var (
		resp any
		err  error
	)
	switch req.Action {
	case ActionComplete:
		resp = s.handleComplete(req)
	case ActionSuggest:
		resp = s.handleSuggest(req)
	case ActionClassify:
		resp = s.handleClassify(req)
	case ActionIndex:
		resp = s.handleIndex(req)
	case ActionInsert:
		resp = s.handleInsert(req)
	case ActionAccept:
		resp, err = s.handleAccept(req)
	case ActionAddCustom:
		resp, err = s.handleAddCustom(req)
	case ActionRemoveCustom:
		resp = &StatusResponse{ID: req.ID, Status: "ok", Count: s.engine.RemoveCustomSuggestion(req.Text)}
	case ActionSearch:
		resp = s.handleSearch(req)
	case ActionHealth:
		stats := s.engine.Stats()
		stats["requests"] = s.requestCount
		resp = &StatusResponse{ID: req.ID, Status: "ok", Stats: stats}
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}
	if err != nil {
		log.Debugf("Request %s failed: %v", req.ID, err)
		code := 400
		if errors.Is(err, errNoCandidate) {
			code = 404
		}
		return CompletionError{ID: req.ID, Error: err.Error(), Code: code}
	}
	setElapsed(resp, time.Since(start).Microseconds())
	return resp
}

var errNoCandidate = errors.New("candidate not offered")

func (s *Server) handleComplete(req Request) *CompletionResponse {
	c := s.engine.CompleteBuffer(req.Buffer, req.Offset, req.Force)
	out := toSuggestions(c.Candidates, req.Limit)
	return &CompletionResponse{
		ID:          req.ID,
		Prefix:      c.Prefix,
		Start:       c.Start,
		Context:     contextFlags(c.Context),
		Suggestions: out,
		Count:       len(out),
	}
}

// handleSuggest ranks against the symbols installed by the last index
// (an index request or the file watcher) without rescanning b. When b is
// given it only supplies the caret context and, if p is empty, the prefix.
func (s *Server) handleSuggest(req Request) *CompletionResponse {
	var ctx classify.Context
	prefix, start := req.Prefix, 0
	if req.Buffer != "" {
		offset := engine.Cursor{Offset: req.Offset}.OffsetIn(req.Buffer)
		ctx = classify.ClassifyOffset(req.Buffer, offset)
		word, wordStart := insert.Prefix(req.Buffer, offset)
		if prefix == "" {
			prefix = word
		}
		start = wordStart
	}

	out := toSuggestions(s.engine.GetSuggestions(prefix, ctx), req.Limit)
	return &CompletionResponse{
		ID:          req.ID,
		Prefix:      prefix,
		Start:       start,
		Context:     contextFlags(ctx),
		Suggestions: out,
		Count:       len(out),
	}
}

func (s *Server) handleClassify(req Request) *ClassifyResponse {
	line, col := classify.Position(req.Buffer, req.Offset)
	ctx := s.engine.Classify(req.Buffer, line, col)
	return &ClassifyResponse{ID: req.ID, Context: contextFlags(ctx), Line: line, Column: col}
}

func (s *Server) handleIndex(req Request) *SymbolsResponse {
	syms := s.engine.Index(req.Buffer)
	out := make([]SymbolInfo, len(syms))
	for i, sym := range syms {
		out[i] = SymbolInfo{Name: sym.Name, Kind: sym.Kind.String(), Detail: sym.Detail}
	}
	return &SymbolsResponse{ID: req.ID, Symbols: out, Count: len(out)}
}

func (s *Server) handleInsert(req Request) *EditResponse {
	offset := engine.Cursor{Offset: req.Offset}.OffsetIn(req.Buffer)
	_, start := insert.Prefix(req.Buffer, offset)
	buf, cursor := s.engine.Insert(req.Buffer, offset, start, req.Text)
	return &EditResponse{ID: req.ID, Buffer: buf, Cursor: cursor}
}

func (s *Server) handleAccept(req Request) (*EditResponse, error) {
	c := s.engine.CompleteBuffer(req.Buffer, req.Offset, true)
	cand, ok := findCandidate(c.Candidates, req.Text, req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errNoCandidate, req.Text)
	}
	buf, edit := s.engine.Apply(req.Buffer, c.Cursor, cand)
	return &EditResponse{ID: req.ID, Buffer: buf, Cursor: edit.Cursor, Stops: edit.Stops}, nil
}

func (s *Server) handleAddCustom(req Request) (*StatusResponse, error) {
	kind := symbols.KindVariable
	if req.Kind != "" {
		k, err := symbols.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	if err := s.engine.AddCustomSuggestion(req.Text, kind, req.Priority); err != nil {
		return nil, err
	}
	return &StatusResponse{ID: req.ID, Status: "ok", Count: len(s.engine.Customs())}, nil
}

func (s *Server) handleSearch(req Request) *SearchResponse {
	matches := search.Find(req.Buffer, req.Text, search.Options{
		MatchCase: req.MatchCase,
		WholeWord: req.WholeWord,
		UseRegex:  req.UseRegex,
	})
	out := make([]SearchMatch, len(matches))
	for i, m := range matches {
		out[i] = SearchMatch{Start: m.Start, End: m.End, Text: m.Text}
	}
	return &SearchResponse{ID: req.ID, Matches: out, Count: len(out)}
}

// send encodes one response and flushes it so the client sees it immediately.
func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}

func toSuggestions(cands []suggest.Candidate, limit int) []CompletionSuggestion {
	if limit > 0 && limit < len(cands) {
		cands = cands[:limit]
	}
	out := make([]CompletionSuggestion, len(cands))
	for i, cand := range cands {
		out[i] = CompletionSuggestion{
			Word:        cand.Text,
			Kind:        cand.Kind.String(),
			Rank:        uint16(i + 1),
			Priority:    cand.Priority,
			Description: cand.Description,
		}
		if cand.InsertText != cand.Text {
			out[i].Insert = cand.InsertText
		}
	}
	return out
}

func findCandidate(cands []suggest.Candidate, text, kind string) (suggest.Candidate, bool) {
	for _, c := range cands {
		if c.Text == text && (kind == "" || c.Kind.String() == kind) {
			return c, true
		}
	}
	return suggest.Candidate{}, false
}

func contextFlags(ctx classify.Context) []string {
	flags := ctx.Flags()
	if flags == nil {
		return []string{}
	}
	return flags
}

func setElapsed(resp any, micros int64) {
	switch r := resp.(type) {
	case *CompletionResponse:
		r.TimeTaken = micros
	case *ClassifyResponse:
		r.TimeTaken = micros
	case *SymbolsResponse:
		r.TimeTaken = micros
	case *EditResponse:
		r.TimeTaken = micros
	case *SearchResponse:
		r.TimeTaken = micros
	case *StatusResponse:
		r.TimeTaken = micros
	}
}

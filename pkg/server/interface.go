/*
Package server implements msgpack IPC for C/C++ completion.

The server reads a stream of msgpack maps from stdin and answers each one with a single msgpack map on stdout.
Requests are handled one after another; every response carries the request id and the time spent in microseconds.

# IPC

Every request names an action and carries the fields that action needs.
The editor always sends the whole buffer, so the server keeps no document state between requests apart from custom suggestions.

A completion request with the caret after `ve`:

	{"id": "req_001", "action": "complete", "b": "#include <vector>\nve", "o": 20}

The server responds with ranked candidates:

	{"id": "req_001", "p": "ve", "st": 18, "x": [], "s": [{"w": "vector", "k": "library", "r": 1, "pr": 8}], "c": 1, "t": 412}

Accepting a candidate returns the edited buffer and the new caret:

	{"id": "req_002", "action": "accept", "b": "...", "o": 20, "t": "vector", "k": "library"}
	{"id": "req_002", "b": "#include <vector>\nvector ", "o": 25, "t": 95}

A suggest request ranks a bare prefix against the symbols from the last index request,
or from the watched file when the server runs with -watch. It never rescans the buffer:

	{"id": "req_004", "action": "suggest", "p": "watched"}

A request without an id gets a generated uuid. A request that cannot be decoded or fails gets an error map:

	{"id": "req_003", "e": "unknown action: frobnicate", "c": 400}

# Actions

complete, suggest, classify, index, insert, accept, add_custom, remove_custom, search and health.
Field names are kept to one or two letters; see Request for the full list.
*/
package server

import "errors"

// ErrUnknownAction is returned for a request whose action is not recognised.
var ErrUnknownAction = errors.New("unknown action")

// Action names accepted in Request.Action.
const (
	ActionComplete     = "complete"
	ActionSuggest      = "suggest"
	ActionClassify     = "classify"
	ActionIndex        = "index"
	ActionInsert       = "insert"
	ActionAccept       = "accept"
	ActionAddCustom    = "add_custom"
	ActionRemoveCustom = "remove_custom"
	ActionSearch       = "search"
	ActionHealth       = "health"
)

// Request - one client message. Unused fields are omitted by the client.
type Request struct {
	ID        string `msgpack:"id"`
	Action    string `msgpack:"action"`
	Buffer    string `msgpack:"b,omitempty"`
	Offset    int    `msgpack:"o,omitempty"`
	Force     bool   `msgpack:"f,omitempty"`
	Prefix    string `msgpack:"p,omitempty"`
	Text      string `msgpack:"t,omitempty"` // inserted text, candidate, custom name or search query
	Kind      string `msgpack:"k,omitempty"` // candidate kind for accept, symbol kind for add_custom
	Priority  int    `msgpack:"pr,omitempty"`
	Limit     int    `msgpack:"l,omitempty"`
	MatchCase bool   `msgpack:"mc,omitempty"`
	WholeWord bool   `msgpack:"ww,omitempty"`
	UseRegex  bool   `msgpack:"re,omitempty"`
}

// CompletionSuggestion - one ranked candidate
type CompletionSuggestion struct {
	Word        string `msgpack:"w"`
	Insert      string `msgpack:"i,omitempty"`
	Kind        string `msgpack:"k"`
	Rank        uint16 `msgpack:"r"`
	Priority    int    `msgpack:"pr"`
	Description string `msgpack:"d,omitempty"`
}

// CompletionResponse - complete response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Prefix      string                 `msgpack:"p"`
	Start       int                    `msgpack:"st"`
	Context     []string               `msgpack:"x"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// ClassifyResponse - caret context for classify
type ClassifyResponse struct {
	ID        string   `msgpack:"id"`
	Context   []string `msgpack:"x"`
	Line      int      `msgpack:"ln"`
	Column    int      `msgpack:"col"`
	TimeTaken int64    `msgpack:"t"`
}

// SymbolInfo - one scanned user symbol
type SymbolInfo struct {
	Name   string `msgpack:"n"`
	Kind   string `msgpack:"k"`
	Detail string `msgpack:"d,omitempty"`
}

// SymbolsResponse - index response
type SymbolsResponse struct {
	ID        string       `msgpack:"id"`
	Symbols   []SymbolInfo `msgpack:"s"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// EditResponse - buffer after insert or accept
type EditResponse struct {
	ID        string `msgpack:"id"`
	Buffer    string `msgpack:"b"`
	Cursor    int    `msgpack:"o"`
	Stops     []int  `msgpack:"st,omitempty"`
	TimeTaken int64  `msgpack:"t"`
}

// SearchMatch - one find result, byte offsets
type SearchMatch struct {
	Start int    `msgpack:"s"`
	End   int    `msgpack:"e"`
	Text  string `msgpack:"m"`
}

// SearchResponse - search response
type SearchResponse struct {
	ID        string        `msgpack:"id"`
	Matches   []SearchMatch `msgpack:"m"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"`
}

// StatusResponse - add_custom, remove_custom, health and the ready banner
type StatusResponse struct {
	ID        string         `msgpack:"id"`
	Status    string         `msgpack:"status"`
	Count     int            `msgpack:"c,omitempty"`
	Stats     map[string]int `msgpack:"stats,omitempty"`
	TimeTaken int64          `msgpack:"t"`
}

// CompletionError holds basic error information for a failed request
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

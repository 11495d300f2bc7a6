package server

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/cppcomplete/internal/watch"
	"github.com/bastiangx/cppcomplete/pkg/config"
	"github.com/bastiangx/cppcomplete/pkg/engine"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// serve feeds msgs to a fresh server and returns a decoder positioned after
// the ready banner.
func serve(t *testing.T, cfg *config.Config, msgs ...any) *msgpack.Decoder {
	t.Helper()
	return serveEngine(t, engine.New(nil, engine.DefaultOptions()), cfg, msgs...)
}

func serveEngine(t *testing.T, e *engine.Engine, cfg *config.Config, msgs ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range msgs {
		require.NoError(t, enc.Encode(m))
	}

	s := NewServer(e, cfg, &in, &out)
	require.NoError(t, s.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
	return dec
}

func decode[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()
	var v T
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestComplete(t *testing.T) {
	dec := serve(t, nil,
		Request{ID: "r1", Action: ActionComplete, Buffer: "ve", Offset: 2},
		Request{ID: "r2", Action: ActionComplete, Buffer: "ve", Offset: 2, Limit: 1},
	)

	resp := decode[CompletionResponse](t, dec)
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "ve", resp.Prefix)
	assert.Equal(t, 0, resp.Start)
	assert.Empty(t, resp.Context)
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, len(resp.Suggestions), resp.Count)
	assert.Equal(t, "vector", resp.Suggestions[0].Word)
	assert.Equal(t, "library", resp.Suggestions[0].Kind)
	assert.Equal(t, uint16(1), resp.Suggestions[0].Rank)

	limited := decode[CompletionResponse](t, dec)
	assert.Equal(t, "r2", limited.ID)
	assert.Equal(t, 1, limited.Count)
}

func TestCompleteNotTriggered(t *testing.T) {
	dec := serve(t, nil, Request{ID: "r", Action: ActionComplete, Buffer: "x = 1", Offset: 5})
	resp := decode[CompletionResponse](t, dec)
	assert.Zero(t, resp.Count)
	assert.Empty(t, resp.Suggestions)
}

func TestClassify(t *testing.T) {
	dec := serve(t, nil, Request{ID: "c", Action: ActionClassify, Buffer: "#include <", Offset: 10})
	resp := decode[ClassifyResponse](t, dec)
	assert.Equal(t, []string{"afterInclude", "isIncludeLine"}, resp.Context)
	assert.Equal(t, 1, resp.Line)
	assert.Equal(t, 11, resp.Column)
}

func TestIndex(t *testing.T) {
	dec := serve(t, nil, Request{ID: "i", Action: ActionIndex, Buffer: "int counter = 0;\nstruct Point {};\n"})
	resp := decode[SymbolsResponse](t, dec)
	assert.Contains(t, resp.Symbols, SymbolInfo{Name: "counter", Kind: "variable", Detail: "User variable"})
	assert.Contains(t, resp.Symbols, SymbolInfo{Name: "Point", Kind: "type", Detail: "User defined class/struct"})
	assert.Equal(t, len(resp.Symbols), resp.Count)
}

func TestSuggestUsesIndexedSnapshot(t *testing.T) {
	dec := serve(t, nil,
		Request{ID: "i", Action: ActionIndex, Buffer: "int watched_total = 0;\n"},
		Request{ID: "s1", Action: ActionSuggest, Prefix: "watched"},
		Request{ID: "s2", Action: ActionSuggest, Buffer: "int other_count = 2;\nwat", Offset: 24},
		Request{ID: "s3", Action: ActionSuggest, Prefix: "other"},
	)
	decode[SymbolsResponse](t, dec)

	byPrefix := decode[CompletionResponse](t, dec)
	assert.Equal(t, "s1", byPrefix.ID)
	assert.Equal(t, "watched", byPrefix.Prefix)
	require.Equal(t, 1, byPrefix.Count)
	assert.Equal(t, "watched_total", byPrefix.Suggestions[0].Word)
	assert.Equal(t, "symbol", byPrefix.Suggestions[0].Kind)

	byCaret := decode[CompletionResponse](t, dec)
	assert.Equal(t, "wat", byCaret.Prefix)
	assert.Equal(t, 21, byCaret.Start)
	require.NotEmpty(t, byCaret.Suggestions)
	assert.Equal(t, "watched_total", byCaret.Suggestions[0].Word)

	notRescanned := decode[CompletionResponse](t, dec)
	assert.Zero(t, notRescanned.Count, "suggest must not index its buffer")
}

func TestSuggestAfterWatcherReindex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int tick_count;\nint tick_limit = 3;\n"), 0o644))

	e := engine.New(nil, engine.DefaultOptions())
	w, err := watch.New(path, e, 0)
	require.NoError(t, err)
	defer w.Stop()
	_, err = w.Reindex()
	require.NoError(t, err)

	dec := serveEngine(t, e, nil, Request{ID: "s", Action: ActionSuggest, Prefix: "tick_"})
	resp := decode[CompletionResponse](t, dec)
	var words []string
	for _, sug := range resp.Suggestions {
		words = append(words, sug.Word)
	}
	assert.Contains(t, words, "tick_count")
}

func TestInsert(t *testing.T) {
	dec := serve(t, nil, Request{ID: "n", Action: ActionInsert, Buffer: "ve", Offset: 2, Text: "vector"})
	resp := decode[EditResponse](t, dec)
	assert.Equal(t, "vector ", resp.Buffer)
	assert.Equal(t, 7, resp.Cursor)
}

func TestAcceptSnippet(t *testing.T) {
	buf := "int main() {\n  ifel"
	dec := serve(t, nil,
		Request{ID: "a", Action: ActionAccept, Buffer: buf, Offset: len(buf), Text: "ifelse", Kind: "snippet"},
		Request{ID: "b", Action: ActionAccept, Buffer: buf, Offset: len(buf), Text: "nothing_like_this"},
	)

	resp := decode[EditResponse](t, dec)
	assert.Equal(t, "a", resp.ID)
	assert.Contains(t, resp.Buffer, "int main() {\n  if (")
	assert.Equal(t, 15+4, resp.Cursor)
	require.Len(t, resp.Stops, 3)
	assert.Equal(t, resp.Cursor, resp.Stops[0])

	missing := decode[CompletionError](t, dec)
	assert.Equal(t, "b", missing.ID)
	assert.Equal(t, 404, missing.Code)
}

func TestCustomSuggestions(t *testing.T) {
	dec := serve(t, nil,
		Request{ID: "1", Action: ActionAddCustom, Text: "myHelper", Kind: "function"},
		Request{ID: "2", Action: ActionComplete, Buffer: "myH", Offset: 3},
		Request{ID: "3", Action: ActionRemoveCustom, Text: "myHelper"},
		Request{ID: "4", Action: ActionAddCustom, Text: "x", Kind: "gadget"},
		Request{ID: "5", Action: ActionAddCustom, Text: "9lives"},
	)

	added := decode[StatusResponse](t, dec)
	assert.Equal(t, "ok", added.Status)
	assert.Equal(t, 1, added.Count)

	comp := decode[CompletionResponse](t, dec)
	require.Equal(t, 1, comp.Count)
	assert.Equal(t, "myHelper", comp.Suggestions[0].Word)
	assert.Equal(t, "symbol", comp.Suggestions[0].Kind)
	assert.Equal(t, 5, comp.Suggestions[0].Priority)

	removed := decode[StatusResponse](t, dec)
	assert.Equal(t, 1, removed.Count)

	badKind := decode[CompletionError](t, dec)
	assert.Equal(t, 400, badKind.Code)
	badName := decode[CompletionError](t, dec)
	assert.Equal(t, 400, badName.Code)
}

func TestSearch(t *testing.T) {
	dec := serve(t, nil, Request{ID: "s", Action: ActionSearch, Buffer: "a b A", Text: "a"})
	resp := decode[SearchResponse](t, dec)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, SearchMatch{Start: 4, End: 5, Text: "A"}, resp.Matches[1])
}

func TestHealthGeneratesID(t *testing.T) {
	dec := serve(t, nil, Request{Action: ActionHealth})
	resp := decode[StatusResponse](t, dec)
	_, err := uuid.Parse(resp.ID)
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Stats["requests"])
	assert.Positive(t, resp.Stats["keywords"])
}

func TestErrorsKeepServing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxBufferBytes = 4

	dec := serve(t, cfg,
		42,
		Request{ID: "u", Action: "frobnicate"},
		Request{ID: "big", Action: ActionIndex, Buffer: "int x;"},
		Request{ID: "utf", Action: ActionIndex, Buffer: "\xff"},
		Request{ID: "h", Action: ActionHealth},
	)

	malformed := decode[CompletionError](t, dec)
	assert.Equal(t, 400, malformed.Code)
	assert.NotEmpty(t, malformed.ID)

	unknown := decode[CompletionError](t, dec)
	assert.Equal(t, "u", unknown.ID)
	assert.Contains(t, unknown.Error, "unknown action")

	big := decode[CompletionError](t, dec)
	assert.Equal(t, 413, big.Code)

	utf := decode[CompletionError](t, dec)
	assert.Equal(t, 400, utf.Code)

	health := decode[StatusResponse](t, dec)
	assert.Equal(t, "h", health.ID)
	assert.Equal(t, 5, health.Stats["requests"])
}

package engine

import (
	"github.com/bastiangx/cppcomplete/pkg/classify"
	"github.com/bastiangx/cppcomplete/pkg/insert"
	"github.com/bastiangx/cppcomplete/pkg/suggest"
	"github.com/bastiangx/cppcomplete/pkg/tables"
	"github.com/charmbracelet/log"
)

// Completion is the outcome of one completion request.
type Completion struct {
	Prefix     string
	Start      int
	Cursor     int
	Context    classify.Context
	Candidates []suggest.Candidate
}

// Edit is the buffer change produced by accepting a candidate.
type Edit struct {
	Start  int
	End    int
	Text   string
	Cursor int
	// Stops holds the absolute tab stop offsets of an expanded snippet.
	Stops   []int
	Applied bool
}

// Complete reads the host buffer and caret and returns the ranked candidates.
// Unless force is set, nothing is offered when the typed prefix does not look
// like the start of a completion, the cursor follows `.`/`->`, or it sits in
// an #include directive. Host failures yield an empty Completion.
func (e *Engine) Complete(host Host, force bool) Completion {
	if host == nil {
		return Completion{Candidates: []suggest.Candidate{}}
	}
	buffer, err := host.BufferText()
	if err != nil {
		log.Warnf("Failed to read host buffer: %v", err)
		return Completion{Candidates: []suggest.Candidate{}}
	}
	cur, err := host.Cursor()
	if err != nil {
		log.Warnf("Failed to read host cursor: %v", err)
		return Completion{Candidates: []suggest.Candidate{}}
	}
	return e.CompleteBuffer(buffer, cur.OffsetIn(buffer), force)
}

// CompleteBuffer is Complete for a plain buffer and byte offset.
func (e *Engine) CompleteBuffer(buffer string, offset int, force bool) Completion {
	offset = Cursor{Offset: offset}.OffsetIn(buffer)
	prefix, start := insert.Prefix(buffer, offset)
	ctx := classify.ClassifyOffset(buffer, offset)

	out := Completion{
		Prefix:     prefix,
		Start:      start,
		Cursor:     offset,
		Context:    ctx,
		Candidates: []suggest.Candidate{},
	}

	if !force {
		if !e.opts.AutoTrigger {
			return out
		}
		if !insert.ShouldTrigger(prefix) && !ctx.MemberAccess() && !ctx.AfterInclude {
			return out
		}
	}

	syms := e.Index(buffer)
	out.Candidates = e.Rank(prefix, ctx, syms)
	return out
}

// Plan computes the edit that accepting c at offset would make, without
// touching any host.
func (e *Engine) Plan(buffer string, offset int, c suggest.Candidate) Edit {
	offset = Cursor{Offset: offset}.OffsetIn(buffer)
	start := insert.WordStart(buffer, offset)

	switch c.Kind {
	case suggest.KindSnippet:
		body := c.InsertText
		if body == "" {
			body = c.Text
		}
		text, stops := tables.SnippetTemplate{Trigger: c.Text, Body: body}.Expand()
		abs := make([]int, len(stops))
		for i, s := range stops {
			abs[i] = start + s
		}
		return Edit{Start: start, End: offset, Text: text, Cursor: abs[0], Stops: abs}

	case suggest.KindHeader:
		end := offset
		if start > 0 && (buffer[start-1] == '<' || buffer[start-1] == '"') {
			start--
		}
		if end < len(buffer) && (buffer[end] == '>' || buffer[end] == '"') {
			end++
		}
		return Edit{Start: start, End: end, Text: c.Text, Cursor: start + len(c.Text)}
	}

	text := c.InsertText
	if text == "" {
		text = c.Text
	}
	updated, cursor := e.Insert(buffer, offset, start, text)
	// Insert only ever appends a space, so the inserted text can be read back.
	inserted := updated[start:cursor]
	return Edit{Start: start, End: offset, Text: inserted, Cursor: cursor}
}

// Apply returns the buffer and caret after accepting c at offset.
func (e *Engine) Apply(buffer string, offset int, c suggest.Candidate) (string, Edit) {
	edit := e.Plan(buffer, offset, c)
	out := buffer[:edit.Start] + edit.Text + buffer[edit.End:]
	edit.Applied = true
	return out, edit
}

// Accept applies c to the host buffer at the current caret. Host failures
// are logged and leave Applied false.
func (e *Engine) Accept(host Host, c suggest.Candidate) Edit {
	if host == nil {
		return Edit{}
	}
	buffer, err := host.BufferText()
	if err != nil {
		log.Warnf("Failed to read host buffer: %v", err)
		return Edit{}
	}
	cur, err := host.Cursor()
	if err != nil {
		log.Warnf("Failed to read host cursor: %v", err)
		return Edit{}
	}

	edit := e.Plan(buffer, cur.OffsetIn(buffer), c)
	if err := host.ReplaceRange(edit.Start, edit.End, edit.Text); err != nil {
		log.Warnf("Host rejected edit [%d, %d): %v", edit.Start, edit.End, err)
		return edit
	}
	if setter, ok := host.(CursorSetter); ok && edit.Cursor != edit.Start+len(edit.Text) {
		if err := setter.SetCursor(edit.Cursor); err != nil {
			log.Warnf("Host rejected cursor %d: %v", edit.Cursor, err)
		}
	}
	edit.Applied = true
	return edit
}

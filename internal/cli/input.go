// Package cli is a line-oriented REPL for trying the completion engine
// without an editor. Each entered line is appended to a scratch buffer and
// completed with the caret at its end.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/cppcomplete/internal/theme"
	"github.com/bastiangx/cppcomplete/pkg/engine"
	"github.com/bastiangx/cppcomplete/pkg/search"
	"github.com/bastiangx/cppcomplete/pkg/symbols"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from in and prints suggestions to out.
type InputHandler struct {
	engine       *engine.Engine
	in           io.Reader
	out          io.Writer
	limit        int
	showContext  bool
	buffer       strings.Builder
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler.
// A limit <= 0 prints every candidate the engine returns.
func NewInputHandler(e *engine.Engine, limit int, showContext bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		engine:      e,
		in:          in,
		out:         out,
		limit:       limit,
		showContext: showContext,
	}
}

// Start runs the loop until in is exhausted.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, theme.Title.Render("cppcomplete CLI"))
	fmt.Fprintln(h.out, theme.Muted.Render("type C++ and press Enter; :help lists commands (Ctrl+D to exit)"))

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		h.handleInput(scanner.Text())
	}
}

// Buffer returns the accumulated scratch buffer.
func (h *InputHandler) Buffer() string {
	return h.buffer.String()
}

func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		h.handleCommand(strings.Fields(line[1:]))
		return
	}
	h.requestCount++

	h.buffer.WriteString(line)
	text := h.buffer.String()

	start := time.Now()
	c := h.engine.CompleteBuffer(text, len(text), true)
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), c.Prefix)
	h.buffer.WriteByte('\n')

	if h.showContext {
		fmt.Fprintf(h.out, "%s prefix=%q context=%s\n", theme.Muted.Render("·"), c.Prefix, c.Context)
	}
	cands := c.Candidates
	if len(cands) == 0 {
		fmt.Fprintln(h.out, theme.Muted.Render("no suggestions"))
		return
	}
	if h.limit > 0 && len(cands) > h.limit {
		cands = cands[:h.limit]
	}
	for i, cand := range cands {
		fmt.Fprintf(h.out, "%2d. %s\n", i+1, theme.Candidate(cand))
	}
}

func (h *InputHandler) handleCommand(args []string) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "reset":
		h.buffer.Reset()
		h.engine.ClearUserSymbols()
		fmt.Fprintln(h.out, "buffer cleared")
	case "show":
		fmt.Fprint(h.out, h.buffer.String())
	case "symbols":
		syms := h.engine.Index(h.buffer.String())
		if len(syms) == 0 {
			fmt.Fprintln(h.out, theme.Muted.Render("no symbols"))
			return
		}
		for _, s := range syms {
			fmt.Fprintf(h.out, "%-10s %-20s %s\n", s.Kind, s.Name, theme.Muted.Render(s.Detail))
		}
	case "add":
		if len(args) < 2 {
			fmt.Fprintln(h.out, "usage: :add <name> [kind]")
			return
		}
		kind := symbols.KindVariable
		if len(args) > 2 {
			k, err := symbols.ParseKind(args[2])
			if err != nil {
				log.Errorf("%v", err)
				return
			}
			kind = k
		}
		if err := h.engine.AddCustomSuggestion(args[1], kind, 0); err != nil {
			log.Errorf("%v", err)
			return
		}
		fmt.Fprintf(h.out, "added %s (%s)\n", args[1], kind)
	case "rm":
		if len(args) < 2 {
			fmt.Fprintln(h.out, "usage: :rm <name>")
			return
		}
		fmt.Fprintf(h.out, "removed %d\n", h.engine.RemoveCustomSuggestion(args[1]))
	case "find":
		if len(args) < 2 {
			fmt.Fprintln(h.out, "usage: :find <query>")
			return
		}
		text := h.buffer.String()
		matches := search.Find(text, strings.Join(args[1:], " "), search.Options{MatchCase: true})
		for _, m := range matches {
			fmt.Fprintf(h.out, "%d-%d %q\n", m.Start, m.End, m.Text)
		}
		fmt.Fprintf(h.out, "%d matches\n", len(matches))
	case "help":
		fmt.Fprintln(h.out, ":reset  :show  :symbols  :add <name> [kind]  :rm <name>  :find <query>")
	default:
		fmt.Fprintf(h.out, "unknown command %q\n", args[0])
	}
}

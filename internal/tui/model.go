// Package tui is a small terminal editor that drives the completion engine
// through the input router, the same way an editor host would.
package tui

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/cppcomplete/internal/theme"
	"github.com/bastiangx/cppcomplete/pkg/classify"
	"github.com/bastiangx/cppcomplete/pkg/engine"
	"github.com/bastiangx/cppcomplete/pkg/router"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	tabWidth   = 4
	caretGlyph = "│"
)

// Model is the bubbletea model of the editor.
type Model struct {
	engine *engine.Engine
	host   *engine.BufferHost
	router *router.Router
	path   string
	status string
	width  int
}

// NewModel returns an editor over text with the caret at the end. path is
// where ctrl+s saves; empty disables saving.
func NewModel(e *engine.Engine, text, path string) *Model {
	return &Model{
		engine: e,
		host:   engine.NewBufferHost(text, len(text)),
		router: router.New(),
		path:   path,
	}
}

// Text returns the buffer and the caret offset.
func (m *Model) Text() (string, int) {
	text, _ := m.host.BufferText()
	cur, _ := m.host.Cursor()
	return text, cur.Offset
}

// Router exposes the popup state.
func (m *Model) Router() *router.Router {
	return m.router
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlQ:
			return m, tea.Quit
		case tea.KeyCtrlS:
			m.save()
			return m, nil
		}
		m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	key, printable := routerKey(msg)
	res := m.router.Handle(key, printable)
	log.Debugf("key %s -> %s", msg, res.Action)

	switch res.Action {
	case router.ActionConsume, router.ActionDismiss:
	case router.ActionAccept:
		edit := m.engine.Accept(m.host, res.Candidate)
		if edit.Applied {
			m.status = "inserted " + res.Candidate.Text
		}
	case router.ActionTrigger:
		m.complete(true)
	case router.ActionPassThrough:
		m.edit(msg)
		if res.Retrigger {
			m.complete(false)
		}
	}
}

func (m *Model) complete(force bool) {
	c := m.engine.Complete(m.host, force)
	m.router.Show(c.Candidates)
	if len(c.Candidates) == 0 && force {
		m.status = "no suggestions"
	}
}

// edit applies a key the router passed through to the buffer.
func (m *Model) edit(msg tea.KeyMsg) {
	text, cur := m.Text()
	switch msg.Type {
	case tea.KeyRunes:
		m.insertAt(cur, string(msg.Runes))
	case tea.KeySpace:
		m.insertAt(cur, " ")
	case tea.KeyEnter:
		m.insertAt(cur, "\n")
	case tea.KeyTab:
		m.insertAt(cur, strings.Repeat(" ", tabWidth))
	case tea.KeyBackspace:
		if cur > 0 {
			_, size := utf8.DecodeLastRuneInString(text[:cur])
			m.replace(cur-size, cur, "")
		}
	case tea.KeyDelete:
		if cur < len(text) {
			_, size := utf8.DecodeRuneInString(text[cur:])
			m.replace(cur, cur+size, "")
		}
	case tea.KeyLeft:
		if cur > 0 {
			_, size := utf8.DecodeLastRuneInString(text[:cur])
			m.setCursor(cur - size)
		}
	case tea.KeyRight:
		if cur < len(text) {
			_, size := utf8.DecodeRuneInString(text[cur:])
			m.setCursor(cur + size)
		}
	case tea.KeyUp, tea.KeyDown:
		line, col := classify.Position(text, cur)
		if msg.Type == tea.KeyUp {
			line--
		} else {
			line++
		}
		if line >= 1 && line <= strings.Count(text, "\n")+1 {
			m.setCursor(classify.Offset(text, line, col))
		}
	case tea.KeyHome:
		m.setCursor(strings.LastIndexByte(text[:cur], '\n') + 1)
	case tea.KeyEnd:
		if i := strings.IndexByte(text[cur:], '\n'); i >= 0 {
			m.setCursor(cur + i)
		} else {
			m.setCursor(len(text))
		}
	}
}

func (m *Model) insertAt(cur int, s string) {
	m.replace(cur, cur, s)
}

func (m *Model) replace(start, end int, s string) {
	if err := m.host.ReplaceRange(start, end, s); err != nil {
		log.Warnf("edit [%d, %d) rejected: %v", start, end, err)
	}
}

func (m *Model) setCursor(offset int) {
	if err := m.host.SetCursor(offset); err != nil {
		log.Warnf("cursor %d rejected: %v", offset, err)
	}
}

func (m *Model) save() {
	if m.path == "" {
		m.status = "no file to save to"
		return
	}
	text, _ := m.Text()
	if err := os.WriteFile(m.path, []byte(text), 0o644); err != nil {
		log.Errorf("Failed to save %s: %v", m.path, err)
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + m.path
}

func (m *Model) View() string {
	text, cur := m.Text()
	rows := []string{text[:cur] + caretGlyph + text[cur:]}

	if m.router.State() == router.SuggestionsOpen {
		var items []string
		for i, c := range m.router.Candidates() {
			line := theme.Candidate(c)
			if i == m.router.Selected() {
				line = theme.Selected.Render(line)
			}
			items = append(items, line)
		}
		rows = append(rows, theme.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, items...)))
	}

	line, col := classify.Position(text, cur)
	ctx := classify.ClassifyOffset(text, cur)
	footer := fmt.Sprintf("%d:%d %s  ctrl+space complete · esc close · ctrl+s save · ctrl+c quit", line, col, ctx)
	if m.status != "" {
		footer = m.status + "  " + footer
	}
	rows = append(rows, "", theme.Status.Render(footer))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func routerKey(msg tea.KeyMsg) (router.Key, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return router.KeyArrowUp, false
	case tea.KeyDown:
		return router.KeyArrowDown, false
	case tea.KeyTab:
		return router.KeyTab, false
	case tea.KeyEnter:
		return router.KeyEnter, false
	case tea.KeyEsc:
		return router.KeyEscape, false
	case tea.KeyCtrlAt:
		return router.KeyCtrlSpace, false
	case tea.KeyRunes, tea.KeySpace:
		return router.KeyOther, true
	}
	return router.KeyOther, false
}

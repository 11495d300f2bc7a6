// Package theme holds the lipgloss styles shared by the CLI and the TUI.
package theme

import (
	"fmt"

	"github.com/bastiangx/cppcomplete/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

// Rose pine, light and dark.
var (
	Text    = lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	Subtle  = lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}
	Surface = lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}
	Love    = lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}
	Gold    = lipgloss.AdaptiveColor{Light: "#ea9d34", Dark: "#f6c177"}
	Rose    = lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#ebbcba"}
	Pine    = lipgloss.AdaptiveColor{Light: "#286983", Dark: "#31748f"}
	Foam    = lipgloss.AdaptiveColor{Light: "#56949f", Dark: "#9ccfd8"}
	Iris    = lipgloss.AdaptiveColor{Light: "#907aa9", Dark: "#c4a7e7"}
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Muted    = lipgloss.NewStyle().Foreground(Subtle)
	Selected = lipgloss.NewStyle().Background(Surface).Bold(true)
	Popup    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Subtle).Padding(0, 1)
	Status   = lipgloss.NewStyle().Foreground(Subtle).Italic(true)
)

var kindColors = map[suggest.Kind]lipgloss.AdaptiveColor{
	suggest.KindKeyword:         Love,
	suggest.KindBuiltinFunction: Gold,
	suggest.KindLibrarySymbol:   Foam,
	suggest.KindHeader:          Pine,
	suggest.KindSnippet:         Iris,
	suggest.KindUserSymbol:      Rose,
}

// Kind returns the style used for candidates of kind k.
func Kind(k suggest.Kind) lipgloss.Style {
	if c, ok := kindColors[k]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(Text)
}

// Candidate renders one suggestion line: the word in its kind color, the
// kind name, and the description when present.
func Candidate(c suggest.Candidate) string {
	line := fmt.Sprintf("%-24s %s", Kind(c.Kind).Render(c.Text), Muted.Render(c.Kind.String()))
	if c.Description != "" {
		line += "  " + Muted.Render(c.Description)
	}
	return line
}

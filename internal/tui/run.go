package tui

import (
	"fmt"
	"os"

	"github.com/bastiangx/cppcomplete/pkg/engine"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Run opens the editor on path (created on save when missing). Logs go to
// logPath while the terminal is taken over.
func Run(e *engine.Engine, path, logPath string) error {
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "cppcomplete")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
		defer log.SetOutput(os.Stderr)
	}

	var text string
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			text = string(data)
		case os.IsNotExist(err):
			log.Debugf("%s does not exist yet", path)
		default:
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	m := NewModel(e, text, path)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("editor exited: %w", err)
	}
	return nil
}

package runner

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewMarkdownRenderer returns a renderer that turns markdown replies
// into styled terminal output. It auto-detects the terminal background;
// if the renderer cannot be built, nil is returned and replies are
// printed verbatim.
func NewMarkdownRenderer() ContentRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsInteractive reports whether f is attached to a terminal. The CLI
// uses this to decide between rich and plain output.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

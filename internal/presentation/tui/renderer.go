package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWidth = 100

// NewRenderer returns a function that renders markdown using glamour,
// word-wrapped to width. A width of zero or less uses the default.
func NewRenderer(width int) (func(string) (string, error), error) {
	if width <= 0 {
		width = defaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of w, or zero when unknown.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// Render writes markdown to w. Terminals get the styled rendering; pipes and
// files get the markdown source unchanged.
func Render(w io.Writer, markdown string) error {
	if !IsTerminal(w) {
		_, err := io.WriteString(w, markdown)
		return err
	}
	render, err := NewRenderer(Width(w))
	if err != nil {
		return err
	}
	out, err := render(markdown)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

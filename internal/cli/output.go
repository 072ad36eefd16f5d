package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/stepwise/internal/presentation/tui"
)

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Write prints a result. Text renders markdown with glamour on a terminal,
// markdown prints the source and json encodes view.
func Write(w io.Writer, format, markdown string, view any) error {
	switch format {
	case FormatText, "":
		return tui.Render(w, markdown)
	case FormatMarkdown:
		_, err := io.WriteString(w, markdown)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatText, FormatMarkdown, FormatJSON)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

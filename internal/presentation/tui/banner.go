package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/stepwise/pkg/domain"
)

// PrintBanner writes the command banner.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _                        _          ", "#38bdf8"},
		{"  ___| |_ ___ _ ____      _(_)___  ___ ", "#22d3ee"},
		{" / __| __/ _ \\ '_ \\ \\ /\\ / / / __|/ _ \\", "#2dd4bf"},
		{" \\__ \\ ||  __/ |_) \\ V  V /| \\__ \\  __/", "#34d399"},
		{" |___/\\__\\___| .__/ \\_/\\_/ |_|___/\\___|", "#4ade80"},
		{"             |_|                        ", "#a3e635"},
	}
	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

var statusColors = map[domain.Status]string{
	domain.StatusCreated:    "#4ade80",
	domain.StatusPropagated: "#94a3b8",
	domain.StatusModified:   "#facc15",
}

// StatusString colors a status for terminal output. Suppressed statuses are
// faint; NOT_YET_ACTIVE is left plain.
func StatusString(p termenv.Profile, s domain.Status) termenv.Style {
	out := p.String(string(s))
	if c, ok := statusColors[s]; ok {
		return out.Foreground(p.Color(c))
	}
	if s.Suppressed() {
		return out.Faint()
	}
	return out
}

package runner

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner, colored to the terminal's
// capabilities.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ____        _      _____ _`, "#818cf8"},
		{`  / __ \ _   _(_)____|  ___| | _____      __`, "#a78bfa"},
		{` | |  | | | | | |_  / |_  | |/ _ \ \ /\ / /`, "#c084fc"},
		{` | |__| | |_| | |/ /|  _| | | (_) \ V  V /`, "#e879f9"},
		{`  \___\_\\__,_|_/___|_|   |_|\___/ \_/\_/`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "\n  quizflow %s\n\n", version)
}

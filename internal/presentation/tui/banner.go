package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the onlylist banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"             _       _ _     _   ", "#818cf8"},
		{"  ___  _ __ | |_   _| (_)___| |_ ", "#a78bfa"},
		{" / _ \\| '_ \\| | | | | | / __| __|", "#c084fc"},
		{"| (_) | | | | | |_| | | \\__ \\ |_ ", "#e879f9"},
		{" \\___/|_| |_|_|\\__, |_|_|___/\\__|", "#f472b6"},
		{"               |___/             ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}

package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/sanitize"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Markdown renders tasks as a GitHub-style checklist, numbered from 1.
func Markdown(tasks domain.TaskList) string {
	if len(tasks) == 0 {
		return "_No tasks yet._\n"
	}
	var b strings.Builder
	for i, t := range tasks {
		mark := " "
		text := escapeMarkdown(sanitize.Text(t.Text))
		if t.Completed {
			mark = "x"
			text = "~~" + text + "~~"
		}
		fmt.Fprintf(&b, "- [%s] **%d.** %s\n", mark, i+1, text)
	}
	return b.String()
}

// Plain renders tasks one per line for pipes and scripts.
func Plain(tasks domain.TaskList) string {
	var b strings.Builder
	for i, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, mark, sanitize.Text(t.Text))
	}
	return b.String()
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// PrintTasks writes the list to w. pretty selects glamour output, which is only used when w
// is a terminal; otherwise the plain form is written.
func PrintTasks(w io.Writer, tasks domain.TaskList, pretty bool) error {
	if pretty && IsTerminal(w) {
		render, err := NewRenderer()
		if err == nil {
			out, err := render(Markdown(tasks))
			if err == nil {
				_, err = io.WriteString(w, out)
				return err
			}
		}
	}

	if len(tasks) == 0 {
		_, err := io.WriteString(w, "No tasks yet.\n")
		return err
	}
	_, err := io.WriteString(w, Plain(tasks))
	return err
}

// PrintNotice writes a warning to w, colored when w is a terminal.
func PrintNotice(w io.Writer, message string) {
	if IsTerminal(w) {
		p := termenv.EnvColorProfile()
		fmt.Fprintln(w, termenv.String(message).Foreground(p.Color("#f59e0b")).Bold())
		return
	}
	fmt.Fprintln(w, message)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "~", `\~`, "[", `\[`, "]", `\]`, "<", "&lt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

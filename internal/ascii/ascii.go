package ascii

import (
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/glamour"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Markdown renders markdown to a string suitable for terminal output
func Markdown(s string) string {
	out, err := glamour.Render(s, "dark")
	if err != nil {
		return s
	}

	return out
}

// ScapeAnsi strips ANSI escape sequences from a string
func ScapeAnsi(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

// HideCursor hides the terminal cursor
func HideCursor() {
	fmt.Fprintf(os.Stderr, "\033[?25l")
}

// ShowCursor shows the terminal cursor
func ShowCursor() {
	fmt.Fprintf(os.Stderr, "\033[?25h")
}

// ClearLine clears the current terminal line
func ClearLine() {
	fmt.Fprintf(os.Stderr, "\033[2K\r")
}

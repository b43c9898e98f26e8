package ascii

import (
	"fmt"
	"os"
	"regexp"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// HideCursor hides the terminal cursor
func HideCursor() {
	fmt.Fprint(os.Stderr, "\033[?25l")
}

// ShowCursor shows the terminal cursor
func ShowCursor() {
	fmt.Fprint(os.Stderr, "\033[?25h")
}

// ClearLine clears the status lines left by the spinner
func ClearLine() {
	fmt.Fprintf(os.Stderr, "\r\033[2K\n\033[2K\n\033[2K\r\033[A\033[A")
}

// ScapeAnsi removes ANSI escape sequences from s
func ScapeAnsi(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

// ClearCurrentLine erases the line under the cursor so a log record can
// take the place of a spinner frame
func ClearCurrentLine() {
	fmt.Fprint(os.Stderr, "\r\033[2K")
}

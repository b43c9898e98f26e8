package ascii

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var spinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// nextFrame returns the frame after current, wrapping around. Unknown
// or empty frames restart the animation.
func nextFrame(frames []string, current string) string {
	for idx, f := range frames {
		if f == current {
			return frames[(idx+1)%len(frames)]
		}
	}
	return frames[0]
}

// GetNextSpinner advances the status spinner
func GetNextSpinner(spin string) string {
	return nextFrame(spinnerFrames, spin)
}

// SpinPadding is the blank space that aligns the lines below a spinner
// frame with the text after it
func SpinPadding(spin string) string {
	n := spinnerWidth - lipgloss.Width(spin) + 1
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

//go:build !windows

package ascii

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerWidth = 1

// ColoredSpin renders a spinner frame in the accent colour
func ColoredSpin(spin string) string {
	return spinStyle.Render(spin)
}

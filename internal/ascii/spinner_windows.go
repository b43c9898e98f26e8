//go:build windows

package ascii

// legacy consoles lack the braille block
var spinnerFrames = []string{"[=====]", "[ ====]", "[  ===]", "[=  ==]", "[==  =]", "[===  ]", "[==== ]"}

const spinnerWidth = 7

func ColoredSpin(spin string) string {
	return spin
}

package runner

import (
	"golang.org/x/text/encoding/charmap"
)

// ExtractBinaryText projects an opaque byte buffer onto text, one code
// point per byte with the same numeric value (ISO-8859-1). No structure
// of the binary format is parsed; the point is to let the path rules see
// the readable fragments embedded in it. It never fails.
func ExtractBinaryText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return latin1(data)
	}
	return string(out)
}

func latin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

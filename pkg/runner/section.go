package runner

import (
	"sort"
	"strings"

	"github.com/helviojunior/pathaudit/pkg/models"
)

// Section is one named location inside a container
type Section struct {
	// Name is the entry path inside the container, or "Unknown" for
	// the raw fallback of a file that is not a container
	Name string

	// Raw is the undecoded content of the entry
	Raw []byte

	// Binary sections go through ExtractBinaryText instead of being
	// read directly as text
	Binary bool

	Application models.Application
}

// Text returns the section content as text, before normalization
func (s Section) Text() string {
	if s.Binary {
		return ExtractBinaryText(s.Raw)
	}
	return string(s.Raw)
}

// Fragment is normalized section text ready for matching
type Fragment struct {
	// Raw is the normalized text
	Raw string

	FilePath    string
	Section     string
	Application models.Application

	// newlineIndices are the offsets of every '\n' in Raw.
	// This is used to calculate the line of a detection
	newlineIndices []int
}

// NewFragment normalizes a section for the given file
func NewFragment(filePath string, s Section) Fragment {
	return newFragment(filePath, s.Name, s.Application, Normalize(s.Text()))
}

func newFragment(filePath, section string, app models.Application, normalized string) Fragment {
	f := Fragment{
		Raw:         normalized,
		FilePath:    filePath,
		Section:     section,
		Application: app,
	}

	for i := strings.IndexByte(normalized, '\n'); i >= 0; {
		f.newlineIndices = append(f.newlineIndices, i)
		next := strings.IndexByte(normalized[i+1:], '\n')
		if next < 0 {
			break
		}
		i += next + 1
	}

	return f
}

// LineAt returns the 1-based line of the given offset
func (f Fragment) LineAt(offset int) int {
	return sort.SearchInts(f.newlineIndices, offset) + 1
}

// Window returns the text within radius characters on both sides of offset
func (f Fragment) Window(offset int, radius int) string {
	start := offset - radius
	if start < 0 {
		start = 0
	}
	end := offset + radius
	if end > len(f.Raw) {
		end = len(f.Raw)
	}
	if start >= end {
		return ""
	}
	return f.Raw[start:end]
}

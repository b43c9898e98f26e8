package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/helviojunior/pathaudit/internal/tools"
)

const (
	DefaultMaxFiles    = 10
	DefaultMaxFileSize = 100 * tools.MiByte
)

// DefaultExtensions are the macro-enabled office formats worth auditing
var DefaultExtensions = []string{".xlsm", ".xlsb", ".docm", ".pptm"}

// Limits constrain what a batch may contain
type Limits struct {
	MaxFiles    int
	MaxFileSize int64
	Extensions  []string
}

// Skipped is a file left out of the scan set, with the reason
type Skipped struct {
	Name   string `json:"file"`
	Reason string `json:"reason"`
}

// DefaultLimits returns the batch limits used when nothing is configured
func DefaultLimits() Limits {
	return Limits{
		MaxFiles:    DefaultMaxFiles,
		MaxFileSize: DefaultMaxFileSize,
		Extensions:  DefaultExtensions,
	}
}

// AllowedExtension reports whether name ends with an allowed extension
func (l Limits) AllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range l.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Select applies the batch limits. Only the first MaxFiles offered files
// are considered at all; of those, files with a foreign extension or
// above MaxFileSize are dropped. Order is preserved.
func Select(offered []Source, limits Limits) ([]Source, []Skipped) {
	selected := []Source{}
	skipped := []Skipped{}

	for idx, s := range offered {
		if limits.MaxFiles > 0 && idx >= limits.MaxFiles {
			skipped = append(skipped, Skipped{
				Name:   s.Name(),
				Reason: fmt.Sprintf("skipped (more than %d files)", limits.MaxFiles),
			})
			continue
		}

		if !limits.AllowedExtension(s.Name()) {
			skipped = append(skipped, Skipped{
				Name:   s.Name(),
				Reason: "skipped (unsupported extension)",
			})
			continue
		}

		if limits.MaxFileSize > 0 && s.Size() > limits.MaxFileSize {
			skipped = append(skipped, Skipped{
				Name:   s.Name(),
				Reason: fmt.Sprintf("skipped (over %s)", tools.IBytes(uint64(limits.MaxFileSize))),
			})
			continue
		}

		selected = append(selected, s)
	}

	return selected, skipped
}

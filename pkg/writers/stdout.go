package writers

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	logger "github.com/helviojunior/pathaudit/pkg/log"
	"github.com/helviojunior/pathaudit/pkg/models"
)

var (
	fileStyle    = lipgloss.NewStyle().Bold(true)
	nasStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	otherStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	impactStyles = map[models.Impact]lipgloss.Style{
		models.ImpactHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		models.ImpactMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.ImpactLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

// StdoutWriter is a Stdout writer
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter initialises a stdout writer
func NewStdoutWriter() (*StdoutWriter, error) {
	return &StdoutWriter{out: os.Stdout}, nil
}

// Write results to stdout
func (s *StdoutWriter) Write(result *models.FileResult) error {
	logger.Debugf("Finishing %s", result.FileName)

	if result.Failed {
		_, err := fmt.Fprintf(s.out, "%s %s\n",
			fileStyle.Render(result.FileName),
			failedStyle.Render(result.FailedReason))
		return err
	}

	for _, d := range result.Detections {
		cat := otherStyle
		if d.IsNAS() {
			cat = nasStyle
		}
		_, err := fmt.Fprintf(s.out, "%s:%d %s %s %s %s\n",
			fileStyle.Render(d.SourceFile),
			d.Line,
			cat.Render(d.Path),
			mutedStyle.Render(d.Section),
			mutedStyle.Render(string(d.Usage)),
			impactStyles[d.Impact].Render(string(d.Impact)))
		if err != nil {
			return err
		}
	}

	return nil
}

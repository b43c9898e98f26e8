package writers

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/helviojunior/pathaudit/internal/tools"
	"github.com/helviojunior/pathaudit/pkg/models"
)

// DefaultReportName is the suggested file name of a CSV export
const DefaultReportName = "path-detection-report.csv"

// ErrNothingToExport is returned when there are no detections to export
var ErrNothingToExport = errors.New("no detections to export")

// csvHeader is the fixed report header
var csvHeader = []string{"file", "line", "path", "category", "possibleUsage", "impact"}

// ExportCSV renders detections as the path report. The path column is
// always quoted with inner quotes doubled; every record, header
// included, ends with CRLF.
func ExportCSV(detections []models.Detection) ([]byte, error) {
	if len(detections) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(csvHeader, ","))
	buf.WriteString("\r\n")

	for _, d := range detections {
		buf.WriteString(csvField(d.SourceFile))
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(d.Line))
		buf.WriteByte(',')
		buf.WriteString(quote(d.Path))
		buf.WriteByte(',')
		buf.WriteString(csvField(string(d.Category)))
		buf.WriteByte(',')
		buf.WriteString(csvField(string(d.Usage)))
		buf.WriteByte(',')
		buf.WriteString(csvField(string(d.Impact)))
		buf.WriteString("\r\n")
	}

	return buf.Bytes(), nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvField quotes a non-path field only when it could break the record
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

// CsvWriter accumulates detections and rewrites the report file after
// every result, so a halted batch still leaves a valid report behind
type CsvWriter struct {
	FilePath   string
	sink       Sink
	detections []models.Detection
	mutex      sync.Mutex
}

// NewCsvWriter returns a CSV report writer
func NewCsvWriter(destination string) (*CsvWriter, error) {
	dst, err := tools.CreateFileWithDir(destination)
	if err != nil {
		return nil, err
	}

	return &CsvWriter{
		FilePath: dst,
		sink:     NewFileSink(""),
	}, nil
}

// Write appends the detections of a result to the report
func (cw *CsvWriter) Write(result *models.FileResult) error {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	if len(result.Detections) == 0 {
		return nil
	}
	cw.detections = append(cw.detections, result.Detections...)

	payload, err := ExportCSV(cw.detections)
	if err != nil {
		return err
	}

	return cw.sink.Save(cw.FilePath, payload)
}

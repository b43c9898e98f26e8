package log

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/helviojunior/pathaudit/internal/ascii"
)

// Logger is the package level logger. Runners get it wrapped as
// slog.New(Logger).
var Logger *log.Logger

var mirror = &fileMirror{}

// keyStyles highlights the keys the scanner logs with most
var keyStyles = map[string]lipgloss.Style{
	"err":        lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
	"file":       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	"section":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	"path":       lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	"detections": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	"reason":     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
}

func init() {
	styles := log.DefaultStyles()
	for k, st := range keyStyles {
		styles.Keys[k] = st
	}
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	styles.Values["path"] = lipgloss.NewStyle().Bold(true)

	r, w, _ := os.Pipe()
	go relay(r, os.Stdout)

	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
	})
	Logger.SetStyles(styles)
	Logger.SetLevel(log.InfoLevel)
	Logger.SetColorProfile(termenv.EnvColorProfile())
}

// relay copies log lines to out, wiping any spinner frame first, and
// mirrors them without colours to the log file when one is set
func relay(r io.Reader, out io.Writer) {
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}

	bw := bufio.NewWriter(out)
	defer bw.Flush()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text() + eol
		ascii.ClearCurrentLine()
		bw.WriteString(line)
		bw.Flush()
		mirror.write(ascii.ScapeAnsi(line))
	}
}

// fileMirror appends plain text log lines to a file
type fileMirror struct {
	mu   sync.Mutex
	path string
}

func (m *fileMirror) set(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
}

func (m *fileMirror) write(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return nil
	}

	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(s)
	return err
}

// SetOutFile mirrors every log line, without colours, to destination.
// The banner is written first so separate runs are easy to tell apart.
func SetOutFile(destination string) error {
	mirror.set(destination)
	return mirror.write(ascii.LogoHelp(""))
}

// EnableDebug enables debug logging and caller reporting
func EnableDebug() {
	Logger.SetLevel(log.DebugLevel)
	Logger.SetReportCaller(true)
}

// EnableSilence hides every record, fatal included
func EnableSilence() {
	Logger.SetLevel(log.FatalLevel + 100)
}

func Debug(msg string, keyvals ...interface{}) {
	Logger.Helper()
	Logger.Debug(msg, keyvals...)
}

func Debugf(format string, a ...interface{}) {
	Logger.Helper()
	Logger.Debug(fmt.Sprintf(format, a...))
}

func Info(msg string, keyvals ...interface{}) {
	Logger.Helper()
	Logger.Info(msg, keyvals...)
}

func Infof(format string, a ...interface{}) {
	Logger.Helper()
	Logger.Info(fmt.Sprintf(format, a...))
}

func Warn(msg string, keyvals ...interface{}) {
	Logger.Helper()
	Logger.Warn(msg, keyvals...)
}

func Warnf(format string, a ...interface{}) {
	Logger.Helper()
	Logger.Warn(fmt.Sprintf(format, a...))
}

func Error(msg string, keyvals ...interface{}) {
	Logger.Helper()
	Logger.Error(msg, keyvals...)
}

// With returns a sublogger carrying keyvals on every record
func With(keyvals ...interface{}) *log.Logger {
	return Logger.With(keyvals...)
}

package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/helviojunior/pathaudit/pkg/models"
)

// State of a scan session
type State int

const (
	StateIdle State = iota
	StateScanning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// ProgressEvent is emitted before and after each file
type ProgressEvent struct {
	File       string
	Index      int
	Total      int
	Percent    int
	Done       bool
	Detections int
	Duration   time.Duration
	Err        error
}

// ProgressFunc receives progress events from the scan loop
type ProgressFunc func(ProgressEvent)

// Session accumulates the results of one batch. It is only mutated by
// the scan loop; the getters return copies and are safe to call from
// other goroutines while a scan is running.
type Session struct {
	mu sync.RWMutex

	id    string
	state State

	detections []models.Detection
	protected  []models.ProtectedFile

	filtered int
	files    int
	scanned  int
	nas      int
	other    int

	startedAt  time.Time
	finishedAt time.Time
	err        error
}

// NewSession returns an idle session
func NewSession() *Session {
	return &Session{
		detections: []models.Detection{},
		protected:  []models.ProtectedFile{},
	}
}

// Begin starts a batch of the given size
func (s *Session) Begin(files int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, StateScanning)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	s.clear()
	s.id = id.String()
	s.files = files
	s.state = StateScanning
	s.startedAt = time.Now()

	return nil
}

// AddDetections appends detections in scan order
func (s *Session) AddDetections(dets ...models.Detection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range dets {
		if d.IsNAS() {
			s.nas++
		} else {
			s.other++
		}
		s.detections = append(s.detections, d)
	}
}

// AddFiltered counts candidates rejected by the classifier
func (s *Session) AddFiltered(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered += n
}

// AddProtected records a file that could not be scanned
func (s *Session) AddProtected(p models.ProtectedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.SessionID == "" {
		p.SessionID = s.id
	}
	s.protected = append(s.protected, p)
}

// FileDone marks one more file as processed
func (s *Session) FileDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanned++
}

// Complete ends a batch normally
func (s *Session) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateScanning {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, StateCompleted)
	}
	s.state = StateCompleted
	s.finishedAt = time.Now()
	return nil
}

// Fail halts a batch. The results gathered so far are kept and a
// synthetic failed record is appended.
func (s *Session) Fail(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateScanning {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, StateFailed)
	}

	reason := "unexpected error"
	if cause != nil {
		reason = cause.Error()
	}
	s.protected = append(s.protected, models.ProtectedFile{
		SessionID: s.id,
		FileName:  models.ScanFailedName,
		Status:    models.StatusFailed,
		Reason:    reason,
	})
	s.err = cause
	s.state = StateFailed
	s.finishedAt = time.Now()
	return nil
}

// Reset discards everything and returns to idle
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.state = StateIdle
}

func (s *Session) clear() {
	s.id = ""
	s.detections = []models.Detection{}
	s.protected = []models.ProtectedFile{}
	s.filtered = 0
	s.files = 0
	s.scanned = 0
	s.nas = 0
	s.other = 0
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.err = nil
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err is the cause of a failed session
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Detections returns a copy of the detections in scan order
func (s *Session) Detections() []models.Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Detection, len(s.detections))
	copy(out, s.detections)
	return out
}

// ProtectedFiles returns a copy of the unscannable files in scan order
func (s *Session) ProtectedFiles() []models.ProtectedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ProtectedFile, len(s.protected))
	copy(out, s.protected)
	return out
}

func (s *Session) TotalDetections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.detections)
}

func (s *Session) FilteredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered
}

// Counts returns the NAS and other detection totals
func (s *Session) Counts() (nas int, other int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nas, s.other
}

// Files returns the batch size and how many files were processed
func (s *Session) Files() (total int, scanned int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files, s.scanned
}

// Duration of the batch, up to now while it is running
func (s *Session) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startedAt.IsZero() {
		return 0
	}
	if s.finishedAt.IsZero() {
		return time.Since(s.startedAt)
	}
	return s.finishedAt.Sub(s.startedAt)
}

// CanExport reports whether there is anything to put in a report
func (s *Session) CanExport() bool {
	return s.TotalDetections() > 0
}

// Summary is the completion banner
func (s *Session) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case StateIdle:
		return "No scan performed."
	case StateScanning:
		return fmt.Sprintf("Scanning - %d of %d files processed, %d detections so far.",
			s.scanned, s.files, len(s.detections))
	case StateFailed:
		return "Scan failed due to unexpected error."
	}

	unreadable := 0
	for _, p := range s.protected {
		if p.FileName != models.ScanFailedName {
			unreadable++
		}
	}

	if unreadable > 0 {
		return fmt.Sprintf("Scan partially completed - %d of %d files scanned successfully. %d detections found.",
			s.files-unreadable, s.files, len(s.detections))
	}
	return fmt.Sprintf("Scan Completed - %d files scanned, %d detections found.", s.files, len(s.detections))
}

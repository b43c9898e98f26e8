package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/helviojunior/pathaudit/pkg/readers"
	"github.com/helviojunior/pathaudit/pkg/writers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestRunner(t *testing.T, w ...writers.Writer) *Runner {
	t.Helper()

	opts := NewDefaultOptions()
	opts.Logging.Silence = true

	run, err := NewRunner(discardLogger(), *opts, w)
	require.NoError(t, err)
	return run
}

func memory(name string, data string) readers.Source {
	return &readers.MemorySource{FileName: name, Data: []byte(data)}
}

type recordingWriter struct {
	results   []*models.FileResult
	protected []models.ProtectedFile
	failOn    string

	failProtected bool
}

func (w *recordingWriter) Write(r *models.FileResult) error {
	if w.failOn != "" && r.FileName == w.failOn {
		return errors.New("sink unavailable")
	}
	w.results = append(w.results, r)
	return nil
}

func (w *recordingWriter) WriteProtected(p []models.ProtectedFile) error {
	if w.failProtected && len(p) > 0 {
		return errors.New("protected table locked")
	}
	w.protected = append(w.protected, p...)
	return nil
}

type brokenSource struct {
	name string
}

func (b *brokenSource) Name() string           { return b.name }
func (b *brokenSource) Size() int64            { return 10 }
func (b *brokenSource) Bytes() ([]byte, error) { return nil, errors.New("permission denied") }

type panicSource struct{}

func (p *panicSource) Name() string           { return "panic.xlsm" }
func (p *panicSource) Size() int64            { return 1 }
func (p *panicSource) Bytes() ([]byte, error) { panic("reader exploded") }

func TestRunNASWorkbookOpen(t *testing.T) {
	run := newTestRunner(t)

	session, err := run.Run(context.Background(), []readers.Source{
		memory("a.xlsm", `\\corp\share\file.xlsx referenced by Workbooks.Open`),
	})
	require.NoError(t, err)

	dets := session.Detections()
	require.Len(t, dets, 1)
	d := dets[0]
	assert.Equal(t, "a.xlsm", d.SourceFile)
	assert.Equal(t, "Unknown", d.Section)
	assert.Equal(t, models.AppUnknown, d.Application)
	assert.Equal(t, `\\corp\share\file.xlsx`, d.Path)
	assert.Equal(t, models.CategoryNAS, d.Category)
	assert.Equal(t, models.UsageWorkbookOpen, d.Usage)
	assert.Equal(t, models.ImpactHigh, d.Impact)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, session.ID(), d.SessionID)
	assert.Equal(t, StateCompleted, session.State())
}

func TestRunTempFolderIsFiltered(t *testing.T) {
	run := newTestRunner(t)

	session, err := run.Run(context.Background(), []readers.Source{
		memory("b.xlsm", `C:\Temp\`),
	})
	require.NoError(t, err)

	assert.Empty(t, session.Detections())
	assert.Equal(t, 1, session.FilteredCount())
	assert.Empty(t, session.ProtectedFiles())
}

func TestRunNoFiles(t *testing.T) {
	run := newTestRunner(t)

	session, err := run.Run(context.Background(), []readers.Source{})
	require.NoError(t, err)

	assert.Empty(t, session.Detections())
	assert.Empty(t, session.ProtectedFiles())
	assert.Equal(t, 0, session.TotalDetections())
	assert.False(t, session.CanExport())

	_, err = writers.ExportCSV(session.Detections())
	assert.ErrorIs(t, err, writers.ErrNothingToExport)
}

func TestRunWorkbook(t *testing.T) {
	w := &recordingWriter{}
	run := newTestRunner(t, w)

	session, err := run.Run(context.Background(), []readers.Source{
		&readers.MemorySource{FileName: "Budget.xlsm", Data: workbookZip(t)},
	})
	require.NoError(t, err)

	dets := session.Detections()
	require.Len(t, dets, 2)

	assert.Equal(t, "xl/vbaProject.bin", dets[0].Section)
	assert.Equal(t, `\\filesrv\finance\budget.xlsx`, dets[0].Path)
	assert.Equal(t, models.CategoryNAS, dets[0].Category)
	assert.Equal(t, models.UsageWorkbookOpen, dets[0].Usage)
	assert.Equal(t, models.AppExcel, dets[0].Application)

	assert.Equal(t, "xl/_rels/workbook.xml.rels", dets[1].Section)
	assert.Equal(t, `C:\Users\bob\Documents\data.xlsx`, dets[1].Path)
	assert.Equal(t, models.CategoryOther, dets[1].Category)
	assert.Equal(t, models.UsageHyperlink, dets[1].Usage)
	assert.Equal(t, models.ImpactLow, dets[1].Impact)

	// schema urls in the relationships part are rejected, not reported
	assert.Greater(t, session.FilteredCount(), 0)

	require.Len(t, w.results, 1)
	r := w.results[0]
	assert.Equal(t, models.AppExcel, r.Application)
	assert.Len(t, r.Detections, 2)
	assert.Len(t, r.Fingerprint, 40)
	assert.NotEmpty(t, r.MIMEType)
	assert.False(t, r.Failed)

	for _, d := range dets {
		assert.True(t, IsHumanPath(d.Path), d.Path)
	}
}

func TestRunProtectedFileDoesNotStopBatch(t *testing.T) {
	w := &recordingWriter{}
	run := newTestRunner(t, w)

	session, err := run.Run(context.Background(), []readers.Source{
		&brokenSource{name: "locked.xlsm"},
		&panicSource{},
		memory("ok.xlsm", `\\dfs\team\plan.xlsx`),
	})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, session.State())

	protected := session.ProtectedFiles()
	require.Len(t, protected, 2)
	assert.Equal(t, "locked.xlsm", protected[0].FileName)
	assert.Equal(t, models.StatusProtected, protected[0].Status)
	assert.Contains(t, protected[0].Reason, "permission denied")
	assert.Equal(t, "panic.xlsm", protected[1].FileName)
	assert.Contains(t, protected[1].Reason, "reader exploded")

	assert.Equal(t, 1, session.TotalDetections())
	assert.Equal(t, "Scan partially completed - 1 of 3 files scanned successfully. 1 detections found.", session.Summary())

	require.Len(t, w.results, 3)
	assert.True(t, w.results[0].Failed)
	assert.Len(t, w.protected, 2)
}

func TestRunEncryptedPackage(t *testing.T) {
	run := newTestRunner(t)

	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0}, encryptedPackageMarker...)
	session, err := run.Run(context.Background(), []readers.Source{
		&readers.MemorySource{FileName: "secret.xlsm", Data: data},
	})
	require.NoError(t, err)

	protected := session.ProtectedFiles()
	require.Len(t, protected, 1)
	assert.Equal(t, models.StatusProtected, protected[0].Status)
	assert.Contains(t, protected[0].Reason, ProtectedReason)
}

func TestRunWriterFailureHaltsBatch(t *testing.T) {
	w := &recordingWriter{failOn: "second.xlsm"}
	run := newTestRunner(t, w)

	session, err := run.Run(context.Background(), []readers.Source{
		memory("first.xlsm", `\\corp\a\first.xlsx`),
		memory("second.xlsm", `\\corp\a\second.xlsx`),
		memory("third.xlsm", `\\corp\a\third.xlsx`),
	})

	var fatal FatalScanError
	require.ErrorAs(t, err, &fatal)
	assert.Contains(t, err.Error(), "sink unavailable")

	assert.Equal(t, StateFailed, session.State())
	// partial results are kept
	assert.Equal(t, 2, session.TotalDetections())

	protected := session.ProtectedFiles()
	require.NotEmpty(t, protected)
	last := protected[len(protected)-1]
	assert.Equal(t, models.ScanFailedName, last.FileName)
	assert.Equal(t, models.StatusFailed, last.Status)

	_, scanned := session.Files()
	assert.Equal(t, 2, scanned)
}

func TestRunProtectedStorageFailureIsFatal(t *testing.T) {
	w := &recordingWriter{failProtected: true}
	run := newTestRunner(t, w)

	session, err := run.Run(context.Background(), []readers.Source{
		&brokenSource{name: "locked.xlsm"},
		memory("ok.xlsm", `\\dfs\team\plan.xlsx`),
	})

	var fatal FatalScanError
	require.ErrorAs(t, err, &fatal)
	assert.Contains(t, err.Error(), "protected table locked")
	assert.Equal(t, StateFailed, session.State())
	assert.Equal(t, 1, session.TotalDetections())

	protected := session.ProtectedFiles()
	require.Len(t, protected, 2)
	assert.Equal(t, "locked.xlsm", protected[0].FileName)
	assert.Equal(t, models.ScanFailedName, protected[1].FileName)
	assert.Len(t, w.results, 2)
}

func TestRunProtectedStorageIgnoredWithoutProtectedFiles(t *testing.T) {
	w := &recordingWriter{failProtected: true}
	run := newTestRunner(t, w)

	session, err := run.Run(context.Background(), []readers.Source{
		memory("ok.xlsm", `\\dfs\team\plan.xlsx`),
	})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, session.State())
}

func TestRunProgressPanicIsFatal(t *testing.T) {
	run := newTestRunner(t)
	run.OnProgress = func(ev ProgressEvent) {
		if ev.Done {
			panic("renderer crashed")
		}
	}

	session, err := run.Run(context.Background(), []readers.Source{
		memory("a.xlsm", `\\corp\a\b.xlsx`),
	})

	var fatal FatalScanError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, StateFailed, session.State())
}

func TestRunProgressEvents(t *testing.T) {
	run := newTestRunner(t)

	events := []ProgressEvent{}
	run.OnProgress = func(ev ProgressEvent) {
		events = append(events, ev)
	}

	_, err := run.Run(context.Background(), []readers.Source{
		memory("a.xlsm", `\\corp\a\b.xlsx`),
		memory("b.xlsm", `nothing`),
	})
	require.NoError(t, err)

	percents := []int{}
	for _, ev := range events {
		percents = append(percents, ev.Percent)
	}
	assert.Equal(t, []int{0, 50, 50, 100, 100}, percents)

	assert.Equal(t, "a.xlsm", events[0].File)
	assert.False(t, events[0].Done)
	assert.True(t, events[1].Done)
	assert.Equal(t, 1, events[1].Detections)
	assert.True(t, events[len(events)-1].Done)
	assert.Equal(t, 1, events[len(events)-1].Detections)
}

func TestRunCancelledDiscardsSession(t *testing.T) {
	run := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run.OnProgress = func(ev ProgressEvent) {
		if ev.Done {
			cancel()
		}
	}

	session, err := run.Run(ctx, []readers.Source{
		memory("a.xlsm", `\\corp\a\b.xlsx`),
		memory("b.xlsm", `\\corp\a\c.xlsx`),
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateIdle, session.State())
	assert.Empty(t, session.Detections())
	assert.Empty(t, session.ProtectedFiles())
}

func TestRunTwiceNeedsReset(t *testing.T) {
	run := newTestRunner(t)

	_, err := run.Run(context.Background(), nil)
	require.NoError(t, err)

	_, err = run.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	run.Session().Reset()
	_, err = run.Run(context.Background(), nil)
	assert.NoError(t, err)
}

func TestRunJoinsStatusPrinter(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	opts := NewDefaultOptions()
	opts.Logging.Silence = false
	run, err := NewRunner(discardLogger(), *opts, nil)
	require.NoError(t, err)
	run.status.IsTerminal = false

	_, err = run.Run(context.Background(), []readers.Source{
		memory("a.xlsm", `\\corp\a\b.xlsx`),
	})
	require.NoError(t, err)
}

func TestDetectorStringInput(t *testing.T) {
	d := NewDetector(nil, 0)
	res := d.DetectString("x.docm", "line one\nsee //dfs/team/plan.xlsx\nand C:\\Windows\\System32\\a.dll")

	require.Len(t, res.Detections, 1)
	assert.Equal(t, `\\dfs\team\plan.xlsx`, res.Detections[0].Path)
	assert.Equal(t, 2, res.Detections[0].Line)
	assert.Equal(t, 1, res.Filtered)
	assert.Equal(t, DefaultContextRadius, d.Radius)
}

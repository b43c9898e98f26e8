package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/helviojunior/pathaudit/internal/ascii"
	"github.com/helviojunior/pathaudit/internal/tools"
	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/helviojunior/pathaudit/pkg/readers"
	"github.com/helviojunior/pathaudit/pkg/writers"
)

// Runner scans batches of office documents for hard-coded paths
type Runner struct {
	// options for the Runner to consider
	options Options
	// writers are the result writers to use
	writers []writers.Writer
	// log handler
	log *slog.Logger

	reader   *SectionReader
	detector *Detector
	session  *Session

	// OnProgress, when set, is called before and after each file
	OnProgress ProgressFunc

	status *Status
}

// Status is the live view printed while a batch runs
type Status struct {
	session    *Session
	Spin       string
	IsTerminal bool
	log        *slog.Logger
}

func (st *Status) Print() {
	total, scanned := st.session.Files()
	nas, other := st.session.Counts()
	protected := len(st.session.ProtectedFiles())
	filtered := st.session.FilteredCount()

	if st.IsTerminal {
		st.Spin = ascii.GetNextSpinner(st.Spin)

		fmt.Fprintf(os.Stderr,
			"%s\n %s scanned: %d/%d, protected: %d               \n %s nas: %d, other: %d, filtered: %d\r\033[A\033[A",
			"                                                                        ",
			ascii.ColoredSpin(st.Spin),
			scanned,
			total,
			protected,
			ascii.SpinPadding(st.Spin),
			nas,
			other,
			filtered)

	} else {
		st.log.Info("STATUS",
			"scanned", scanned, "total", total, "protected", protected,
			"nas", nas, "other", other, "filtered", filtered)
	}
}

// NewRunner gets a new Runner ready for scanning.
// It's up to the caller to call Close() on the runner
func NewRunner(logger *slog.Logger, opts Options, writers []writers.Writer) (*Runner, error) {
	if logger == nil {
		return nil, errors.New("a logger is required")
	}

	session := NewSession()

	return &Runner{
		options:  opts,
		writers:  writers,
		log:      logger,
		reader:   NewSectionReader(logger),
		detector: NewDetector(opts.Scan.NASHosts, opts.Scan.ContextRadius),
		session:  session,
		status: &Status{
			session:    session,
			IsTerminal: term.IsTerminal(int(os.Stdin.Fd())),
			log:        logger,
		},
	}, nil
}

// Session returns the session of the last batch
func (run *Runner) Session() *Session {
	return run.session
}

// Detector returns the detector used for every section
func (run *Runner) Detector() *Detector {
	return run.detector
}

// runWriters takes a result and passes it to writers
func (run *Runner) runWriters(result *models.FileResult) error {
	for _, writer := range run.writers {
		if err := writer.Write(result); err != nil {
			return err
		}
	}

	return nil
}

// protectedWriter is implemented by writers that keep unscannable files
type protectedWriter interface {
	WriteProtected([]models.ProtectedFile) error
}

// writeProtected hands the protected files of the session to the
// writers that store them
func (run *Runner) writeProtected() error {
	files := run.session.ProtectedFiles()
	for _, writer := range run.writers {
		if pw, ok := writer.(protectedWriter); ok {
			if err := pw.WriteProtected(files); err != nil {
				run.log.Error("failed to write protected files", "err", err)
				return err
			}
		}
	}
	return nil
}

func (run *Runner) notify(ev ProgressEvent) {
	if run.OnProgress != nil {
		run.OnProgress(ev)
	}
}

// Run scans sources one at a time, in order.
//
// A file that cannot be read or decoded becomes a protected entry and
// the batch goes on. If ctx is cancelled the session is discarded and
// ctx.Err() is returned. Any other failure halts the batch with a
// FatalScanError; the partial session is returned alongside it.
func (run *Runner) Run(ctx context.Context, sources []readers.Source) (*Session, error) {
	if err := run.session.Begin(len(sources)); err != nil {
		return run.session, err
	}

	stop := make(chan struct{})
	swg := sync.WaitGroup{}

	if !run.options.Logging.Silence {
		if run.status.IsTerminal {
			ascii.HideCursor()
		}

		swg.Add(1)
		go func() {
			defer swg.Done()

			interval := 30 * time.Second
			if run.status.IsTerminal {
				interval = time.Second / 4
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-stop:
					return
				case <-ctx.Done():
					return
				case <-ticker.C:
					run.status.Print()
				}
			}
		}()
	}

	err := run.loop(ctx, sources)

	close(stop)
	swg.Wait()

	if !run.options.Logging.Silence && run.status.IsTerminal {
		ascii.ClearLine()
		ascii.ShowCursor()
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			run.log.Warn("scan cancelled, discarding results", "err", err)
			run.session.Reset()
			return run.session, err
		}

		var fatal FatalScanError
		if !errors.As(err, &fatal) {
			fatal = FatalScanError{Err: err}
		}
		run.log.Error("scan halted", "err", fatal.Err)
		if ferr := run.session.Fail(fatal.Err); ferr != nil {
			return run.session, ferr
		}
		if perr := run.writeProtected(); perr != nil {
			fatal = FatalScanError{Err: errors.Join(fatal.Err, perr)}
		}
		return run.session, fatal
	}

	// protected files are stored before the session is marked complete,
	// a storage failure fails the batch
	if perr := run.writeProtected(); perr != nil {
		fatal := FatalScanError{Err: fmt.Errorf("failed to write protected files: %w", perr)}
		if ferr := run.session.Fail(fatal.Err); ferr != nil {
			return run.session, ferr
		}
		return run.session, fatal
	}

	if err := run.session.Complete(); err != nil {
		return run.session, err
	}
	run.notify(ProgressEvent{
		Index:      len(sources),
		Total:      len(sources),
		Percent:    100,
		Done:       true,
		Detections: run.session.TotalDetections(),
		Duration:   run.session.Duration(),
	})

	return run.session, nil
}

func (run *Runner) loop(ctx context.Context, sources []readers.Source) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = FatalScanError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	total := len(sources)
	for idx, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		run.notify(ProgressEvent{
			File:    src.Name(),
			Index:   idx,
			Total:   total,
			Percent: int(math.Round(float64(idx) / float64(total) * 100)),
		})

		started := time.Now()
		result, ferr := run.scanFileSafe(ctx, src)

		if err := ctx.Err(); err != nil {
			return err
		}

		logger := run.log.With("file", src.Name())
		if ferr != nil {
			result.Failed = true
			result.FailedReason = ferr.Error()
			run.session.AddProtected(models.ProtectedFile{
				FileName: src.Name(),
				Status:   models.StatusProtected,
				Reason:   ferr.Error(),
			})
			if run.options.Logging.LogScanErrors {
				logger.Error("failed to scan file", "err", ferr)
			}
		}

		run.session.FileDone()
		logger.Debug("file scanned",
			"application", result.Application,
			"detections", len(result.Detections),
			"total", run.session.TotalDetections(),
			"filtered", run.session.FilteredCount())

		if err := run.runWriters(result); err != nil {
			return FatalScanError{Err: fmt.Errorf("failed to write result for %s: %w", src.Name(), err)}
		}

		run.notify(ProgressEvent{
			File:       src.Name(),
			Index:      idx,
			Total:      total,
			Percent:    int(math.Round(float64(idx+1) / float64(total) * 100)),
			Done:       true,
			Detections: len(result.Detections),
			Duration:   time.Since(started),
			Err:        ferr,
		})
	}

	return nil
}

// scanFileSafe is the per-file boundary: a panic while scanning one
// file is turned into an error for that file
func (run *Runner) scanFileSafe(ctx context.Context, src readers.Source) (result *models.FileResult, err error) {
	result = &models.FileResult{
		SessionID:   run.session.ID(),
		FileName:    src.Name(),
		Size:        uint64(src.Size()),
		Application: models.AppUnknown,
		ScannedAt:   time.Now(),
		Detections:  []models.Detection{},
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	err = run.scanFile(ctx, src, result)
	return result, err
}

func (run *Runner) scanFile(ctx context.Context, src readers.Source, result *models.FileResult) error {
	data, err := src.Bytes()
	if err != nil {
		return ProtectedFileError{File: src.Name(), Err: err}
	}

	result.Fingerprint = tools.GetHash(data)
	result.MIMEType = tools.MimeTypeOf(data)

	app, err := run.reader.Read(ctx, src.Name(), data, func(s Section) error {
		res := run.detector.Detect(NewFragment(src.Name(), s))

		now := time.Now()
		for i := range res.Detections {
			res.Detections[i].SessionID = result.SessionID
			res.Detections[i].DetectedAt = now
		}

		run.session.AddDetections(res.Detections...)
		run.session.AddFiltered(res.Filtered)
		result.Detections = append(result.Detections, res.Detections...)

		run.log.Debug("section scanned",
			"file", src.Name(),
			"section", s.Name,
			"detections", len(res.Detections),
			"filtered", res.Filtered)
		return nil
	})
	result.Application = app

	return err
}

// Close releases the writers that hold resources
func (run *Runner) Close() {
	for _, w := range run.writers {
		if c, ok := w.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				run.log.Debug("failed to close writer", "err", err)
			}
		}
	}
}

package api

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/helviojunior/pathaudit/internal/version"
	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/helviojunior/pathaudit/pkg/readers"
	"github.com/helviojunior/pathaudit/pkg/runner"
	"github.com/helviojunior/pathaudit/pkg/writers"
)

// DefaultMaxUpload bounds the multipart body of a scan request
const DefaultMaxUpload int64 = 1024 << 20

// Server exposes the scanner over HTTP
type Server struct {
	log       *slog.Logger
	options   runner.Options
	writers   []writers.Writer
	MaxUpload int64
}

// ScanResponse is the JSON body of a scan request
type ScanResponse struct {
	SessionID       string                 `json:"session_id"`
	State           string                 `json:"state"`
	Summary         string                 `json:"summary"`
	Files           int                    `json:"files"`
	TotalDetections int                    `json:"total_detections"`
	NAS             int                    `json:"nas"`
	Other           int                    `json:"other"`
	Filtered        int                    `json:"filtered"`
	Detections      []models.Detection     `json:"detections"`
	ProtectedFiles  []models.ProtectedFile `json:"protected_files"`
	Skipped         []readers.Skipped      `json:"skipped"`
	Error           string                 `json:"error,omitempty"`
}

// NewServer returns an API server. Every scan also goes to the given
// writers.
func NewServer(logger *slog.Logger, opts runner.Options, w []writers.Writer) *Server {
	return &Server{
		log:       logger,
		options:   opts,
		writers:   w,
		MaxUpload: DefaultMaxUpload,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HealthHandler)
		r.Post("/scan", s.ScanHandler)
	})

	return r
}

// ListenAndServe serves the API on addr until it fails
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 30 * time.Minute,
	}

	s.log.Info("api listening", "addr", addr)
	return srv.ListenAndServe()
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// ScanHandler scans the uploaded "files" parts. With ?format=csv the
// report is returned as an attachment instead of JSON.
func (s *Server) ScanHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "no files uploaded"})
		return
	}

	offered := make([]readers.Source, 0, len(headers))
	for _, fh := range headers {
		offered = append(offered, &uploadSource{fh: fh})
	}
	selected, skipped := readers.Select(offered, s.options.Scan.Limits)

	logger := s.log.With("remote", r.RemoteAddr)
	logger.Info("scan requested", "offered", len(offered), "selected", len(selected))

	run, err := runner.NewRunner(logger, s.options, s.writers)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}

	session, err := run.Run(r.Context(), selected)
	if err != nil && r.Context().Err() != nil {
		logger.Warn("client went away", "err", err)
		return
	}

	if r.URL.Query().Get("format") == "csv" && err == nil {
		payload, cerr := writers.ExportCSV(session.Detections())
		if errors.Is(cerr, writers.ErrNothingToExport) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": cerr.Error()})
			return
		}
		if cerr != nil {
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": cerr.Error()})
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+writers.DefaultReportName+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	resp := newScanResponse(session, skipped)
	if err != nil {
		resp.Error = err.Error()
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, resp)
}

func newScanResponse(session *runner.Session, skipped []readers.Skipped) ScanResponse {
	files, _ := session.Files()
	nas, other := session.Counts()
	return ScanResponse{
		SessionID:       session.ID(),
		State:           session.State().String(),
		Summary:         session.Summary(),
		Files:           files,
		TotalDetections: session.TotalDetections(),
		NAS:             nas,
		Other:           other,
		Filtered:        session.FilteredCount(),
		Detections:      session.Detections(),
		ProtectedFiles:  session.ProtectedFiles(),
		Skipped:         skipped,
	}
}

// uploadSource reads a multipart file only when the runner asks for it
type uploadSource struct {
	fh *multipart.FileHeader
}

func (u *uploadSource) Name() string { return u.fh.Filename }
func (u *uploadSource) Size() int64  { return u.fh.Size }

func (u *uploadSource) Bytes() ([]byte, error) {
	f, err := u.fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

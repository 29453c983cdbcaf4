// Package web serves a localhost-only single-user JSON API; it intentionally
// has no auth/CSRF protection in this mode.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"voltrack/config"
	"voltrack/importer"
	"voltrack/output"
	"voltrack/review"
	"voltrack/storage"
	"voltrack/syncer"
	"voltrack/volunteer"
)

const maxUploadBytes = 32 << 20

type Server struct {
	store    *storage.SQLiteStore
	registry *volunteer.Registry
	cfg      config.Config
	sync     *syncer.Service
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time

	mux *http.ServeMux
	// mu serializes every registry access; the registry itself is not
	// safe for concurrent use.
	mu sync.Mutex
}

type ServerOption func(*Server)

// WithSync mirrors imports, shift changes and reviews to the remote.
func WithSync(service *syncer.Service) ServerOption {
	return func(s *Server) {
		s.sync = service
	}
}

func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

type importResponse struct {
	Mode           string      `json:"mode"`
	Sheet          string      `json:"sheet"`
	HeaderRow      int         `json:"headerRow,omitempty"`
	RowsRead       int         `json:"rowsRead"`
	RowsSkipped    int         `json:"rowsSkipped"`
	Created        int         `json:"created"`
	Merged         int         `json:"merged"`
	Unchanged      int         `json:"unchanged"`
	Reused         int         `json:"reused"`
	HoursAdded     int         `json:"hoursAdded"`
	HoursDuplicate int         `json:"hoursDuplicate"`
	HoursInvalid   int         `json:"hoursInvalid"`
	Sync           *syncReport `json:"sync,omitempty"`
}

type syncReport struct {
	Succeeded int      `json:"succeeded"`
	Unchanged int      `json:"unchanged"`
	Failed    []string `json:"failed"`
}

type createShiftRequest struct {
	Date             string `json:"date" validate:"required"`
	StartTime        string `json:"startTime" validate:"required"`
	EndTime          string `json:"endTime" validate:"required"`
	VolunteersNeeded int    `json:"volunteersNeeded" validate:"gte=0,lte=500"`
	Description      string `json:"description" validate:"max=500"`
	BreakStart       string `json:"breakStart"`
	BreakEnd         string `json:"breakEnd"`
}

type applyRequest struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
	Notes       string `json:"notes" validate:"max=500"`
}

type reviewRequest struct {
	Attendees []review.Attendee `json:"attendees" validate:"dive"`
}

// shiftResponse is a shift row plus any remote mirror failure. The local
// change stands either way.
type shiftResponse struct {
	ShiftRow
	Warning string `json:"warning,omitempty"`
}

type reviewResponse struct {
	ShiftID      string           `json:"shiftId"`
	HoursLogged  int              `json:"hoursLogged"`
	Skipped      []review.Skipped `json:"skipped"`
	RemoteLogged int              `json:"remoteLogged,omitempty"`
	Warning      string           `json:"warning,omitempty"`
}

func NewServer(store *storage.SQLiteStore, registry *volunteer.Registry, cfg config.Config, opts ...ServerOption) http.Handler {
	server := &Server{
		store:    store,
		registry: registry,
		cfg:      cfg,
		logger:   zap.NewNop(),
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(server)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/volunteers", server.handleAPIVolunteers)
	mux.HandleFunc("GET /api/volunteers/{id}", server.handleAPIVolunteer)
	mux.HandleFunc("POST /api/import", server.handleAPIImport)
	mux.HandleFunc("GET /api/export", server.handleAPIExport)
	mux.HandleFunc("GET /api/summary/daily", server.handleAPIDailySummary)
	mux.HandleFunc("GET /api/shifts", server.handleAPIShifts)
	mux.HandleFunc("POST /api/shifts", server.handleAPIShiftCreate)
	mux.HandleFunc("POST /api/shifts/{id}/applicants", server.handleAPIShiftApply)
	mux.HandleFunc("GET /api/reviews/pending", server.handleAPIPendingReviews)
	mux.HandleFunc("POST /api/reviews/{shiftID}", server.handleAPIReviewSubmit)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPIVolunteers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := BuildVolunteerRows(s.registry.Volunteers())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAPIVolunteer(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	s.mu.Lock()
	v, ok := s.registry.Volunteer(id)
	s.mu.Unlock()

	if !ok {
		http.Error(w, fmt.Sprintf("volunteer %s not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, BuildVolunteerDetail(v))
}

func (s *Server) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mode := importer.Mode(strings.ToLower(strings.TrimSpace(r.FormValue("mode"))))
	if mode == "" {
		mode = importer.ModeRoster
	}
	if mode != importer.ModeRoster && mode != importer.ModeRestore {
		http.Error(w, fmt.Sprintf("unsupported import mode %q (supported: roster, restore)", mode), http.StatusBadRequest)
		return
	}

	format, err := importer.InferFormat(header.Filename, r.FormValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	decoder, err := importer.DecoderForFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wb, err := decoder.Decode(header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.importService().Import(wb, mode)
	if err != nil {
		status := http.StatusInternalServerError
		if importer.IsUserError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	if err := s.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := importResponse{
		Mode:           string(result.Mode),
		Sheet:          result.Sheet,
		HeaderRow:      result.HeaderRow,
		RowsRead:       result.RowsRead,
		RowsSkipped:    result.RowsSkipped,
		Created:        result.Created,
		Merged:         result.Merged,
		Unchanged:      result.Unchanged,
		Reused:         result.Reused,
		HoursAdded:     result.HoursAdded,
		HoursDuplicate: result.HoursDuplicate,
		HoursInvalid:   result.HoursInvalid,
	}
	if s.sync != nil && s.cfg.Import.SyncAfterImport && len(result.Touched) > 0 {
		report := s.sync.Push(r.Context(), s.volunteersByID(result.Touched), nil)
		response.Sync = newSyncReport(report)
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAPIExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	volunteers := s.registry.Volunteers()
	s.mu.Unlock()

	writer := &output.ExcelWriter{}
	filename := fmt.Sprintf("volunteer-hours-%s.%s", s.now().Format("2006-01-02"), writer.Extension())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := writer.Encode(w, volunteers); err != nil {
		s.logger.Error("export failed", zap.Error(err))
	}
}

func (s *Server) handleAPIDailySummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	summaries := output.BuildDailySummaries(s.registry.Volunteers())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleAPIShifts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := BuildShiftRows(s.registry.Shifts())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAPIShiftCreate(w http.ResponseWriter, r *http.Request) {
	var body createShiftRequest
	if err := s.decodeValid(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shift, err := s.registry.CreateShift(volunteer.ShiftInput{
		Date:             body.Date,
		StartTime:        body.StartTime,
		EndTime:          body.EndTime,
		VolunteersNeeded: body.VolunteersNeeded,
		Description:      body.Description,
		BreakStart:       body.BreakStart,
		BreakEnd:         body.BreakEnd,
	})
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	if err := s.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	response := shiftResponse{ShiftRow: shiftRow(shift)}
	if s.sync != nil {
		report := s.sync.Push(r.Context(), nil, []volunteer.Shift{shift})
		if len(report.Failed) > 0 {
			response.Warning = report.Failed[0].Error()
		}
	}
	writeJSON(w, http.StatusCreated, response)
}

func (s *Server) handleAPIShiftApply(w http.ResponseWriter, r *http.Request) {
	shiftID := strings.TrimSpace(r.PathValue("id"))
	var body applyRequest
	if err := s.decodeValid(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registry.ApplyForShift(shiftID, body.VolunteerID, body.Notes); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	if err := s.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	shift, _ := s.registry.Shift(shiftID)
	response := shiftResponse{ShiftRow: shiftRow(shift)}
	if s.sync != nil {
		if err := s.sync.ApplyForShift(r.Context(), shiftID, body.VolunteerID, body.Notes); err != nil {
			response.Warning = err.Error()
		}
	}
	writeJSON(w, http.StatusCreated, response)
}

func (s *Server) handleAPIPendingReviews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := BuildPendingRows(s.registry.Shifts(), s.now())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAPIReviewSubmit(w http.ResponseWriter, r *http.Request) {
	shiftID := strings.TrimSpace(r.PathValue("shiftID"))
	var body reviewRequest
	if err := s.decodeValid(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := review.Submit(s.registry, shiftID, body.Attendees)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	if err := s.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := reviewResponse{
		ShiftID:     result.ShiftID,
		HoursLogged: result.HoursLogged,
		Skipped:     result.Skipped,
	}
	if response.Skipped == nil {
		response.Skipped = []review.Skipped{}
	}
	if s.sync != nil {
		logged, err := s.sync.SubmitReview(r.Context(), result)
		if err != nil {
			response.Warning = err.Error()
		}
		response.RemoteLogged = logged
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) importService() *importer.Service {
	return importer.NewService(
		s.registry,
		importer.WithRules(s.cfg.Rules()),
		importer.WithScanRows(s.cfg.Import.ScanRows),
		importer.WithBackupSheet(s.cfg.Import.BackupSheet, s.cfg.Import.BackupMinMatches),
		importer.WithLogger(s.logger),
	)
}

// persist writes the registry snapshot; callers hold mu.
func (s *Server) persist() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveRegistry(s.registry); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

func (s *Server) volunteersByID(ids []string) []volunteer.Volunteer {
	out := make([]volunteer.Volunteer, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.registry.Volunteer(id); ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *Server) decodeValid(r *http.Request, out any) error {
	if err := decodeJSON(r, out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(out); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func newSyncReport(report syncer.Report) *syncReport {
	out := &syncReport{
		Succeeded: len(report.Succeeded),
		Unchanged: report.Unchanged,
		Failed:    make([]string, 0, len(report.Failed)),
	}
	for _, failure := range report.Failed {
		out.Failed = append(out.Failed, failure.Error())
	}
	return out
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, volunteer.ErrVolunteerNotFound), errors.Is(err, volunteer.ErrShiftNotFound):
		return http.StatusNotFound
	case errors.Is(err, volunteer.ErrAlreadyApplied):
		return http.StatusConflict
	case errors.Is(err, volunteer.ErrInvalidShift), errors.Is(err, volunteer.ErrInvalidHours), errors.Is(err, volunteer.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

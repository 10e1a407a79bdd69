package report

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/querynum"
)

// Persistence is the durable mirror of the report collection. The store
// rewrites the whole collection through it after every mutation.
// Implemented by the datastore backends.
type Persistence interface {
	LoadReports() ([]Report, error)
	SaveReports(reports []Report) error
}

// queryNumberAttempts bounds collision-regeneration at insert time.
const queryNumberAttempts = 10

// Store owns the authoritative in-memory report collection and its
// durable mirror. It is the sole owner of record identity and status
// transitions. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	reports  []Report // store order, most recent first
	persist  Persistence
	logger   *slog.Logger
	degraded bool // set after a persistence failure; store keeps running in memory

	now      func() time.Time
	generate func() string
}

// NewStore rehydrates a store from its persistence backend. Absent or
// malformed durable data starts the store empty; a read failure degrades
// the store to in-memory-only operation rather than failing startup.
func NewStore(persist Persistence, logger *slog.Logger) *Store {
	s := &Store{
		persist:  persist,
		logger:   logger,
		now:      time.Now,
		generate: querynum.Generate,
	}

	reports, err := persist.LoadReports()
	if err != nil {
		logger.Warn("could not read durable report data, starting in-memory only", "error", err)
		s.degraded = true
		reports = []Report{}
	}
	s.reports = reports
	return s
}

// Degraded reports whether the store has fallen back to in-memory-only
// operation after a persistence failure.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Create validates the draft, assigns identity and initial state, inserts
// the new report at the front of the collection and persists it. The
// returned error is a persistence warning when the insert succeeded but
// the durable write failed; the caller surfaces it without discarding the
// report.
func (s *Store) Create(draft Draft) (*Report, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	photoURL := draft.PhotoURL
	if photoURL == "" {
		photoURL = PlaceholderPhotoURL
	}

	r := Report{
		ID:           uuid.NewString(),
		QueryNumber:  s.uniqueQueryNumber(),
		Title:        draft.Title,
		Description:  draft.Description,
		LocationText: draft.LocationText,
		Coordinates:  draft.Coordinates,
		PhotoURL:     photoURL,
		ReporterID:   draft.ReporterID,
		Status:       StatusPending,
		Timestamp:    s.now(),
	}

	s.reports = append([]Report{r}, s.reports...)
	warn := s.persistLocked()

	s.logger.Info("report created",
		"id", r.ID, "query_number", r.QueryNumber, "title", r.Title)
	return &r, warn
}

// UpdateStatus overwrites a report's status and refreshes its timestamp.
// Notes overwrite AdminNotes only when non-empty; a resolution image, when
// supplied, replaces both ResolvedImageURL and the display PhotoURL. Any
// status may move to any other status.
func (s *Store) UpdateStatus(id string, status Status, notes, resolutionImage string) (*Report, error) {
	if !ValidStatus(status) {
		return nil, errors.Newf("invalid status %q", status).
			Category(errors.CategoryValidation).
			Component("report-store").
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.reports {
		if s.reports[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Newf("report %s not found", id).
			Category(errors.CategoryNotFound).
			Component("report-store").
			Context("report_id", id).
			Build()
	}

	r := &s.reports[idx]
	r.Status = status
	if notes != "" {
		r.AdminNotes = notes
	}
	if resolutionImage != "" {
		r.ResolvedImageURL = resolutionImage
		r.PhotoURL = resolutionImage
	}
	r.Timestamp = s.now()

	warn := s.persistLocked()

	s.logger.Info("report status updated",
		"id", r.ID, "query_number", r.QueryNumber, "status", status)
	updated := *r
	return &updated, warn
}

// ListAll returns a copy of the full collection in store order. Store
// order is insertion order, newest first; it is a presentation
// convenience, not a correctness requirement.
func (s *Store) ListAll() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// ListByReporter returns the reports filed from the given device, in
// store order.
func (s *Store) ListByReporter(reporterID string) []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Report
	for i := range s.reports {
		if s.reports[i].ReporterID == reporterID {
			out = append(out, s.reports[i])
		}
	}
	return out
}

// persistLocked mirrors the collection to durable storage. On failure the
// in-memory mutation is kept and a persistence warning is returned for
// the caller to surface. Callers must hold mu.
func (s *Store) persistLocked() error {
	if err := s.persist.SaveReports(s.reports); err != nil {
		s.degraded = true
		s.logger.Warn("durable write failed, continuing in memory", "error", err)
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("report-store").
			Build()
	}
	s.degraded = false
	return nil
}

// uniqueQueryNumber generates a query number that does not collide with
// any existing report. Callers must hold mu.
func (s *Store) uniqueQueryNumber() string {
	for i := 0; i < queryNumberAttempts; i++ {
		code := s.generate()
		if !s.queryNumberExistsLocked(code) {
			return code
		}
	}
	// Ten straight collisions means the generator is broken; take the
	// last candidate rather than looping forever.
	return s.generate()
}

func (s *Store) queryNumberExistsLocked(code string) bool {
	for i := range s.reports {
		if s.reports[i].QueryNumber == code {
			return true
		}
	}
	return false
}

func validateDraft(draft Draft) error {
	var missing []string
	if strings.TrimSpace(draft.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(draft.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(draft.LocationText) == "" {
		missing = append(missing, "locationText")
	}
	if len(missing) > 0 {
		return errors.Newf("missing required fields: %s", strings.Join(missing, ", ")).
			Category(errors.CategoryValidation).
			Component("report-store").
			Context("missing_fields", missing).
			Build()
	}

	if !ValidIssueTitle(draft.Title) {
		return errors.Newf("unknown issue title %q", draft.Title).
			Category(errors.CategoryValidation).
			Component("report-store").
			Context("title", draft.Title).
			Build()
	}
	return nil
}

package datastore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/report"
)

// File names for the reporter-id and admin-session keys, stored next to
// the reports document.
const (
	reporterIDFile   = "reporter_id"
	adminSessionFile = "admin_session"
)

// JSONFileStore persists each durable key as one plain file under the
// data directory. The reports key is a single JSON document holding the
// full collection, rewritten on every save.
type JSONFileStore struct {
	dir         string
	reportsPath string
	logger      *slog.Logger
}

// NewJSONFileStore creates a file-backed store rooted at dir, with the
// report collection at reportsPath. Used directly by tests; production
// code goes through New.
func NewJSONFileStore(dir, reportsPath string, logger *slog.Logger) *JSONFileStore {
	return &JSONFileStore{dir: dir, reportsPath: reportsPath, logger: logger}
}

// Open ensures the data directory exists.
func (s *JSONFileStore) Open() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Context("dir", s.dir).
			Build()
	}
	return nil
}

// Close is a no-op; every operation opens and closes its own file.
func (s *JSONFileStore) Close() error { return nil }

// LoadReports reads the full collection. A missing or malformed document
// is treated as no prior data.
func (s *JSONFileStore) LoadReports() ([]report.Report, error) {
	data, err := os.ReadFile(s.reportsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []report.Report{}, nil
		}
		return nil, errors.New(err).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Context("path", s.reportsPath).
			Build()
	}

	var reports []report.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		s.logger.Warn("reports document is malformed, starting empty",
			"path", s.reportsPath, "error", err)
		return []report.Report{}, nil
	}
	return reports, nil
}

// SaveReports rewrites the full collection atomically.
func (s *JSONFileStore) SaveReports(reports []report.Report) error {
	data, err := json.Marshal(reports)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Build()
	}
	return s.writeKey(s.reportsPath, data)
}

// LoadReporterID returns the stored reporter id, or "" when unset.
func (s *JSONFileStore) LoadReporterID() (string, error) {
	return s.readStringKey(filepath.Join(s.dir, reporterIDFile))
}

// SaveReporterID stores the per-device reporter id.
func (s *JSONFileStore) SaveReporterID(id string) error {
	return s.writeKey(filepath.Join(s.dir, reporterIDFile), []byte(id))
}

// AdminSession returns whether the durable admin session flag is set.
func (s *JSONFileStore) AdminSession() (bool, error) {
	v, err := s.readStringKey(filepath.Join(s.dir, adminSessionFile))
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetAdminSession rewrites the admin session flag.
func (s *JSONFileStore) SetAdminSession(active bool) error {
	v := "false"
	if active {
		v = "true"
	}
	return s.writeKey(filepath.Join(s.dir, adminSessionFile), []byte(v))
}

func (s *JSONFileStore) readStringKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.New(err).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Context("path", path).
			Build()
	}
	return strings.TrimSpace(string(data)), nil
}

// writeKey writes through a temp file and renames it into place so a
// crash mid-write never leaves a truncated key.
func (s *JSONFileStore) writeKey(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Context("path", path).
			Build()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Context("path", path).
			Build()
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmpName)
		return errors.New(errors.Join(werr, cerr)).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Context("path", path).
			Build()
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("datastore").
			Context("path", path).
			Build()
	}
	return nil
}

package datastore

import (
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/report"
)

// appState is the key/value table backing the reporter-id and
// admin-session keys in the sqlite backend.
type appState struct {
	Key   string `gorm:"primaryKey;size:32"`
	Value string
}

const (
	stateKeyReporterID   = "reporter_id"
	stateKeyAdminSession = "admin_session"
)

// SQLiteStore persists the durable keys in a local SQLite database. The
// reports key maps to a table whose creation-sequence column reproduces
// store order on load; each SaveReports still rewrites the whole
// collection so the backend keeps the same total-rewrite contract as the
// file store.
type SQLiteStore struct {
	path   string
	logger *slog.Logger
	db     *gorm.DB
}

// NewSQLiteStore creates a SQLite-backed store at path. Used directly by
// tests; production code goes through New.
func NewSQLiteStore(path string, log *slog.Logger) *SQLiteStore {
	return &SQLiteStore{path: path, logger: log}
}

// Open opens the database and migrates the schema.
func (s *SQLiteStore) Open() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Category(errors.CategoryDatabase).
				Component("datastore").
				Context("dir", dir).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("path", s.path).
			Build()
	}

	if err := db.AutoMigrate(&report.Report{}, &appState{}); err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Build()
	}

	s.db = db
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadReports returns the collection in saved order.
func (s *SQLiteStore) LoadReports() ([]report.Report, error) {
	var reports []report.Report
	if err := s.db.Order("seq asc").Find(&reports).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Build()
	}
	return reports, nil
}

// SaveReports rewrites the whole collection in one transaction,
// assigning the creation sequence from slice order.
func (s *SQLiteStore) SaveReports(reports []report.Report) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&report.Report{}).Error; err != nil {
			return err
		}
		for i := range reports {
			r := reports[i]
			r.Seq = uint(i + 1)
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("count", len(reports)).
			Build()
	}
	return nil
}

// LoadReporterID returns the stored reporter id, or "" when unset.
func (s *SQLiteStore) LoadReporterID() (string, error) {
	return s.stateValue(stateKeyReporterID)
}

// SaveReporterID stores the per-device reporter id.
func (s *SQLiteStore) SaveReporterID(id string) error {
	return s.setStateValue(stateKeyReporterID, id)
}

// AdminSession returns whether the durable admin session flag is set.
func (s *SQLiteStore) AdminSession() (bool, error) {
	v, err := s.stateValue(stateKeyAdminSession)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetAdminSession rewrites the admin session flag.
func (s *SQLiteStore) SetAdminSession(active bool) error {
	v := "false"
	if active {
		v = "true"
	}
	return s.setStateValue(stateKeyAdminSession, v)
}

func (s *SQLiteStore) stateValue(key string) (string, error) {
	var state appState
	err := s.db.First(&state, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("key", key).
			Build()
	}
	return state.Value, nil
}

func (s *SQLiteStore) setStateValue(key, value string) error {
	state := appState{Key: key, Value: value}
	if err := s.db.Save(&state).Error; err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("key", key).
			Build()
	}
	return nil
}

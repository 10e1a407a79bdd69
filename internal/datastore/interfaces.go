// Package datastore provides the durable persistence backends for the
// report store. The durable layout is three keys: the full serialized
// report collection, the per-device reporter id, and the admin session
// flag. Every write is a total rewrite of its key.
package datastore

import (
	"log/slog"

	"github.com/cityfix/cityfix-go/internal/conf"
	"github.com/cityfix/cityfix-go/internal/logging"
	"github.com/cityfix/cityfix-go/internal/report"
)

// Interface abstracts the underlying persistence implementation.
type Interface interface {
	Open() error
	Close() error

	// Report collection key. SaveReports rewrites the whole collection;
	// LoadReports returns it in the order it was saved. Absent or
	// malformed data loads as an empty collection, not an error.
	LoadReports() ([]report.Report, error)
	SaveReports(reports []report.Report) error

	// Per-device reporter identity key.
	LoadReporterID() (string, error)
	SaveReporterID(id string) error

	// Admin session flag key.
	AdminSession() (bool, error)
	SetAdminSession(active bool) error
}

// New creates a datastore backend based on the configured store backend.
func New(settings *conf.Settings) Interface {
	logger := newStoreLogger(settings)

	switch settings.Store.Backend {
	case conf.StoreBackendSQLite:
		return &SQLiteStore{
			path:   settings.ResolveDataPath(settings.Store.SQLite.Path),
			logger: logger,
		}
	default:
		return &JSONFileStore{
			dir:         settings.Main.DataDir,
			reportsPath: settings.ResolveDataPath(settings.Store.JSONFile.Path),
			logger:      logger,
		}
	}
}

func newStoreLogger(settings *conf.Settings) *slog.Logger {
	levelVar := new(slog.LevelVar)
	if settings.Main.Debug {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
	logger, _, err := logging.NewFileLogger(
		settings.ResolveLogPath("datastore.log"), "datastore", levelVar)
	if err != nil {
		return logging.NewDiscardLogger("datastore")
	}
	return logger
}

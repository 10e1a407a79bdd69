package conf

import (
	"github.com/cityfix/cityfix-go/internal/errors"
)

// ValidateSettings checks the loaded settings for values that would leave
// the application unable to start.
func ValidateSettings(settings *Settings) error {
	switch settings.Store.Backend {
	case StoreBackendJSONFile, StoreBackendSQLite:
	default:
		return errors.Newf("unknown store backend %q", settings.Store.Backend).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Context("backend", settings.Store.Backend).
			Build()
	}

	if settings.Server.Port < 1 || settings.Server.Port > 65535 {
		return errors.Newf("server port %d out of range", settings.Server.Port).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}

	if settings.Geocode.Enabled && settings.Geocode.BaseURL == "" {
		return errors.Newf("geocode enabled but baseurl is empty").
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}

	if settings.Security.AdminSecret == "" {
		return errors.Newf("security.adminsecret must not be empty").
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}

	return nil
}

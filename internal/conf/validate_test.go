package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityfix/cityfix-go/internal/errors"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Main.Name = "CityFix-Go"
	s.Main.DataDir = "data"
	s.Store.Backend = StoreBackendJSONFile
	s.Store.JSONFile.Path = "reports.json"
	s.Server.Host = "127.0.0.1"
	s.Server.Port = 8080
	s.Geocode.Enabled = true
	s.Geocode.BaseURL = "https://nominatim.openstreetmap.org"
	s.Security.AdminSecret = "admin123"
	return s
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"unknown backend", func(s *Settings) { s.Store.Backend = "cassandra" }},
		{"port zero", func(s *Settings) { s.Server.Port = 0 }},
		{"port too high", func(s *Settings) { s.Server.Port = 70000 }},
		{"geocode without baseurl", func(s *Settings) { s.Geocode.BaseURL = "" }},
		{"empty admin secret", func(s *Settings) { s.Security.AdminSecret = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			require.Error(t, err)
			var ee *errors.EnhancedError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, string(errors.CategoryConfiguration), ee.GetCategory())
		})
	}
}

func TestResolveDataPath(t *testing.T) {
	t.Parallel()

	s := validSettings()
	assert.Equal(t, "data/reports.json", s.ResolveDataPath("reports.json"))
	assert.Equal(t, "/var/lib/cityfix/reports.json", s.ResolveDataPath("/var/lib/cityfix/reports.json"))
}

package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets viper defaults for every configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("main.name", "CityFix-Go")
	viper.SetDefault("main.datadir", "data")
	viper.SetDefault("main.logdir", "logs")
	viper.SetDefault("main.debug", false)

	viper.SetDefault("store.backend", StoreBackendJSONFile)
	viper.SetDefault("store.jsonfile.path", "reports.json")
	viper.SetDefault("store.sqlite.path", "cityfix.db")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("geocode.enabled", true)
	viper.SetDefault("geocode.baseurl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocode.timeout", 15*time.Second)
	viper.SetDefault("geocode.cachettl", 24*time.Hour)
	viper.SetDefault("geocode.useragent", "CityFix-Go")

	// Shared demo secret carried over from the original deployment.
	// Operators are expected to override this; see Settings.Security.
	viper.SetDefault("security.adminsecret", "admin123")
}

// defaultConfigYAML is written verbatim when no config file exists.
const defaultConfigYAML = `# CityFix-Go configuration

main:
  name: CityFix-Go
  datadir: data      # directory for durable report data
  logdir: logs       # directory for service log files
  debug: false

store:
  backend: jsonfile  # jsonfile or sqlite
  jsonfile:
    path: reports.json
  sqlite:
    path: cityfix.db

server:
  host: 0.0.0.0
  port: 8080

geocode:
  enabled: true
  baseurl: https://nominatim.openstreetmap.org
  timeout: 15s
  cachettl: 24h
  useragent: CityFix-Go

security:
  # Shared admin secret. Not a security boundary: anyone with access to
  # this file can read it. Change it anyway.
  adminsecret: admin123
`

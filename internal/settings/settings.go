package settings

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var Settings *AppSettings

func NewSettings() *AppSettings {
	settings := AppSettings{
		Port:           getEnvOrDefault("SIMPLECI_PORT", ":8080"),
		DBDriver:       getEnvOrDefault("SIMPLECI_DB_DRIVER", DriverSQLite),
		SQLiteDatabase: getEnvOrDefault("SIMPLECI_DB_PATH", "file:.///metrics.sqlite"),
		PostgresDSN:    getEnvOrDefault("SIMPLECI_DB_DSN", ""),
		LogLevel:       getEnvOrDefault("SIMPLECI_LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("SIMPLECI_LOG_FORMAT", "text"),
		ConfigPath:     getEnvOrDefault("SIMPLECI_CONFIG_PATH", "config.json"),
	}
	if !strings.HasPrefix(settings.Port, ":") {
		settings.Port = ":" + settings.Port
	}
	return &settings
}

func getEnvOrDefault(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

type AppSettings struct {
	Port           string
	DBDriver       string
	SQLiteDatabase string
	PostgresDSN    string
	LogLevel       string
	LogFormat      string
	ConfigPath     string
}

func (as *AppSettings) SQLiteDbString(readonly bool) string {
	params := make(url.Values)
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Add("_pragma", "foreign_keys(ON)")
	if readonly {
		params.Add("mode", "ro")
	} else {
		params.Add("_txlock", "immediate")
		params.Add("mode", "rwc")
	}

	return as.SQLiteDatabase + "?" + params.Encode()
}

// ReadDotenv loads variables from the dotenv files at paths into the
// environment. Variables that are already set are kept, and missing files
// are skipped.
func ReadDotenv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

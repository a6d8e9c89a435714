package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"path/filepath"
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and paths, ints for costs and
// durations expressed in whole units.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	FolderPath      string // root directory for stored file content
	BcryptCost      int    // bcrypt cost for password hashing
	SessionTTLHours int    // session token time-to-live in hours
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is applied first when
// present, so local development does not need an exported environment.
// Required variables are enforced by must() and missing values cause the
// program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is not an error

	return Config{
		Env:             must("APP_ENV"),  // environment (dev/test/prod)
		Port:            must("APP_PORT"), // port to bind the HTTP server
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty password allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		FolderPath:      folderPath(),
		BcryptCost:      mustInt("BCRYPT_COST"),
		SessionTTLHours: envInt("SESSION_TTL_HOURS", 24),
	}
}

// folderPath resolves the storage root for file content.  FOLDER_PATH wins
// when set; otherwise content lives under the system temp directory.
func folderPath() string {
	if v := os.Getenv("FOLDER_PATH"); v != "" {
		return v
	}
	return filepath.Join(os.TempDir(), "files_manager")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envInt reads an optional integer variable, falling back to def when the
// variable is unset or malformed.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

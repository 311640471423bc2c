package env

import (
	"os"

	"github.com/joho/godotenv"
)

// envFiles are probed in order; the first one that exists wins.
var envFiles = []string{
	".env",          // Current directory
	"../../.env",    // From cmd/newsfeed to project root
	"../../../.env", // Fallback for deeper nesting
}

// SetupEnvFile loads the first .env file found into the process environment.
// Variables already set in the environment are not overridden. It returns the
// path that was loaded, or "" when no file exists (Docker/tests rely on the
// real environment then).
func SetupEnvFile() (string, error) {
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return envFile, err
		}
		return envFile, nil
	}
	return "", nil
}

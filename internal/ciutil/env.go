package ciutil

import (
	"log/slog"
	"os"

	"github.com/phrazzld/tasks-api/internal/redact"
)

// CI detection variables.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"
)

// Test database variables, preferred name first.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvTestDBURL   = "TASKS_TEST_DB_URL"
)

// IsCI reports whether the process runs under a known CI provider.
func IsCI() bool {
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetEnvWithFallbacks returns the first non-empty variable in envVars, or
// defaultValue. Using anything but the first name logs a warning with the
// value redacted.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		val := os.Getenv(envVar)
		if val == "" {
			continue
		}
		if i > 0 && logger != nil {
			logger.Warn("using fallback environment variable",
				"used_var", envVar,
				"preferred_var", envVars[0],
				"value", redact.String(val))
		}
		return val
	}
	return defaultValue
}

// TestDatabaseURL returns the PostgreSQL URL configured for integration
// tests, or "".
func TestDatabaseURL() string {
	return GetEnvWithFallbacks([]string{EnvDatabaseURL, EnvTestDBURL}, "", slog.Default())
}

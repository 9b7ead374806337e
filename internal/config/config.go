package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server needs, assembled once at startup and
// passed into constructors. Nothing reads the environment after Load.
type Config struct {
	// Jira connection.
	JiraServer   string
	JiraEmail    string
	JiraAPIToken string
	JiraTimeout  time.Duration

	// Summary cache.
	CacheTTL time.Duration

	// HTTP server.
	Port     string
	LogLevel string

	// Optional: resolve the branch from a local checkout when a context
	// request does not carry one.
	GitRepoPath string

	// Optional: resolve branches from GitHub pull requests.
	GitHubToken string

	// Optional: LLM condensation of ticket descriptions.
	OpenAIAPIKey string
	OpenAIModel  string
}

// Load assembles the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		JiraServer:   os.Getenv("JIRA_SERVER"),
		JiraEmail:    os.Getenv("JIRA_EMAIL"),
		JiraAPIToken: os.Getenv("JIRA_API_TOKEN"),
		JiraTimeout:  getDurationEnv("JIRA_TIMEOUT", 10*time.Second),
		CacheTTL:     getDurationEnv("CACHE_TTL", 300*time.Second),
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		GitRepoPath:  os.Getenv("GIT_REPO_PATH"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.JiraServer == "" {
		missing = append(missing, "JIRA_SERVER")
	}
	if c.JiraEmail == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if c.JiraAPIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv parses a duration from the environment. Bare numbers are
// treated as seconds, so CACHE_TTL=300 and CACHE_TTL=5m are equivalent.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}

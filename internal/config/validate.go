package config

import (
	"fmt"
	"strings"
)

const (
	APIKeyPrefix = "sk-"

	MinMaxTokens   = 100
	MaxMaxTokens   = 8000
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// Validate rejects configurations the server cannot run with.
// OpenAI settings are deliberately excluded; see Warnings.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage.database_url is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres or memory (got %q)", c.Storage.Driver)
	}

	if c.Upload.CompressionThreshold > c.Upload.MaxFileSize {
		return fmt.Errorf("upload.compression_threshold (%d) must not exceed upload.max_file_size (%d)",
			c.Upload.CompressionThreshold, c.Upload.MaxFileSize)
	}

	return nil
}

// Warnings reports soft problems with the OpenAI settings. The caller logs them;
// none of them prevents startup.
func (c *Config) Warnings() []string {
	var warnings []string

	key := strings.TrimSpace(c.OpenAI.APIKey)
	switch {
	case key == "":
		warnings = append(warnings, "OPENAI_API_KEY is not set; reviews will fail")
	case !strings.HasPrefix(key, APIKeyPrefix):
		warnings = append(warnings, fmt.Sprintf("OPENAI_API_KEY does not start with %q", APIKeyPrefix))
	}

	if c.OpenAI.Model == "" {
		warnings = append(warnings, "OPENAI_MODEL is empty")
	}

	if c.OpenAI.MaxTokens < MinMaxTokens || c.OpenAI.MaxTokens > MaxMaxTokens {
		warnings = append(warnings, fmt.Sprintf("OPENAI_MAX_TOKENS=%d is outside the recommended range %d-%d",
			c.OpenAI.MaxTokens, MinMaxTokens, MaxMaxTokens))
	}

	if c.OpenAI.Temperature < MinTemperature || c.OpenAI.Temperature > MaxTemperature {
		warnings = append(warnings, fmt.Sprintf("OPENAI_TEMPERATURE=%g is outside the recommended range %g-%g",
			c.OpenAI.Temperature, MinTemperature, MaxTemperature))
	}

	return warnings
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

package api

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	// AdminTokens maps bearer tokens to the admin subject they act as.
	AdminTokens map[string]string
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints. A .env file in the working directory is honored when
// present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}
	tokens, err := parseAdminTokens(os.Getenv("ADMIN_API_TOKENS"))
	if err != nil {
		return Config{}, err
	}
	cfg.AdminTokens = tokens
	return cfg, nil
}

// parseAdminTokens splits "token:subject,token:subject" pairs. The subject is
// optional and defaults to "admin".
func parseAdminTokens(raw string) (map[string]string, error) {
	tokens := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, subject, found := strings.Cut(pair, ":")
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("ADMIN_API_TOKENS contains an empty token entry")
		}
		subject = strings.TrimSpace(subject)
		if !found || subject == "" {
			subject = "admin"
		}
		tokens[token] = subject
	}
	return tokens, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

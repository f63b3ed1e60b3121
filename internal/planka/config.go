package planka

import (
	"net/url"
	"os"
	"strings"
)

// Environment variables the client falls back to when a Config field is
// left empty.
const (
	EnvBaseURL  = "PLANKA_BASE_URL"
	EnvEmail    = "PLANKA_EMAIL"
	EnvPassword = "PLANKA_PASSWORD"
)

// Config holds the settings for one kanban server connection: where it
// lives and the service-account credentials used to obtain session
// tokens. It is resolved once when the client is constructed.
type Config struct {
	// BaseURL is the root of the kanban server, without the /api suffix
	// (e.g. "https://kanban.example.com").
	BaseURL string

	// Email is the service account's email or username.
	Email string

	// Password is the service account's password.
	Password string
}

// ConfigFromEnv builds a Config from the PLANKA_* environment
// variables. Validation happens in NewClient.
func ConfigFromEnv() Config {
	return Config{
		BaseURL:  os.Getenv(EnvBaseURL),
		Email:    os.Getenv(EnvEmail),
		Password: os.Getenv(EnvPassword),
	}
}

// validate fails fast on a missing or malformed setting, before any
// network call is attempted.
func (c Config) validate() error {
	if c.BaseURL == "" {
		return configError("base URL is required (set %s)", EnvBaseURL)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return configError("base URL %q is not a valid http(s) URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return configError("base URL %q must use http or https", c.BaseURL)
	}
	if c.Email == "" {
		return configError("email or username is required (set %s)", EnvEmail)
	}
	if c.Password == "" {
		return configError("password is required (set %s)", EnvPassword)
	}
	return nil
}

// apiRoot returns the API prefix derived from the base URL.
func (c Config) apiRoot() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api"
}

package config

import "strings"

const (
	EnvToken   = "VAR_TOKEN"
	EnvBaseURL = "VAR_BASE_URL"
)

// Credentials are the token and API root actually used for a remote call.
type Credentials struct {
	Token   string
	BaseURL string
}

// Getenv matches os.Getenv so tests can substitute the environment.
type Getenv func(string) string

// EffectiveToken prefers a configured token over VAR_TOKEN.
func (c Config) EffectiveToken(getenv Getenv) string {
	if c.Token != "" {
		return c.Token
	}
	return cleanEnv(getenv(EnvToken))
}

// EffectiveBaseURL prefers a configured base URL unless it is empty or still
// the built-in default, in which case VAR_BASE_URL wins when set.
func (c Config) EffectiveBaseURL(getenv Getenv) string {
	if c.BaseURL != "" && c.BaseURL != DefaultBaseURL {
		return c.BaseURL
	}
	if env := cleanEnv(getenv(EnvBaseURL)); env != "" {
		return env
	}
	return DefaultBaseURL
}

// Resolve returns the effective credentials with the base URL's trailing
// slash removed.
func Resolve(c Config, getenv Getenv) Credentials {
	return Credentials{
		Token:   strings.TrimSpace(c.EffectiveToken(getenv)),
		BaseURL: strings.TrimRight(strings.TrimSpace(c.EffectiveBaseURL(getenv)), "/"),
	}
}

func cleanEnv(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, `"`, ""))
}

package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	TablePrefix string

	DiscordClientID     string
	DiscordClientSecret string
	DiscordAPIBaseURL   string
	AllowedGuildID      string
	AllowedRoleIDs      []string

	CanonicalURL string
	BasePath     string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "gatekeeper"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	basePath := strings.TrimRight(os.Getenv("BASE_PATH"), "/")
	if basePath == "" {
		basePath = "/auth"
	}

	var roleIDs []string
	for _, value := range strings.Split(os.Getenv("ALLOWED_ROLE_IDS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			roleIDs = append(roleIDs, value)
		}
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		TablePrefix: strings.TrimSpace(os.Getenv("TABLE_PREFIX")),

		DiscordClientID:     strings.TrimSpace(os.Getenv("DISCORD_CLIENT_ID")),
		DiscordClientSecret: strings.TrimSpace(os.Getenv("DISCORD_CLIENT_SECRET")),
		DiscordAPIBaseURL:   strings.TrimSpace(os.Getenv("DISCORD_API_BASE_URL")),
		AllowedGuildID:      strings.TrimSpace(os.Getenv("ALLOWED_GUILD_ID")),
		AllowedRoleIDs:      roleIDs,

		CanonicalURL: strings.TrimRight(strings.TrimSpace(os.Getenv("CANONICAL_URL")), "/"),
		BasePath:     basePath,
	}, nil
}

// RedirectURI is the OAuth redirect target registered with the provider:
// the canonical public URL joined with the authorize path.
func (c Config) RedirectURI() string {
	return c.CanonicalURL + c.BasePath + "/"
}

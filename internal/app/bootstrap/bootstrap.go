package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gatewayservice "gatekeeper/contexts/access-control/gateway-service"
	"gatekeeper/contexts/access-control/gateway-service/adapters/discord"
	"gatekeeper/contexts/access-control/gateway-service/adapters/events"
	postgresadapter "gatekeeper/contexts/access-control/gateway-service/adapters/postgres"
	"gatekeeper/internal/platform/config"
	"gatekeeper/internal/platform/db"
	"gatekeeper/internal/platform/httpserver"
	"gatekeeper/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if err := validate(cfg); err != nil {
		return nil, err
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	whitelist := postgresadapter.NewRepository(pg.DB, cfg.TablePrefix, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := whitelist.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}

	provider := discord.NewClient(discord.ClientConfig{
		BaseURL:      cfg.DiscordAPIBaseURL,
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURI:  cfg.RedirectURI(),
	}, logger)

	bus := messaging.NewBus(logger)
	publisher := events.NewPublisher(bus, cfg.ServiceName, logger)

	module := gatewayservice.NewModule(gatewayservice.Dependencies{
		Provider:        provider,
		Whitelist:       whitelist,
		Events:          publisher,
		Clock:           postgresadapter.SystemClock{},
		IDGenerator:     postgresadapter.UUIDGenerator{},
		RequiredGuildID: cfg.AllowedGuildID,
		AllowedRoleIDs:  cfg.AllowedRoleIDs,
		Logger:          logger,
	})

	server := httpserver.New(module, httpserver.Options{
		Addr:       normalizeAddr(cfg.HTTPPort),
		BasePath:   cfg.BasePath,
		ConsentURL: discord.ConsentURL(cfg.DiscordAPIBaseURL, cfg.DiscordClientID, cfg.RedirectURI()),
	}, logger)

	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	defer func() { _ = a.postgres.Close() }()
	return a.server.Start()
}

func validate(cfg config.Config) error {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	if cfg.DiscordClientID == "" || cfg.DiscordClientSecret == "" {
		return errors.New("DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET are required")
	}
	if cfg.AllowedGuildID == "" {
		return errors.New("ALLOWED_GUILD_ID is required")
	}
	if len(cfg.AllowedRoleIDs) == 0 {
		return errors.New("ALLOWED_ROLE_IDS is required")
	}
	if cfg.CanonicalURL == "" {
		return errors.New("CANONICAL_URL is required")
	}
	return nil
}

func normalizeAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "gatekeeper/contexts/access-control/gateway-service/domain/errors"
	"gatekeeper/contexts/access-control/gateway-service/ports"
)

const (
	// DefaultBaseURL is the Discord REST API the client talks to. Tests
	// point ClientConfig.BaseURL at a local server instead.
	DefaultBaseURL = "https://discord.com/api/v10"

	// oauthScopes are the scopes the gateway needs: profile naming, guild
	// listing and per-guild member/role lookup.
	oauthScopes = "identify guilds guilds.members.read"

	defaultTimeout = 10 * time.Second
)

// ClientConfig carries the OAuth application credentials and redirect
// target registered with the provider.
type ClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client implements ports.IdentityProvider against the Discord v10 API.
// Each method performs exactly one attempt; there is no retry loop here.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// ConsentURL builds the provider consent page a caller without an
// authorization code is redirected to.
func ConsentURL(baseURL string, clientID string, redirectURI string) string {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	values := url.Values{}
	values.Set("client_id", clientID)
	values.Set("redirect_uri", redirectURI)
	values.Set("response_type", "code")
	values.Set("scope", oauthScopes)
	return strings.TrimRight(baseURL, "/") + "/oauth2/authorize?" + values.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.cfg.BaseURL+"/oauth2/token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrCodeExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token tokenResponse
	if err := c.do(req, &token); err != nil {
		// Expired, reused and malformed codes are indistinguishable at
		// this boundary; all of them read as an invalid token.
		return "", fmt.Errorf("%w: %v", domainerrors.ErrCodeExchangeFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domainerrors.ErrCodeExchangeFailed)
	}
	return token.AccessToken, nil
}

type guildEntry struct {
	ID string `json:"id"`
}

func (c *Client) ListGuilds(ctx context.Context, accessToken string) ([]string, error) {
	req, err := c.bearerRequest(ctx, c.cfg.BaseURL+"/users/@me/guilds", accessToken)
	if err != nil {
		return nil, err
	}

	var guilds []guildEntry
	if err := c.do(req, &guilds); err != nil {
		return nil, fmt.Errorf("%w: list guilds: %v", domainerrors.ErrProviderUnavailable, err)
	}

	ids := make([]string, 0, len(guilds))
	for _, guild := range guilds {
		ids = append(ids, guild.ID)
	}
	return ids, nil
}

type memberResponse struct {
	Roles []string `json:"roles"`
}

func (c *Client) ListMemberRoles(ctx context.Context, accessToken string, guildID string) ([]string, error) {
	endpoint := c.cfg.BaseURL + "/users/@me/guilds/" + url.PathEscape(guildID) + "/member"
	req, err := c.bearerRequest(ctx, endpoint, accessToken)
	if err != nil {
		return nil, err
	}

	var member memberResponse
	if err := c.do(req, &member); err != nil {
		return nil, fmt.Errorf("%w: list member roles: %v", domainerrors.ErrProviderUnavailable, err)
	}
	return member.Roles, nil
}

type profileResponse struct {
	Username string `json:"username"`
}

func (c *Client) FetchProfile(ctx context.Context, accessToken string) (ports.Profile, error) {
	req, err := c.bearerRequest(ctx, c.cfg.BaseURL+"/users/@me", accessToken)
	if err != nil {
		return ports.Profile{}, err
	}

	var profile profileResponse
	if err := c.do(req, &profile); err != nil {
		return ports.Profile{}, fmt.Errorf("%w: fetch profile: %v", domainerrors.ErrProviderUnavailable, err)
	}
	return ports.Profile{Username: profile.Username}, nil
}

func (c *Client) bearerRequest(ctx context.Context, endpoint string, accessToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrProviderUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Provider error bodies may carry sensitive detail; only the
		// status code leaves this adapter.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Warn("identity provider call rejected",
			"event", "gateway_provider_rejected",
			"module", "access-control/gateway-service",
			"layer", "adapter",
			"path", req.URL.Path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

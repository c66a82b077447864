package unit

import (
	"context"
	"errors"
	"testing"

	gatewayservice "gatekeeper/contexts/access-control/gateway-service"
	"gatekeeper/contexts/access-control/gateway-service/ports"
)

type scriptedProvider struct {
	tokens   map[string]string
	guilds   []string
	roles    []string
	username string
}

func (p scriptedProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, ok := p.tokens[code]
	if !ok {
		return "", errors.New("invalid_grant")
	}
	return token, nil
}

func (p scriptedProvider) ListGuilds(ctx context.Context, accessToken string) ([]string, error) {
	return p.guilds, nil
}

func (p scriptedProvider) ListMemberRoles(ctx context.Context, accessToken string, guildID string) ([]string, error) {
	return p.roles, nil
}

func (p scriptedProvider) FetchProfile(ctx context.Context, accessToken string) (ports.Profile, error) {
	return ports.Profile{Username: p.username}, nil
}

func TestAuthorizeThenCheckScenario(t *testing.T) {
	provider := scriptedProvider{
		tokens:   map[string]string{"abc": "tok-1"},
		guilds:   []string{"guild-1"},
		roles:    []string{"role-a"},
		username: "bob",
	}
	module := gatewayservice.NewInMemoryModule(provider, "guild-1", []string{"role-a"}, nil)

	check, err := module.Handler.CheckAddressHandler(context.Background(), "9.9.9.9")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if check.Allowed {
		t.Fatalf("expected deny before any authorization")
	}

	resp, err := module.Handler.AuthorizeHandler(context.Background(), "abc", "9.9.9.9")
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if resp.Outcome != "authorized" || resp.IdentityName != "bob" {
		t.Fatalf("unexpected response %+v", resp)
	}

	check, err = module.Handler.CheckAddressHandler(context.Background(), "9.9.9.9")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !check.Allowed {
		t.Fatalf("expected allow immediately after authorization")
	}
}

func TestAuthorizeInvalidCodeLeavesStoreUntouched(t *testing.T) {
	provider := scriptedProvider{tokens: map[string]string{}}
	module := gatewayservice.NewInMemoryModule(provider, "guild-1", []string{"role-a"}, nil)

	resp, err := module.Handler.AuthorizeHandler(context.Background(), "xyz", "5.5.5.5")
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if resp.Outcome != "invalid_token" {
		t.Fatalf("expected invalid_token, got %s", resp.Outcome)
	}
	if module.Store.GrantCount("5.5.5.5") != 0 {
		t.Fatalf("expected no store mutation")
	}
}

func TestAuthorizeWithoutAllowedRoleIsMissingRole(t *testing.T) {
	provider := scriptedProvider{
		tokens:   map[string]string{"abc": "tok-1"},
		guilds:   []string{"guild-1"},
		roles:    []string{"role-z"},
		username: "bob",
	}
	module := gatewayservice.NewInMemoryModule(provider, "guild-1", []string{"role-a"}, nil)

	resp, err := module.Handler.AuthorizeHandler(context.Background(), "abc", "5.5.5.5")
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if resp.Outcome != "missing_role" {
		t.Fatalf("expected missing_role, got %s", resp.Outcome)
	}
}

func TestAuthorizeTwiceIsIdempotent(t *testing.T) {
	provider := scriptedProvider{
		tokens:   map[string]string{"abc": "tok-1", "def": "tok-2"},
		guilds:   []string{"guild-1"},
		roles:    []string{"role-a"},
		username: "alice",
	}
	module := gatewayservice.NewInMemoryModule(provider, "guild-1", []string{"role-a"}, nil)

	first, err := module.Handler.AuthorizeHandler(context.Background(), "abc", "7.7.7.7")
	if err != nil {
		t.Fatalf("first authorize failed: %v", err)
	}
	if first.Outcome != "authorized" {
		t.Fatalf("expected authorized, got %s", first.Outcome)
	}

	second, err := module.Handler.AuthorizeHandler(context.Background(), "def", "7.7.7.7")
	if err != nil {
		t.Fatalf("second authorize failed: %v", err)
	}
	if second.Outcome != "already_authorized" {
		t.Fatalf("expected already_authorized, got %s", second.Outcome)
	}
	if module.Store.GrantCount("7.7.7.7") != 1 {
		t.Fatalf("expected one grant for address")
	}
}

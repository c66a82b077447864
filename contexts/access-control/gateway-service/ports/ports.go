package ports

import (
	"context"
	"time"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for grant rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// IdentityProvider wraps the remote OAuth identity platform. Every method
// performs exactly one network attempt; retry policy belongs to callers.
// Access tokens are opaque bearer credentials and must never be persisted
// or logged.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	ListGuilds(ctx context.Context, accessToken string) ([]string, error)
	ListMemberRoles(ctx context.Context, accessToken string, guildID string) ([]string, error)
	FetchProfile(ctx context.Context, accessToken string) (Profile, error)
}

// Profile is the provider-side identity projection used to name grants.
type Profile struct {
	Username string
}

// GrantInput is persisted as one whitelist row.
type GrantInput struct {
	GrantID      string
	IdentityName string
	Address      string
	GrantedAt    time.Time
}

// WhitelistRepository is the durable membership boundary for granted
// addresses. Contains must surface persistence failures as errors wrapping
// ErrStoreUnavailable so callers can distinguish "unavailable" from
// "not found". Insert reports a unique-index collision as ErrDuplicateGrant.
type WhitelistRepository interface {
	EnsureSchema(ctx context.Context) error
	Contains(ctx context.Context, address string) (bool, error)
	Insert(ctx context.Context, grant GrantInput) error
}

// GrantAuthorizedEvent announces a newly persisted grant to operator tooling.
type GrantAuthorizedEvent struct {
	GrantID      string
	IdentityName string
	Address      string
	GrantedAt    time.Time
}

// GrantEventPublisher emits grant lifecycle events. Publication is
// best-effort; a publish failure must not fail the authorization attempt.
type GrantEventPublisher interface {
	PublishGrantAuthorized(ctx context.Context, event GrantAuthorizedEvent) error
}

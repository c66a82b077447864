package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "gatekeeper/contexts/access-control/gateway-service/application"
	"gatekeeper/contexts/access-control/gateway-service/domain/entities"
	domainerrors "gatekeeper/contexts/access-control/gateway-service/domain/errors"
	"gatekeeper/contexts/access-control/gateway-service/ports"
)

// AuthorizeAddressCommand is one in-flight authorization attempt.
type AuthorizeAddressCommand struct {
	AuthorizationCode string
	Address           string
}

// AuthorizeAddressUseCase evaluates one attempt into exactly one Outcome.
//
// The policy is a forward-only state machine: code exchange, guild
// membership, role check, whitelist duplicate check, profile fetch, insert.
// Every step short-circuits to a terminal outcome on its failure edge, and
// no provider or store failure escapes uncategorized.
type AuthorizeAddressUseCase struct {
	Provider        ports.IdentityProvider
	Whitelist       ports.WhitelistRepository
	Events          ports.GrantEventPublisher
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	RequiredGuildID string
	AllowedRoleIDs  []string
	Logger          *slog.Logger
}

// Execute runs the ordered policy. A non-nil error is returned only for
// empty inputs; all remote and persistence failures fold into the Outcome.
func (u AuthorizeAddressUseCase) Execute(
	ctx context.Context,
	cmd AuthorizeAddressCommand,
) (entities.Outcome, error) {
	if strings.TrimSpace(cmd.AuthorizationCode) == "" {
		return entities.Outcome{}, domainerrors.ErrMissingAuthorizationCode
	}
	if strings.TrimSpace(cmd.Address) == "" {
		return entities.Outcome{}, domainerrors.ErrMissingAddress
	}

	logger := application.ResolveLogger(u.Logger)
	now := u.now()
	logger.Debug("authorization attempt started",
		"event", "gateway_authorize_started",
		"module", "access-control/gateway-service",
		"layer", "application",
		"address", cmd.Address,
	)

	accessToken, err := u.Provider.ExchangeCode(ctx, cmd.AuthorizationCode)
	if err != nil {
		logger.Warn("authorization code exchange rejected",
			"event", "gateway_code_exchange_rejected",
			"module", "access-control/gateway-service",
			"layer", "application",
			"address", cmd.Address,
			"error", err.Error(),
		)
		return u.outcome(entities.OutcomeInvalidToken, "", cmd.Address, now), nil
	}

	guildIDs, err := u.Provider.ListGuilds(ctx, accessToken)
	if err != nil {
		return u.failInternal(logger, "gateway_guild_list_failed", cmd.Address, now, err), nil
	}
	if !containsString(guildIDs, u.RequiredGuildID) {
		logger.Info("authorization denied, not in required guild",
			"event", "gateway_guild_membership_denied",
			"module", "access-control/gateway-service",
			"layer", "application",
			"address", cmd.Address,
			"guild_id", u.RequiredGuildID,
		)
		return u.outcome(entities.OutcomeNotInGuild, "", cmd.Address, now), nil
	}

	roleIDs, err := u.Provider.ListMemberRoles(ctx, accessToken, u.RequiredGuildID)
	if err != nil {
		return u.failInternal(logger, "gateway_role_list_failed", cmd.Address, now, err), nil
	}
	if !intersects(roleIDs, u.AllowedRoleIDs) {
		logger.Info("authorization denied, no allowed role",
			"event", "gateway_role_denied",
			"module", "access-control/gateway-service",
			"layer", "application",
			"address", cmd.Address,
			"guild_id", u.RequiredGuildID,
		)
		return u.outcome(entities.OutcomeMissingRole, "", cmd.Address, now), nil
	}

	// Duplicate check runs before the profile fetch so a re-authorization
	// for a whitelisted address skips the extra remote call.
	exists, err := u.Whitelist.Contains(ctx, cmd.Address)
	if err != nil {
		return u.failInternal(logger, "gateway_whitelist_lookup_failed", cmd.Address, now, err), nil
	}
	if exists {
		return u.outcome(entities.OutcomeAlreadyAuthorized, "", cmd.Address, now), nil
	}

	profile, err := u.Provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return u.failInternal(logger, "gateway_profile_fetch_failed", cmd.Address, now, err), nil
	}

	grantID, err := u.newID(ctx)
	if err != nil {
		return u.failInternal(logger, "gateway_grant_id_failed", cmd.Address, now, err), nil
	}

	grant := ports.GrantInput{
		GrantID:      grantID,
		IdentityName: profile.Username,
		Address:      cmd.Address,
		GrantedAt:    now,
	}
	if err := u.Whitelist.Insert(ctx, grant); err != nil {
		// Two concurrent first-time attempts for one address can race past
		// Contains; the unique index turns the loser into a duplicate.
		if errors.Is(err, domainerrors.ErrDuplicateGrant) {
			return u.outcome(entities.OutcomeAlreadyAuthorized, "", cmd.Address, now), nil
		}
		return u.failInternal(logger, "gateway_grant_insert_failed", cmd.Address, now, err), nil
	}

	u.publishGrantAuthorized(ctx, logger, grant)
	logger.Info("grant authorized",
		"event", "gateway_grant_authorized",
		"module", "access-control/gateway-service",
		"layer", "application",
		"identity_name", profile.Username,
		"address", cmd.Address,
	)
	return u.outcome(entities.OutcomeAuthorized, profile.Username, cmd.Address, now), nil
}

func (u AuthorizeAddressUseCase) publishGrantAuthorized(
	ctx context.Context,
	logger *slog.Logger,
	grant ports.GrantInput,
) {
	if u.Events == nil {
		return
	}
	err := u.Events.PublishGrantAuthorized(ctx, ports.GrantAuthorizedEvent{
		GrantID:      grant.GrantID,
		IdentityName: grant.IdentityName,
		Address:      grant.Address,
		GrantedAt:    grant.GrantedAt,
	})
	if err != nil {
		logger.Warn("grant authorized event publish failed",
			"event", "gateway_grant_event_publish_failed",
			"module", "access-control/gateway-service",
			"layer", "application",
			"grant_id", grant.GrantID,
			"error", err.Error(),
		)
	}
}

func (u AuthorizeAddressUseCase) failInternal(
	logger *slog.Logger,
	event string,
	address string,
	now time.Time,
	err error,
) entities.Outcome {
	logger.Error("authorization attempt failed",
		"event", event,
		"module", "access-control/gateway-service",
		"layer", "application",
		"address", address,
		"error", err.Error(),
	)
	return u.outcome(entities.OutcomeInternalError, "", address, now)
}

func (u AuthorizeAddressUseCase) outcome(
	kind entities.OutcomeKind,
	identityName string,
	address string,
	now time.Time,
) entities.Outcome {
	return entities.Outcome{
		Kind:         kind,
		IdentityName: identityName,
		Address:      address,
		EvaluatedAt:  now,
	}
}

func (u AuthorizeAddressUseCase) newID(ctx context.Context) (string, error) {
	if u.IDGenerator == nil {
		return "", errors.New("id generator is not configured")
	}
	return u.IDGenerator.NewID(ctx)
}

func (u AuthorizeAddressUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func intersects(items []string, allowed []string) bool {
	for _, item := range items {
		if containsString(allowed, item) {
			return true
		}
	}
	return false
}

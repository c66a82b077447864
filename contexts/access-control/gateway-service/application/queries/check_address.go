package queries

import (
	"context"
	"log/slog"
	"strings"

	application "gatekeeper/contexts/access-control/gateway-service/application"
	domainerrors "gatekeeper/contexts/access-control/gateway-service/domain/errors"
	"gatekeeper/contexts/access-control/gateway-service/ports"
)

// CheckAddressQuery asks whether one address holds a grant.
type CheckAddressQuery struct {
	Address string
}

// CheckAddressUseCase answers the reverse proxy's sub-request poll. A store
// failure propagates as an error so transport can keep "unavailable"
// distinct from "not whitelisted".
type CheckAddressUseCase struct {
	Whitelist ports.WhitelistRepository
	Logger    *slog.Logger
}

func (u CheckAddressUseCase) Execute(ctx context.Context, query CheckAddressQuery) (bool, error) {
	if strings.TrimSpace(query.Address) == "" {
		return false, domainerrors.ErrMissingAddress
	}

	logger := application.ResolveLogger(u.Logger)
	allowed, err := u.Whitelist.Contains(ctx, query.Address)
	if err != nil {
		logger.Error("whitelist lookup failed",
			"event", "gateway_check_lookup_failed",
			"module", "access-control/gateway-service",
			"layer", "application",
			"address", query.Address,
			"error", err.Error(),
		)
		return false, err
	}

	logger.Debug("whitelist checked",
		"event", "gateway_check_evaluated",
		"module", "access-control/gateway-service",
		"layer", "application",
		"address", query.Address,
		"allowed", allowed,
	)
	return allowed, nil
}

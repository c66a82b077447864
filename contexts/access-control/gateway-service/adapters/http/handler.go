package httpadapter

import (
	"context"
	"log/slog"

	application "gatekeeper/contexts/access-control/gateway-service/application"
	"gatekeeper/contexts/access-control/gateway-service/application/commands"
	"gatekeeper/contexts/access-control/gateway-service/application/queries"
	httptransport "gatekeeper/contexts/access-control/gateway-service/transport/http"
)

// Handler maps transport DTOs to application commands/queries.
type Handler struct {
	Authorize    commands.AuthorizeAddressUseCase
	CheckAddress queries.CheckAddressUseCase
	Logger       *slog.Logger
}

// AuthorizeHandler evaluates one authorization code for one client address.
func (h Handler) AuthorizeHandler(
	ctx context.Context,
	code string,
	address string,
) (httptransport.AuthorizeResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http authorize received",
		"event", "gateway_http_authorize_received",
		"module", "access-control/gateway-service",
		"layer", "transport",
		"address", address,
	)

	outcome, err := h.Authorize.Execute(ctx, commands.AuthorizeAddressCommand{
		AuthorizationCode: code,
		Address:           address,
	})
	if err != nil {
		return httptransport.AuthorizeResponse{}, err
	}
	return httptransport.AuthorizeResponse{
		Outcome:      string(outcome.Kind),
		IdentityName: outcome.IdentityName,
		Address:      outcome.Address,
		EvaluatedAt:  outcome.EvaluatedAt,
	}, nil
}

// CheckAddressHandler answers the reverse proxy sub-request poll.
func (h Handler) CheckAddressHandler(
	ctx context.Context,
	address string,
) (httptransport.CheckAddressResponse, error) {
	allowed, err := h.CheckAddress.Execute(ctx, queries.CheckAddressQuery{Address: address})
	if err != nil {
		return httptransport.CheckAddressResponse{}, err
	}
	return httptransport.CheckAddressResponse{
		Address: address,
		Allowed: allowed,
	}, nil
}

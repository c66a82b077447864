package gatewayservice

import (
	"log/slog"

	httpadapter "gatekeeper/contexts/access-control/gateway-service/adapters/http"
	"gatekeeper/contexts/access-control/gateway-service/adapters/memory"
	"gatekeeper/contexts/access-control/gateway-service/application/commands"
	"gatekeeper/contexts/access-control/gateway-service/application/queries"
	"gatekeeper/contexts/access-control/gateway-service/ports"
)

// Module is the gateway-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Provider        ports.IdentityProvider
	Whitelist       ports.WhitelistRepository
	Events          ports.GrantEventPublisher
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	RequiredGuildID string
	AllowedRoleIDs  []string
	Logger          *slog.Logger
}

// NewModule wires the authorization engine and whitelist check behind the
// transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	authorize := commands.AuthorizeAddressUseCase{
		Provider:        deps.Provider,
		Whitelist:       deps.Whitelist,
		Events:          deps.Events,
		Clock:           deps.Clock,
		IDGenerator:     deps.IDGenerator,
		RequiredGuildID: deps.RequiredGuildID,
		AllowedRoleIDs:  deps.AllowedRoleIDs,
		Logger:          deps.Logger,
	}
	checkAddress := queries.CheckAddressUseCase{
		Whitelist: deps.Whitelist,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Authorize:    authorize,
			CheckAddress: checkAddress,
			Logger:       deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with an in-memory
// whitelist. The identity provider is still injected so tests can script
// provider behavior.
func NewInMemoryModule(
	provider ports.IdentityProvider,
	requiredGuildID string,
	allowedRoleIDs []string,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Provider:        provider,
		Whitelist:       store,
		Clock:           store,
		IDGenerator:     store,
		RequiredGuildID: requiredGuildID,
		AllowedRoleIDs:  allowedRoleIDs,
		Logger:          logger,
	})
	module.Store = store
	return module
}

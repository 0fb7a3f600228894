package electionregistry

import (
	"context"
	"log/slog"

	ethereumadapter "votingregistry/contexts/governance/election-registry/adapters/ethereum"
	httpadapter "votingregistry/contexts/governance/election-registry/adapters/http"
	"votingregistry/contexts/governance/election-registry/adapters/memory"
	"votingregistry/contexts/governance/election-registry/application/commands"
	"votingregistry/contexts/governance/election-registry/application/queries"
	"votingregistry/contexts/governance/election-registry/domain/entities"
	"votingregistry/contexts/governance/election-registry/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Elections commands.ElectionUseCase
	Registry  queries.RegistryUseCase
	Store     *memory.Store
}

type Dependencies struct {
	Elections  ports.ElectionRepository
	Addresses  ports.AddressResolver
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	ElectionID string
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	addresses := deps.Addresses
	if addresses == nil {
		addresses = ethereumadapter.AddressResolver{}
	}
	electionUseCase := commands.ElectionUseCase{
		Elections:  deps.Elections,
		Addresses:  addresses,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		ElectionID: deps.ElectionID,
		Logger:     deps.Logger,
	}
	registryUseCase := queries.RegistryUseCase{
		Elections:  deps.Elections,
		Addresses:  addresses,
		ElectionID: deps.ElectionID,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: electionUseCase,
			Registry:  registryUseCase,
			Logger:    deps.Logger,
		},
		Elections: electionUseCase,
		Registry:  registryUseCase,
	}
}

// NewInMemoryModule wires the module to a process-local store. Addresses
// defaults to the Ethereum resolver when nil.
func NewInMemoryModule(seed []entities.Election, addresses ports.AddressResolver, electionID string, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Elections:  store,
		Addresses:  addresses,
		Clock:      store,
		IDGen:      store,
		ElectionID: electionID,
		Logger:     logger,
	})
	module.Store = store
	return module
}

// Provision creates the election for owner unless it already exists.
func (m Module) Provision(ctx context.Context, owner string) (entities.Election, error) {
	return m.Elections.EnsureElection(ctx, owner)
}

package adapters

import (
	"github.com/buidlhub/buidl-cli/internal/adapters/artifacts"
	"github.com/buidlhub/buidl-cli/internal/adapters/blockchain"
	"github.com/buidlhub/buidl-cli/internal/adapters/interactive"
	"github.com/buidlhub/buidl-cli/internal/adapters/repository/deployments"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/google/wire"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),

	deployments.NewAddressBookFileFromConfig,
	wire.Bind(new(usecase.AddressBookRepository), new(*deployments.AddressBookFile)),

	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	InteractiveSet,
	BlockchainSet,
)

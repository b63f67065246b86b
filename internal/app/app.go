package app

import (
	"github.com/buidlhub/buidl-cli/internal/adapters/blockchain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployProtocol    *usecase.DeployProtocol
	PredictAddresses  *usecase.PredictAddresses
	ConfigureProtocol *usecase.ConfigureProtocol
	SeedProtocol      *usecase.SeedProtocol
	SetProtocolState  *usecase.SetProtocolState
	ShowAddresses     *usecase.ShowAddresses
	ListNetworks      *usecase.ListNetworks

	client *blockchain.Client
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	client *blockchain.Client,
	deployProtocol *usecase.DeployProtocol,
	predictAddresses *usecase.PredictAddresses,
	configureProtocol *usecase.ConfigureProtocol,
	seedProtocol *usecase.SeedProtocol,
	setProtocolState *usecase.SetProtocolState,
	showAddresses *usecase.ShowAddresses,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:            cfg,
		DeployProtocol:    deployProtocol,
		PredictAddresses:  predictAddresses,
		ConfigureProtocol: configureProtocol,
		SeedProtocol:      seedProtocol,
		SetProtocolState:  setProtocolState,
		ShowAddresses:     showAddresses,
		ListNetworks:      listNetworks,
		client:            client,
	}, nil
}

// Close releases the RPC connection, if one was opened
func (a *App) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

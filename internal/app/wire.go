//go:build wireinject
// +build wireinject

package app

import (
	"github.com/buidlhub/buidl-cli/internal/adapters"
	"github.com/buidlhub/buidl-cli/internal/config"
	"github.com/buidlhub/buidl-cli/internal/logging"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployProtocol,
		usecase.NewPredictAddresses,
		usecase.NewConfigureProtocol,
		usecase.NewSeedProtocol,
		usecase.NewSetProtocolState,
		usecase.NewShowAddresses,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}

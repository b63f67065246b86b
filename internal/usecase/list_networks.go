package usecase

import (
	"context"
	"slices"

	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/samber/lo"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// NetworkInfo is one configured network
type NetworkInfo struct {
	*config.Network
	Selected bool
	// MissingConstants lists the required constants that are not set
	MissingConstants []string
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Source   string
	Networks []NetworkInfo
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	cfg *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{cfg: cfg}
}

// RequiredConstants returns the constant keys configure needs on a network.
// Development networks take their addresses from the mock deployment records.
func RequiredConstants(network *config.Network) []string {
	if network.Development {
		return nil
	}
	return []string{
		config.KeyLinkToken,
		config.KeyPoolAddressesProvider,
		config.KeyLinkUsdPriceFeed,
		config.KeyMaticUsdPriceFeed,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := lo.Keys(uc.cfg.Networks)
	slices.Sort(names)

	result := &ListNetworksResult{Source: uc.cfg.ConfigSource}
	for _, name := range names {
		network := uc.cfg.Networks[name]
		result.Networks = append(result.Networks, NetworkInfo{
			Network:  network,
			Selected: uc.cfg.Network != nil && uc.cfg.Network.Name == name,
			MissingConstants: lo.Filter(RequiredConstants(network), func(key string, _ int) bool {
				return network.Constants.Get(key) == ""
			}),
		})
	}
	return result, nil
}

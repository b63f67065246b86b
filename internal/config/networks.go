package config

import (
	"sort"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// DefaultNetworkName is used when --network is not given
const DefaultNetworkName = "localhost"

// DevChainID is the chain ID of the local development node
const DevChainID = 1337

// DefaultNetworks returns the network table used when buidl.toml does not override it.
func DefaultNetworks() map[string]*config.Network {
	return map[string]*config.Network{
		"hardhat": {
			Name:        "hardhat",
			ChainID:     DevChainID,
			RPCURL:      "http://127.0.0.1:8545",
			Development: true,
			Constants: config.NetworkConstants{
				LinkFundAmount: "200",
			},
		},
		"localhost": {
			Name:        "localhost",
			ChainID:     DevChainID,
			RPCURL:      "http://127.0.0.1:8545",
			Development: true,
			Constants: config.NetworkConstants{
				EthUsdPriceFeed: "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419",
				LinkFundAmount:  "200",
			},
		},
		"mumbai": {
			Name:          "mumbai",
			ChainID:       80001,
			RPCURL:        lo.CoalesceOrEmpty(expand("${POLYGON_MUMBAI_RPC_URL}"), "https://rpc-mumbai.matic.today"),
			ExplorerURL:   "https://mumbai.polygonscan.com",
			Confirmations: config.DefaultConfirmations,
			Constants: config.NetworkConstants{
				LinkToken:             "0xa36085F69e2889c224210F603D836748e7dC0088",
				AaveLinkToken:         "0xD9E7e5dd6e122dDE11244e14A60f38AbA93097f2",
				ALinkToken:            "0x3e1608F4Db4b37DDf86536ef441890fE3AA9F2Ea",
				PoolAddressesProvider: "0x5343b5bA672Ae99d627A1C87866b8E53F47Db2E6",
				EthUsdPriceFeed:       "0x9326BFA02ADD2366b30bacB125260Af641031331",
				LinkUsdPriceFeed:      "0xd9FFdb71EbE7496cC440152d43986Aae0AB76665",
				MaticUsdPriceFeed:     "0xAB594600376Ec9fD91F8e885dADF0CE036862dE0",
				LinkFundAmount:        "1",
			},
		},
	}
}

// mergeNetworks overlays the [networks] tables of buidl.toml onto the built-in table.
// Set fields of the file win; unset fields keep the built-in value.
func mergeNetworks(base map[string]*config.Network, file *BuidlFile) map[string]*config.Network {
	if file == nil {
		return base
	}
	for name, nf := range file.Networks {
		n, ok := base[name]
		if !ok {
			n = &config.Network{Name: name}
			base[name] = n
		}
		if nf.ChainID != 0 {
			n.ChainID = nf.ChainID
		}
		n.RPCURL = lo.CoalesceOrEmpty(nf.RPCURL, n.RPCURL)
		n.ExplorerURL = lo.CoalesceOrEmpty(nf.ExplorerURL, n.ExplorerURL)
		if nf.Development != nil {
			n.Development = *nf.Development
		}
		if nf.Confirmations != 0 {
			n.Confirmations = nf.Confirmations
		}

		c := &n.Constants
		c.LinkToken = lo.CoalesceOrEmpty(nf.LinkToken, c.LinkToken)
		c.AaveLinkToken = lo.CoalesceOrEmpty(nf.AaveLinkToken, c.AaveLinkToken)
		c.ALinkToken = lo.CoalesceOrEmpty(nf.ALinkToken, c.ALinkToken)
		c.PoolAddressesProvider = lo.CoalesceOrEmpty(nf.PoolAddressesProvider, c.PoolAddressesProvider)
		c.EthUsdPriceFeed = lo.CoalesceOrEmpty(nf.EthUsdPriceFeed, c.EthUsdPriceFeed)
		c.LinkUsdPriceFeed = lo.CoalesceOrEmpty(nf.PriceFeeds.LinkUsd, c.LinkUsdPriceFeed)
		c.MaticUsdPriceFeed = lo.CoalesceOrEmpty(nf.PriceFeeds.MaticUsd, c.MaticUsdPriceFeed)
		c.LinkFundAmount = lo.CoalesceOrEmpty(nf.LinkFundAmount, c.LinkFundAmount)
	}
	return base
}

// NetworkNames returns the configured network names in sorted order.
func NetworkNames(networks map[string]*config.Network) []string {
	names := lo.Keys(networks)
	sort.Strings(names)
	return names
}

// ResolveNetwork looks a network up by name. Unknown names produce a
// ConfigurationError carrying the closest configured names.
func ResolveNetwork(networks map[string]*config.Network, name string) (*config.Network, error) {
	if n, ok := networks[name]; ok {
		return n, nil
	}
	return nil, &domain.ConfigurationError{
		Network:     name,
		Reason:      "unknown network",
		Suggestions: SuggestNames(name, NetworkNames(networks)),
	}
}

// SuggestNames returns up to three fuzzy matches of input among candidates.
func SuggestNames(input string, candidates []string) []string {
	matches := fuzzy.Find(input, candidates)
	suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

package config

// DefaultConfirmations is the number of confirmations awaited on live networks.
const DefaultConfirmations uint64 = 6

// Keys of the per-network constants, as written in buidl.toml.
const (
	KeyLinkToken             = "link_token"
	KeyAaveLinkToken         = "aave_link_token"
	KeyALinkToken            = "a_link_token"
	KeyPoolAddressesProvider = "pool_addresses_provider"
	KeyEthUsdPriceFeed       = "eth_usd_price_feed"
	KeyLinkUsdPriceFeed      = "price_feeds.link_usd"
	KeyMaticUsdPriceFeed     = "price_feeds.matic_usd"
	KeyLinkFundAmount        = "link_fund_amount"
)

// Network represents network configuration
type Network struct {
	Name          string           `json:"name" toml:"-"`
	ChainID       uint64           `json:"chainId" toml:"chain_id"`
	RPCURL        string           `json:"rpcUrl" toml:"rpc_url"`
	ExplorerURL   string           `json:"explorerUrl,omitempty" toml:"explorer_url"`
	Development   bool             `json:"development" toml:"development"`
	Confirmations uint64           `json:"confirmations,omitempty" toml:"confirmations"`
	Constants     NetworkConstants `json:"constants" toml:"-"`
}

// RequiredConfirmations is 1 on instant-mining development networks.
func (n *Network) RequiredConfirmations() uint64 {
	if n.Development {
		return 1
	}
	if n.Confirmations == 0 {
		return DefaultConfirmations
	}
	return n.Confirmations
}

// NetworkConstants are the external addresses and amounts the configuration steps use.
type NetworkConstants struct {
	LinkToken             string `json:"linkToken,omitempty"`
	AaveLinkToken         string `json:"aaveLinkToken,omitempty"`
	ALinkToken            string `json:"aLinkToken,omitempty"`
	PoolAddressesProvider string `json:"poolAddressesProvider,omitempty"`
	EthUsdPriceFeed       string `json:"ethUsdPriceFeed,omitempty"`
	LinkUsdPriceFeed      string `json:"linkUsdPriceFeed,omitempty"`
	MaticUsdPriceFeed     string `json:"maticUsdPriceFeed,omitempty"`
	LinkFundAmount        string `json:"linkFundAmount,omitempty"`
}

// Get returns a constant by its buidl.toml key.
func (c NetworkConstants) Get(key string) string {
	switch key {
	case KeyLinkToken:
		return c.LinkToken
	case KeyAaveLinkToken:
		return c.AaveLinkToken
	case KeyALinkToken:
		return c.ALinkToken
	case KeyPoolAddressesProvider:
		return c.PoolAddressesProvider
	case KeyEthUsdPriceFeed:
		return c.EthUsdPriceFeed
	case KeyLinkUsdPriceFeed:
		return c.LinkUsdPriceFeed
	case KeyMaticUsdPriceFeed:
		return c.MaticUsdPriceFeed
	case KeyLinkFundAmount:
		return c.LinkFundAmount
	default:
		return ""
	}
}

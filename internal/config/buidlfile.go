package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// BuidlFileName is the project configuration file
const BuidlFileName = "buidl.toml"

// BuidlFile represents the raw buidl.toml structure
type BuidlFile struct {
	Networks map[string]NetworkFile `toml:"networks"`
	Accounts AccountsFile           `toml:"accounts"`
	Paths    PathsFile              `toml:"paths"`
}

// NetworkFile is one [networks.<name>] table
type NetworkFile struct {
	ChainID       uint64 `toml:"chain_id"`
	RPCURL        string `toml:"rpc_url"`
	ExplorerURL   string `toml:"explorer_url"`
	Development   *bool  `toml:"development"`
	Confirmations uint64 `toml:"confirmations"`

	LinkToken             string         `toml:"link_token"`
	AaveLinkToken         string         `toml:"aave_link_token"`
	ALinkToken            string         `toml:"a_link_token"`
	PoolAddressesProvider string         `toml:"pool_addresses_provider"`
	EthUsdPriceFeed       string         `toml:"eth_usd_price_feed"`
	LinkFundAmount        string         `toml:"link_fund_amount"`
	PriceFeeds            PriceFeedsFile `toml:"price_feeds"`
}

// PriceFeedsFile is the [networks.<name>.price_feeds] table
type PriceFeedsFile struct {
	LinkUsd  string `toml:"link_usd"`
	MaticUsd string `toml:"matic_usd"`
}

// AccountsFile holds hex private keys, usually as ${VAR} references
type AccountsFile struct {
	Deployer   string   `toml:"deployer"`
	Governance string   `toml:"governance"`
	Users      []string `toml:"users"`
}

// PathsFile overrides the default project directories
type PathsFile struct {
	Artifacts   string `toml:"artifacts"`
	Deployments string `toml:"deployments"`
	Seed        string `toml:"seed"`
}

// envVarPattern matches ${VAR_NAME} references left unresolved after expansion
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// loadEnvFiles loads .env and .env.local from the project root. Variables already set
// in the process environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadBuidlFile loads and parses buidl.toml if it exists.
// Returns (nil, nil) when buidl.toml does not exist.
func loadBuidlFile(projectRoot string) (*BuidlFile, error) {
	path := filepath.Join(projectRoot, BuidlFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file BuidlFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", BuidlFileName, err)
	}

	for name, n := range file.Networks {
		n.RPCURL = expand(n.RPCURL)
		n.ExplorerURL = expand(n.ExplorerURL)
		n.LinkToken = expand(n.LinkToken)
		n.AaveLinkToken = expand(n.AaveLinkToken)
		n.ALinkToken = expand(n.ALinkToken)
		n.PoolAddressesProvider = expand(n.PoolAddressesProvider)
		n.EthUsdPriceFeed = expand(n.EthUsdPriceFeed)
		n.LinkFundAmount = expand(n.LinkFundAmount)
		n.PriceFeeds.LinkUsd = expand(n.PriceFeeds.LinkUsd)
		n.PriceFeeds.MaticUsd = expand(n.PriceFeeds.MaticUsd)
		file.Networks[name] = n
	}

	file.Accounts.Deployer = expand(file.Accounts.Deployer)
	file.Accounts.Governance = expand(file.Accounts.Governance)
	for i, u := range file.Accounts.Users {
		file.Accounts.Users[i] = expand(u)
	}

	return &file, nil
}

// expand resolves $VAR and ${VAR} references against the environment
func expand(s string) string {
	return os.ExpandEnv(s)
}

// DetectEnvVar checks if a raw TOML value is a ${VAR_NAME} reference.
// Returns the variable name and true if it is.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 && matches[0] == rawValue {
		return matches[1], true
	}
	return "", false
}

package config

import (
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AddressesFileName is the name→address artifact written by deploy
const AddressesFileName = "addresses.json"

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// ConfigSource is "buidl.toml" or "built-in"
	ConfigSource string

	// Context settings
	Network  *Network // selected network
	Networks map[string]*Network

	Accounts Accounts

	// Paths, absolute
	ArtifactsDir   string
	DeploymentsDir string
	AddressesFile  string
	SeedFile       string

	// Execution settings
	Debug          bool
	NonInteractive bool
	DryRun         bool

	// ConfirmationsOverride replaces the network's confirmation count when non-zero
	ConfirmationsOverride uint64
	// PollInterval is the delay between receipt polls
	PollInterval time.Duration
}

// RequiredConfirmations returns how many confirmations each transaction waits for.
func (c *RuntimeConfig) RequiredConfirmations() uint64 {
	if c.ConfirmationsOverride > 0 {
		return c.ConfirmationsOverride
	}
	if c.Network == nil {
		return 1
	}
	return c.Network.RequiredConfirmations()
}

// Account is a signing identity loaded from configuration.
type Account struct {
	Name       string            `json:"name"`
	Address    common.Address    `json:"address"`
	PrivateKey *ecdsa.PrivateKey `json:"-"`
}

// Accounts holds the named signers of a run.
type Accounts struct {
	Deployer   *Account
	Governance *Account
	// Users are the seed accounts
	Users []*Account
}

// All returns every configured account, deployer first.
func (a Accounts) All() []*Account {
	var all []*Account
	if a.Deployer != nil {
		all = append(all, a.Deployer)
	}
	if a.Governance != nil {
		all = append(all, a.Governance)
	}
	return append(all, a.Users...)
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/ethereum/go-ethereum/crypto"
)

// DevKeys are the well-known funded accounts of local hardhat/anvil nodes:
// 0 deploys, 1 governs, the rest are seed users.
var DevKeys = []string{
	"0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"0x5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"0x7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"0x47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
}

// Environment variables consulted for live-network keys when buidl.toml has none.
const (
	EnvDeployerKey   = "PRIVATE_KEY"
	EnvGovernanceKey = "GOVERNANCE_PRIVATE_KEY"
)

// ParseAccount parses a hex private key into a named account.
func ParseAccount(name, hexKey string) (*config.Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &config.Account{
		Name:       name,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, nil
}

// resolveAccounts picks keys from buidl.toml first, then the environment for live
// networks, then the dev keys for development networks. Missing keys stay nil and are
// reported by the commands that need them.
func resolveAccounts(file *BuidlFile, network *config.Network) (config.Accounts, error) {
	var raw AccountsFile
	if file != nil {
		raw = file.Accounts
	}

	var accounts config.Accounts
	deployerKey := raw.Deployer
	governanceKey := raw.Governance
	userKeys := raw.Users

	if network.Development {
		if deployerKey == "" {
			deployerKey = DevKeys[0]
		}
		if governanceKey == "" {
			governanceKey = DevKeys[1]
		}
		if len(userKeys) == 0 {
			userKeys = DevKeys[2:]
		}
	} else {
		if deployerKey == "" {
			deployerKey = os.Getenv(EnvDeployerKey)
		}
		if governanceKey == "" {
			governanceKey = os.Getenv(EnvGovernanceKey)
		}
	}

	var err error
	if deployerKey != "" {
		if accounts.Deployer, err = ParseAccount("deployer", deployerKey); err != nil {
			return accounts, accountError(network.Name, "accounts.deployer", err)
		}
	}
	if governanceKey != "" {
		if accounts.Governance, err = ParseAccount("governance", governanceKey); err != nil {
			return accounts, accountError(network.Name, "accounts.governance", err)
		}
	}
	for i, k := range userKeys {
		user, err := ParseAccount(fmt.Sprintf("user%d", i), k)
		if err != nil {
			return accounts, accountError(network.Name, fmt.Sprintf("accounts.users[%d]", i), err)
		}
		accounts.Users = append(accounts.Users, user)
	}

	return accounts, nil
}

func accountError(network, key string, err error) error {
	return &domain.ConfigurationError{Network: network, Key: key, Reason: err.Error()}
}

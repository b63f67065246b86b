package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeedFile is read by `buidl seed` when present
const DefaultSeedFile = "seed.yaml"

// SeedData holds the demo fixtures created by `buidl seed`.
type SeedData struct {
	// UserMint is minted to every seed user, in whole tokens
	UserMint string `yaml:"user_mint"`
	// GovernanceMint is minted to governance, in whole tokens
	GovernanceMint string `yaml:"governance_mint"`
	// VaultDeposit is deposited into each yield trust vault
	VaultDeposit string `yaml:"vault_deposit"`
	// SimulatedYield is credited to each vault by the mock pool
	SimulatedYield string `yaml:"simulated_yield"`
	// TokenPriceUsd is the back module token price, in whole dollars
	TokenPriceUsd string `yaml:"token_price_usd"`

	MetadataURI    string `yaml:"metadata_uri"`
	GithubUsername string `yaml:"github_username"`
	GithubRepo     string `yaml:"github_repo"`
}

// DefaultSeedData returns the fixtures used when no seed file exists.
func DefaultSeedData() *SeedData {
	return &SeedData{
		UserMint:       "500",
		GovernanceMint: "50000",
		VaultDeposit:   "500",
		SimulatedYield: "50",
		TokenPriceUsd:  "1",
		MetadataURI:    "ipfs://bafyreibfy74drzhxcnguhognxlebqg4hsrbyccddt5xjejr7xdwzobwy4u/metadata.json",
		GithubUsername: "patrickalphac",
		GithubRepo:     "hardhat-nft-fcc",
	}
}

// LoadSeedData reads seed fixtures from path, filling unset fields with the defaults.
// A missing file yields the defaults.
func LoadSeedData(path string) (*SeedData, error) {
	data := DefaultSeedData()
	if path == "" {
		return data, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	if err := yaml.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return data, nil
}

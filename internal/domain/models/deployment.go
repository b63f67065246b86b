package models

import (
	"encoding/json"
	"time"
)

// DeploymentRecord is the persisted result of one confirmed contract deployment.
// One record exists per contract name per network.
type DeploymentRecord struct {
	Name     string          `json:"name"`
	Address  string          `json:"address"`
	ABI      json.RawMessage `json:"abi"`
	ChainID  uint64          `json:"chainId"`
	Deployer string          `json:"deployer"`
	// Target is the contract a configuration record applies to. Such records have no Address.
	Target string `json:"target,omitempty"`

	TransactionHash string `json:"transactionHash"`
	Nonce           uint64 `json:"nonce"`
	BlockNumber     uint64 `json:"blockNumber"`
	GasUsed         uint64 `json:"gasUsed,omitempty"`

	// Args are the constructor arguments, rendered as strings when written by buidl
	Args      []any             `json:"args"`
	Libraries map[string]string `json:"libraries,omitempty"`

	DeployedAt time.Time `json:"deployedAt"`
}

// AddressBook maps human-readable contract names to deployed addresses. It is the
// addresses.json artifact consumed by configure, seed and unpause.
type AddressBook map[string]string

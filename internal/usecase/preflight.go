package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// requireAccount returns the account or a ConfigurationError naming its key.
func requireAccount(network *config.Network, acct *config.Account, role string) (*config.Account, error) {
	if acct == nil {
		return nil, &domain.ConfigurationError{
			Network: network.Name,
			Key:     "accounts." + role,
			Reason:  "no private key configured",
		}
	}
	return acct, nil
}

// checkChainID fails when the RPC endpoint serves another chain than configured.
func checkChainID(ctx context.Context, chain ChainClient, network *config.Network) (uint64, error) {
	chainID, err := chain.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	if network.ChainID != 0 && chainID != network.ChainID {
		return 0, &domain.ConfigurationError{
			Network: network.Name,
			Key:     "chain_id",
			Reason:  fmt.Sprintf("%v: RPC serves chain %d, expected %d", domain.ErrNetworkMismatch, chainID, network.ChainID),
		}
	}
	return chainID, nil
}

// constantAddress parses a required per-network address constant.
func constantAddress(network *config.Network, key string) (common.Address, error) {
	raw := network.Constants.Get(key)
	if raw == "" {
		return common.Address{}, domain.NewMissingConstantError(network.Name, key)
	}
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		return common.Address{}, &domain.ConfigurationError{Network: network.Name, Key: key, Reason: err.Error()}
	}
	return addr, nil
}

// recordAddress resolves the address of a contract from its DeploymentRecord.
// A missing record is reported as an ArtifactMissingError pointing at prerequisite.
func recordAddress(ctx context.Context, records DeploymentRepository, name, prerequisite string) (common.Address, error) {
	record, err := records.GetRecord(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return common.Address{}, &domain.ArtifactMissingError{
				Artifact:     fmt.Sprintf("deployment record of %s", name),
				Prerequisite: prerequisite,
			}
		}
		return common.Address{}, err
	}
	addr, err := domain.ParseAddress(record.Address)
	if err != nil {
		return common.Address{}, fmt.Errorf("deployment record of %s: %w", name, err)
	}
	return addr, nil
}

// deployedContract is a contract known from its DeploymentRecord.
type deployedContract struct {
	Name    string
	Address common.Address
	ABI     abi.ABI
}

// loadContract resolves a deployed contract with its ABI.
func loadContract(ctx context.Context, records DeploymentRepository, name, prerequisite string) (*deployedContract, error) {
	addr, err := recordAddress(ctx, records, name, prerequisite)
	if err != nil {
		return nil, err
	}
	record, err := records.GetRecord(ctx, name)
	if err != nil {
		return nil, err
	}
	parsed, err := bindings.ParseABI(record.ABI)
	if err != nil {
		return nil, fmt.Errorf("deployment record of %s: %w", name, err)
	}
	return &deployedContract{Name: name, Address: addr, ABI: parsed}, nil
}

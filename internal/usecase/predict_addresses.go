package usecase

import (
	"context"
	"fmt"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
)

// PredictAddressesParams contains parameters for predicting addresses
type PredictAddressesParams struct {
	// Sender switches to raw mode: Count successive addresses of Sender
	Sender *common.Address
	// Nonce overrides the sender's pending nonce
	Nonce *uint64
	Count int
}

// PredictedAddress is one precomputed CREATE address
type PredictedAddress struct {
	Nonce   uint64
	Address common.Address
}

// PredictAddressesResult contains the predicted addresses
type PredictAddressesResult struct {
	Sender     common.Address
	StartNonce uint64
	// Plan is set in protocol mode
	Plan *domain.DeploymentPlan
	// Addresses is set in raw mode
	Addresses []PredictedAddress
}

// PredictAddresses runs phase one only: it never sends a transaction.
type PredictAddresses struct {
	cfg   *config.RuntimeConfig
	chain ChainClient
}

// NewPredictAddresses creates a new PredictAddresses use case
func NewPredictAddresses(cfg *config.RuntimeConfig, chain ChainClient) *PredictAddresses {
	return &PredictAddresses{cfg: cfg, chain: chain}
}

// Run executes the use case
func (uc *PredictAddresses) Run(ctx context.Context, params PredictAddressesParams) (*PredictAddressesResult, error) {
	if params.Sender != nil {
		return uc.raw(ctx, *params.Sender, params)
	}

	network := uc.cfg.Network
	deployer, err := requireAccount(network, uc.cfg.Accounts.Deployer, "deployer")
	if err != nil {
		return nil, err
	}
	governance, err := requireAccount(network, uc.cfg.Accounts.Governance, "governance")
	if err != nil {
		return nil, err
	}

	start, err := uc.startNonce(ctx, deployer.Address, params.Nonce)
	if err != nil {
		return nil, err
	}
	plan, err := PlanProtocol(deployer.Address, governance.Address, start)
	if err != nil {
		return nil, err
	}

	return &PredictAddressesResult{Sender: deployer.Address, StartNonce: start, Plan: plan}, nil
}

func (uc *PredictAddresses) raw(ctx context.Context, sender common.Address, params PredictAddressesParams) (*PredictAddressesResult, error) {
	count := params.Count
	if count <= 0 {
		count = 1
	}

	start, err := uc.startNonce(ctx, sender, params.Nonce)
	if err != nil {
		return nil, err
	}

	counter := domain.NewNonceCounter(start)
	addrs := make([]PredictedAddress, 0, count)
	for i := 0; i < count; i++ {
		nonce := counter.Reserve()
		addrs = append(addrs, PredictedAddress{Nonce: nonce, Address: domain.PrecomputeAddress(sender, nonce)})
	}

	return &PredictAddressesResult{Sender: sender, StartNonce: start, Addresses: addrs}, nil
}

func (uc *PredictAddresses) startNonce(ctx context.Context, sender common.Address, override *uint64) (uint64, error) {
	if override != nil {
		return *override, nil
	}
	nonce, err := uc.chain.PendingNonce(ctx, sender)
	if err != nil {
		return 0, fmt.Errorf("failed to read nonce (pass --nonce to predict offline): %w", err)
	}
	return nonce, nil
}

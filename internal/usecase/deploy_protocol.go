package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// DeployProtocolParams contains parameters for deploying the protocol
type DeployProtocolParams struct {
	// DryRun stops after planning and encoding
	DryRun bool
}

// DeployProtocolResult contains the result of a deployment run
type DeployProtocolResult struct {
	Network       *config.Network
	ChainID       uint64
	Plan          *domain.DeploymentPlan
	Prepared      []*PreparedDeployment
	Records       []*models.DeploymentRecord
	AddressBook   models.AddressBook
	AddressesFile string
	DryRun        bool
}

// DeployProtocol deploys the BuidlHub protocol with pinned nonces and writes the
// address book once every contract is confirmed.
type DeployProtocol struct {
	cfg       *config.RuntimeConfig
	chain     ChainClient
	artifacts ArtifactRepository
	records   DeploymentRepository
	addresses AddressBookRepository
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployProtocol creates a new DeployProtocol use case
func NewDeployProtocol(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	artifacts ArtifactRepository,
	records DeploymentRepository,
	addresses AddressBookRepository,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployProtocol {
	return &DeployProtocol{
		cfg:       cfg,
		chain:     chain,
		artifacts: artifacts,
		records:   records,
		addresses: addresses,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// Run executes the use case
func (uc *DeployProtocol) Run(ctx context.Context, params DeployProtocolParams) (*DeployProtocolResult, error) {
	network := uc.cfg.Network

	deployer, err := requireAccount(network, uc.cfg.Accounts.Deployer, "deployer")
	if err != nil {
		return nil, err
	}
	governance, err := requireAccount(network, uc.cfg.Accounts.Governance, "governance")
	if err != nil {
		return nil, err
	}

	chainID, err := checkChainID(ctx, uc.chain, network)
	if err != nil {
		return nil, err
	}

	// Phase 1: every address of the run, from the deployer's live nonce
	startNonce, err := uc.chain.PendingNonce(ctx, deployer.Address)
	if err != nil {
		return nil, err
	}
	plan, err := PlanProtocol(deployer.Address, governance.Address, startNonce)
	if err != nil {
		return nil, err
	}

	sequencer := NewSequencer(uc.chain, uc.artifacts, uc.records, uc.cfg.RequiredConfirmations(), uc.progress, uc.log)
	prepared, err := sequencer.Prepare(ctx, plan)
	if err != nil {
		return nil, err
	}

	result := &DeployProtocolResult{
		Network:       network,
		ChainID:       chainID,
		Plan:          plan,
		Prepared:      prepared,
		AddressesFile: uc.addresses.Path(),
		DryRun:        params.DryRun,
	}
	if params.DryRun {
		result.AddressBook = addressBook(plan, governance.Address)
		return result, nil
	}

	if !network.Development && !uc.cfg.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %d contracts to %s (chain %d) from %s?",
			len(plan.Steps), network.Name, chainID, deployer.Address.Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrCancelled
		}
	}

	// The previous run's outputs must not be mistaken for this run's
	if err := uc.addresses.RemoveAddressBook(ctx); err != nil {
		return nil, err
	}
	// the configuration of a previous hub does not carry over
	archived := append(lo.Map(plan.Steps, func(s domain.PlannedDeployment, _ int) string { return s.Name }), ConfigurationRecord)
	if err := uc.records.Archive(ctx, archived); err != nil {
		return nil, err
	}

	uc.log.Info("deploying protocol",
		slog.String("network", network.Name),
		slog.String("deployer", deployer.Address.Hex()),
		slog.Uint64("startNonce", startNonce),
		slog.Uint64("confirmations", uc.cfg.RequiredConfirmations()),
	)

	// Phase 2
	records, err := sequencer.Execute(ctx, plan, prepared, chainID)
	result.Records = records
	if err != nil {
		return result, err
	}

	result.AddressBook = addressBook(plan, governance.Address)
	if err := uc.addresses.SaveAddressBook(ctx, result.AddressBook); err != nil {
		return result, fmt.Errorf("failed to write address book: %w", err)
	}

	return result, nil
}

func addressBook(plan *domain.DeploymentPlan, governance common.Address) models.AddressBook {
	return lo.MapValues(plan.AddressBook(map[string]common.Address{KeyGovernance: governance}),
		func(addr common.Address, _ string) string { return addr.Hex() })
}

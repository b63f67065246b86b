package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// PreparedDeployment is a planned step with its final creation bytecode.
type PreparedDeployment struct {
	domain.PlannedDeployment
	Artifact *models.Artifact
	Args     []any
	InitCode []byte
}

// Sequencer executes phase two of a DeploymentPlan: one contract creation per
// reserved nonce, in plan order, each confirmed and checked against its predicted
// address before the next is sent. It never rolls back.
type Sequencer struct {
	chain      ChainClient
	artifacts  ArtifactRepository
	records    DeploymentRepository
	transactor *transactor
	progress   ProgressSink
	log        *slog.Logger
}

// NewSequencer creates a sequencer waiting for confirmations on every deployment.
func NewSequencer(
	chain ChainClient,
	artifacts ArtifactRepository,
	records DeploymentRepository,
	confirmations uint64,
	progress ProgressSink,
	log *slog.Logger,
) *Sequencer {
	return &Sequencer{
		chain:      chain,
		artifacts:  artifacts,
		records:    records,
		transactor: newTransactor(chain, confirmations, progress, log),
		progress:   progress,
		log:        log,
	}
}

// Prepare loads, links and encodes every step of the plan. Nothing is sent, so
// missing artifacts and bad arguments surface before the first transaction.
func (s *Sequencer) Prepare(ctx context.Context, plan *domain.DeploymentPlan) ([]*PreparedDeployment, error) {
	prepared := make([]*PreparedDeployment, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		artifact, err := s.artifacts.GetArtifact(ctx, step.Name)
		if err != nil {
			return nil, err
		}

		bytecode, err := s.artifacts.Link(artifact, plan.LibraryAddresses(step))
		if err != nil {
			return nil, fmt.Errorf("failed to link %s: %w", step.Name, err)
		}

		args := plan.ResolveArgs(step)
		initCode, err := bindings.DeployData(artifact.ABI, bytecode, args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", step.Name, err)
		}

		prepared = append(prepared, &PreparedDeployment{
			PlannedDeployment: step,
			Artifact:          artifact,
			Args:              args,
			InitCode:          initCode,
		})
	}
	return prepared, nil
}

// Execute submits every prepared deployment with its pinned nonce. Before each
// submission the sender's pending nonce must equal the reserved one; after it the
// receipt's contract address must equal the prediction. The record of a contract
// is saved only once both hold.
func (s *Sequencer) Execute(ctx context.Context, plan *domain.DeploymentPlan, prepared []*PreparedDeployment, chainID uint64) ([]*models.DeploymentRecord, error) {
	records := make([]*models.DeploymentRecord, 0, len(prepared))

	for i, p := range prepared {
		s.progress.OnProgress(ctx, ProgressEvent{
			Stage:   p.Name,
			Current: i + 1,
			Total:   len(prepared),
			Message: fmt.Sprintf("deploying %s at nonce %d", p.Name, p.Nonce),
			Spinner: true,
		})

		chainNonce, err := s.chain.PendingNonce(ctx, plan.Sender)
		if err != nil {
			return records, err
		}
		if chainNonce != p.Nonce {
			return records, &domain.AddressMismatchError{
				Contract: p.Name,
				Nonce:    p.Nonce,
				Expected: p.Address.Hex(),
				Actual:   domain.PrecomputeAddress(plan.Sender, chainNonce).Hex(),
				Reason:   fmt.Sprintf("%v: chain nonce is %d", domain.ErrNonceDesync, chainNonce),
			}
		}

		nonce := p.Nonce
		outcome, err := s.transactor.execute(ctx, p.Name, &models.TxRequest{
			From:  plan.Sender,
			Data:  p.InitCode,
			Nonce: &nonce,
		})
		if err != nil {
			return records, err
		}

		if got := outcome.Receipt.ContractAddress; got != p.Address {
			return records, &domain.AddressMismatchError{
				Contract: p.Name,
				Nonce:    p.Nonce,
				Expected: p.Address.Hex(),
				Actual:   got.Hex(),
			}
		}

		record := &models.DeploymentRecord{
			Name:            p.Name,
			Address:         p.Address.Hex(),
			ABI:             p.Artifact.RawABI,
			ChainID:         chainID,
			Deployer:        plan.Sender.Hex(),
			TransactionHash: outcome.Hash.Hex(),
			Nonce:           p.Nonce,
			BlockNumber:     outcome.Receipt.BlockNumber.Uint64(),
			GasUsed:         outcome.Receipt.GasUsed,
			Args:            lo.ToAnySlice(bindings.FormatValues(p.Args)),
			Libraries: lo.MapValues(plan.LibraryAddresses(p.PlannedDeployment), func(addr common.Address, _ string) string {
				return addr.Hex()
			}),
			DeployedAt: time.Now().UTC(),
		}
		if err := s.records.SaveRecord(ctx, record); err != nil {
			return records, fmt.Errorf("failed to save deployment record of %s: %w", p.Name, err)
		}
		records = append(records, record)

		s.log.Info("contract deployed",
			slog.String("contract", p.Name),
			slog.String("address", p.Address.Hex()),
			slog.Uint64("nonce", p.Nonce),
			slog.String("txHash", outcome.Hash.Hex()),
		)
		s.progress.Info(fmt.Sprintf("%s deployed at %s", p.Name, p.Address.Hex()))
	}

	return records, nil
}

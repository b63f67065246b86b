package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
)

// SetProtocolStateParams contains parameters for reading or changing the hub state
type SetProtocolStateParams struct {
	// State is the target state; nil only reads the current one
	State *domain.ProtocolState
}

// SetProtocolStateResult contains the hub state before and after
type SetProtocolStateResult struct {
	Hub     common.Address
	Initial domain.ProtocolState
	Final   domain.ProtocolState
	TxHash  *common.Hash
}

// Changed reports whether a transaction was sent.
func (r *SetProtocolStateResult) Changed() bool {
	return r.TxHash != nil
}

// SetProtocolState reads the hub's state and issues one governance-signed setState.
type SetProtocolState struct {
	cfg       *config.RuntimeConfig
	chain     ChainClient
	addresses AddressBookRepository
	progress  ProgressSink
	log       *slog.Logger
}

// NewSetProtocolState creates a new SetProtocolState use case
func NewSetProtocolState(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	addresses AddressBookRepository,
	progress ProgressSink,
	log *slog.Logger,
) *SetProtocolState {
	return &SetProtocolState{cfg: cfg, chain: chain, addresses: addresses, progress: progress, log: log}
}

// Run executes the use case
func (uc *SetProtocolState) Run(ctx context.Context, params SetProtocolStateParams) (*SetProtocolStateResult, error) {
	network := uc.cfg.Network

	var governance *config.Account
	if params.State != nil {
		if !params.State.Valid() {
			return nil, fmt.Errorf("%w: unknown protocol state %d", domain.ErrInvalidInput, uint8(*params.State))
		}
		var err error
		if governance, err = requireAccount(network, uc.cfg.Accounts.Governance, "governance"); err != nil {
			return nil, err
		}
	}

	hub, err := uc.hubAddress(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := checkChainID(ctx, uc.chain, network); err != nil {
		return nil, err
	}

	tx := newTransactor(uc.chain, uc.cfg.RequiredConfirmations(), uc.progress, uc.log)
	result := &SetProtocolStateResult{Hub: hub}

	if result.Initial, err = uc.readState(ctx, tx, hub); err != nil {
		return nil, err
	}
	result.Final = result.Initial
	uc.progress.Info(fmt.Sprintf("Initial state %s", result.Initial))

	if params.State == nil {
		return result, nil
	}

	outcome, err := tx.call(ctx, &contractCall{
		Step:   "set protocol state " + params.State.String(),
		From:   governance.Address,
		To:     hub,
		ABI:    bindings.HubState,
		Method: "setState",
		Args:   []any{uint8(*params.State)},
	})
	if err != nil {
		return result, err
	}
	result.TxHash = &outcome.Hash

	if result.Final, err = uc.readState(ctx, tx, hub); err != nil {
		return result, err
	}
	uc.progress.Info(fmt.Sprintf("Final state %s", result.Final))

	return result, nil
}

func (uc *SetProtocolState) hubAddress(ctx context.Context) (common.Address, error) {
	book, err := uc.addresses.LoadAddressBook(ctx)
	if err != nil {
		return common.Address{}, err
	}
	raw, ok := book[KeyHub]
	if !ok {
		return common.Address{}, &domain.ArtifactMissingError{
			Artifact:     fmt.Sprintf("%q entry of the address book", KeyHub),
			Path:         uc.addresses.Path(),
			Prerequisite: PrerequisiteDeploy,
		}
	}
	hub, err := domain.ParseAddress(raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("address book entry %q: %w", KeyHub, err)
	}
	return hub, nil
}

func (uc *SetProtocolState) readState(ctx context.Context, tx *transactor, hub common.Address) (domain.ProtocolState, error) {
	out, err := tx.read(ctx, hub, bindings.HubState, "getState")
	if err != nil {
		return 0, fmt.Errorf("failed to read protocol state: %w", err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("getState returned %d values", len(out))
	}
	v := reflect.ValueOf(out[0])
	if v.Kind() != reflect.Uint8 {
		return 0, fmt.Errorf("unexpected getState result %T", out[0])
	}
	return domain.ProtocolState(v.Uint()), nil
}

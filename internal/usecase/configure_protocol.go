package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// Commands named by ArtifactMissingError as the step to run first.
const (
	PrerequisiteDeploy    = "buidl deploy"
	PrerequisiteConfigure = "buidl configure"
	PrerequisiteMocks     = "deploy the development mocks of the contracts project"
)

// ConfigurationRecord is the record configure writes once its last call is confirmed.
// Its Target is the hub that was configured.
const ConfigurationRecord = "BuidlHubConfiguration"

// Default LINK amounts sent to BackERC20ICOModule when link_fund_amount is unset.
const (
	DefaultDevLinkFundAmount  = "200"
	DefaultLiveLinkFundAmount = "1"
)

// ConfigureProtocolParams contains parameters for configuring the protocol
type ConfigureProtocolParams struct {
	// DryRun resolves and encodes every step without sending anything
	DryRun bool
}

// ExecutedStep is one configuration call and, once sent, its transaction.
type ExecutedStep struct {
	Name   string
	From   common.Address
	Target common.Address
	Method string
	Args   []string
	TxHash *common.Hash
	Nonce  uint64
	// Skipped is set when the call was not needed, such as funding an already funded module
	Skipped bool
}

// ConfigureProtocolResult contains the result of a configuration run
type ConfigureProtocolResult struct {
	Network    *config.Network
	Hub        common.Address
	LinkToken  common.Address
	FundAmount *big.Int
	Steps      []*ExecutedStep

	DeployerLinkBefore *big.Int
	ModuleLinkAfter    *big.Int
	DryRun             bool
}

// ConfigureProtocol whitelists tokens, registers price feeds, funds the ICO module
// and whitelists modules on a deployed hub. Each call is confirmed before the next
// one is sent and the first failure aborts the run. The hub calls are safe to repeat.
// LINK is only transferred while the module holds less than the fund amount, so a
// re-run does not fund it twice.
type ConfigureProtocol struct {
	cfg      *config.RuntimeConfig
	chain    ChainClient
	records  DeploymentRepository
	progress ProgressSink
	log      *slog.Logger
}

// NewConfigureProtocol creates a new ConfigureProtocol use case
func NewConfigureProtocol(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	records DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *ConfigureProtocol {
	return &ConfigureProtocol{cfg: cfg, chain: chain, records: records, progress: progress, log: log}
}

// configureTargets are the resolved addresses the configuration calls touch.
type configureTargets struct {
	hub          *deployedContract
	backModule   common.Address
	investModule common.Address
	link         common.Address
	pool         common.Address
	fundAmount   *big.Int

	// development networks
	mockERC20 common.Address
	mockFeed  common.Address

	// live networks
	linkUsdFeed  common.Address
	maticUsdFeed common.Address
}

// Run executes the use case
func (uc *ConfigureProtocol) Run(ctx context.Context, params ConfigureProtocolParams) (*ConfigureProtocolResult, error) {
	network := uc.cfg.Network

	deployer, err := requireAccount(network, uc.cfg.Accounts.Deployer, "deployer")
	if err != nil {
		return nil, err
	}
	governance, err := requireAccount(network, uc.cfg.Accounts.Governance, "governance")
	if err != nil {
		return nil, err
	}

	targets, err := uc.resolveTargets(ctx)
	if err != nil {
		return nil, err
	}

	chainID, err := checkChainID(ctx, uc.chain, network)
	if err != nil {
		return nil, err
	}

	calls, fundCall := uc.buildCalls(targets, deployer.Address, governance.Address)
	result := &ConfigureProtocolResult{
		Network:    network,
		Hub:        targets.hub.Address,
		LinkToken:  targets.link,
		FundAmount: targets.fundAmount,
		DryRun:     params.DryRun,
	}
	for _, c := range calls {
		if _, err := c.encode(); err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, &ExecutedStep{
			Name:   c.Step,
			From:   c.From,
			Target: c.To,
			Method: c.Method,
			Args:   bindings.FormatValues(c.Args),
		})
	}
	if params.DryRun {
		return result, nil
	}

	tx := newTransactor(uc.chain, uc.cfg.RequiredConfirmations(), uc.progress, uc.log)
	var last *models.TxOutcome
	for i, c := range calls {
		if c == fundCall {
			if result.DeployerLinkBefore, err = uc.linkBalance(ctx, tx, targets.link, deployer.Address); err != nil {
				return result, err
			}
			uc.progress.Info(fmt.Sprintf("Deployer LINK balance is %s", bindings.FormatEther(result.DeployerLinkBefore)))

			funded, err := uc.linkBalance(ctx, tx, targets.link, targets.backModule)
			if err != nil {
				return result, err
			}
			if funded.Cmp(targets.fundAmount) >= 0 {
				result.Steps[i].Skipped = true
				result.ModuleLinkAfter = funded
				uc.progress.Info(fmt.Sprintf("%s already holds %s LINK", ContractBackERC20ICOModule, bindings.FormatEther(funded)))
				continue
			}
		}

		outcome, err := tx.call(ctx, c)
		if err != nil {
			return result, err
		}
		last = outcome
		result.Steps[i].TxHash = &outcome.Hash
		result.Steps[i].Nonce = outcome.Nonce

		if c == fundCall {
			if result.ModuleLinkAfter, err = uc.linkBalance(ctx, tx, targets.link, targets.backModule); err != nil {
				return result, err
			}
			uc.progress.Info(fmt.Sprintf("%s LINK balance is %s", ContractBackERC20ICOModule, bindings.FormatEther(result.ModuleLinkAfter)))
		}
	}

	if err := uc.saveConfiguration(ctx, chainID, targets.hub.Address, governance.Address, last); err != nil {
		return result, err
	}
	return result, nil
}

// saveConfiguration marks the hub as configured for seed.
func (uc *ConfigureProtocol) saveConfiguration(ctx context.Context, chainID uint64, hub, sender common.Address, last *models.TxOutcome) error {
	record := &models.DeploymentRecord{
		Name:       ConfigurationRecord,
		Target:     hub.Hex(),
		ChainID:    chainID,
		Deployer:   sender.Hex(),
		DeployedAt: time.Now().UTC(),
	}
	if last != nil {
		record.TransactionHash = last.Hash.Hex()
		record.Nonce = last.Nonce
		if last.Receipt != nil && last.Receipt.BlockNumber != nil {
			record.BlockNumber = last.Receipt.BlockNumber.Uint64()
		}
	}
	if err := uc.records.SaveRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to record the configuration of %s: %w", hub.Hex(), err)
	}
	return nil
}

func (uc *ConfigureProtocol) resolveTargets(ctx context.Context) (*configureTargets, error) {
	network := uc.cfg.Network
	t := &configureTargets{}
	var err error

	if t.hub, err = loadContract(ctx, uc.records, ContractBuidlHub, PrerequisiteDeploy); err != nil {
		return nil, err
	}
	if t.backModule, err = recordAddress(ctx, uc.records, ContractBackERC20ICOModule, PrerequisiteDeploy); err != nil {
		return nil, err
	}
	if t.investModule, err = recordAddress(ctx, uc.records, ContractBackerOnlyInvestModule, PrerequisiteDeploy); err != nil {
		return nil, err
	}

	if network.Development {
		if t.link, err = uc.devAddress(ctx, config.KeyLinkToken, ContractLinkToken); err != nil {
			return nil, err
		}
		if t.pool, err = uc.devAddress(ctx, config.KeyPoolAddressesProvider, ContractMockPoolAddressesProvider); err != nil {
			return nil, err
		}
		if t.mockERC20, err = recordAddress(ctx, uc.records, ContractMockERC20, PrerequisiteMocks); err != nil {
			return nil, err
		}
		if t.mockFeed, err = recordAddress(ctx, uc.records, ContractMockV3Aggregator, PrerequisiteMocks); err != nil {
			return nil, err
		}
	} else {
		if t.link, err = constantAddress(network, config.KeyLinkToken); err != nil {
			return nil, err
		}
		if t.pool, err = constantAddress(network, config.KeyPoolAddressesProvider); err != nil {
			return nil, err
		}
		if t.linkUsdFeed, err = constantAddress(network, config.KeyLinkUsdPriceFeed); err != nil {
			return nil, err
		}
		if t.maticUsdFeed, err = constantAddress(network, config.KeyMaticUsdPriceFeed); err != nil {
			return nil, err
		}
	}

	amount := network.Constants.LinkFundAmount
	if amount == "" {
		amount = DefaultLiveLinkFundAmount
		if network.Development {
			amount = DefaultDevLinkFundAmount
		}
	}
	if t.fundAmount, err = bindings.ParseEther(amount); err != nil {
		return nil, &domain.ConfigurationError{Network: network.Name, Key: config.KeyLinkFundAmount, Reason: err.Error()}
	}

	return t, nil
}

// devAddress prefers an address set in configuration over the mock's record.
func (uc *ConfigureProtocol) devAddress(ctx context.Context, key, mock string) (common.Address, error) {
	if uc.cfg.Network.Constants.Get(key) != "" {
		return constantAddress(uc.cfg.Network, key)
	}
	return recordAddress(ctx, uc.records, mock, PrerequisiteMocks)
}

// buildCalls returns the configuration calls in execution order and the LINK funding call.
func (uc *ConfigureProtocol) buildCalls(t *configureTargets, deployer, governance common.Address) ([]*contractCall, *contractCall) {
	hubCall := func(step, method string, args ...any) *contractCall {
		return &contractCall{Step: step, From: governance, To: t.hub.Address, ABI: t.hub.ABI, Method: method, Args: args}
	}
	native := common.Address{}

	calls := []*contractCall{
		hubCall("whitelist LINK", "whitelistERC20", t.link, true),
		hubCall("set Aave pool addresses provider", "setAavePoolAddressProvider", t.pool),
	}

	if uc.cfg.Network.Development {
		calls = append(calls,
			hubCall("whitelist MockERC20", "whitelistERC20", t.mockERC20, true),
			hubCall("set LINK price feed", "setPriceFeed", t.link, t.mockFeed),
			hubCall("set MockERC20 price feed", "setPriceFeed", t.mockERC20, t.mockFeed),
			hubCall("set native price feed", "setPriceFeed", native, t.mockFeed),
		)
	} else {
		calls = append(calls,
			hubCall("set LINK price feed", "setPriceFeed", t.link, t.linkUsdFeed),
			hubCall("set native price feed", "setPriceFeed", native, t.maticUsdFeed),
		)
	}

	fund := &contractCall{
		Step:   "fund " + ContractBackERC20ICOModule + " with LINK",
		From:   deployer,
		To:     t.link,
		ABI:    bindings.ERC20,
		Method: "transfer",
		Args:   []any{t.backModule, t.fundAmount},
	}
	calls = append(calls,
		fund,
		hubCall("whitelist "+ContractBackERC20ICOModule, "whitelistBackModule", t.backModule, true),
		hubCall("whitelist "+ContractBackerOnlyInvestModule, "whitelistInvestModule", t.investModule, true),
	)

	return calls, fund
}

func (uc *ConfigureProtocol) linkBalance(ctx context.Context, tx *transactor, token, holder common.Address) (*big.Int, error) {
	out, err := tx.read(ctx, token, bindings.ERC20, "balanceOf", holder)
	if err != nil {
		return nil, fmt.Errorf("failed to read LINK balance of %s: %w", holder.Hex(), err)
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result %T", out[0])
	}
	return balance, nil
}

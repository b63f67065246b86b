package usecase_test

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hubAddr          = addr(0x1001)
	backModuleAddr   = addr(0x1002)
	investModuleAddr = addr(0x1003)
	vaultAddr        = addr(0x1004)
	linkAddr         = addr(0x2001)
	poolProviderAddr = addr(0x2002)
	mockERC20Addr    = addr(0x2003)
	mockFeedAddr     = addr(0x2004)
	mockPoolAddr     = addr(0x2005)
	mockaTokenAddr   = addr(0x2006)
)

// saveDeployedProtocol writes the records configure and seed read.
func saveDeployedProtocol(t *testing.T, s stores) {
	t.Helper()
	saveRecord(t, s.records, usecase.ContractBuidlHub, hubAddr, hubABIJSON)
	saveRecord(t, s.records, usecase.ContractBackERC20ICOModule, backModuleAddr, hubModuleABIJSON)
	saveRecord(t, s.records, usecase.ContractBackerOnlyInvestModule, investModuleAddr, hubModuleABIJSON)
	saveRecord(t, s.records, usecase.ContractYieldTrustVault, vaultAddr, vaultABIJSON)
}

// saveMocks writes the records of the development mocks.
func saveMocks(t *testing.T, s stores) {
	t.Helper()
	saveRecord(t, s.records, usecase.ContractLinkToken, linkAddr, bindings.ERC20ABI)
	saveRecord(t, s.records, usecase.ContractMockPoolAddressesProvider, poolProviderAddr, "")
	saveRecord(t, s.records, usecase.ContractMockERC20, mockERC20Addr, bindings.ERC20ABI)
	saveRecord(t, s.records, usecase.ContractMockV3Aggregator, mockFeedAddr, "")
	saveRecord(t, s.records, usecase.ContractMockPool, mockPoolAddr, mockPoolABIJSON)
	saveRecord(t, s.records, usecase.ContractMockaToken, mockaTokenAddr, "")
}

// saveConfigured writes the record configure leaves behind for hub.
func saveConfigured(t *testing.T, s stores, hub common.Address) {
	t.Helper()
	require.NoError(t, s.records.SaveRecord(context.Background(), &models.DeploymentRecord{
		Name:    usecase.ConfigurationRecord,
		Target:  hub.Hex(),
		ChainID: 1337,
	}))
}

// tokenLedger answers balanceOf from transfers seen on the chain.
type tokenLedger struct {
	balances map[common.Address]*big.Int
}

func newTokenLedger(deployerBalance *big.Int) *tokenLedger {
	return &tokenLedger{balances: map[common.Address]*big.Int{deployerAddr: deployerBalance}}
}

func (l *tokenLedger) attach(t *testing.T, chain *fakeChain) {
	transfer := bindings.ERC20.Methods["transfer"].ID
	chain.onSend = func(req *models.TxRequest) {
		if req.IsCreate() || !bytes.HasPrefix(req.Data, transfer) {
			return
		}
		args := decodeArgs(t, bindings.ERC20, "transfer", req.Data)
		to, amount := args[0].(common.Address), args[1].(*big.Int)
		l.add(req.From, new(big.Int).Neg(amount))
		l.add(to, amount)
	}
	chain.call = func(_ common.Address, data []byte) ([]byte, error) {
		holder := decodeArgs(t, bindings.ERC20, "balanceOf", data)[0].(common.Address)
		return bindings.Encode([]string{"uint256"}, l.balanceOf(holder))
	}
}

func (l *tokenLedger) add(holder common.Address, delta *big.Int) {
	l.balances[holder] = new(big.Int).Add(l.balanceOf(holder), delta)
}

func (l *tokenLedger) balanceOf(holder common.Address) *big.Int {
	if b, ok := l.balances[holder]; ok {
		return b
	}
	return big.NewInt(0)
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

func TestConfigureProtocol(t *testing.T) {
	ctx := context.Background()
	hubABI := mustABI(t, hubABIJSON)

	newUseCase := func(cfg *config.RuntimeConfig, chain *fakeChain, s stores) *usecase.ConfigureProtocol {
		return usecase.NewConfigureProtocol(cfg, chain, s.records, usecase.NopProgress{}, discardLogger())
	}

	devCalls := []string{
		"whitelistERC20",
		"setAavePoolAddressProvider",
		"whitelistERC20",
		"setPriceFeed",
		"setPriceFeed",
		"setPriceFeed",
		"transfer",
		"whitelistBackModule",
		"whitelistInvestModule",
	}

	t.Run("development network", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		saveMocks(t, s)
		chain := newFakeChain(1337)
		ledger := newTokenLedger(ether(1000))
		ledger.attach(t, chain)

		result, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		require.NoError(t, err)

		assert.Equal(t, devCalls, chain.methods(t, hubABI, bindings.ERC20))
		require.Len(t, result.Steps, 9)
		for i, req := range chain.sent {
			step := result.Steps[i]
			require.NotNil(t, step.TxHash, step.Name)
			if step.Method == "transfer" {
				assert.Equal(t, deployerAddr, req.From)
				assert.Equal(t, linkAddr, *req.To)
				continue
			}
			assert.Equal(t, governanceAddr, req.From, step.Name)
			assert.Equal(t, hubAddr, *req.To, step.Name)
		}

		assert.Equal(t, []any{linkAddr, true}, decodeArgs(t, hubABI, "whitelistERC20", chain.sent[0].Data))
		assert.Equal(t, []any{poolProviderAddr}, decodeArgs(t, hubABI, "setAavePoolAddressProvider", chain.sent[1].Data))
		assert.Equal(t, []any{mockERC20Addr, true}, decodeArgs(t, hubABI, "whitelistERC20", chain.sent[2].Data))
		assert.Equal(t, []any{linkAddr, mockFeedAddr}, decodeArgs(t, hubABI, "setPriceFeed", chain.sent[3].Data))
		assert.Equal(t, []any{mockERC20Addr, mockFeedAddr}, decodeArgs(t, hubABI, "setPriceFeed", chain.sent[4].Data))
		assert.Equal(t, []any{common.Address{}, mockFeedAddr}, decodeArgs(t, hubABI, "setPriceFeed", chain.sent[5].Data))
		assert.Equal(t, []any{backModuleAddr, ether(200)}, decodeArgs(t, bindings.ERC20, "transfer", chain.sent[6].Data))
		assert.Equal(t, []any{backModuleAddr, true}, decodeArgs(t, hubABI, "whitelistBackModule", chain.sent[7].Data))
		assert.Equal(t, []any{investModuleAddr, true}, decodeArgs(t, hubABI, "whitelistInvestModule", chain.sent[8].Data))

		assert.Equal(t, ether(1000), result.DeployerLinkBefore)
		assert.Equal(t, ether(200), result.ModuleLinkAfter)
		assert.Equal(t, hubAddr, result.Hub)
		assert.Equal(t, linkAddr, result.LinkToken)

		marker, err := s.records.GetRecord(ctx, usecase.ConfigurationRecord)
		require.NoError(t, err)
		assert.Equal(t, hubAddr.Hex(), marker.Target)
		assert.Empty(t, marker.Address)
		assert.Equal(t, uint64(1337), marker.ChainID)
		assert.Equal(t, result.Steps[8].TxHash.Hex(), marker.TransactionHash)

		listed, err := s.records.ListRecords(ctx)
		require.NoError(t, err)
		for _, r := range listed {
			assert.NotEqual(t, usecase.ConfigurationRecord, r.Name)
		}
	})

	t.Run("configuring twice does not fund the module again", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		saveMocks(t, s)
		chain := newFakeChain(1337)
		newTokenLedger(ether(1000)).attach(t, chain)

		uc := newUseCase(cfg, chain, s)
		_, err := uc.Run(ctx, usecase.ConfigureProtocolParams{})
		require.NoError(t, err)
		second, err := uc.Run(ctx, usecase.ConfigureProtocolParams{})
		require.NoError(t, err)

		withoutFunding := append(append([]string{}, devCalls[:6]...), devCalls[7:]...)
		assert.Equal(t, append(append([]string{}, devCalls...), withoutFunding...), chain.methods(t, hubABI, bindings.ERC20))
		assert.Equal(t, ether(200), second.ModuleLinkAfter)
		assert.True(t, second.Steps[6].Skipped)
		assert.Nil(t, second.Steps[6].TxHash)
		assert.NotNil(t, second.Steps[8].TxHash)
	})

	t.Run("an underfunded module is topped up with the full amount", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		saveMocks(t, s)
		chain := newFakeChain(1337)
		ledger := newTokenLedger(ether(1000))
		ledger.balances[backModuleAddr] = ether(50)
		ledger.attach(t, chain)

		result, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		require.NoError(t, err)
		assert.Equal(t, devCalls, chain.methods(t, hubABI, bindings.ERC20))
		assert.False(t, result.Steps[6].Skipped)
		assert.Equal(t, ether(250), result.ModuleLinkAfter)
	})

	t.Run("configured addresses take precedence over the mocks", func(t *testing.T) {
		network := devNetwork()
		network.Constants.LinkToken = addr(0x3001).Hex()
		network.Constants.LinkFundAmount = "2.5"
		cfg := testConfig(t, network)
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		saveMocks(t, s)
		chain := newFakeChain(1337)
		newTokenLedger(ether(10)).attach(t, chain)

		result, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		require.NoError(t, err)
		assert.Equal(t, addr(0x3001), result.LinkToken)
		assert.Equal(t, "2500000000000000000", result.FundAmount.String())
		assert.Equal(t, addr(0x3001), *chain.sent[6].To)
	})

	t.Run("dry run sends nothing", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		saveMocks(t, s)
		chain := newFakeChain(1337)

		result, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{DryRun: true})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		require.Len(t, result.Steps, 9)
		for _, step := range result.Steps {
			assert.Nil(t, step.TxHash)
		}
		assert.Equal(t, []string{backModuleAddr.Hex(), ether(200).String()}, result.Steps[6].Args)
		assert.Empty(t, chain.sent)
	})

	t.Run("before deploy the hub record is missing", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		chain := newFakeChain(1337)

		_, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		var missing *domain.ArtifactMissingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, usecase.PrerequisiteDeploy, missing.Prerequisite)
		assert.Contains(t, missing.Artifact, usecase.ContractBuidlHub)
		assert.Empty(t, chain.sent)
	})

	t.Run("development mocks must be deployed", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		chain := newFakeChain(1337)

		_, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		var missing *domain.ArtifactMissingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, usecase.PrerequisiteMocks, missing.Prerequisite)
		assert.Empty(t, chain.sent)
	})

	t.Run("live network", func(t *testing.T) {
		network := liveNetwork()
		cfg := testConfig(t, network)
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		chain := newFakeChain(network.ChainID)
		link := common.HexToAddress(network.Constants.LinkToken)
		ledger := newTokenLedger(ether(5))
		ledger.attach(t, chain)

		result, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"whitelistERC20",
			"setAavePoolAddressProvider",
			"setPriceFeed",
			"setPriceFeed",
			"transfer",
			"whitelistBackModule",
			"whitelistInvestModule",
		}, chain.methods(t, hubABI, bindings.ERC20))

		assert.Equal(t, []any{link, common.HexToAddress(network.Constants.LinkUsdPriceFeed)},
			decodeArgs(t, hubABI, "setPriceFeed", chain.sent[2].Data))
		assert.Equal(t, []any{common.Address{}, common.HexToAddress(network.Constants.MaticUsdPriceFeed)},
			decodeArgs(t, hubABI, "setPriceFeed", chain.sent[3].Data))
		assert.Equal(t, link, *chain.sent[4].To)
		assert.Equal(t, ether(1), result.FundAmount)

		require.Len(t, chain.confirmations, 7)
		for _, n := range chain.confirmations {
			assert.Equal(t, uint64(2), n)
		}
	})

	t.Run("live network without a price feed fails before any transaction", func(t *testing.T) {
		network := liveNetwork()
		network.Constants.MaticUsdPriceFeed = ""
		cfg := testConfig(t, network)
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		chain := newFakeChain(network.ChainID)

		_, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, config.KeyMaticUsdPriceFeed, cfgErr.Key)
		assert.Equal(t, "mumbai", cfgErr.Network)
		assert.Empty(t, chain.sent)
	})

	t.Run("malformed fund amount is a configuration error", func(t *testing.T) {
		network := liveNetwork()
		network.Constants.LinkFundAmount = "lots"
		cfg := testConfig(t, network)
		s := newStores(cfg)
		saveDeployedProtocol(t, s)

		_, err := newUseCase(cfg, newFakeChain(network.ChainID), s).Run(ctx, usecase.ConfigureProtocolParams{})
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, config.KeyLinkFundAmount, cfgErr.Key)
	})

	t.Run("a reverted call aborts the run", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		saveMocks(t, s)
		chain := newFakeChain(1337)
		newTokenLedger(ether(1000)).attach(t, chain)
		chain.revert = func(from common.Address, nonce uint64) bool { return from == governanceAddr && nonce == 1 }

		result, err := newUseCase(cfg, chain, s).Run(ctx, usecase.ConfigureProtocolParams{})
		var txErr *domain.TransactionFailureError
		require.ErrorAs(t, err, &txErr)
		assert.Equal(t, "set Aave pool addresses provider", txErr.Step)
		assert.Len(t, chain.sent, 2)
		assert.NotNil(t, result.Steps[0].TxHash)
		assert.Nil(t, result.Steps[1].TxHash)

		_, err = s.records.GetRecord(ctx, usecase.ConfigurationRecord)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

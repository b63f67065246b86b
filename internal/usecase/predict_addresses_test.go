package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictAddresses(t *testing.T) {
	ctx := context.Background()

	t.Run("raw mode with an explicit nonce never touches the chain", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		chain := newFakeChain(1337)
		chain.nonceErr = errors.New("connection refused")

		sender := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
		nonce := uint64(0)
		result, err := usecase.NewPredictAddresses(cfg, chain).Run(ctx, usecase.PredictAddressesParams{
			Sender: &sender,
			Nonce:  &nonce,
			Count:  3,
		})
		require.NoError(t, err)
		require.Len(t, result.Addresses, 3)
		assert.Nil(t, result.Plan)
		assert.Equal(t, common.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"), result.Addresses[0].Address)
		assert.Equal(t, common.HexToAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8"), result.Addresses[1].Address)
		assert.Equal(t, common.HexToAddress("0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91"), result.Addresses[2].Address)
		assert.Equal(t, uint64(2), result.Addresses[2].Nonce)
	})

	t.Run("raw mode reads the pending nonce", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		chain := newFakeChain(1337)
		chain.nonces[userAddrs[0]] = 41

		result, err := usecase.NewPredictAddresses(cfg, chain).Run(ctx, usecase.PredictAddressesParams{Sender: &userAddrs[0]})
		require.NoError(t, err)
		require.Len(t, result.Addresses, 1)
		assert.Equal(t, uint64(41), result.StartNonce)
		assert.Equal(t, crypto.CreateAddress(userAddrs[0], 41), result.Addresses[0].Address)
	})

	t.Run("protocol mode plans from the deployer's nonce", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		chain := newFakeChain(1337)
		chain.nonces[deployerAddr] = 4

		result, err := usecase.NewPredictAddresses(cfg, chain).Run(ctx, usecase.PredictAddressesParams{})
		require.NoError(t, err)
		require.NotNil(t, result.Plan)
		assert.Equal(t, deployerAddr, result.Sender)
		assert.Equal(t, uint64(4), result.StartNonce)

		hub, ok := result.Plan.Step(usecase.ContractBuidlHub)
		require.True(t, ok)
		assert.Equal(t, crypto.CreateAddress(deployerAddr, 6), hub.Address)
		assert.Empty(t, chain.sent)
	})

	t.Run("prediction matches the deployment", func(t *testing.T) {
		f := newDeployFixture(t, devNetwork())
		f.chain.nonces[deployerAddr] = 2

		predicted, err := usecase.NewPredictAddresses(f.cfg, f.chain).Run(ctx, usecase.PredictAddressesParams{})
		require.NoError(t, err)
		deployed, err := f.useCase().Run(ctx, usecase.DeployProtocolParams{})
		require.NoError(t, err)

		for i, step := range predicted.Plan.Steps {
			assert.Equal(t, step.Address.Hex(), deployed.Records[i].Address, step.Name)
		}
	})

	t.Run("unreachable node without a nonce override", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		chain := newFakeChain(1337)
		chain.nonceErr = errors.New("connection refused")

		_, err := usecase.NewPredictAddresses(cfg, chain).Run(ctx, usecase.PredictAddressesParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--nonce")
	})
}

func TestShowAddresses(t *testing.T) {
	ctx := context.Background()

	t.Run("joins the address book with deployment records", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)
		saveDeployedProtocol(t, s)
		saveRecord(t, s.records, usecase.ContractMockERC20, mockERC20Addr, "")
		require.NoError(t, s.addresses.SaveAddressBook(ctx, models.AddressBook{
			usecase.KeyHub:        hubAddr.Hex(),
			usecase.KeyGovernance: governanceAddr.Hex(),
		}))

		result, err := usecase.NewShowAddresses(cfg, s.addresses, s.records).Run(ctx, usecase.ShowAddressesParams{})
		require.NoError(t, err)

		require.Len(t, result.Entries, 2)
		assert.Equal(t, usecase.KeyGovernance, result.Entries[0].Key)
		assert.Nil(t, result.Entries[0].Record)
		assert.Equal(t, usecase.KeyHub, result.Entries[1].Key)
		require.NotNil(t, result.Entries[1].Record)
		assert.Equal(t, usecase.ContractBuidlHub, result.Entries[1].Record.Name)

		assert.Len(t, result.Records, 5)
		assert.Equal(t, cfg.AddressesFile, result.Path)
	})

	t.Run("nothing deployed yet", func(t *testing.T) {
		cfg := testConfig(t, devNetwork())
		s := newStores(cfg)

		_, err := usecase.NewShowAddresses(cfg, s.addresses, s.records).Run(ctx, usecase.ShowAddressesParams{})
		var missing *domain.ArtifactMissingError
		require.ErrorAs(t, err, &missing)
	})
}

func TestListNetworks(t *testing.T) {
	cfg := testConfig(t, devNetwork())
	live := liveNetwork()
	live.Constants.MaticUsdPriceFeed = ""
	cfg.Networks[live.Name] = live

	result, err := usecase.NewListNetworks(cfg).Run(context.Background(), usecase.ListNetworksParams{})
	require.NoError(t, err)
	require.Len(t, result.Networks, 2)

	assert.Equal(t, "localhost", result.Networks[0].Name)
	assert.True(t, result.Networks[0].Selected)
	assert.Empty(t, result.Networks[0].MissingConstants)

	assert.Equal(t, "mumbai", result.Networks[1].Name)
	assert.False(t, result.Networks[1].Selected)
	assert.Equal(t, []string{"price_feeds.matic_usd"}, result.Networks[1].MissingConstants)
	assert.Equal(t, "built-in", result.Source)
}

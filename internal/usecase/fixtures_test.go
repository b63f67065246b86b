package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/buidlhub/buidl-cli/internal/adapters/artifacts"
	"github.com/buidlhub/buidl-cli/internal/adapters/repository/deployments"
	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	deployerAddr   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	governanceAddr = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	userAddrs      = []common.Address{
		common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
		common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906"),
	}
)

const hubABIJSON = `[
	{"type":"constructor","inputs":[
		{"name":"name","type":"string"},{"name":"symbol","type":"string"},
		{"name":"governance","type":"address"},{"name":"backNFT","type":"address"},
		{"name":"investNFT","type":"address"},{"name":"vault","type":"address"}]},
	{"type":"function","name":"whitelistERC20","inputs":[{"name":"token","type":"address"},{"name":"whitelist","type":"bool"}],"outputs":[]},
	{"type":"function","name":"setAavePoolAddressProvider","inputs":[{"name":"provider","type":"address"}],"outputs":[]},
	{"type":"function","name":"setPriceFeed","inputs":[{"name":"token","type":"address"},{"name":"feed","type":"address"}],"outputs":[]},
	{"type":"function","name":"whitelistBackModule","inputs":[{"name":"module","type":"address"},{"name":"whitelist","type":"bool"}],"outputs":[]},
	{"type":"function","name":"whitelistInvestModule","inputs":[{"name":"module","type":"address"},{"name":"whitelist","type":"bool"}],"outputs":[]},
	{"type":"function","name":"whitelistProfileCreator","inputs":[{"name":"creator","type":"address"},{"name":"whitelist","type":"bool"}],"outputs":[]},
	{"type":"function","name":"setAaveaToken","inputs":[{"name":"token","type":"address"},{"name":"aToken","type":"address"}],"outputs":[]},
	{"type":"function","name":"createProfile","inputs":[{"name":"vars","type":"tuple","components":[
		{"name":"to","type":"address"},{"name":"handle","type":"string"},{"name":"metadataURI","type":"string"},
		{"name":"backModule","type":"address"},{"name":"backModuleInitData","type":"bytes"},
		{"name":"profileType","type":"uint8"},{"name":"githubUsername","type":"string"}]}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"createYieldTrust","inputs":[{"name":"vars","type":"tuple","components":[
		{"name":"profileId","type":"uint256"},{"name":"currency","type":"address"},{"name":"vault","type":"address"}]}],"outputs":[]},
	{"type":"function","name":"getYieldTrust","stateMutability":"view","inputs":[{"name":"profileId","type":"uint256"},{"name":"currency","type":"address"}],
		"outputs":[{"name":"","type":"tuple","components":[
		{"name":"profileId","type":"uint256"},{"name":"currency","type":"address"},{"name":"vault","type":"address"}]}]},
	{"type":"function","name":"createProject","inputs":[{"name":"vars","type":"tuple","components":[
		{"name":"profileId","type":"uint256"},{"name":"metadataURI","type":"string"},{"name":"handle","type":"string"},
		{"name":"projectSize","type":"uint8"},{"name":"projectState","type":"uint8"},{"name":"projectType","type":"uint8"},
		{"name":"investModule","type":"address"},{"name":"investModuleInitData","type":"bytes"},
		{"name":"githubRepoName","type":"string"}]}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getState","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"setState","inputs":[{"name":"newState","type":"uint8"}],"outputs":[]}
]`

const hubModuleABIJSON = `[{"type":"constructor","inputs":[{"name":"hub","type":"address"}]}]`

const vaultABIJSON = `[
	{"type":"constructor","inputs":[{"name":"hub","type":"address"}]},
	{"type":"function","name":"deposit","inputs":[{"name":"assets","type":"uint256"},{"name":"receiver","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

const mockPoolABIJSON = `[
	{"type":"function","name":"simulateYield","inputs":[{"name":"vault","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]}
]`

// library placeholders at byte offsets 2 and 22 of the hub bytecode
var (
	buidlingPlaceholder = "__$" + strings.Repeat("a", 34) + "$__"
	fundingPlaceholder  = "__$" + strings.Repeat("b", 34) + "$__"
)

func mustABI(t *testing.T, def string) abi.ABI {
	t.Helper()
	parsed, err := bindings.ParseABI(json.RawMessage(def))
	require.NoError(t, err)
	return parsed
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeChain is an instant-mining chain that derives contract addresses the way the
// EVM does and rejects transactions whose pinned nonce is not the sender's next one.
type fakeChain struct {
	mu sync.Mutex

	chainID  uint64
	nonces   map[common.Address]uint64
	sent     []*models.TxRequest
	receipts map[common.Hash]*types.Receipt
	// confirmations records the count requested by every wait
	confirmations []uint64

	nonceErr error
	// revert makes the transaction sent at (from, nonce) fail
	revert func(from common.Address, nonce uint64) bool
	// contractAddress overrides the address a creation receives
	contractAddress func(from common.Address, nonce uint64) common.Address
	onSend          func(req *models.TxRequest)
	call            func(to common.Address, data []byte) ([]byte, error)
}

func newFakeChain(chainID uint64) *fakeChain {
	return &fakeChain{
		chainID:  chainID,
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (c *fakeChain) ChainID(context.Context) (uint64, error) {
	return c.chainID, nil
}

func (c *fakeChain) PendingNonce(_ context.Context, account common.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nonceErr != nil {
		return 0, c.nonceErr
	}
	return c.nonces[account], nil
}

func (c *fakeChain) Balance(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (c *fakeChain) CodeAt(context.Context, common.Address) ([]byte, error) {
	return nil, nil
}

func (c *fakeChain) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	if c.call == nil {
		return nil, fmt.Errorf("unexpected call to %s", to.Hex())
	}
	return c.call(to, data)
}

func (c *fakeChain) Send(_ context.Context, req *models.TxRequest) (*models.SentTx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce := c.nonces[req.From]
	if req.Nonce != nil && *req.Nonce != nonce {
		return nil, fmt.Errorf("invalid nonce: tx %d, state %d", *req.Nonce, nonce)
	}
	c.nonces[req.From] = nonce + 1
	c.sent = append(c.sent, req)

	hash := crypto.Keccak256Hash(req.From.Bytes(), new(big.Int).SetUint64(nonce).Bytes(), req.Data)
	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: big.NewInt(int64(len(c.sent))),
		GasUsed:     21000,
	}
	if c.revert != nil && c.revert(req.From, nonce) {
		receipt.Status = types.ReceiptStatusFailed
	} else if req.IsCreate() {
		receipt.ContractAddress = crypto.CreateAddress(req.From, nonce)
		if c.contractAddress != nil {
			receipt.ContractAddress = c.contractAddress(req.From, nonce)
		}
	}
	c.receipts[hash] = receipt

	if c.onSend != nil {
		c.onSend(req)
	}
	return &models.SentTx{Hash: hash, Nonce: nonce}, nil
}

func (c *fakeChain) WaitForConfirmations(_ context.Context, txHash common.Hash, confirmations uint64) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmations = append(c.confirmations, confirmations)
	receipt, ok := c.receipts[txHash]
	if !ok {
		return nil, fmt.Errorf("receipt of %s: %w", txHash.Hex(), domain.ErrNotFound)
	}
	return receipt, nil
}

// methods names the method of every sent call by its selector.
func (c *fakeChain) methods(t *testing.T, abis ...abi.ABI) []string {
	t.Helper()
	var names []string
	for _, req := range c.sent {
		if req.IsCreate() {
			names = append(names, "create")
			continue
		}
		names = append(names, methodName(t, req.Data, abis...))
	}
	return names
}

func methodName(t *testing.T, data []byte, abis ...abi.ABI) string {
	t.Helper()
	require.GreaterOrEqual(t, len(data), 4)
	for _, a := range abis {
		if m, err := a.MethodById(data[:4]); err == nil {
			return m.Name
		}
	}
	t.Fatalf("no method with selector %x", data[:4])
	return ""
}

// decodeArgs unpacks the arguments of a call to method.
func decodeArgs(t *testing.T, contractABI abi.ABI, method string, data []byte) []any {
	t.Helper()
	values, err := contractABI.Methods[method].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	return values
}

// fakeArtifacts serves artifacts from memory and links them like the file repository.
type fakeArtifacts map[string]*models.Artifact

func (f fakeArtifacts) GetArtifact(_ context.Context, name string) (*models.Artifact, error) {
	a, ok := f[name]
	if !ok {
		return nil, &domain.ArtifactMissingError{Artifact: "artifact of " + name, Prerequisite: "npx hardhat compile"}
	}
	return a, nil
}

func (f fakeArtifacts) Link(artifact *models.Artifact, libraries map[string]common.Address) ([]byte, error) {
	return artifacts.Link(artifact, libraries)
}

func newArtifact(t *testing.T, name, abiJSON, bytecode string) *models.Artifact {
	t.Helper()
	return &models.Artifact{
		ContractName: name,
		RawABI:       json.RawMessage(abiJSON),
		ABI:          mustABI(t, abiJSON),
		Bytecode:     bytecode,
	}
}

// protocolArtifacts returns the compiled protocol as the contracts project emits it.
func protocolArtifacts(t *testing.T) fakeArtifacts {
	t.Helper()
	hub := newArtifact(t, usecase.ContractBuidlHub, hubABIJSON, "0x6080"+buidlingPlaceholder+fundingPlaceholder+"6000f3")
	hub.LinkReferences = map[string]map[string][]models.LinkReference{
		"contracts/libraries/BuidlingLogic.sol": {usecase.ContractBuidlingLogic: {{Start: 2, Length: 20}}},
		"contracts/libraries/FundingLogic.sol":  {usecase.ContractFundingLogic: {{Start: 22, Length: 20}}},
	}
	return fakeArtifacts{
		usecase.ContractBuidlingLogic:          newArtifact(t, usecase.ContractBuidlingLogic, `[]`, "0x60016000f3"),
		usecase.ContractFundingLogic:           newArtifact(t, usecase.ContractFundingLogic, `[]`, "0x60026000f3"),
		usecase.ContractBuidlHub:               hub,
		usecase.ContractBackNFT:                newArtifact(t, usecase.ContractBackNFT, hubModuleABIJSON, "0x6003"),
		usecase.ContractInvestNFT:              newArtifact(t, usecase.ContractInvestNFT, hubModuleABIJSON, "0x6004"),
		usecase.ContractYieldTrustVault:        newArtifact(t, usecase.ContractYieldTrustVault, vaultABIJSON, "0x6005"),
		usecase.ContractBackerOnlyInvestModule: newArtifact(t, usecase.ContractBackerOnlyInvestModule, hubModuleABIJSON, "0x6006"),
		usecase.ContractBackERC20ICOModule:     newArtifact(t, usecase.ContractBackERC20ICOModule, hubModuleABIJSON, "0x6007"),
	}
}

func devNetwork() *config.Network {
	return &config.Network{Name: "localhost", ChainID: 1337, Development: true}
}

func liveNetwork() *config.Network {
	return &config.Network{
		Name:          "mumbai",
		ChainID:       80001,
		Confirmations: 2,
		Constants: config.NetworkConstants{
			LinkToken:             "0x326C977E6efc84E512bB9C30f76E30c160eD06FB",
			PoolAddressesProvider: "0x5343b5bA672Ae99d627A1C87866b8E53F47Db2E6",
			LinkUsdPriceFeed:      "0x1C2252aeeD50e0c9B64bDfF2735Ee3C932F5C408",
			MaticUsdPriceFeed:     "0xd0D5e3DB44DE05E9F294BB0a3bEEaF030DE24Ada",
		},
	}
}

func testConfig(t *testing.T, network *config.Network) *config.RuntimeConfig {
	t.Helper()
	root := t.TempDir()
	users := make([]*config.Account, 0, len(userAddrs))
	for i, addr := range userAddrs {
		users = append(users, &config.Account{Name: fmt.Sprintf("user%d", i), Address: addr})
	}
	return &config.RuntimeConfig{
		ProjectRoot:    root,
		ConfigSource:   "built-in",
		Network:        network,
		Networks:       map[string]*config.Network{network.Name: network},
		DeploymentsDir: filepath.Join(root, "deployments"),
		AddressesFile:  filepath.Join(root, config.AddressesFileName),
		NonInteractive: true,
		Accounts: config.Accounts{
			Deployer:   &config.Account{Name: "deployer", Address: deployerAddr},
			Governance: &config.Account{Name: "governance", Address: governanceAddr},
			Users:      users,
		},
	}
}

// stores are the file repositories of a test config.
type stores struct {
	records   *deployments.FileRepository
	addresses *deployments.AddressBookFile
}

func newStores(cfg *config.RuntimeConfig) stores {
	return stores{
		records:   deployments.NewFileRepositoryFromConfig(cfg),
		addresses: deployments.NewAddressBookFileFromConfig(cfg),
	}
}

// saveRecord writes the record a previous deploy would have left.
func saveRecord(t *testing.T, repo *deployments.FileRepository, name string, addr common.Address, abiJSON string) {
	t.Helper()
	if abiJSON == "" {
		abiJSON = `[]`
	}
	require.NoError(t, repo.SaveRecord(context.Background(), &models.DeploymentRecord{
		Name:     name,
		Address:  addr.Hex(),
		ABI:      json.RawMessage(abiJSON),
		ChainID:  1337,
		Deployer: deployerAddr.Hex(),
	}))
}

func addr(n int64) common.Address {
	return common.BigToAddress(big.NewInt(n))
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

// recordingProgress keeps every event a use case reports.
type recordingProgress struct {
	events []usecase.ProgressEvent
	infos  []string
}

func (p *recordingProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	p.events = append(p.events, event)
}

func (p *recordingProgress) Info(message string)  { p.infos = append(p.infos, message) }
func (p *recordingProgress) Error(message string) { p.infos = append(p.infos, message) }

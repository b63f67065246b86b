package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the subset of ethclient.Client the adapter needs. The simulated
// backend client satisfies it as well.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// DefaultPollInterval is the delay between receipt and block-number polls
const DefaultPollInterval = time.Second

// Client signs, submits and confirms transactions for the configured accounts.
// The RPC connection is opened on first use so commands that never touch the
// chain work offline.
type Client struct {
	rpcURL       string
	pollInterval time.Duration
	log          *slog.Logger

	mu      sync.Mutex
	backend Backend
	chainID *big.Int
	signers map[common.Address]*ecdsa.PrivateKey
}

// NewClient creates a client for the selected network of cfg.
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	c := &Client{
		pollInterval: cfg.PollInterval,
		log:          log,
		signers:      make(map[common.Address]*ecdsa.PrivateKey),
	}
	if cfg.Network != nil {
		c.rpcURL = cfg.Network.RPCURL
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	for _, acct := range cfg.Accounts.All() {
		c.AddSigner(acct)
	}
	return c
}

// NewClientWithBackend creates a client on an already connected backend.
func NewClientWithBackend(backend Backend, pollInterval time.Duration, log *slog.Logger, accounts ...*config.Account) *Client {
	c := &Client{
		backend:      backend,
		pollInterval: pollInterval,
		log:          log,
		signers:      make(map[common.Address]*ecdsa.PrivateKey),
	}
	for _, acct := range accounts {
		c.AddSigner(acct)
	}
	return c
}

// AddSigner registers the private key of an account.
func (c *Client) AddSigner(acct *config.Account) {
	if acct == nil || acct.PrivateKey == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signers[acct.Address] = acct.PrivateKey
}

// connect returns the backend, dialing the RPC endpoint the first time.
func (c *Client) connect(ctx context.Context) (Backend, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend == nil {
		if c.rpcURL == "" {
			return nil, nil, &domain.ConfigurationError{Key: "rpc_url", Reason: "no RPC URL configured"}
		}
		client, err := ethclient.DialContext(ctx, c.rpcURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to RPC: %w", err)
		}
		c.backend = client
	}

	if c.chainID == nil {
		chainID, err := c.backend.ChainID(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
		c.chainID = chainID
	}

	return c.backend, c.chainID, nil
}

// Close releases the RPC connection, if one was opened.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

// ChainID returns the chain ID served by the RPC endpoint.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	_, chainID, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}
	return chainID.Uint64(), nil
}

// PendingNonce returns the nonce the next transaction of account will use.
func (c *Client) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	backend, _, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}
	nonce, err := backend.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending nonce of %s: %w", account.Hex(), err)
	}
	return nonce, nil
}

// Balance returns the native balance of account at the latest block.
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	backend, _, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return backend.BalanceAt(ctx, account, nil)
}

// CodeAt returns the runtime code at address.
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	backend, _, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CodeAt(ctx, address, nil)
}

// Call executes a read-only call against the latest block.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	backend, _, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", to.Hex(), err)
	}
	return out, nil
}

// Send signs and broadcasts req. A pinned nonce is used as-is; otherwise the pending
// nonce of the sender is taken.
func (c *Client) Send(ctx context.Context, req *models.TxRequest) (*models.SentTx, error) {
	backend, chainID, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	key, ok := c.signers[req.From]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, req.From.Hex())
	}

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else if nonce, err = backend.PendingNonceAt(ctx, req.From); err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	gas := req.GasLimit
	if gas == 0 {
		estimated, err := backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  req.From,
			To:    req.To,
			Data:  req.Data,
			Value: value,
		})
		if err != nil {
			return nil, fmt.Errorf("estimate gas: %w", err)
		}
		// Add 20% buffer to gas estimate
		gas = estimated + estimated/5
	}

	tx, err := c.buildTx(ctx, backend, chainID, nonce, gas, req.To, value, req.Data)
	if err != nil {
		return nil, err
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	c.log.Debug("transaction sent",
		slog.String("from", req.From.Hex()),
		slog.Uint64("nonce", nonce),
		slog.Uint64("gas", gas),
		slog.String("txHash", signed.Hash().Hex()),
	)

	return &models.SentTx{Hash: signed.Hash(), Nonce: nonce}, nil
}

// buildTx prices the transaction as EIP-1559 when the chain reports a base fee and
// as a legacy transaction otherwise.
func (c *Client) buildTx(ctx context.Context, backend Backend, chainID *big.Int, nonce, gas uint64, to *common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	header, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get block header: %w", err)
	}

	if header.BaseFee == nil {
		gasPrice, err := backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("get gas price: %w", err)
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       to,
			Value:    value,
			Data:     data,
		}), nil
	}

	gasTipCap, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gas tip cap: %w", err)
	}
	// Calculate max fee (base fee * 2 + tip)
	gasFeeCap := new(big.Int).Mul(header.BaseFee, big.NewInt(2))
	gasFeeCap.Add(gasFeeCap, gasTipCap)

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gas,
		To:        to,
		Value:     value,
		Data:      data,
	}), nil
}

// WaitForConfirmations blocks until the transaction is mined and the chain head is
// confirmations-1 blocks past its block. There is no timeout: only ctx cancellation
// or process termination ends a wait for a transaction that never gets mined.
func (c *Client) WaitForConfirmations(ctx context.Context, txHash common.Hash, confirmations uint64) (*types.Receipt, error) {
	backend, _, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	if confirmations == 0 {
		confirmations = 1
	}

	var receipt *types.Receipt
	for receipt == nil {
		receipt, err = backend.TransactionReceipt(ctx, txHash)
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("get receipt of %s: %w", txHash.Hex(), err)
		}
		if receipt == nil {
			if err := c.sleep(ctx); err != nil {
				return nil, err
			}
		}
	}

	target := receipt.BlockNumber.Uint64() + confirmations - 1
	for {
		head, err := backend.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("get block number: %w", err)
		}
		if head >= target {
			return receipt, nil
		}
		c.log.Debug("waiting for confirmations",
			slog.String("txHash", txHash.Hex()),
			slog.Uint64("head", head),
			slog.Uint64("target", target),
		)
		if err := c.sleep(ctx); err != nil {
			return nil, err
		}
	}
}

func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.pollInterval):
		return nil
	}
}

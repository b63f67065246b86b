package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// transactor submits one transaction at a time and waits for its confirmations
// before returning. Any failure is reported as a TransactionFailureError.
type transactor struct {
	chain         ChainClient
	confirmations uint64
	progress      ProgressSink
	log           *slog.Logger
}

func newTransactor(chain ChainClient, confirmations uint64, progress ProgressSink, log *slog.Logger) *transactor {
	return &transactor{chain: chain, confirmations: confirmations, progress: progress, log: log}
}

// execute sends req and waits for it. A receipt with a failed status is an error.
func (t *transactor) execute(ctx context.Context, step string, req *models.TxRequest) (*models.TxOutcome, error) {
	t.progress.OnProgress(ctx, ProgressEvent{Stage: step, Message: "submitting", Spinner: true})

	sent, err := t.chain.Send(ctx, req)
	if err != nil {
		return nil, &domain.TransactionFailureError{Step: step, Nonce: req.Nonce, Err: err}
	}
	nonce := sent.Nonce

	t.log.Info("transaction submitted",
		slog.String("step", step),
		slog.Uint64("nonce", nonce),
		slog.String("txHash", sent.Hash.Hex()),
	)
	t.progress.OnProgress(ctx, ProgressEvent{
		Stage:   step,
		Message: fmt.Sprintf("waiting for %d confirmation(s) of %s", t.confirmations, sent.Hash.Hex()),
		Spinner: true,
	})

	receipt, err := t.chain.WaitForConfirmations(ctx, sent.Hash, t.confirmations)
	if err != nil {
		return nil, &domain.TransactionFailureError{Step: step, TxHash: sent.Hash.Hex(), Nonce: &nonce, Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.TransactionFailureError{
			Step:   step,
			TxHash: sent.Hash.Hex(),
			Nonce:  &nonce,
			Err:    fmt.Errorf("%w in block %d", domain.ErrTransactionReverted, receipt.BlockNumber.Uint64()),
		}
	}

	t.log.Debug("transaction confirmed",
		slog.String("step", step),
		slog.Uint64("block", receipt.BlockNumber.Uint64()),
		slog.Uint64("gasUsed", receipt.GasUsed),
	)

	return &models.TxOutcome{Hash: sent.Hash, Nonce: nonce, Receipt: receipt}, nil
}

// contractCall is a state-changing method call on a deployed contract.
type contractCall struct {
	Step   string
	From   common.Address
	To     common.Address
	ABI    abi.ABI
	Method string
	Args   []any
}

// encode validates the call against the ABI without sending anything.
func (c *contractCall) encode() ([]byte, error) {
	data, err := bindings.CallData(c.ABI, c.Method, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", c.Step, err)
	}
	return data, nil
}

// call encodes and executes c with an automatically assigned nonce.
func (t *transactor) call(ctx context.Context, c *contractCall) (*models.TxOutcome, error) {
	data, err := c.encode()
	if err != nil {
		return nil, err
	}
	to := c.To
	return t.execute(ctx, c.Step, &models.TxRequest{From: c.From, To: &to, Data: data})
}

// read performs a view call and returns the decoded outputs.
func (t *transactor) read(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...any) ([]any, error) {
	data, err := bindings.CallData(contractABI, method, args...)
	if err != nil {
		return nil, err
	}
	out, err := t.chain.Call(ctx, to, data)
	if err != nil {
		return nil, err
	}
	return bindings.DecodeResult(contractABI, method, out)
}

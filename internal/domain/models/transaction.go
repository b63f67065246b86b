package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxRequest is a transaction to sign and submit.
type TxRequest struct {
	From common.Address
	// To is nil for contract creations
	To    *common.Address
	Data  []byte
	Value *big.Int
	// Nonce pins the transaction to an explicit nonce; nil means the pending nonce
	Nonce *uint64
	// GasLimit skips estimation when non-zero
	GasLimit uint64
}

// IsCreate reports whether the request deploys a contract.
func (r *TxRequest) IsCreate() bool {
	return r.To == nil
}

// SentTx is a transaction accepted by the node.
type SentTx struct {
	Hash  common.Hash
	Nonce uint64
}

// TxOutcome is a confirmed transaction.
type TxOutcome struct {
	Hash    common.Hash
	Nonce   uint64
	Receipt *types.Receipt
}

// Succeeded reports whether the receipt has a success status.
func (o *TxOutcome) Succeeded() bool {
	return o.Receipt != nil && o.Receipt.Status == types.ReceiptStatusSuccessful
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidInput is returned when a caller passes malformed input to a pure operation
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrNetworkMismatch is returned when the RPC endpoint serves a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNonceDesync is returned when the chain's nonce differs from the reserved one
	ErrNonceDesync = errors.New("nonce desync")

	// ErrTransactionReverted is returned when a receipt reports a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrUnknownAccount is returned when no signing key is registered for a sender
	ErrUnknownAccount = errors.New("unknown account")
)

// ConfigurationError reports a missing or malformed per-network constant.
// It is raised before any transaction is submitted.
type ConfigurationError struct {
	Network     string
	Key         string
	Reason      string
	Suggestions []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Network != "" {
		fmt.Fprintf(&b, " for network %q", e.Network)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, ": %s", e.Key)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// NewMissingConstantError builds a ConfigurationError for an absent required constant.
func NewMissingConstantError(network, key string) *ConfigurationError {
	return &ConfigurationError{Network: network, Key: key, Reason: "required value is not set"}
}

// AddressMismatchError reports that a precomputed address does not match what the chain
// assigned, or that the chain nonce drifted away from the reserved one before submission.
type AddressMismatchError struct {
	Contract string
	Nonce    uint64
	Expected string
	Actual   string
	Reason   string
}

func (e *AddressMismatchError) Error() string {
	msg := fmt.Sprintf("address mismatch for %s at nonce %d: expected %s, got %s",
		e.Contract, e.Nonce, e.Expected, e.Actual)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg + "; redeploy from scratch"
}

// TransactionFailureError reports a transaction that could not be submitted, reverted,
// or never produced a usable receipt.
type TransactionFailureError struct {
	Step   string
	TxHash string
	Nonce  *uint64
	Err    error
}

func (e *TransactionFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "transaction failed at step %q", e.Step)
	if e.Nonce != nil {
		fmt.Fprintf(&b, " (nonce %d)", *e.Nonce)
	}
	if e.TxHash != "" {
		fmt.Fprintf(&b, " tx %s", e.TxHash)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransactionFailureError) Unwrap() error { return e.Err }

// ArtifactMissingError reports that a command ran before the step producing its inputs.
type ArtifactMissingError struct {
	Artifact     string
	Path         string
	Prerequisite string
}

func (e *ArtifactMissingError) Error() string {
	msg := fmt.Sprintf("missing %s", e.Artifact)
	if e.Path != "" {
		msg += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Prerequisite != "" {
		msg += fmt.Sprintf("; run `%s` first", e.Prerequisite)
	}
	return msg
}

func (e *ArtifactMissingError) Unwrap() error { return ErrNotFound }

// ErrCancelled is returned when the operator declines a confirmation prompt
var ErrCancelled = errors.New("cancelled by operator")

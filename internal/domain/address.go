package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// PrecomputeAddress returns the address a CREATE deployment sent by sender at the given
// nonce will receive: keccak256(rlp([sender, nonce]))[12:].
//
// The rlp encoder writes integers as minimal big-endian byte strings, so nonce 0 becomes
// the empty string (0x80) and never a single zero byte.
func PrecomputeAddress(sender common.Address, nonce uint64) common.Address {
	data, err := rlp.EncodeToBytes([]any{sender, nonce})
	if err != nil {
		// unreachable: both values have a fixed rlp encoding
		panic(fmt.Sprintf("rlp encode sender/nonce: %v", err))
	}
	return common.BytesToAddress(crypto.Keccak256(data)[12:])
}

// PrecomputeAddressHex is PrecomputeAddress for textual sender addresses.
func PrecomputeAddressHex(sender string, nonce uint64) (common.Address, error) {
	addr, err := ParseAddress(sender)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: sender: %w", ErrInvalidInput, err)
	}
	return PrecomputeAddress(addr, nonce), nil
}

// ParseAddress parses a 0x-prefixed 20-byte hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) || len(s) != 2+2*common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

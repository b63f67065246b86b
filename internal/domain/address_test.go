package domain

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecomputeAddress(t *testing.T) {
	sender := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")

	t.Run("known vectors", func(t *testing.T) {
		assert.Equal(t, common.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"), PrecomputeAddress(sender, 0))
		assert.Equal(t, common.HexToAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8"), PrecomputeAddress(sender, 1))
		assert.Equal(t, common.HexToAddress("0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91"), PrecomputeAddress(sender, 2))
	})

	t.Run("matches go-ethereum at encoding boundaries", func(t *testing.T) {
		for _, nonce := range []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 0xffff, 0x10000, math.MaxUint32, math.MaxUint32 + 1, math.MaxUint64} {
			assert.Equal(t, crypto.CreateAddress(sender, nonce), PrecomputeAddress(sender, nonce), "nonce %d", nonce)
		}
	})

	t.Run("distinct nonces give distinct addresses", func(t *testing.T) {
		seen := make(map[common.Address]uint64)
		for nonce := uint64(0); nonce < 64; nonce++ {
			addr := PrecomputeAddress(sender, nonce)
			prev, dup := seen[addr]
			require.False(t, dup, "nonce %d collides with %d", nonce, prev)
			seen[addr] = nonce
		}
	})
}

func TestPrecomputeAddressHex(t *testing.T) {
	addr, err := PrecomputeAddressHex("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0", 0)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"), addr)

	for _, bad := range []string{"", "0x", "0x123", "6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0", "0xzzc7ea33f8831ea9dcc53393aaa88b25a785dbf0"} {
		_, err := PrecomputeAddressHex(bad, 0)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestNonceCounter(t *testing.T) {
	c := NewNonceCounter(5)
	assert.Equal(t, uint64(5), c.Next())
	assert.Equal(t, uint64(5), c.Reserve())
	assert.Equal(t, uint64(6), c.Reserve())
	assert.Equal(t, uint64(7), c.Next())
	assert.Equal(t, uint64(7), c.Next())
}

package bindings

import (
	"math/big"
	"testing"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, name string, components []abi.ArgumentMarshaling) abi.Type {
	t.Helper()
	typ, err := abi.NewType(name, "", components)
	require.NoError(t, err)
	return typ
}

func TestCoerce(t *testing.T) {
	t.Run("integers", func(t *testing.T) {
		v, err := Coerce(mustType(t, "uint8", nil), 1)
		require.NoError(t, err)
		assert.Equal(t, uint8(1), v)

		v, err = Coerce(mustType(t, "uint256", nil), "1000000000000000000000")
		require.NoError(t, err)
		want, _ := new(big.Int).SetString("1000000000000000000000", 10)
		assert.Equal(t, want, v)

		v, err = Coerce(mustType(t, "int64", nil), float64(-3))
		require.NoError(t, err)
		assert.Equal(t, int64(-3), v)

		v, err = Coerce(mustType(t, "int8", nil), -128)
		require.NoError(t, err)
		assert.Equal(t, int8(-128), v)
		v, err = Coerce(mustType(t, "int8", nil), 127)
		require.NoError(t, err)
		assert.Equal(t, int8(127), v)

		minInt256 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
		v, err = Coerce(mustType(t, "int256", nil), minInt256.String())
		require.NoError(t, err)
		assert.Equal(t, minInt256, v)

		_, err = Coerce(mustType(t, "uint8", nil), 256)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = Coerce(mustType(t, "uint256", nil), -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = Coerce(mustType(t, "int8", nil), 128)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = Coerce(mustType(t, "int8", nil), -129)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = Coerce(mustType(t, "uint256", nil), 1.5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("addresses", func(t *testing.T) {
		addr := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
		v, err := Coerce(mustType(t, "address", nil), "0x5fbdb2315678afecb367f032d93f642f64180aa3")
		require.NoError(t, err)
		assert.Equal(t, addr, v)

		_, err = Coerce(mustType(t, "address", nil), "0x1234")
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})

	t.Run("bytes", func(t *testing.T) {
		v, err := Coerce(mustType(t, "bytes", nil), "0x0102")
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2}, v)

		v, err = Coerce(mustType(t, "bytes4", nil), "0xdeadbeef")
		require.NoError(t, err)
		assert.Equal(t, [4]byte{0xde, 0xad, 0xbe, 0xef}, v)

		_, err = Coerce(mustType(t, "bytes4", nil), "0xdead")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("lists", func(t *testing.T) {
		v, err := Coerce(mustType(t, "address[]", nil), []string{
			"0x0000000000000000000000000000000000000001",
			"0x0000000000000000000000000000000000000002",
		})
		require.NoError(t, err)
		assert.Equal(t, []common.Address{common.BigToAddress(big.NewInt(1)), common.BigToAddress(big.NewInt(2))}, v)

		_, err = Coerce(mustType(t, "uint256[2]", nil), []int{1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("tuples from maps and lists", func(t *testing.T) {
		typ := mustType(t, "tuple", []abi.ArgumentMarshaling{
			{Name: "handle", Type: "string"},
			{Name: "backModule", Type: "address"},
			{Name: "price", Type: "uint256"},
		})

		fromMap, err := Coerce(typ, map[string]any{
			"handle":     "alice",
			"backModule": "0x0000000000000000000000000000000000000003",
			"price":      "5",
		})
		require.NoError(t, err)

		fromList, err := Coerce(typ, []any{"alice", "0x0000000000000000000000000000000000000003", 5})
		require.NoError(t, err)
		assert.Equal(t, fromMap, fromList)

		handle, err := Field(fromMap, "handle")
		require.NoError(t, err)
		assert.Equal(t, "alice", handle)

		_, err = Field(fromMap, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = Coerce(typ, map[string]any{"handle": "alice"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := Coerce(mustType(t, "string", nil), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEncodeAndCallData(t *testing.T) {
	data, err := Encode([]string{"string", "string", "uint256"}, "alice", "ALC", "1000000000000000000")
	require.NoError(t, err)

	args := abi.Arguments{
		{Type: mustType(t, "string", nil)},
		{Type: mustType(t, "string", nil)},
		{Type: mustType(t, "uint256", nil)},
	}
	out, err := args.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, "alice", out[0])
	assert.Equal(t, "ALC", out[1])
	assert.Equal(t, "1000000000000000000", out[2].(*big.Int).String())

	_, err = Encode([]string{"notatype"}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	call, err := CallData(HubState, "setState", 1)
	require.NoError(t, err)
	assert.Equal(t, HubState.Methods["setState"].ID, call[:4])
	assert.Equal(t, byte(1), call[len(call)-1])

	_, err = CallData(HubState, "pause")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeployData(t *testing.T) {
	contractABI, err := ParseABI([]byte(`[{"type":"constructor","inputs":[{"name":"hub","type":"address"},{"name":"name","type":"string"}],"stateMutability":"nonpayable"}]`))
	require.NoError(t, err)

	bytecode := []byte{0x60, 0x80}
	hub := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	data, err := DeployData(contractABI, bytecode, []any{hub, "Hub"})
	require.NoError(t, err)
	assert.Equal(t, bytecode, data[:2])

	decoded, err := contractABI.Constructor.Inputs.Unpack(data[2:])
	require.NoError(t, err)
	assert.Equal(t, hub, decoded[0])
	assert.Equal(t, "Hub", decoded[1])

	_, err = DeployData(contractABI, bytecode, []any{hub})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParseABI(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

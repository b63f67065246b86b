package bindings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ParseABI parses a JSON ABI as stored in artifacts and deployment records.
func ParseABI(raw json.RawMessage) (abi.ABI, error) {
	if len(raw) == 0 {
		return abi.ABI{}, fmt.Errorf("%w: empty ABI", domain.ErrInvalidInput)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}

// DeployData appends the encoded constructor arguments to creation bytecode.
func DeployData(contractABI abi.ABI, bytecode []byte, args []any) ([]byte, error) {
	coerced, err := CoerceArgs(contractABI.Constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}
	packed, err := contractABI.Pack("", coerced...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack constructor arguments: %w", err)
	}
	data := make([]byte, 0, len(bytecode)+len(packed))
	data = append(data, bytecode...)
	return append(data, packed...), nil
}

// CallData encodes a method call.
func CallData(contractABI abi.ABI, method string, args ...any) ([]byte, error) {
	m, ok := contractABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: method %s is not in the ABI", domain.ErrNotFound, method)
	}
	coerced, err := CoerceArgs(m.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	data, err := contractABI.Pack(method, coerced...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return data, nil
}

// DecodeResult unpacks the return data of a method call.
func DecodeResult(contractABI abi.ABI, method string, data []byte) ([]any, error) {
	out, err := contractABI.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return out, nil
}

// Encode is abi.encode(values...) for a list of solidity type names.
func Encode(types []string, values ...any) ([]byte, error) {
	args := make(abi.Arguments, 0, len(types))
	for _, name := range types {
		typ, err := abi.NewType(name, "", nil)
		if err != nil {
			return nil, fmt.Errorf("%w: type %s: %w", domain.ErrInvalidInput, name, err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	coerced, err := CoerceArgs(args, values)
	if err != nil {
		return nil, err
	}
	return args.Pack(coerced...)
}

// Field returns a named field of a decoded tuple. name is the solidity field name.
func Field(tuple any, name string) (any, error) {
	rv := reflect.ValueOf(tuple)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a tuple", domain.ErrInvalidInput, tuple)
	}
	f := rv.FieldByName(abi.ToCamelCase(name))
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: tuple has no field %s", domain.ErrNotFound, name)
	}
	return f.Interface(), nil
}

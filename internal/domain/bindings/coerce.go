package bindings

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// CoerceArgs converts loosely typed values (strings, plain integers, maps for tuples)
// into the exact Go types the abi package expects for args.
func CoerceArgs(args abi.Arguments, values []any) ([]any, error) {
	if len(args) != len(values) {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", domain.ErrInvalidInput, len(args), len(values))
	}
	out := make([]any, len(values))
	for i, arg := range args {
		v, err := Coerce(arg.Type, values[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, arg.Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

// Coerce converts a single value to the Go representation of t.
func Coerce(t abi.Type, v any) (any, error) {
	rv, err := coerce(t, v)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

func coerce(t abi.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil value", domain.ErrInvalidInput)
	}
	target := t.GetType()
	if rv := reflect.ValueOf(v); rv.Type() == target {
		return rv, nil
	}

	switch t.T {
	case abi.AddressTy:
		addr, err := toAddress(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(addr), nil

	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %T is not a bool", domain.ErrInvalidInput, v)
		}
		return reflect.ValueOf(b), nil

	case abi.StringTy:
		switch s := v.(type) {
		case string:
			return reflect.ValueOf(s), nil
		case fmt.Stringer:
			return reflect.ValueOf(s.String()), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: %T is not a string", domain.ErrInvalidInput, v)

	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return intValue(t, target, n)

	case abi.BytesTy:
		b, err := toBytes(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil

	case abi.FixedBytesTy:
		b, err := toBytes(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) != t.Size {
			return reflect.Value{}, fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrInvalidInput, t.Size, len(b))
		}
		arr := reflect.New(target).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr, nil

	case abi.SliceTy, abi.ArrayTy:
		src := reflect.ValueOf(v)
		if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
			return reflect.Value{}, fmt.Errorf("%w: %T is not a list", domain.ErrInvalidInput, v)
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(target, src.Len(), src.Len())
		} else {
			if src.Len() != t.Size {
				return reflect.Value{}, fmt.Errorf("%w: expected %d elements, got %d", domain.ErrInvalidInput, t.Size, src.Len())
			}
			out = reflect.New(target).Elem()
		}
		for i := 0; i < src.Len(); i++ {
			elem, err := coerce(*t.Elem, src.Index(i).Interface())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil

	case abi.TupleTy:
		return coerceTuple(t, target, v)
	}

	return reflect.Value{}, fmt.Errorf("%w: unsupported abi type %s", domain.ErrInvalidInput, t.String())
}

// coerceTuple accepts a map keyed by the solidity field names, a positional list, or
// a struct whose field names match.
func coerceTuple(t abi.Type, target reflect.Type, v any) (reflect.Value, error) {
	out := reflect.New(target).Elem()
	src := reflect.ValueOf(v)

	for i, elem := range t.TupleElems {
		rawName := t.TupleRawNames[i]
		field := target.Field(i)

		var fv any
		switch src.Kind() {
		case reflect.Map:
			mv := src.MapIndex(reflect.ValueOf(rawName))
			if !mv.IsValid() {
				mv = src.MapIndex(reflect.ValueOf(field.Name))
			}
			if !mv.IsValid() {
				return reflect.Value{}, fmt.Errorf("%w: tuple field %s missing", domain.ErrInvalidInput, rawName)
			}
			fv = mv.Interface()
		case reflect.Slice, reflect.Array:
			if src.Len() != len(t.TupleElems) {
				return reflect.Value{}, fmt.Errorf("%w: tuple expects %d fields, got %d", domain.ErrInvalidInput, len(t.TupleElems), src.Len())
			}
			fv = src.Index(i).Interface()
		case reflect.Struct:
			sf := src.FieldByName(field.Name)
			if !sf.IsValid() {
				return reflect.Value{}, fmt.Errorf("%w: tuple field %s missing", domain.ErrInvalidInput, rawName)
			}
			fv = sf.Interface()
		default:
			return reflect.Value{}, fmt.Errorf("%w: %T cannot be used as a tuple", domain.ErrInvalidInput, v)
		}

		ev, err := coerce(*elem, fv)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", rawName, err)
		}
		out.Field(i).Set(ev)
	}
	return out, nil
}

func intValue(t abi.Type, target reflect.Type, n *big.Int) (reflect.Value, error) {
	if t.T == abi.UintTy && n.Sign() < 0 {
		return reflect.Value{}, fmt.Errorf("%w: negative value %s for %s", domain.ErrInvalidInput, n, t.String())
	}
	if !fitsInt(t, n) {
		return reflect.Value{}, fmt.Errorf("%w: %s overflows %s", domain.ErrInvalidInput, n, t.String())
	}

	if target == bigIntType {
		return reflect.ValueOf(new(big.Int).Set(n)), nil
	}
	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetUint(n.Uint64())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(n.Int64())
	default:
		return reflect.Value{}, fmt.Errorf("%w: unexpected integer type %s", domain.ErrInvalidInput, target)
	}
	return out, nil
}

// fitsInt reports whether n is within the range of an intN or uintN.
func fitsInt(t abi.Type, n *big.Int) bool {
	if t.T == abi.UintTy {
		return n.BitLen() <= t.Size
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	low := new(big.Int).Neg(limit)
	high := new(big.Int).Sub(limit, big.NewInt(1))
	return n.Cmp(low) >= 0 && n.Cmp(high) <= 0
}

func toBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, fmt.Errorf("%w: nil big.Int", domain.ErrInvalidInput)
		}
		return x, nil
	case big.Int:
		return &x, nil
	case string:
		n, ok := new(big.Int).SetString(x, 0)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, x)
		}
		return n, nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v is not an integer", domain.ErrInvalidInput, x)
		}
		n, _ := big.NewFloat(x).Int(nil)
		return n, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("%w: %T is not an integer", domain.ErrInvalidInput, v)
}

func toAddress(v any) (common.Address, error) {
	switch x := v.(type) {
	case common.Address:
		return x, nil
	case *common.Address:
		if x == nil {
			return common.Address{}, fmt.Errorf("%w: nil address", domain.ErrInvalidInput)
		}
		return *x, nil
	case string:
		return domain.ParseAddress(x)
	case [common.AddressLength]byte:
		return common.Address(x), nil
	}
	return common.Address{}, fmt.Errorf("%w: %T is not an address", domain.ErrInvalidAddress, v)
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		b, err := hexutil.Decode(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", domain.ErrInvalidInput, x, err)
		}
		return b, nil
	case common.Hash:
		return x.Bytes(), nil
	case common.Address:
		return x.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %T is not bytes", domain.ErrInvalidInput, v)
}

package bindings

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
)

// FormatValue renders an argument value for records and terminal output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case common.Address:
		return x.Hex()
	case *common.Address:
		if x == nil {
			return "<nil>"
		}
		return x.Hex()
	case *big.Int:
		return x.String()
	case []byte:
		return hexutil.Encode(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// FormatValues renders a list of values.
func FormatValues(values []any) []string {
	return lo.Map(values, func(v any, _ int) string { return FormatValue(v) })
}

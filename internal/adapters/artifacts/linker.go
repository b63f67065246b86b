package artifacts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Link returns the creation bytecode of artifact with every library placeholder
// replaced by the address given for that library.
func (r *Repository) Link(artifact *models.Artifact, libraries map[string]common.Address) ([]byte, error) {
	return Link(artifact, libraries)
}

// Link resolves linkReferences by offset. Any placeholder left afterwards, or any
// library without an address, is an error.
func Link(artifact *models.Artifact, libraries map[string]common.Address) ([]byte, error) {
	code := []byte(strings.TrimPrefix(artifact.Bytecode, "0x"))

	var missing []string
	for _, libs := range artifact.LinkReferences {
		for lib, refs := range libs {
			addr, ok := libraries[lib]
			if !ok {
				missing = append(missing, lib)
				continue
			}
			hexAddr := []byte(strings.ToLower(strings.TrimPrefix(addr.Hex(), "0x")))
			for _, ref := range refs {
				if ref.Length != common.AddressLength {
					return nil, fmt.Errorf("%s: link reference of %s has length %d", artifact.ContractName, lib, ref.Length)
				}
				start, end := 2*ref.Start, 2*(ref.Start+ref.Length)
				if start < 0 || end > len(code) {
					return nil, fmt.Errorf("%s: link reference of %s out of range", artifact.ContractName, lib)
				}
				copy(code[start:end], hexAddr)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%s: no address for libraries %s", artifact.ContractName, strings.Join(missing, ", "))
	}

	if i := strings.Index(string(code), "__"); i >= 0 {
		return nil, fmt.Errorf("%s: unresolved library placeholder at byte %d", artifact.ContractName, i/2)
	}

	out, err := hexutil.Decode("0x" + string(code))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid bytecode: %w", artifact.ContractName, err)
	}
	return out, nil
}

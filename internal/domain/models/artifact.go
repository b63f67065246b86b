package models

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// LinkReference is one placeholder slot of an unlinked library address in bytecode.
// Start and Length are byte offsets into the decoded bytecode.
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Artifact is a compiled contract as emitted by hardhat or foundry
type Artifact struct {
	ContractName string `json:"contractName"`
	SourceName   string `json:"sourceName,omitempty"`
	// Path is the artifact file the contract was loaded from
	Path string `json:"-"`

	ABI      abi.ABI         `json:"-"`
	RawABI   json.RawMessage `json:"abi"`
	Bytecode string          `json:"bytecode"`

	// LinkReferences maps source file → library name → placeholder slots
	LinkReferences map[string]map[string][]LinkReference `json:"linkReferences,omitempty"`
}

// Libraries returns the names of the libraries the bytecode must be linked against.
func (a *Artifact) Libraries() []string {
	var names []string
	for _, libs := range a.LinkReferences {
		for name := range libs {
			names = append(names, name)
		}
	}
	return names
}

// NeedsLinking reports whether the bytecode still contains library placeholders.
func (a *Artifact) NeedsLinking() bool {
	return len(a.LinkReferences) > 0
}

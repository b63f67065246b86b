package domain

import (
	"fmt"
	"strings"
)

// ProtocolState mirrors the hub's on-chain state enum. The numeric values are the
// uint8 values the contract stores.
type ProtocolState uint8

const (
	ProtocolStatePaused ProtocolState = iota
	ProtocolStateUnpaused
	ProtocolStateBuidlingPaused
	ProtocolStateFundingPaused
	ProtocolStateDAOFactoryPaused
)

var protocolStateNames = map[ProtocolState]string{
	ProtocolStatePaused:           "paused",
	ProtocolStateUnpaused:         "unpaused",
	ProtocolStateBuidlingPaused:   "buidling-paused",
	ProtocolStateFundingPaused:    "funding-paused",
	ProtocolStateDAOFactoryPaused: "dao-factory-paused",
}

// ProtocolStates lists every state in enum order.
func ProtocolStates() []ProtocolState {
	return []ProtocolState{
		ProtocolStatePaused,
		ProtocolStateUnpaused,
		ProtocolStateBuidlingPaused,
		ProtocolStateFundingPaused,
		ProtocolStateDAOFactoryPaused,
	}
}

func (s ProtocolState) String() string {
	if name, ok := protocolStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Valid reports whether s is a known state.
func (s ProtocolState) Valid() bool {
	_, ok := protocolStateNames[s]
	return ok
}

// ParseProtocolState accepts the kebab-case name ("funding-paused"), the enum name
// ("FundingPaused") or the numeric value.
func ParseProtocolState(s string) (ProtocolState, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.TrimSpace(s)))
	for _, state := range ProtocolStates() {
		if strings.ReplaceAll(state.String(), "-", "") == norm || fmt.Sprint(uint8(state)) == norm {
			return state, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown protocol state %q", ErrInvalidInput, s)
}

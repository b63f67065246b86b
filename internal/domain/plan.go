package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// Arg is a constructor argument: either a literal value or the address of another
// contract in the same plan.
type Arg struct {
	Value any
	Ref   string
}

// Literal wraps a plain constructor argument.
func Literal(v any) Arg { return Arg{Value: v} }

// AddressOf refers to the (possibly not yet deployed) address of a contract in the plan.
func AddressOf(name string) Arg { return Arg{Ref: name} }

// IsRef reports whether the argument points at another contract of the plan.
func (a Arg) IsRef() bool { return a.Ref != "" }

// ContractSpec describes one contract-creation transaction of a deployment.
type ContractSpec struct {
	// Name is the artifact/contract name, e.g. "BuidlHub".
	Name string
	// Alias is the key used in the address book, defaults to Name.
	Alias string
	Args  []Arg
	// Libraries lists plan entries whose addresses are linked into this contract's bytecode.
	Libraries []string
}

// Key returns the address book key of the spec.
func (s ContractSpec) Key() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// PlannedDeployment is a ContractSpec bound to its reserved nonce and predicted address.
type PlannedDeployment struct {
	ContractSpec
	Index   int
	Nonce   uint64
	Address common.Address
}

// DeploymentPlan is the first phase of a deployment: every address of a fixed
// deployment order, computed before anything is submitted.
type DeploymentPlan struct {
	Sender     common.Address
	StartNonce uint64
	Steps      []PlannedDeployment

	byName map[string]int
}

// NewDeploymentPlan reserves one nonce per spec, in order, and precomputes the address each
// contract will receive.
func NewDeploymentPlan(sender common.Address, counter *NonceCounter, specs []ContractSpec) (*DeploymentPlan, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: empty deployment plan", ErrInvalidInput)
	}

	plan := &DeploymentPlan{
		Sender:     sender,
		StartNonce: counter.Next(),
		Steps:      make([]PlannedDeployment, 0, len(specs)),
		byName:     make(map[string]int, len(specs)),
	}

	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: contract #%d has no name", ErrInvalidInput, i)
		}
		if _, dup := plan.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: contract %s appears twice", ErrInvalidInput, spec.Name)
		}
		plan.byName[spec.Name] = i
	}

	for i, spec := range specs {
		for _, arg := range spec.Args {
			if arg.IsRef() {
				if _, ok := plan.byName[arg.Ref]; !ok {
					return nil, fmt.Errorf("%w: %s references unknown contract %s", ErrInvalidInput, spec.Name, arg.Ref)
				}
			}
		}
		for _, lib := range spec.Libraries {
			idx, ok := plan.byName[lib]
			if !ok {
				return nil, fmt.Errorf("%w: %s links unknown library %s", ErrInvalidInput, spec.Name, lib)
			}
			if idx >= i {
				return nil, fmt.Errorf("%w: library %s must be deployed before %s", ErrInvalidInput, lib, spec.Name)
			}
		}
	}

	// Nonces are reserved only once the whole plan is known to be valid.
	for i, spec := range specs {
		nonce := counter.Reserve()
		plan.Steps = append(plan.Steps, PlannedDeployment{
			ContractSpec: spec,
			Index:        i,
			Nonce:        nonce,
			Address:      PrecomputeAddress(sender, nonce),
		})
	}

	return plan, nil
}

// AddressOf returns the predicted address of a contract in the plan.
func (p *DeploymentPlan) AddressOf(name string) (common.Address, bool) {
	idx, ok := p.byName[name]
	if !ok {
		return common.Address{}, false
	}
	return p.Steps[idx].Address, true
}

// Step returns the planned deployment of a contract.
func (p *DeploymentPlan) Step(name string) (PlannedDeployment, bool) {
	idx, ok := p.byName[name]
	if !ok {
		return PlannedDeployment{}, false
	}
	return p.Steps[idx], true
}

// ResolveArgs replaces contract references with their predicted addresses.
func (p *DeploymentPlan) ResolveArgs(step PlannedDeployment) []any {
	return lo.Map(step.Args, func(arg Arg, _ int) any {
		if arg.IsRef() {
			addr, _ := p.AddressOf(arg.Ref)
			return addr
		}
		return arg.Value
	})
}

// LibraryAddresses returns the addresses to link into a step's bytecode, keyed by library name.
func (p *DeploymentPlan) LibraryAddresses(step PlannedDeployment) map[string]common.Address {
	libs := make(map[string]common.Address, len(step.Libraries))
	for _, lib := range step.Libraries {
		libs[lib], _ = p.AddressOf(lib)
	}
	return libs
}

// EndNonce is the nonce following the last planned transaction.
func (p *DeploymentPlan) EndNonce() uint64 {
	return p.StartNonce + uint64(len(p.Steps))
}

// AddressBook returns the name to address mapping of the whole plan, merged with extra entries.
func (p *DeploymentPlan) AddressBook(extra map[string]common.Address) map[string]common.Address {
	book := make(map[string]common.Address, len(p.Steps)+len(extra))
	for _, step := range p.Steps {
		book[step.Key()] = step.Address
	}
	for k, v := range extra {
		book[k] = v
	}
	return book
}

package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
)

// ShowAddressesParams contains parameters for showing addresses
type ShowAddressesParams struct{}

// AddressEntry is one named address, with its deployment record when one exists
type AddressEntry struct {
	Key     string
	Address string
	Record  *models.DeploymentRecord
}

// ShowAddressesResult contains the address book of the network
type ShowAddressesResult struct {
	Network *config.Network
	Path    string
	Entries []AddressEntry
	// Records lists deployment records, including mocks absent from the address book
	Records []*models.DeploymentRecord
}

// ShowAddresses reads the address book and the deployment records of a network
type ShowAddresses struct {
	cfg       *config.RuntimeConfig
	addresses AddressBookRepository
	records   DeploymentRepository
}

// NewShowAddresses creates a new ShowAddresses use case
func NewShowAddresses(cfg *config.RuntimeConfig, addresses AddressBookRepository, records DeploymentRepository) *ShowAddresses {
	return &ShowAddresses{cfg: cfg, addresses: addresses, records: records}
}

// Run executes the use case
func (uc *ShowAddresses) Run(ctx context.Context, params ShowAddressesParams) (*ShowAddressesResult, error) {
	book, err := uc.addresses.LoadAddressBook(ctx)
	if err != nil {
		return nil, err
	}

	records, err := uc.records.ListRecords(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	byAddress := make(map[string]*models.DeploymentRecord, len(records))
	for _, r := range records {
		byAddress[r.Address] = r
	}

	keys := make([]string, 0, len(book))
	for k := range book {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &ShowAddressesResult{Network: uc.cfg.Network, Path: uc.addresses.Path(), Records: records}
	for _, k := range keys {
		result.Entries = append(result.Entries, AddressEntry{Key: k, Address: book[k], Record: byAddress[book[k]]})
	}
	return result, nil
}

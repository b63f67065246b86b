package deployments

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/buidlhub/buidl-cli/internal/usecase"
)

// AddressBookFile stores the name→address artifact. It is always written whole.
type AddressBookFile struct {
	path string
}

// NewAddressBookFile creates an address book stored at path
func NewAddressBookFile(path string) *AddressBookFile {
	return &AddressBookFile{path: path}
}

// NewAddressBookFileFromConfig creates the address book of the selected network
func NewAddressBookFileFromConfig(cfg *config.RuntimeConfig) *AddressBookFile {
	return NewAddressBookFile(cfg.AddressesFile)
}

// Path returns the file location
func (a *AddressBookFile) Path() string {
	return a.path
}

// LoadAddressBook reads the address book
func (a *AddressBookFile) LoadAddressBook(ctx context.Context) (models.AddressBook, error) {
	var book models.AddressBook
	if err := loadFile(a.path, &book); err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.ArtifactMissingError{
				Artifact:     "address book",
				Path:         a.path,
				Prerequisite: "buidl deploy",
			}
		}
		return nil, fmt.Errorf("failed to read address book: %w", err)
	}
	return book, nil
}

// SaveAddressBook replaces the address book
func (a *AddressBookFile) SaveAddressBook(ctx context.Context, book models.AddressBook) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return saveFile(a.path, book)
}

// RemoveAddressBook deletes the address book if it exists
func (a *AddressBookFile) RemoveAddressBook(ctx context.Context) error {
	if err := os.Remove(a.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove address book: %w", err)
	}
	return nil
}

var _ usecase.AddressBookRepository = (*AddressBookFile)(nil)

package usecase

import (
	"context"
	"math/big"

	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainClient submits transactions and reads chain state for the configured accounts
type ChainClient interface {
	ChainID(ctx context.Context) (uint64, error)
	PendingNonce(ctx context.Context, account common.Address) (uint64, error)
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	Send(ctx context.Context, req *models.TxRequest) (*models.SentTx, error)
	// WaitForConfirmations blocks until the transaction has the given number of
	// confirmations. It has no timeout of its own.
	WaitForConfirmations(ctx context.Context, txHash common.Hash, confirmations uint64) (*types.Receipt, error)
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	// GetArtifact returns an *domain.ArtifactMissingError when no artifact has the name
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
	// Link returns the creation bytecode with every library placeholder resolved
	Link(artifact *models.Artifact, libraries map[string]common.Address) ([]byte, error)
}

// DeploymentRepository persists one DeploymentRecord per contract and network
type DeploymentRepository interface {
	// GetRecord returns an error wrapping domain.ErrNotFound when there is no record
	GetRecord(ctx context.Context, name string) (*models.DeploymentRecord, error)
	ListRecords(ctx context.Context) ([]*models.DeploymentRecord, error)
	SaveRecord(ctx context.Context, record *models.DeploymentRecord) error
	// Archive moves the records of names aside so a fresh run starts without them
	Archive(ctx context.Context, names []string) error
}

// AddressBookRepository reads and replaces the name→address artifact
type AddressBookRepository interface {
	// LoadAddressBook returns an *domain.ArtifactMissingError when the file is absent
	LoadAddressBook(ctx context.Context) (models.AddressBook, error)
	SaveAddressBook(ctx context.Context, book models.AddressBook) error
	RemoveAddressBook(ctx context.Context) error
	Path() string
}

// Confirmer asks the operator before irreversible actions
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

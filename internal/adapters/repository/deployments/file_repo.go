package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/buidlhub/buidl-cli/internal/usecase"
)

const (
	ChainIDFile = ".chainId"
	PreviousDir = ".previous"
)

// FileRepository stores one DeploymentRecord per contract in
// <deployments>/<network>/<Name>.json, the layout hardhat-deploy uses.
type FileRepository struct {
	dir     string
	chainID uint64
	mu      sync.RWMutex
}

// NewFileRepository creates a repository for one network directory
func NewFileRepository(dir string, chainID uint64) *FileRepository {
	return &FileRepository{dir: dir, chainID: chainID}
}

// NewFileRepositoryFromConfig creates a new FileRepository from RuntimeConfig
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(filepath.Join(cfg.DeploymentsDir, cfg.Network.Name), cfg.Network.ChainID)
}

// Dir returns the network directory
func (m *FileRepository) Dir() string {
	return m.dir
}

func (m *FileRepository) recordPath(name string) string {
	return filepath.Join(m.dir, name+".json")
}

// GetRecord loads the record of a contract
func (m *FileRepository) GetRecord(ctx context.Context, name string) (*models.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var record models.DeploymentRecord
	if err := loadFile(m.recordPath(name), &record); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: deployment record of %s", domain.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to load deployment record of %s: %w", name, err)
	}
	if record.Name == "" {
		record.Name = name
	}
	return &record, nil
}

// ListRecords loads every record of the network, sorted by nonce then name
func (m *FileRepository) ListRecords(ctx context.Context) ([]*models.DeploymentRecord, error) {
	m.mu.RLock()
	entries, err := os.ReadDir(m.dir)
	m.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", m.dir, err)
	}

	var records []*models.DeploymentRecord
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || name == config.AddressesFileName {
			continue
		}
		record, err := m.GetRecord(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		if record.Address == "" {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Nonce != records[j].Nonce {
			return records[i].Nonce < records[j].Nonce
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// SaveRecord writes a record, replacing any previous one for the same contract
func (m *FileRepository) SaveRecord(ctx context.Context, record *models.DeploymentRecord) error {
	if record.Name == "" {
		return fmt.Errorf("%w: record has no name", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}
	if err := m.writeChainID(); err != nil {
		return err
	}
	return saveFile(m.recordPath(record.Name), record)
}

// Archive moves the records of names into .previous/, replacing what was there.
func (m *FileRepository) Archive(ctx context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := filepath.Join(m.dir, PreviousDir)
	for _, name := range names {
		src := m.recordPath(name)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.MkdirAll(prev, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", prev, err)
		}
		if err := os.Rename(src, filepath.Join(prev, name+".json")); err != nil {
			return fmt.Errorf("failed to archive record of %s: %w", name, err)
		}
	}
	return nil
}

// writeChainID records the chain of the network directory once
func (m *FileRepository) writeChainID() error {
	if m.chainID == 0 {
		return nil
	}
	path := filepath.Join(m.dir, ChainIDFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeAtomic(path, []byte(strconv.FormatUint(m.chainID, 10)))
}

// loadFile loads a JSON file
func loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// saveFile saves data to a JSON file
func saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

// writeAtomic writes to a temp file first, then renames it over path
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)

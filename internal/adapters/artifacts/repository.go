package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/buidlhub/buidl-cli/internal/domain/models"
	"github.com/samber/lo"
)

// Repository discovers and indexes compiled contract artifacts. It understands the
// hardhat layout (artifacts/**/<Name>.json) and the foundry layout (out/<File>.sol/<Name>.json).
type Repository struct {
	dirs []string

	mu            sync.RWMutex
	indexed       bool
	contractNames map[string][]string // contract name -> artifact paths
}

// NewRepository creates a repository over the configured artifacts directory,
// falling back to foundry's out/ directory.
func NewRepository(cfg *config.RuntimeConfig) *Repository {
	return NewRepositoryForDirs(cfg.ArtifactsDir, filepath.Join(cfg.ProjectRoot, "out"))
}

// NewRepositoryForDirs creates a repository over explicit directories, searched in order.
func NewRepositoryForDirs(dirs ...string) *Repository {
	return &Repository{dirs: dirs}
}

// rawArtifact covers both the hardhat and foundry artifact formats
type rawArtifact struct {
	ContractName   string                                       `json:"contractName"`
	SourceName     string                                       `json:"sourceName"`
	ABI            json.RawMessage                              `json:"abi"`
	Bytecode       json.RawMessage                              `json:"bytecode"`
	LinkReferences map[string]map[string][]models.LinkReference `json:"linkReferences"`
}

// foundryBytecode is the object form foundry uses for bytecode
type foundryBytecode struct {
	Object         string                                       `json:"object"`
	LinkReferences map[string]map[string][]models.LinkReference `json:"linkReferences"`
}

// Index walks the artifact directories and records every artifact by contract name.
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contractNames = make(map[string][]string)
	for _, dir := range r.dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}
			name := strings.TrimSuffix(filepath.Base(path), ".json")
			r.contractNames[name] = append(r.contractNames[name], path)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to index artifacts in %s: %w", dir, err)
		}
	}
	r.indexed = true
	return nil
}

// Names returns every indexed contract name.
func (r *Repository) Names(ctx context.Context) ([]string, error) {
	if err := r.ensureIndexed(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.contractNames), nil
}

func (r *Repository) ensureIndexed() error {
	r.mu.RLock()
	indexed := r.indexed
	r.mu.RUnlock()
	if indexed {
		return nil
	}
	return r.Index()
}

// GetArtifact loads the artifact of a contract by name.
func (r *Repository) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	if err := r.ensureIndexed(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	paths := r.contractNames[name]
	r.mu.RUnlock()

	switch len(paths) {
	case 0:
		return nil, &domain.ArtifactMissingError{
			Artifact:     fmt.Sprintf("compiled artifact of %s", name),
			Path:         strings.Join(r.dirs, ", "),
			Prerequisite: "npx hardhat compile",
		}
	case 1:
		return loadArtifact(name, paths[0])
	default:
		return nil, fmt.Errorf("%w: contract name %s is ambiguous: %s", domain.ErrInvalidInput, name, strings.Join(paths, ", "))
	}
}

func loadArtifact(name, path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	artifact := &models.Artifact{
		ContractName:   lo.CoalesceOrEmpty(raw.ContractName, name),
		SourceName:     raw.SourceName,
		Path:           path,
		RawABI:         raw.ABI,
		LinkReferences: raw.LinkReferences,
	}

	// hardhat stores bytecode as a string, foundry as an object
	var bytecode string
	if err := json.Unmarshal(raw.Bytecode, &bytecode); err != nil {
		var fb foundryBytecode
		if err := json.Unmarshal(raw.Bytecode, &fb); err != nil {
			return nil, fmt.Errorf("artifact %s: unrecognized bytecode field", path)
		}
		bytecode = fb.Object
		artifact.LinkReferences = fb.LinkReferences
	}
	if bytecode == "" || bytecode == "0x" {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", path)
	}
	artifact.Bytecode = bytecode

	if artifact.ABI, err = bindings.ParseABI(raw.ABI); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	return artifact, nil
}

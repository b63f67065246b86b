package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/buidlhub/buidl-cli/internal/domain/bindings"
	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
)

// SeedFixtures are the amounts and texts used to create demo data
type SeedFixtures struct {
	UserMint       string
	GovernanceMint string
	VaultDeposit   string
	SimulatedYield string
	TokenPriceUsd  string
	MetadataURI    string
	GithubUsername string
	GithubRepo     string
}

// SeedProtocolParams contains parameters for seeding
type SeedProtocolParams struct {
	Fixtures SeedFixtures
}

// SeededProfile describes the demo data created for one user
type SeededProfile struct {
	User      common.Address
	ProfileID uint64
	Handle    string
	Vault     common.Address
	Project   string
}

// SeedProtocolResult contains the result of seeding
type SeedProtocolResult struct {
	Profiles     []*SeededProfile
	Transactions int
}

// SeedProtocol populates a configured development deployment with profiles,
// yield trusts and projects, one per seed user.
type SeedProtocol struct {
	cfg      *config.RuntimeConfig
	chain    ChainClient
	records  DeploymentRepository
	progress ProgressSink
	log      *slog.Logger
}

// NewSeedProtocol creates a new SeedProtocol use case
func NewSeedProtocol(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	records DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *SeedProtocol {
	return &SeedProtocol{cfg: cfg, chain: chain, records: records, progress: progress, log: log}
}

type seedContracts struct {
	hub          *deployedContract
	mockERC20    *deployedContract
	mockPool     *deployedContract
	vault        *deployedContract
	mockaToken   common.Address
	backModule   common.Address
	investModule common.Address
}

type seedAmounts struct {
	userMint, governanceMint, vaultDeposit, simulatedYield, tokenPrice *big.Int
}

// Run executes the use case
func (uc *SeedProtocol) Run(ctx context.Context, params SeedProtocolParams) (*SeedProtocolResult, error) {
	network := uc.cfg.Network
	governance, err := requireAccount(network, uc.cfg.Accounts.Governance, "governance")
	if err != nil {
		return nil, err
	}
	users := uc.cfg.Accounts.Users
	if len(users) == 0 {
		return nil, &domain.ConfigurationError{Network: network.Name, Key: "accounts.users", Reason: "no seed users configured"}
	}

	contracts, err := uc.loadContracts(ctx)
	if err != nil {
		return nil, err
	}
	amounts, err := parseSeedAmounts(params.Fixtures)
	if err != nil {
		return nil, err
	}
	if _, err := checkChainID(ctx, uc.chain, network); err != nil {
		return nil, err
	}

	tx := newTransactor(uc.chain, uc.cfg.RequiredConfirmations(), uc.progress, uc.log)
	result := &SeedProtocolResult{}
	gov := governance.Address
	hub := contracts.hub
	token := contracts.mockERC20

	run := func(c *contractCall) error {
		if _, err := tx.call(ctx, c); err != nil {
			return err
		}
		result.Transactions++
		return nil
	}
	on := func(target *deployedContract, from common.Address, step, method string, args ...any) *contractCall {
		return &contractCall{Step: step, From: from, To: target.Address, ABI: target.ABI, Method: method, Args: args}
	}

	uc.progress.Info("Whitelisting seed users and minting them mock tokens")
	for _, user := range users {
		if err := run(on(hub, gov, "whitelist profile creator "+user.Address.Hex(), "whitelistProfileCreator", user.Address, true)); err != nil {
			return result, err
		}
		if err := run(on(token, gov, "mint mock tokens to "+user.Address.Hex(), "mint", user.Address, amounts.userMint)); err != nil {
			return result, err
		}
	}

	uc.progress.Info("Setting the aToken of the mock token")
	if err := run(on(hub, gov, "set aToken of MockERC20", "setAaveaToken", token.Address, contracts.mockaToken)); err != nil {
		return result, err
	}
	if err := run(on(token, gov, "mint mock tokens to governance", "mint", gov, amounts.governanceMint)); err != nil {
		return result, err
	}

	uc.progress.Info("Creating profiles, yield trusts and projects")
	for i, user := range users {
		profileID := uint64(i + 1)

		initData, err := bindings.Encode([]string{"string", "string", "uint256"},
			fmt.Sprintf("profile-%d-bucks", i), fmt.Sprintf("P%d", i), amounts.tokenPrice)
		if err != nil {
			return result, fmt.Errorf("failed to encode back module init data: %w", err)
		}

		handle := "profile-" + strings.ToLower(user.Address.Hex())[:10]
		profile := map[string]any{
			"to":                 user.Address,
			"handle":             handle,
			"metadataURI":        params.Fixtures.MetadataURI,
			"backModule":         contracts.backModule,
			"backModuleInitData": initData,
			"profileType":        0,
			"githubUsername":     params.Fixtures.GithubUsername,
		}
		if err := run(on(hub, user.Address, "create profile "+handle, "createProfile", profile)); err != nil {
			return result, err
		}

		trust := map[string]any{
			"profileId": profileID,
			"currency":  token.Address,
			"vault":     common.Address{},
		}
		if err := run(on(hub, user.Address, fmt.Sprintf("create yield trust of profile %d", profileID), "createYieldTrust", trust)); err != nil {
			return result, err
		}

		vault, err := uc.yieldTrustVault(ctx, tx, hub, profileID, token.Address)
		if err != nil {
			return result, err
		}
		vaultContract := &deployedContract{Name: ContractYieldTrustVault, Address: vault, ABI: contracts.vault.ABI}

		if err := run(on(token, gov, "approve vault "+vault.Hex(), "approve", vault, amounts.vaultDeposit)); err != nil {
			return result, err
		}
		if err := run(on(vaultContract, gov, "deposit into vault "+vault.Hex(), "deposit", amounts.vaultDeposit, gov)); err != nil {
			return result, err
		}
		if err := run(on(contracts.mockPool, gov, "simulate yield for vault "+vault.Hex(), "simulateYield", vault, amounts.simulatedYield)); err != nil {
			return result, err
		}

		projectHandle := fmt.Sprintf("project%d", profileID)
		project := map[string]any{
			"profileId":            profileID,
			"metadataURI":          params.Fixtures.MetadataURI,
			"handle":               projectHandle,
			"projectSize":          0,
			"projectState":         0,
			"projectType":          0,
			"investModule":         contracts.investModule,
			"investModuleInitData": common.Address{}.Bytes(),
			"githubRepoName":       params.Fixtures.GithubRepo,
		}
		if err := run(on(hub, user.Address, "create project "+projectHandle, "createProject", project)); err != nil {
			return result, err
		}

		result.Profiles = append(result.Profiles, &SeededProfile{
			User:      user.Address,
			ProfileID: profileID,
			Handle:    handle,
			Vault:     vault,
			Project:   projectHandle,
		})
	}

	return result, nil
}

func (uc *SeedProtocol) loadContracts(ctx context.Context) (*seedContracts, error) {
	c := &seedContracts{}
	var err error
	if c.hub, err = loadContract(ctx, uc.records, ContractBuidlHub, PrerequisiteDeploy); err != nil {
		return nil, err
	}
	if err := uc.requireConfigured(ctx, c.hub.Address); err != nil {
		return nil, err
	}
	if c.vault, err = loadContract(ctx, uc.records, ContractYieldTrustVault, PrerequisiteDeploy); err != nil {
		return nil, err
	}
	if c.backModule, err = recordAddress(ctx, uc.records, ContractBackERC20ICOModule, PrerequisiteDeploy); err != nil {
		return nil, err
	}
	if c.investModule, err = recordAddress(ctx, uc.records, ContractBackerOnlyInvestModule, PrerequisiteDeploy); err != nil {
		return nil, err
	}
	if c.mockERC20, err = loadContract(ctx, uc.records, ContractMockERC20, PrerequisiteMocks); err != nil {
		return nil, err
	}
	if c.mockPool, err = loadContract(ctx, uc.records, ContractMockPool, PrerequisiteMocks); err != nil {
		return nil, err
	}
	if c.mockaToken, err = recordAddress(ctx, uc.records, ContractMockaToken, PrerequisiteMocks); err != nil {
		return nil, err
	}
	return c, nil
}

// requireConfigured checks that configure completed against this hub and not a previous one.
func (uc *SeedProtocol) requireConfigured(ctx context.Context, hub common.Address) error {
	missing := &domain.ArtifactMissingError{
		Artifact:     fmt.Sprintf("configuration record of %s %s", ContractBuidlHub, hub.Hex()),
		Prerequisite: PrerequisiteConfigure,
	}
	record, err := uc.records.GetRecord(ctx, ConfigurationRecord)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return missing
		}
		return err
	}
	target, err := domain.ParseAddress(record.Target)
	if err != nil || target != hub {
		return missing
	}
	return nil
}

// yieldTrustVault reads the vault the hub created for a profile's yield trust.
func (uc *SeedProtocol) yieldTrustVault(ctx context.Context, tx *transactor, hub *deployedContract, profileID uint64, currency common.Address) (common.Address, error) {
	out, err := tx.read(ctx, hub.Address, hub.ABI, "getYieldTrust", profileID, currency)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read yield trust of profile %d: %w", profileID, err)
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("getYieldTrust returned nothing for profile %d", profileID)
	}
	field, err := bindings.Field(out[0], "vault")
	if err != nil {
		return common.Address{}, err
	}
	vault, ok := field.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected vault type %T", field)
	}
	return vault, nil
}

func parseSeedAmounts(f SeedFixtures) (*seedAmounts, error) {
	parse := func(key, v string) (*big.Int, error) {
		n, err := bindings.ParseEther(v)
		if err != nil {
			return nil, &domain.ConfigurationError{Key: "seed." + key, Reason: err.Error()}
		}
		return n, nil
	}
	a := &seedAmounts{}
	var err error
	if a.userMint, err = parse("user_mint", f.UserMint); err != nil {
		return nil, err
	}
	if a.governanceMint, err = parse("governance_mint", f.GovernanceMint); err != nil {
		return nil, err
	}
	if a.vaultDeposit, err = parse("vault_deposit", f.VaultDeposit); err != nil {
		return nil, err
	}
	if a.simulatedYield, err = parse("simulated_yield", f.SimulatedYield); err != nil {
		return nil, err
	}
	if a.tokenPrice, err = parse("token_price_usd", f.TokenPriceUsd); err != nil {
		return nil, err
	}
	return a, nil
}

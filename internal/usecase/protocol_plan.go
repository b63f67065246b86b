package usecase

import (
	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

// Contract names of the BuidlHub protocol, as found in the compiled artifacts.
const (
	ContractBuidlingLogic          = "BuidlingLogic"
	ContractFundingLogic           = "FundingLogic"
	ContractBuidlHub               = "BuidlHub"
	ContractBackNFT                = "BackNFT"
	ContractInvestNFT              = "InvestNFT"
	ContractYieldTrustVault        = "YieldTrustVault"
	ContractBackerOnlyInvestModule = "BackerOnlyInvestModule"
	ContractBackERC20ICOModule     = "BackERC20ICOModule"
)

// Development mocks, deployed to local networks by the contracts project.
const (
	ContractLinkToken                 = "LinkToken"
	ContractMockERC20                 = "MockERC20"
	ContractMockPoolAddressesProvider = "MockPoolAddressesProvider"
	ContractMockaToken                = "MockaToken"
	ContractMockV3Aggregator          = "MockV3Aggregator"
	ContractMockPool                  = "MockPool"
)

// Address book keys written to addresses.json.
const (
	KeyHub                    = "hub"
	KeyBackNFT                = "backNFTAddress"
	KeyInvestNFT              = "investNFTAddress"
	KeyYieldTrustVault        = "ytVaultAddress"
	KeyBuidlingLogic          = "buidling-logic-lib"
	KeyFundingLogic           = "funding-logic-lib"
	KeyGovernance             = "governance"
	KeyBackerOnlyInvestModule = "backerOnlyInvestModule"
	KeyBackERC20ICOModule     = "backErc20IcoModule"
)

// Hub token metadata passed to the BuidlHub constructor.
const (
	HubName   = "BuidlHub"
	HubSymbol = "BUIDLIT"
)

// ProtocolSpecs returns the protocol contracts in deployment order. The hub takes
// the addresses of the NFT and vault implementations deployed after it, and those
// take the hub's address.
func ProtocolSpecs(governance common.Address) []domain.ContractSpec {
	hubRef := domain.AddressOf(ContractBuidlHub)
	return []domain.ContractSpec{
		{Name: ContractBuidlingLogic, Alias: KeyBuidlingLogic},
		{Name: ContractFundingLogic, Alias: KeyFundingLogic},
		{
			Name:  ContractBuidlHub,
			Alias: KeyHub,
			Args: []domain.Arg{
				domain.Literal(HubName),
				domain.Literal(HubSymbol),
				domain.Literal(governance),
				domain.AddressOf(ContractBackNFT),
				domain.AddressOf(ContractInvestNFT),
				domain.AddressOf(ContractYieldTrustVault),
			},
			Libraries: []string{ContractBuidlingLogic, ContractFundingLogic},
		},
		{Name: ContractBackNFT, Alias: KeyBackNFT, Args: []domain.Arg{hubRef}},
		{Name: ContractInvestNFT, Alias: KeyInvestNFT, Args: []domain.Arg{hubRef}},
		{Name: ContractYieldTrustVault, Alias: KeyYieldTrustVault, Args: []domain.Arg{hubRef}},
		{Name: ContractBackerOnlyInvestModule, Alias: KeyBackerOnlyInvestModule, Args: []domain.Arg{hubRef}},
		{Name: ContractBackERC20ICOModule, Alias: KeyBackERC20ICOModule, Args: []domain.Arg{hubRef}},
	}
}

// PlanProtocol runs phase one for the protocol: every address, from startNonce on.
func PlanProtocol(deployer, governance common.Address, startNonce uint64) (*domain.DeploymentPlan, error) {
	return domain.NewDeploymentPlan(deployer, domain.NewNonceCounter(startNonce), ProtocolSpecs(governance))
}

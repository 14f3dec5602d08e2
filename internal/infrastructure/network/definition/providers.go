package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"scm_client/internal/app/port"
	"scm_client/internal/domain/entity"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[string]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Rinkeby = entity.NetworkDefinition{
		ChainID:          4,
		Name:             "Rinkeby Testnet",
		Identifier:       "rinkeby",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://rinkeby.infura.io/v3/2dbea4f559d440e8bc4301a42368d298",
		BlockExplorerURL: "https://rinkeby.etherscan.io",
		Contracts: entity.ContractAddresses{
			WETH: "0xc778417E063141139Fce010982780140Aa0cD5Ab",
			SCM:  "0xd19C61495084c4ebCe9e3Fa4140b3830957ef852",
			ICO:  "0xdFb81Af3E53B1b95814c518bc7d503Abc756Fe08",
		},
	}
	// Localhost is a hardhat node. The contracts are deployed per session by the
	// deploy script, so their addresses have to come from configuration.
	Localhost = entity.NetworkDefinition{
		ChainID:       31337,
		Name:          "Hardhat Localhost",
		Identifier:    "localhost",
		NativeSymbol:  "ETH",
		PrimaryRPCURL: "http://localhost:8545",
	}
)

var allKnownDefinitions = map[string]entity.NetworkDefinition{ //nolint:gochecknoglobals // Global for definitions
	Rinkeby.Identifier:   Rinkeby,
	Localhost.Identifier: Localhost,
}

// NewNetworkDefinitionProvider creates a new NetworkDefinitionProvider.
func NewNetworkDefinitionProvider(log port.Logger) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: allKnownDefinitions,
	}
	p.logger.Debug(fmt.Sprintf("NetworkDefinitionProvider initialized. Known networks: %d", len(p.allNetworkDefs)))
	return p
}

// GetAllNetworkDefinitions returns every known network definition sorted by identifier.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.allNetworkDefs))
	for _, def := range p.allNetworkDefs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Identifier < defs[j].Identifier })
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allNetworkDefs[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		p.logger.Warn(fmt.Sprintf("No network definition exists for '%s'.", identifier))
		return entity.NetworkDefinition{}, false
	}
	// Slices are copied so callers cannot modify the predefined definitions.
	def.FallbackRPCURLs = append([]string(nil), def.FallbackRPCURLs...)
	return def, true
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.allNetworkDefs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)

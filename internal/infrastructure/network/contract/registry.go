package contract

import (
	"fmt"
	"strings"

	"scm_client/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Registry implements port.ContractRegistry for the WETH, SCM and ICO contracts of one deployment.
type Registry struct {
	contracts map[entity.ContractName]entity.ContractDefinition
}

// NewRegistry parses the addresses and ABIs up front so that a broken constant fails at startup.
func NewRegistry(addresses entity.ContractAddresses) (*Registry, error) {
	erc20, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, entity.NewClientError(entity.ConfigError, "parse ERC20 ABI", err)
	}
	ico, err := abi.JSON(strings.NewReader(icoABI))
	if err != nil {
		return nil, entity.NewClientError(entity.ConfigError, "parse ICO ABI", err)
	}

	r := &Registry{contracts: make(map[entity.ContractName]entity.ContractDefinition, 3)}
	entries := []struct {
		name    entity.ContractName
		address string
		abi     abi.ABI
	}{
		{entity.WETHContract, addresses.WETH, erc20},
		{entity.SCMContract, addresses.SCM, erc20},
		{entity.ICOContract, addresses.ICO, ico},
	}
	for _, e := range entries {
		addr, err := parseContractAddress(e.name, e.address)
		if err != nil {
			return nil, err
		}
		r.contracts[e.name] = entity.ContractDefinition{Name: e.name, Address: addr, ABI: e.abi}
	}
	return r, nil
}

func parseContractAddress(name entity.ContractName, address string) (common.Address, error) {
	op := fmt.Sprintf("%s address", name)
	if address == "" {
		return common.Address{}, entity.NewClientError(entity.ConfigError, op, fmt.Errorf("no address configured for %s", name))
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, entity.NewClientError(entity.ConfigError, op, fmt.Errorf("%q is not a valid address", address))
	}
	return common.HexToAddress(address), nil
}

// Contract returns the definition registered under name.
func (r *Registry) Contract(name entity.ContractName) (entity.ContractDefinition, error) {
	def, ok := r.contracts[name]
	if !ok {
		return entity.ContractDefinition{}, entity.NewClientError(entity.ConfigError, "contract lookup", fmt.Errorf("unknown contract %q", name))
	}
	return def, nil
}

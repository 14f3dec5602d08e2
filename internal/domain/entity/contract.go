package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ContractName is the logical name of a contract known to the registry.
type ContractName string

const (
	// WETHContract is the wrapped ether token accepted by the ICO.
	WETHContract ContractName = "weth"
	// SCMContract is the token minted by the ICO.
	SCMContract ContractName = "scm"
	// ICOContract is the sale contract.
	ICOContract ContractName = "ico"
)

// ContractDefinition couples a deployed address with the method interface used to talk to it.
type ContractDefinition struct {
	Name    ContractName
	Address common.Address
	ABI     abi.ABI
}

// NewIntent encodes a call of method with args into an unfilled transaction intent.
func (c ContractDefinition) NewIntent(method string, args ...any) (*TxIntent, error) {
	data, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.%s: %w", c.Name, method, err)
	}
	return &TxIntent{
		To:     c.Address,
		Method: method,
		Data:   data,
	}, nil
}

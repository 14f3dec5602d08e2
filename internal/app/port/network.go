package port

import (
	"context"
	"math/big"

	"scm_client/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// ChainClient defines the interface for interacting with an EVM network.
// The go-ethereum implementation lives in infrastructure/network/client.
type ChainClient interface {
	// Call executes a read-only contract method and returns the decoded outputs.
	Call(ctx context.Context, contract entity.ContractDefinition, method string, args ...any) ([]any, error)

	// Fill populates gas price, gas limit (by simulated execution) and the pending nonce of from.
	Fill(ctx context.Context, from common.Address, intent *entity.TxIntent) error

	// Send fills whatever the intent still lacks, signs it and broadcasts it.
	// It returns as soon as the node accepted the transaction.
	Send(ctx context.Context, signer Signer, intent *entity.TxIntent) (*entity.PendingTx, error)

	// WaitMined blocks until the transaction is included in a block.
	WaitMined(ctx context.Context, pending *entity.PendingTx) (*entity.TxReceipt, error)

	// ChainID returns the chain id transactions are signed for.
	ChainID() *big.Int
}

// ContractRegistry resolves logical contract names.
type ContractRegistry interface {
	Contract(name entity.ContractName) (entity.ContractDefinition, error)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all known network definitions.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)

	// GetNetworkDefinitionByChainID returns the known network using chainID.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

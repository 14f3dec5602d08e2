package port

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer holds the signing capability derived from a private key.
type Signer interface {
	// Address returns the account the signer sends from.
	Address() common.Address

	// SignTx signs tx for the given chain id.
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

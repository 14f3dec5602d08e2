package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxIntent is a contract call that has not been submitted yet.
// Nil Nonce, zero GasLimit and nil GasPrice are filled in by the chain client.
type TxIntent struct {
	From     common.Address
	To       common.Address
	Method   string
	Data     []byte
	Value    *big.Int
	Nonce    *uint64
	GasLimit uint64
	GasPrice *big.Int
}

// SetNonce overrides the nonce of the intent.
func (t *TxIntent) SetNonce(nonce uint64) {
	t.Nonce = &nonce
}

// PendingTx is a handle to a broadcast transaction that is not known to be mined yet.
type PendingTx struct {
	Hash     common.Hash
	Method   string
	To       common.Address
	Nonce    uint64
	GasLimit uint64
}

// TxReceipt is the outcome of a mined transaction.
type TxReceipt struct {
	TxHash      common.Hash
	BlockNumber *big.Int
	GasUsed     uint64
	Succeeded   bool
}

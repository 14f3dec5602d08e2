package service

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"scm_client/internal/app/port"
	"scm_client/internal/domain/entity"
	"scm_client/internal/infrastructure/network/contract"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var testAddresses = entity.ContractAddresses{
	WETH: "0xc778417E063141139Fce010982780140Aa0cD5Ab",
	SCM:  "0xd19C61495084c4ebCe9e3Fa4140b3830957ef852",
	ICO:  "0xdFb81Af3E53B1b95814c518bc7d503Abc756Fe08",
}

func newTestRegistry() *contract.Registry {
	r, err := contract.NewRegistry(testAddresses)
	if err != nil {
		panic(err)
	}
	return r
}

type callRecord struct {
	contract entity.ContractName
	method   string
	args     []any
}

// fakeChain stands in for a node: pending nonce, estimated gas and canned call results.
type fakeChain struct {
	mu sync.Mutex

	pendingNonce uint64
	estimate     uint64
	gasPrice     *big.Int

	results map[string][]any
	callErr map[string]error
	fillErr error
	sendErr map[string]error
	waitErr error
	reverts map[string]bool

	calls  []callRecord
	fills  []*entity.TxIntent
	sent   []entity.TxIntent
	waited []string
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		pendingNonce: 7,
		estimate:     46_000,
		gasPrice:     big.NewInt(1_000_000_000),
		results:      make(map[string][]any),
		callErr:      make(map[string]error),
		sendErr:      make(map[string]error),
		reverts:      make(map[string]bool),
	}
}

func (f *fakeChain) Call(_ context.Context, c entity.ContractDefinition, method string, args ...any) ([]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, callRecord{contract: c.Name, method: method, args: args})
	key := string(c.Name) + "." + method
	if err := f.callErr[key]; err != nil {
		return nil, err
	}
	return f.results[key], nil
}

func (f *fakeChain) Fill(_ context.Context, from common.Address, intent *entity.TxIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fillLocked(from, intent)
}

func (f *fakeChain) fillLocked(from common.Address, intent *entity.TxIntent) error {
	f.fills = append(f.fills, intent)
	if f.fillErr != nil {
		return f.fillErr
	}
	intent.From = from
	if intent.GasPrice == nil {
		intent.GasPrice = new(big.Int).Set(f.gasPrice)
	}
	if intent.Nonce == nil {
		intent.SetNonce(f.pendingNonce)
	}
	if intent.GasLimit == 0 {
		intent.GasLimit = f.estimate
	}
	return nil
}

func (f *fakeChain) Send(_ context.Context, signer port.Signer, intent *entity.TxIntent) (*entity.PendingTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fillLocked(signer.Address(), intent); err != nil {
		return nil, err
	}
	if err := f.sendErr[intent.Method]; err != nil {
		return nil, err
	}
	f.sent = append(f.sent, *intent)
	f.pendingNonce = *intent.Nonce + 1
	return &entity.PendingTx{
		Hash:     common.BytesToHash([]byte(intent.Method)),
		Method:   intent.Method,
		To:       intent.To,
		Nonce:    *intent.Nonce,
		GasLimit: intent.GasLimit,
	}, nil
}

func (f *fakeChain) WaitMined(_ context.Context, pending *entity.PendingTx) (*entity.TxReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waited = append(f.waited, pending.Method)
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return &entity.TxReceipt{
		TxHash:      pending.Hash,
		BlockNumber: big.NewInt(100),
		GasUsed:     61_000,
		Succeeded:   !f.reverts[pending.Method],
	}, nil
}

func (f *fakeChain) ChainID() *big.Int {
	return big.NewInt(4)
}

func (f *fakeChain) sentMethods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	methods := make([]string, 0, len(f.sent))
	for _, tx := range f.sent {
		methods = append(methods, tx.Method)
	}
	return methods
}

// testSigner is a signer for a fixed hardhat development key.
type testSigner struct{}

var testSignerKey, _ = crypto.HexToECDSA("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")

func (testSigner) Address() common.Address {
	return crypto.PubkeyToAddress(testSignerKey.PublicKey)
}

func (testSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewEIP155Signer(chainID), testSignerKey)
}

var errNode = errors.New("node unavailable")

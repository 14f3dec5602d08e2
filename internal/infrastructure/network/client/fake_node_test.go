package client

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeNode answers the handful of JSON-RPC methods the client uses.
type fakeNode struct {
	mu sync.Mutex

	chainID       uint64
	nonce         uint64
	gasPrice      int64
	gasEstimate   uint64
	callResult    []byte
	sendErr       string
	receiptMisses int
	receiptStatus uint64

	calls map[string]int
	sent  []*types.Transaction
}

func newFakeNode(chainID uint64) *fakeNode {
	return &fakeNode{
		chainID:       chainID,
		gasPrice:      2_000_000_000,
		gasEstimate:   46_000,
		receiptStatus: types.ReceiptStatusSuccessful,
		calls:         make(map[string]int),
	}
}

func (f *fakeNode) start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv.URL
}

func (f *fakeNode) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := f.handle(req)
	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if err != nil {
		resp["error"] = map[string]any{"code": -32000, "message": err.Error()}
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeNode) handle(req rpcRequest) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[req.Method]++

	switch req.Method {
	case "eth_chainId":
		return hexutil.Uint64(f.chainID), nil
	case "eth_gasPrice":
		return (*hexutil.Big)(big.NewInt(f.gasPrice)), nil
	case "eth_getTransactionCount":
		return hexutil.Uint64(f.nonce), nil
	case "eth_estimateGas":
		return hexutil.Uint64(f.gasEstimate), nil
	case "eth_call":
		return hexutil.Bytes(f.callResult), nil
	case "eth_sendRawTransaction":
		if f.sendErr != "" {
			return nil, fmt.Errorf("%s", f.sendErr)
		}
		var raw hexutil.Bytes
		if err := json.Unmarshal(req.Params[0], &raw); err != nil {
			return nil, err
		}
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return nil, err
		}
		f.sent = append(f.sent, tx)
		return tx.Hash(), nil
	case "eth_getTransactionReceipt":
		if f.receiptMisses > 0 {
			f.receiptMisses--
			return nil, nil
		}
		var hash common.Hash
		if err := json.Unmarshal(req.Params[0], &hash); err != nil {
			return nil, err
		}
		return &types.Receipt{
			Status:            f.receiptStatus,
			CumulativeGasUsed: 51_000,
			Logs:              []*types.Log{},
			TxHash:            hash,
			GasUsed:           51_000,
			BlockHash:         common.HexToHash("0x01"),
			BlockNumber:       big.NewInt(10),
		}, nil
	default:
		return nil, fmt.Errorf("method %s not supported by fake node", req.Method)
	}
}

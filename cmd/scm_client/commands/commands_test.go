package commands

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"scm_client/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testWallet = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

// node is a minimal JSON-RPC chain for driving whole commands.
type node struct {
	mu         sync.Mutex
	callResult []byte
	nonce      uint64
	sent       []*types.Transaction
	methods    []string
}

func (n *node) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     jsoniter.RawMessage   `json:"id"`
		Method string                `json:"method"`
		Params []jsoniter.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.methods = append(n.methods, req.Method)

	var result any
	switch req.Method {
	case "eth_chainId":
		result = hexutil.Uint64(31337)
	case "eth_gasPrice":
		result = (*hexutil.Big)(big.NewInt(1_000_000_000))
	case "eth_getTransactionCount":
		result = hexutil.Uint64(n.nonce)
	case "eth_estimateGas":
		result = hexutil.Uint64(46_000)
	case "eth_call":
		result = hexutil.Bytes(n.callResult)
	case "eth_sendRawTransaction":
		var raw hexutil.Bytes
		_ = json.Unmarshal(req.Params[0], &raw)
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n.sent = append(n.sent, tx)
		result = tx.Hash()
	case "eth_getTransactionReceipt":
		var hash common.Hash
		_ = json.Unmarshal(req.Params[0], &hash)
		result = &types.Receipt{
			Status:            types.ReceiptStatusSuccessful,
			CumulativeGasUsed: 61_000,
			Logs:              []*types.Log{},
			TxHash:            hash,
			GasUsed:           61_000,
			BlockHash:         common.HexToHash("0x02"),
			BlockNumber:       big.NewInt(12),
		}
	default:
		result = nil
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
}

// localConfig writes a config for the localhost preset pointing at url.
func localConfig(t *testing.T, url, extra string) string {
	t.Helper()
	content := fmt.Sprintf(`network:
  identifier: localhost
  endpoint: %s
contracts:
  weth: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
  scm: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
  ico: "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"
rpcClient:
  receiptPollIntervalMs: 10
%s`, url, extra)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func startNode(t *testing.T, n *node) string {
	t.Helper()
	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), &stdout, &stderr, args)
	return code, stdout.String(), stderr.String()
}

func TestArgumentErrors(t *testing.T) {
	t.Setenv("SCM_KEY", "")
	tests := []struct {
		name string
		args []string
	}{
		{"missing wallet", []string{"weth-balance"}},
		{"malformed wallet", []string{"scm-balance", "-w", "0x1234"}},
		{"missing key", []string{"claim-scm"}},
		{"malformed key", []string{"claim-scm", "-k", "0xnothex"}},
		{"missing amount", []string{"invest", "-k", testKey, "-u", "ether"}},
		{"missing unit", []string{"invest", "-k", testKey, "-a", "1"}},
		{"unknown flag", []string{"ico-status", "--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args...)
			assert.Equal(t, entity.ArgumentError.ExitCode(), code, stderr)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestConfigErrors(t *testing.T) {
	n := &node{}
	url := startNode(t, n)

	code, _, stderr := run(t, "ico-status", "--config", localConfig(t, url, "invest:\n  policy: yolo\n"))
	assert.Equal(t, entity.ConfigError.ExitCode(), code, stderr)

	code, _, stderr = run(t, "ico-status", "--network", "atlantis")
	assert.Equal(t, entity.ConfigError.ExitCode(), code, stderr)
	assert.Contains(t, stderr, "atlantis")
	assert.Contains(t, stderr, "known: localhost, rinkeby")

	code, _, stderr = run(t, "ico-status", "--network", "localhost", "--rpc", url)
	assert.Equal(t, entity.ConfigError.ExitCode(), code, "localhost has no contract addresses without a config: %s", stderr)

	assert.Empty(t, n.methods, "nothing reaches the node")
}

func TestICOStatusCommand(t *testing.T) {
	n := &node{callResult: common.LeftPadBytes([]byte{1}, 32)}
	cfg := localConfig(t, startNode(t, n), "")

	code, stdout, stderr := run(t, "ico-status", "--config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "ICO completed: true\n", stdout)
	assert.Equal(t, []string{"eth_call"}, n.methods)
}

func TestBalanceCommands(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"weth-balance", "WETH balance: 1000 wei\n"},
		{"scm-balance", "SCM balance: 1000 wei\n"},
		{"claimable-scm", "claimable SCM: 1000 wei\n"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			n := &node{callResult: common.LeftPadBytes(big.NewInt(1000).Bytes(), 32)}
			cfg := localConfig(t, startNode(t, n), "")

			code, stdout, stderr := run(t, tt.command, "-w", testWallet, "--config", cfg)
			require.Equal(t, 0, code, stderr)
			assert.Equal(t, tt.want, stdout)
			assert.Equal(t, []string{"eth_call"}, n.methods, "exactly one read call")
		})
	}
}

func TestBalanceJSONOutput(t *testing.T) {
	n := &node{callResult: common.LeftPadBytes(big.NewInt(2_500_000_000_000_000_000).Bytes(), 32)}
	cfg := localConfig(t, startNode(t, n), "")

	code, stdout, stderr := run(t, "weth-balance", "-w", testWallet, "--config", cfg, "--output", "json")
	require.Equal(t, 0, code, stderr)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "2500000000000000000", res["amountWei"])
	assert.Equal(t, "2.5", res["formatted"])
	assert.Equal(t, common.HexToAddress(testWallet).Hex(), res["walletAddress"])
}

func TestSummaryCommand(t *testing.T) {
	// Every call decodes the same word: 1 as uint256 and true as bool.
	n := &node{callResult: common.LeftPadBytes([]byte{1}, 32)}
	cfg := localConfig(t, startNode(t, n), "summary:\n  maxConcurrentRequests: 2\n")

	code, stdout, stderr := run(t, "summary", "-w", testWallet, "--config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "WETH balance: 1 wei")
	assert.Contains(t, stdout, "SCM balance: 1 wei")
	assert.Contains(t, stdout, "claimable SCM: 1 wei")
	assert.Contains(t, stdout, "ICO completed: true")
	assert.Len(t, n.methods, 4)
}

func TestContractCallErrorExitCode(t *testing.T) {
	n := &node{}
	cfg := localConfig(t, startNode(t, n), "")

	code, _, stderr := run(t, "ico-status", "--config", cfg)
	assert.Equal(t, entity.ContractCallError.ExitCode(), code)
	assert.Contains(t, stderr, "isCompleted")
}

func TestClaimCommand(t *testing.T) {
	n := &node{nonce: 3}
	cfg := localConfig(t, startNode(t, n), "")

	code, stdout, stderr := run(t, "claim-scm", "-k", testKey, "--config", cfg)
	require.Equal(t, 0, code, stderr)

	require.Len(t, n.sent, 1)
	assert.Equal(t, "claim submitted: "+n.sent[0].Hash().Hex()+"\n", stdout)
	assert.Equal(t, uint64(3), n.sent[0].Nonce())
	assert.NotContains(t, n.methods, "eth_getTransactionReceipt")
}

func TestClaimKeyFromEnvironment(t *testing.T) {
	n := &node{}
	cfg := localConfig(t, startNode(t, n), "")
	t.Setenv("SCM_KEY", testKey)
	t.Setenv("SCM_CONFIG", cfg)

	code, _, stderr := run(t, "claim-scm")
	require.Equal(t, 0, code, stderr)
	assert.Len(t, n.sent, 1)
}

func TestInvestCommand(t *testing.T) {
	n := &node{nonce: 5}
	metricsPath := filepath.Join(t.TempDir(), "scm.prom")
	cfg := localConfig(t, startNode(t, n), "")

	code, stdout, stderr := run(t, "invest", "-k", testKey, "-a", "1.5", "-u", "ether", "--config", cfg, "--metrics-file", metricsPath)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "waiting for inclusion in the chain\ninvested amount: 1.5 ether\n", stdout)

	require.Len(t, n.sent, 2)
	approve, invest := n.sent[0], n.sent[1]
	assert.Equal(t, uint64(5), approve.Nonce())
	assert.Equal(t, uint64(46_000), approve.Gas())
	assert.Equal(t, uint64(6), invest.Nonce())
	assert.Equal(t, uint64(90_000), invest.Gas())
	assert.Equal(t, common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"), *invest.To())

	estimates := 0
	for _, m := range n.methods {
		if m == "eth_estimateGas" {
			estimates++
		}
	}
	assert.Equal(t, 1, estimates, "only the approve is estimated")

	dump, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(dump), `scm_client_transactions_sent_total{method="invest"} 1`)
}

func TestInvestJSONKeepsProgressOnStderr(t *testing.T) {
	n := &node{}
	cfg := localConfig(t, startNode(t, n), "")

	code, stdout, stderr := run(t, "invest", "-k", testKey, "-a", "1", "-u", "gwei", "--config", cfg, "--output", "json")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "waiting for inclusion in the chain")

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "1000000000", res["amountWei"])
	assert.Equal(t, float64(1), res["investNonce"])
}

func TestInvestBadAmount(t *testing.T) {
	n := &node{}
	cfg := localConfig(t, startNode(t, n), "")

	code, _, stderr := run(t, "invest", "-k", testKey, "-a", "1", "-u", "dogecoin", "--config", cfg)
	assert.Equal(t, entity.AmountParseError.ExitCode(), code, stderr)
	assert.Empty(t, n.sent)
}

func TestTextLines(t *testing.T) {
	assert.Equal(t, []string{"ICO completed: false"}, textLines(entity.StatusResult{}))
	assert.Equal(t, []string{"invested amount: 1000 gwei"}, textLines(entity.InvestResult{Amount: "1000", Unit: "gwei"}))
	assert.Equal(t, []string{"claimable SCM: 7 wei"}, textLines(entity.AmountResult{Label: "claimable SCM", AmountWei: "7"}))
}

package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"scm_client/internal/app/port"
	"scm_client/internal/domain/entity"
	applog "scm_client/internal/pkg/logger"
	"scm_client/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const gasPriceCacheKey = "gasPrice"

// Options tunes the transport behaviour of an EVMClient.
type Options struct {
	ConnectionTimeout   time.Duration
	RPCCallTimeout      time.Duration
	RateLimit           int // requests per second, 0 disables the limiter
	BurstLimit          int
	ReceiptPollInterval time.Duration
	GasPriceCacheTTL    time.Duration
	Metrics             *metrics.RPCMetrics
	Logger              port.Logger
}

// EVMClient implements the port.ChainClient interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	chainID        *big.Int
	rpcCallTimeout time.Duration
	pollInterval   time.Duration
	limiter        *rate.Limiter
	gasPrices      *cache.Cache
	gasPriceTTL    time.Duration
	metrics        *metrics.RPCMetrics
	logger         port.Logger

	chainMu       sync.Mutex
	chainVerified bool
}

// NewEVMClient creates a new EVM client for the given network definition.
// Endpoints are tried in order; the first one that can be dialled wins.
func NewEVMClient(ctx context.Context, netDef entity.NetworkDefinition, opts Options) (*EVMClient, error) {
	rpcURLs := netDef.RPCURLs()
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("no RPC endpoint configured for network %s", netDef.Identifier)
	}
	if netDef.ChainID == 0 {
		return nil, fmt.Errorf("no chain id configured for network %s", netDef.Identifier)
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectionTimeout)
		ethClient, err := ethclient.DialContext(dialCtx, rpcURL)
		cancel()
		if err == nil {
			return newEVMClient(ethClient, netDef, opts), nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
		if opts.Logger != nil {
			opts.Logger.Warn("RPC endpoint unavailable, trying next", "network", netDef.Identifier, "error", err)
		}
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Identifier, lastErr)
}

func newEVMClient(ethClient *ethclient.Client, netDef entity.NetworkDefinition, opts Options) *EVMClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := opts.BurstLimit
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	if opts.RPCCallTimeout <= 0 {
		opts.RPCCallTimeout = 30 * time.Second
	}
	if opts.ReceiptPollInterval <= 0 {
		opts.ReceiptPollInterval = 2 * time.Second
	}
	if opts.GasPriceCacheTTL <= 0 {
		opts.GasPriceCacheTTL = 15 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.NewNop()
	}
	return &EVMClient{
		ethClient:      ethClient,
		netDef:         netDef,
		chainID:        new(big.Int).SetUint64(netDef.ChainID),
		rpcCallTimeout: opts.RPCCallTimeout,
		pollInterval:   opts.ReceiptPollInterval,
		limiter:        limiter,
		gasPrices:      cache.New(opts.GasPriceCacheTTL, time.Minute),
		gasPriceTTL:    opts.GasPriceCacheTTL,
		metrics:        opts.Metrics,
		logger:         logger,
	}
}

// do paces, bounds and records a single RPC round trip.
func (c *EVMClient) do(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter for %s: %w", method, err)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	started := time.Now()
	err := fn(callCtx)
	c.metrics.ObserveRPC(method, started, err)
	return err
}

// Call executes a read-only contract method and returns the decoded outputs.
func (c *EVMClient) Call(ctx context.Context, contract entity.ContractDefinition, method string, args ...any) ([]any, error) {
	data, err := contract.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	var result []byte
	err = c.do(ctx, "eth_call", func(ctx context.Context) error {
		var callErr error
		result, callErr = c.ethClient.CallContract(ctx, ethereum.CallMsg{To: &contract.Address, Data: data}, nil)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("eth_call %s on %s failed: %w", method, contract.Address.Hex(), err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%s returned no data, is %s deployed at %s on %s?", method, contract.Name, contract.Address.Hex(), c.netDef.Identifier)
	}

	values, err := contract.ABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return values, nil
}

// Fill populates the unset gas price, nonce and gas limit of intent from chain state.
// The gas limit comes from a simulated execution, so it only works for calls that would succeed now.
func (c *EVMClient) Fill(ctx context.Context, from common.Address, intent *entity.TxIntent) error {
	if err := c.ensureChainID(ctx); err != nil {
		return err
	}
	intent.From = from

	if intent.GasPrice == nil {
		gasPrice, err := c.gasPrice(ctx)
		if err != nil {
			return err
		}
		intent.GasPrice = gasPrice
	}

	if intent.Nonce == nil {
		var nonce uint64
		err := c.do(ctx, "eth_getTransactionCount", func(ctx context.Context) error {
			var nonceErr error
			nonce, nonceErr = c.ethClient.PendingNonceAt(ctx, from)
			return nonceErr
		})
		if err != nil {
			return fmt.Errorf("failed to fetch pending nonce of %s: %w", from.Hex(), err)
		}
		intent.SetNonce(nonce)
	}

	if intent.GasLimit == 0 {
		to := intent.To
		var gas uint64
		err := c.do(ctx, "eth_estimateGas", func(ctx context.Context) error {
			var estimateErr error
			gas, estimateErr = c.ethClient.EstimateGas(ctx, ethereum.CallMsg{
				From:     from,
				To:       &to,
				GasPrice: intent.GasPrice,
				Value:    intent.Value,
				Data:     intent.Data,
			})
			return estimateErr
		})
		if err != nil {
			return fmt.Errorf("failed to estimate gas for %s: %w", intent.Method, err)
		}
		intent.GasLimit = gas
	}

	c.logger.Debug("Transaction filled",
		"method", intent.Method, "nonce", *intent.Nonce, "gas_limit", intent.GasLimit, "gas_price", intent.GasPrice.String())
	return nil
}

// Send fills whatever the intent still lacks, signs it and broadcasts it.
// Fields already set on the intent, in particular Nonce and GasLimit, are used as they are.
func (c *EVMClient) Send(ctx context.Context, signer port.Signer, intent *entity.TxIntent) (*entity.PendingTx, error) {
	if err := c.Fill(ctx, signer.Address(), intent); err != nil {
		return nil, err
	}

	value := intent.Value
	if value == nil {
		value = new(big.Int)
	}
	to := intent.To
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    *intent.Nonce,
		GasPrice: intent.GasPrice,
		Gas:      intent.GasLimit,
		To:       &to,
		Value:    value,
		Data:     intent.Data,
	})
	signed, err := signer.SignTx(tx, c.chainID)
	if err != nil {
		return nil, err
	}

	err = c.do(ctx, "eth_sendRawTransaction", func(ctx context.Context) error {
		return c.ethClient.SendTransaction(ctx, signed)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast %s: %w", intent.Method, err)
	}
	c.metrics.TransactionSent(intent.Method)

	c.logger.Info("Transaction broadcast", "method", intent.Method, "hash", signed.Hash().Hex(), "nonce", signed.Nonce())
	return &entity.PendingTx{
		Hash:     signed.Hash(),
		Method:   intent.Method,
		To:       intent.To,
		Nonce:    signed.Nonce(),
		GasLimit: signed.Gas(),
	}, nil
}

// WaitMined polls for the receipt of pending until it exists or ctx is done.
func (c *EVMClient) WaitMined(ctx context.Context, pending *entity.PendingTx) (*entity.TxReceipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		notFound := false
		err := c.do(ctx, "eth_getTransactionReceipt", func(ctx context.Context) error {
			r, receiptErr := c.ethClient.TransactionReceipt(ctx, pending.Hash)
			if errors.Is(receiptErr, ethereum.NotFound) {
				notFound = true
				return nil
			}
			receipt = r
			return receiptErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch receipt of %s: %w", pending.Hash.Hex(), err)
		}
		if !notFound && receipt != nil {
			return &entity.TxReceipt{
				TxHash:      receipt.TxHash,
				BlockNumber: receipt.BlockNumber,
				GasUsed:     receipt.GasUsed,
				Succeeded:   receipt.Status == types.ReceiptStatusSuccessful,
			}, nil
		}

		c.logger.Debug("Transaction not yet mined", "method", pending.Method, "hash", pending.Hash.Hex())
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("stopped waiting for %s: %w", pending.Hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// ChainID returns the chain id transactions are signed for.
func (c *EVMClient) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

// ensureChainID checks once that the endpoint serves the chain we sign for.
func (c *EVMClient) ensureChainID(ctx context.Context) error {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()
	if c.chainVerified {
		return nil
	}

	var remote *big.Int
	err := c.do(ctx, "eth_chainId", func(ctx context.Context) error {
		var chainErr error
		remote, chainErr = c.ethClient.ChainID(ctx)
		return chainErr
	})
	if err != nil {
		return fmt.Errorf("failed to query chain id: %w", err)
	}
	if remote.Cmp(c.chainID) != 0 {
		return fmt.Errorf("RPC endpoint serves chain %s but network %s expects chain %s", remote, c.netDef.Identifier, c.chainID)
	}
	c.chainVerified = true
	return nil
}

// gasPrice returns the suggested gas price, reusing a recent suggestion while it is fresh.
func (c *EVMClient) gasPrice(ctx context.Context) (*big.Int, error) {
	if cached, ok := c.gasPrices.Get(gasPriceCacheKey); ok {
		return new(big.Int).Set(cached.(*big.Int)), nil
	}

	var price *big.Int
	err := c.do(ctx, "eth_gasPrice", func(ctx context.Context) error {
		var priceErr error
		price, priceErr = c.ethClient.SuggestGasPrice(ctx)
		return priceErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas price: %w", err)
	}
	c.gasPrices.Set(gasPriceCacheKey, new(big.Int).Set(price), c.gasPriceTTL)
	return price, nil
}

var _ port.ChainClient = (*EVMClient)(nil)

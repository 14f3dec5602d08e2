package service

import (
	"context"
	"fmt"
	"math/big"

	"scm_client/internal/app/port"
	"scm_client/internal/domain/entity"
	"scm_client/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const displayUnit = "ether"

// QueryServiceImpl implements port.QueryService.
type QueryServiceImpl struct {
	client                port.ChainClient
	registry              port.ContractRegistry
	logger                port.Logger
	maxConcurrentRequests int
}

// NewQueryService creates a new instance of QueryServiceImpl.
func NewQueryService(
	client port.ChainClient,
	registry port.ContractRegistry,
	l port.Logger,
	maxConcurrentRequests int,
) port.QueryService {
	if maxConcurrentRequests <= 0 {
		maxConcurrentRequests = 1
	}
	return &QueryServiceImpl{
		client:                client,
		registry:              registry,
		logger:                l,
		maxConcurrentRequests: maxConcurrentRequests,
	}
}

// WETHBalance returns balanceOf(wallet) on the WETH token.
func (s *QueryServiceImpl) WETHBalance(ctx context.Context, wallet common.Address) (entity.AmountResult, error) {
	return s.readAmount(ctx, "WETH balance", entity.WETHContract, "balanceOf", wallet)
}

// SCMBalance returns balanceOf(wallet) on the SCM token.
func (s *QueryServiceImpl) SCMBalance(ctx context.Context, wallet common.Address) (entity.AmountResult, error) {
	return s.readAmount(ctx, "SCM balance", entity.SCMContract, "balanceOf", wallet)
}

// ClaimableSCM returns the SCM the wallet can claim from the ICO.
func (s *QueryServiceImpl) ClaimableSCM(ctx context.Context, wallet common.Address) (entity.AmountResult, error) {
	return s.readAmount(ctx, "claimable SCM", entity.ICOContract, "claimableScm", wallet)
}

// ICOStatus reports whether the sale has completed.
func (s *QueryServiceImpl) ICOStatus(ctx context.Context) (entity.StatusResult, error) {
	const method = "isCompleted"
	ico, err := s.registry.Contract(entity.ICOContract)
	if err != nil {
		return entity.StatusResult{}, err
	}

	values, err := s.client.Call(ctx, ico, method)
	if err != nil {
		s.logger.Error("Contract call failed", "method", method, "contract", ico.Address.Hex(), "error", err)
		return entity.StatusResult{}, entity.NewClientError(entity.ContractCallError, method, err)
	}
	completed, err := singleOutput[bool](values, method)
	if err != nil {
		return entity.StatusResult{}, entity.NewClientError(entity.ContractCallError, method, err)
	}

	s.logger.Debug("ICO status fetched", "contract", ico.Address.Hex(), "completed", completed)
	return entity.StatusResult{Contract: ico.Address.Hex(), Completed: completed}, nil
}

// AccountSummary runs every read query for wallet. The address scoped reads run
// concurrently, bounded by the configured limit; the first failure cancels the rest.
func (s *QueryServiceImpl) AccountSummary(ctx context.Context, wallet common.Address) (entity.AccountSummary, error) {
	summary := entity.AccountSummary{WalletAddress: wallet.Hex()}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentRequests)

	g.Go(func() error {
		res, err := s.WETHBalance(gctx, wallet)
		summary.WETHBalance = res
		return err
	})
	g.Go(func() error {
		res, err := s.SCMBalance(gctx, wallet)
		summary.SCMBalance = res
		return err
	})
	g.Go(func() error {
		res, err := s.ClaimableSCM(gctx, wallet)
		summary.ClaimableSCM = res
		return err
	})
	g.Go(func() error {
		res, err := s.ICOStatus(gctx)
		summary.ICOCompleted = res.Completed
		return err
	})

	if err := g.Wait(); err != nil {
		return entity.AccountSummary{}, err
	}
	s.logger.Info("Account summary fetched", "wallet", wallet.Hex())
	return summary, nil
}

func (s *QueryServiceImpl) readAmount(
	ctx context.Context,
	label string,
	name entity.ContractName,
	method string,
	wallet common.Address,
) (entity.AmountResult, error) {
	contract, err := s.registry.Contract(name)
	if err != nil {
		return entity.AmountResult{}, err
	}

	values, err := s.client.Call(ctx, contract, method, wallet)
	if err != nil {
		s.logger.Error("Contract call failed", "method", method, "contract", contract.Address.Hex(), "wallet", wallet.Hex(), "error", err)
		return entity.AmountResult{}, entity.NewClientError(entity.ContractCallError, method, err)
	}
	amount, err := singleOutput[*big.Int](values, method)
	if err != nil {
		return entity.AmountResult{}, entity.NewClientError(entity.ContractCallError, method, err)
	}

	formatted, err := utils.FormatUnits(amount, displayUnit)
	if err != nil {
		return entity.AmountResult{}, err
	}

	s.logger.Debug("Amount fetched", "label", label, "wallet", wallet.Hex(), "amount", amount.String())
	return entity.AmountResult{
		Label:         label,
		WalletAddress: wallet.Hex(),
		Contract:      contract.Address.Hex(),
		Amount:        amount,
		AmountWei:     amount.String(),
		Formatted:     formatted,
	}, nil
}

// singleOutput extracts the only return value of method as T.
func singleOutput[T any](values []any, method string) (T, error) {
	var zero T
	if len(values) != 1 {
		return zero, fmt.Errorf("%s returned %d values, expected 1", method, len(values))
	}
	v, ok := values[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s returned %T, expected %T", method, values[0], zero)
	}
	return v, nil
}

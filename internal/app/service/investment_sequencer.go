package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"scm_client/internal/app/port"
	"scm_client/internal/domain/entity"
	"scm_client/internal/pkg/utils"
)

// InvestmentSequencerImpl implements port.InvestmentSequencer.
type InvestmentSequencerImpl struct {
	client   port.ChainClient
	registry port.ContractRegistry
	policy   port.SubmissionPolicy
	logger   port.Logger
	progress io.Writer
}

// NewInvestmentSequencer creates a new instance of InvestmentSequencerImpl.
func NewInvestmentSequencer(
	client port.ChainClient,
	registry port.ContractRegistry,
	policy port.SubmissionPolicy,
	l port.Logger,
	progress io.Writer,
) port.InvestmentSequencer {
	if progress == nil {
		progress = io.Discard
	}
	return &InvestmentSequencerImpl{
		client:   client,
		registry: registry,
		policy:   policy,
		logger:   l,
		progress: progress,
	}
}

// Claim submits claim() on the ICO and returns once the node accepted it.
func (s *InvestmentSequencerImpl) Claim(ctx context.Context, signer port.Signer) (entity.ClaimResult, error) {
	ico, err := s.registry.Contract(entity.ICOContract)
	if err != nil {
		return entity.ClaimResult{}, err
	}
	intent, err := ico.NewIntent("claim")
	if err != nil {
		return entity.ClaimResult{}, entity.NewClientError(entity.ConfigError, "encode claim", err)
	}

	pending, err := s.client.Send(ctx, signer, intent)
	if err != nil {
		s.logger.Error("Claim failed", "from", signer.Address().Hex(), "error", err)
		return entity.ClaimResult{}, entity.NewClientError(entity.TransactionError, "send claim",
			fmt.Errorf("can't send transaction: %w", err))
	}

	s.logger.Info("Claim submitted", "from", signer.Address().Hex(), "hash", pending.Hash.Hex())
	return entity.ClaimResult{From: signer.Address().Hex(), TxHash: pending.Hash.Hex()}, nil
}

// Invest approves the ICO to spend amount of WETH and invests it.
// The approve is broadcast but not awaited; how invest follows it is up to the policy.
func (s *InvestmentSequencerImpl) Invest(ctx context.Context, signer port.Signer, amount, unit string) (entity.InvestResult, error) {
	wei, err := utils.ParseUnits(amount, unit)
	if err != nil {
		return entity.InvestResult{}, entity.NewClientError(entity.AmountParseError, "parse amount", err)
	}

	weth, err := s.registry.Contract(entity.WETHContract)
	if err != nil {
		return entity.InvestResult{}, err
	}
	ico, err := s.registry.Contract(entity.ICOContract)
	if err != nil {
		return entity.InvestResult{}, err
	}

	result := entity.InvestResult{
		From:      signer.Address().Hex(),
		Amount:    amount,
		Unit:      unit,
		AmountWei: wei.String(),
		Policy:    s.policy.Name(),
	}

	approve, err := weth.NewIntent("approve", ico.Address, wei)
	if err != nil {
		return entity.InvestResult{}, entity.NewClientError(entity.ConfigError, "encode approve", err)
	}
	if err := s.client.Fill(ctx, signer.Address(), approve); err != nil {
		s.logger.Error("Filling approve failed", "from", result.From, "error", err)
		return entity.InvestResult{}, entity.NewClientError(entity.TransactionError, "fill approve",
			fmt.Errorf("can't fill fields of transaction: %w", err))
	}
	if approve.Nonce == nil {
		return entity.InvestResult{}, entity.NewClientError(entity.TransactionError, "fill approve",
			errors.New("nonce has not been filled"))
	}
	result.ApproveNonce = *approve.Nonce

	approvePending, err := s.client.Send(ctx, signer, approve)
	if err != nil {
		s.logger.Error("Approve failed", "from", result.From, "nonce", result.ApproveNonce, "error", err)
		return entity.InvestResult{}, entity.NewClientError(entity.TransactionError, "send approve",
			fmt.Errorf("can't send transaction: %w", err))
	}
	result.ApproveTxHash = approvePending.Hash.Hex()
	s.logger.Info("Approve submitted", "hash", result.ApproveTxHash, "nonce", result.ApproveNonce, "amount_wei", result.AmountWei)

	invest, err := ico.NewIntent("invest", wei)
	if err != nil {
		return result, entity.NewClientError(entity.ConfigError, "encode invest", err)
	}
	if err := s.policy.PrepareNext(ctx, s.client, approve, approvePending, invest); err != nil {
		s.logger.Warn("Approval submitted but invest was not sent", "approve_hash", result.ApproveTxHash, "policy", s.policy.Name(), "error", err)
		return result, entity.NewClientError(entity.TransactionError, "prepare invest",
			fmt.Errorf("%w (approval %s may still be pending)", err, result.ApproveTxHash))
	}

	investPending, err := s.client.Send(ctx, signer, invest)
	if err != nil {
		s.logger.Warn("Invest failed after approval was submitted, the allowance may be raised",
			"approve_hash", result.ApproveTxHash, "error", err)
		return result, entity.NewClientError(entity.TransactionError, "send invest",
			fmt.Errorf("can't send transaction, approval %s may still be pending and the allowance may be raised: %w", result.ApproveTxHash, err))
	}
	result.InvestTxHash = investPending.Hash.Hex()
	result.InvestNonce = investPending.Nonce
	s.logger.Info("Invest submitted", "hash", result.InvestTxHash, "nonce", result.InvestNonce, "gas_limit", investPending.GasLimit)

	fmt.Fprintln(s.progress, "waiting for inclusion in the chain")
	receipt, err := s.client.WaitMined(ctx, investPending)
	if err != nil {
		return result, entity.NewClientError(entity.TransactionError, "await invest",
			fmt.Errorf("can't await transaction %s: %w", result.InvestTxHash, err))
	}
	result.InvestGasUsed = receipt.GasUsed
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.String()
	}
	if !receipt.Succeeded {
		return result, entity.NewClientError(entity.TransactionError, "await invest",
			fmt.Errorf("transaction reverted: %s", result.InvestTxHash))
	}

	s.logger.Info("Invest mined", "hash", result.InvestTxHash, "block", result.BlockNumber, "gas_used", result.InvestGasUsed)
	return result, nil
}

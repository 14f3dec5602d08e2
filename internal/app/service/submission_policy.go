package service

import (
	"context"
	"errors"
	"fmt"

	"scm_client/internal/app/port"
	"scm_client/internal/config"
	"scm_client/internal/domain/entity"
)

// FireAndForget sends the dependent transaction right behind the first one,
// with the next nonce and a fixed gas limit. Gas is never estimated: the
// simulation would run before the first transaction is mined and revert.
type FireAndForget struct {
	GasLimit uint64
}

// Name implements port.SubmissionPolicy.
func (FireAndForget) Name() string {
	return config.PolicyFireAndForget
}

// PrepareNext implements port.SubmissionPolicy.
func (p FireAndForget) PrepareNext(_ context.Context, _ port.ChainClient, firstIntent *entity.TxIntent, _ *entity.PendingTx, next *entity.TxIntent) error {
	if firstIntent.Nonce == nil {
		return errors.New("first transaction has no nonce")
	}
	if p.GasLimit == 0 {
		return errors.New("fixed gas limit is zero")
	}
	next.SetNonce(*firstIntent.Nonce + 1)
	next.GasLimit = p.GasLimit
	return nil
}

// AwaitApproval waits for the first transaction to be mined successfully and
// leaves the dependent one unfilled, so nonce and gas come from chain state.
type AwaitApproval struct{}

// Name implements port.SubmissionPolicy.
func (AwaitApproval) Name() string {
	return config.PolicyAwaitApproval
}

// PrepareNext implements port.SubmissionPolicy.
func (AwaitApproval) PrepareNext(ctx context.Context, client port.ChainClient, _ *entity.TxIntent, first *entity.PendingTx, next *entity.TxIntent) error {
	receipt, err := client.WaitMined(ctx, first)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", first.Method, err)
	}
	if !receipt.Succeeded {
		return fmt.Errorf("%s %s reverted", first.Method, first.Hash.Hex())
	}
	next.Nonce = nil
	next.GasLimit = 0
	return nil
}

// NewSubmissionPolicy returns the policy configured under name.
func NewSubmissionPolicy(name string, gasLimit uint64) (port.SubmissionPolicy, error) {
	switch name {
	case "", config.PolicyFireAndForget:
		if gasLimit == 0 {
			gasLimit = config.DefaultInvestGasLimit
		}
		return FireAndForget{GasLimit: gasLimit}, nil
	case config.PolicyAwaitApproval:
		return AwaitApproval{}, nil
	default:
		return nil, entity.NewClientError(entity.ConfigError, "invest policy", fmt.Errorf("unknown policy %q", name))
	}
}

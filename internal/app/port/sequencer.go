package port

import (
	"context"

	"scm_client/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// SubmissionPolicy decides how a dependent transaction follows one that was just broadcast.
type SubmissionPolicy interface {
	// Name identifies the policy in configuration and output.
	Name() string

	// PrepareNext is called after first has been broadcast and before next is sent.
	// firstIntent is the filled intent that produced first.
	PrepareNext(ctx context.Context, client ChainClient, firstIntent *entity.TxIntent, first *entity.PendingTx, next *entity.TxIntent) error
}

// QueryService answers the read-only questions about the ICO.
type QueryService interface {
	WETHBalance(ctx context.Context, wallet common.Address) (entity.AmountResult, error)
	SCMBalance(ctx context.Context, wallet common.Address) (entity.AmountResult, error)
	ClaimableSCM(ctx context.Context, wallet common.Address) (entity.AmountResult, error)
	ICOStatus(ctx context.Context) (entity.StatusResult, error)
	AccountSummary(ctx context.Context, wallet common.Address) (entity.AccountSummary, error)
}

// InvestmentSequencer submits the mutating calls.
type InvestmentSequencer interface {
	Claim(ctx context.Context, signer Signer) (entity.ClaimResult, error)
	Invest(ctx context.Context, signer Signer, amount, unit string) (entity.InvestResult, error)
}

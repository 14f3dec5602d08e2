package commands

import (
	"context"

	"scm_client/internal/app/port"
	"scm_client/internal/domain/entity"
	"scm_client/internal/infrastructure/walletloader"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type amountQuery func(ctx context.Context, svc port.QueryService, wallet common.Address) (entity.AmountResult, error)

func queryWETHBalance(ctx context.Context, svc port.QueryService, wallet common.Address) (entity.AmountResult, error) {
	return svc.WETHBalance(ctx, wallet)
}

func querySCMBalance(ctx context.Context, svc port.QueryService, wallet common.Address) (entity.AmountResult, error) {
	return svc.SCMBalance(ctx, wallet)
}

func queryClaimableSCM(ctx context.Context, svc port.QueryService, wallet common.Address) (entity.AmountResult, error) {
	return svc.ClaimableSCM(ctx, wallet)
}

// newAmountCmd builds one of the wallet scoped read commands.
func newAmountCmd(v *viper.Viper, use, short string, query amountQuery) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := walletArg(cmd)
			wallet, err := walletloader.ParseAddress(raw)
			if err != nil {
				return err
			}
			return withApp(cmd, v, func(ctx context.Context, a *app) error {
				res, err := query(ctx, a.queries(), wallet)
				if err != nil {
					return err
				}
				return a.out.render(res)
			})
		},
	}
	addWalletFlag(cmd)
	return cmd
}

func newICOStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "ico-status",
		Short: "Queries status of ICO",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, v, func(ctx context.Context, a *app) error {
				res, err := a.queries().ICOStatus(ctx)
				if err != nil {
					return err
				}
				return a.out.render(res)
			})
		},
	}
}

func newSummaryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Shows balances, claimable SCM and the ICO status for a wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := walletArg(cmd)
			wallet, err := walletloader.ParseAddress(raw)
			if err != nil {
				return err
			}
			return withApp(cmd, v, func(ctx context.Context, a *app) error {
				res, err := a.queries().AccountSummary(ctx, wallet)
				if err != nil {
					return err
				}
				return a.out.render(res)
			})
		},
	}
	addWalletFlag(cmd)
	return cmd
}

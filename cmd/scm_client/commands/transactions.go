package commands

import (
	"context"
	"errors"

	"scm_client/internal/domain/entity"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newClaimCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-scm",
		Short: "Claim your hard earned SCM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := resolveSigner(cmd, v)
			if err != nil {
				return err
			}
			return withApp(cmd, v, func(ctx context.Context, a *app) error {
				seq, err := a.sequencer()
				if err != nil {
					return err
				}
				res, err := seq.Claim(ctx, signer)
				if err != nil {
					return err
				}
				return a.out.render(res)
			})
		},
	}
	addKeyFlags(cmd)
	return cmd
}

func newInvestCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Invest in the ICO",
		Long: `Approves the ICO to spend the amount of WETH and invests it right away.
With the default fire-and-forget policy the invest transaction is sent without
waiting for the approval to be mined, using the next nonce and a fixed gas limit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, _ := cmd.Flags().GetString("amount")
			unit, _ := cmd.Flags().GetString("unit")
			if amount == "" {
				return entity.NewClientError(entity.ArgumentError, "amount", errors.New("amount is required (-a)"))
			}
			if unit == "" {
				return entity.NewClientError(entity.ArgumentError, "unit", errors.New("unit is required (-u)"))
			}
			signer, err := resolveSigner(cmd, v)
			if err != nil {
				return err
			}
			return withApp(cmd, v, func(ctx context.Context, a *app) error {
				seq, err := a.sequencer()
				if err != nil {
					return err
				}
				res, err := seq.Invest(ctx, signer, amount, unit)
				if err != nil {
					return err
				}
				return a.out.render(res)
			})
		},
	}
	addKeyFlags(cmd)
	cmd.Flags().StringP("amount", "a", "", "how much to invest into SCM")
	cmd.Flags().StringP("unit", "u", "", "unit of the amount, like wei, gwei or ether")
	return cmd
}

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"scm_client/internal/domain/entity"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SCM"

// Viper keys shared by flags and environment variables.
const (
	keyConfig      = "config"
	keyRPC         = "rpc"
	keyNetwork     = "network"
	keyOutput      = "output"
	keyLogLevel    = "log-level"
	keyMetricsFile = "metrics-file"
	keyPrivateKey  = "key"
	keyKeyFile     = "key-file"
)

// NewRootCmd builds the command tree. Each call gets its own viper instance.
func NewRootCmd(stdout io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "scm_client",
		Short:         "Lets you interact with the SCM ICO and token",
		Long:          `Query WETH and SCM balances, check the ICO status, claim SCM and invest WETH into the ICO.`,
		Version:       "1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return entity.NewClientError(entity.ArgumentError, "flags", err)
	})

	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, "", "path to a YAML configuration file (env SCM_CONFIG)")
	flags.String(keyRPC, "", "JSON-RPC endpoint, overrides the network preset (env SCM_RPC)")
	flags.String(keyNetwork, "", "network preset: rinkeby or localhost (env SCM_NETWORK)")
	flags.String(keyOutput, "", "output format: text or json")
	flags.String(keyLogLevel, "", "log level: debug, info, warn or error")
	flags.String(keyMetricsFile, "", "write RPC metrics to this file in the node_exporter textfile format")
	for _, key := range []string{keyConfig, keyRPC, keyNetwork, keyOutput, keyLogLevel, keyMetricsFile} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(
		newAmountCmd(v, "weth-balance", "Tells you how much WETH you own", queryWETHBalance),
		newAmountCmd(v, "scm-balance", "Tells you how much SCM you own", querySCMBalance),
		newAmountCmd(v, "claimable-scm", "Tells you how much SCM you can claim", queryClaimableSCM),
		newICOStatusCmd(v),
		newSummaryCmd(v),
		newClaimCmd(v),
		newInvestCmd(v),
	)
	return rootCmd
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, stdout, stderr io.Writer, args []string) int {
	rootCmd := NewRootCmd(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return entity.ExitCodeOf(err)
	}
	return 0
}

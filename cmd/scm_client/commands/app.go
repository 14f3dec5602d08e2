package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"scm_client/internal/app/port"
	"scm_client/internal/app/service"
	"scm_client/internal/config"
	"scm_client/internal/domain/entity"
	"scm_client/internal/infrastructure/network/client"
	"scm_client/internal/infrastructure/network/contract"
	networkdefinition "scm_client/internal/infrastructure/network/definition"
	"scm_client/internal/infrastructure/walletloader"
	"scm_client/internal/pkg/logger"
	"scm_client/internal/pkg/metrics"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is everything a command needs, wired from configuration.
type app struct {
	cfg      *config.Config
	logger   port.Logger
	metrics  *metrics.RPCMetrics
	client   *client.EVMClient
	registry *contract.Registry
	out      renderer
}

// loadConfig reads the configuration file and overlays flags and environment.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	if lvl := v.GetString(keyLogLevel); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			logrus.SetLevel(parsed)
		}
	}

	cfg, err := config.LoadConfig(v.GetString(keyConfig))
	if err != nil {
		return nil, entity.NewClientError(entity.ConfigError, "load config", err)
	}

	if rpc := v.GetString(keyRPC); rpc != "" {
		cfg.Network.Endpoint = rpc
	}
	if network := v.GetString(keyNetwork); network != "" {
		cfg.Network.Identifier = network
	}
	if output := v.GetString(keyOutput); output != "" {
		cfg.Output.Format = strings.ToLower(output)
	}
	if lvl := v.GetString(keyLogLevel); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if path := v.GetString(keyMetricsFile); path != "" {
		cfg.Metrics.TextfilePath = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, entity.NewClientError(entity.ConfigError, "validate config", err)
	}
	return cfg, nil
}

// newApp wires configuration, logging, metrics, the contract registry and the chain client.
func newApp(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) (*app, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	logger.InitSlog(cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()

	netDef, err := resolveNetwork(cfg, networkdefinition.NewNetworkDefinitionProvider(appLogger), appLogger)
	if err != nil {
		return nil, err
	}

	registry, err := contract.NewRegistry(netDef.Contracts)
	if err != nil {
		return nil, err
	}

	rpcMetrics := metrics.New()
	evmClient, err := client.NewEVMClient(ctx, netDef, client.OptionsFromConfig(cfg, rpcMetrics, appLogger))
	if err != nil {
		return nil, entity.NewClientError(entity.ConfigError, "connect", err)
	}

	connected := evmClient.Definition()
	appLogger.Debug("Client ready", "network", connected.Identifier, "chain_id", connected.ChainID, "policy", cfg.Invest.Policy)
	return &app{
		cfg:      cfg,
		logger:   appLogger,
		metrics:  rpcMetrics,
		client:   evmClient,
		registry: registry,
		out:      renderer{w: stdout, errW: stderr, format: cfg.Output.Format},
	}, nil
}

// resolveNetwork picks the configured preset and overlays the configured endpoint and contracts.
func resolveNetwork(cfg *config.Config, networks port.NetworkDefinitionProvider, l port.Logger) (entity.NetworkDefinition, error) {
	netDef, ok := networks.GetNetworkDefinitionByName(cfg.Network.Identifier)
	if !ok {
		known := make([]string, 0, 2)
		for _, def := range networks.GetAllNetworkDefinitions() {
			known = append(known, def.Identifier)
		}
		return entity.NetworkDefinition{}, entity.NewClientError(entity.ConfigError, "network",
			fmt.Errorf("unknown network %q (known: %s)", cfg.Network.Identifier, strings.Join(known, ", ")))
	}
	netDef = cfg.ApplyNetwork(netDef)
	if other, found := networks.GetNetworkDefinitionByChainID(netDef.ChainID); found && other.Identifier != netDef.Identifier {
		l.Warn("Chain id belongs to another known network", "network", netDef.Identifier, "chain_id", netDef.ChainID, "known_as", other.Identifier)
	}
	return netDef, nil
}

// close releases the connection and dumps metrics when a textfile is configured.
func (a *app) close() {
	a.client.Close()
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
		a.logger.Warn("Failed to write metrics", "error", err)
	}
	logger.Sync()
}

func (a *app) queries() port.QueryService {
	return service.NewQueryService(a.client, a.registry, a.logger, a.cfg.Summary.MaxConcurrentRequests)
}

func (a *app) sequencer() (port.InvestmentSequencer, error) {
	policy, err := service.NewSubmissionPolicy(a.cfg.Invest.Policy, a.cfg.Invest.GasLimit)
	if err != nil {
		return nil, err
	}
	return service.NewInvestmentSequencer(a.client, a.registry, policy, a.logger, a.out.progress()), nil
}

// withApp runs fn with a wired app and tears it down afterwards.
func withApp(cmd *cobra.Command, v *viper.Viper, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, v, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

// resolveSigner takes the key from --key, SCM_KEY or --key-file, in that order.
func resolveSigner(cmd *cobra.Command, v *viper.Viper) (port.Signer, error) {
	key, _ := cmd.Flags().GetString(keyPrivateKey)
	if key == "" {
		key = v.GetString(keyPrivateKey)
	}
	if key != "" {
		return walletloader.ParsePrivateKey(key)
	}

	keyFile, _ := cmd.Flags().GetString(keyKeyFile)
	if keyFile == "" {
		keyFile = v.GetString(keyKeyFile)
	}
	if keyFile != "" {
		return walletloader.LoadKeyFile(keyFile)
	}
	return nil, entity.NewClientError(entity.ArgumentError, "key", fmt.Errorf("a private key is required (-k, SCM_KEY or --key-file)"))
}

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(keyPrivateKey, "k", "", "private key as hex, with or without 0x (env SCM_KEY)")
	cmd.Flags().String(keyKeyFile, "", "file whose first non-comment line is the private key")
}

func addWalletFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("wallet", "w", "", "wallet address")
}

func walletArg(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString("wallet")
}

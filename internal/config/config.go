package config

import (
	"fmt"
	"os"
	"strings"

	"scm_client/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// PolicyFireAndForget sends invest right after approve with a manually assigned nonce and gas limit.
	PolicyFireAndForget = "fire-and-forget"
	// PolicyAwaitApproval waits for approve to be mined before sending invest.
	PolicyAwaitApproval = "await-approval"

	// OutputText prints one human-readable line per result.
	OutputText = "text"
	// OutputJSON prints the result as a JSON document.
	OutputJSON = "json"

	// DefaultNetwork is the network the SCM contracts were deployed to.
	DefaultNetwork = "rinkeby"
	// DefaultInvestGasLimit is enough gas for the ICO's invest method.
	DefaultInvestGasLimit uint64 = 90_000
)

// Config holds the overall configuration for the application.
type Config struct {
	Network   NetworkConfig   `yaml:"network"`
	Contracts ContractsConfig `yaml:"contracts"`
	Invest    InvestConfig    `yaml:"invest"`
	RpcClient RpcClientConfig `yaml:"rpcClient"`
	Summary   SummaryConfig   `yaml:"summary"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Output    OutputConfig    `yaml:"output"`
}

// NetworkConfig selects a known network and optionally overrides its endpoint and chain id.
type NetworkConfig struct {
	Identifier        string   `yaml:"identifier"`
	Endpoint          string   `yaml:"endpoint"`
	FallbackEndpoints []string `yaml:"fallbackEndpoints"`
	ChainID           uint64   `yaml:"chainID"`
}

// ContractsConfig overrides the contract addresses of the selected network.
type ContractsConfig struct {
	WETH string `yaml:"weth"`
	SCM  string `yaml:"scm"`
	ICO  string `yaml:"ico"`
}

// InvestConfig holds configuration for the approve/invest sequence.
type InvestConfig struct {
	GasLimit uint64 `yaml:"gasLimit"`
	Policy   string `yaml:"policy"` // "fire-and-forget" or "await-approval"
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	DefaultTimeoutMs        int64 `yaml:"defaultTimeoutMs"`
	ConnectTimeoutMs        int64 `yaml:"connectTimeoutMs"`
	RateLimit               int   `yaml:"rateLimit"`
	BurstLimit              int   `yaml:"burstLimit"`
	ReceiptPollIntervalMs   int64 `yaml:"receiptPollIntervalMs"`
	GasPriceCacheTTLSeconds int   `yaml:"gasPriceCacheTTLSeconds"`
}

// SummaryConfig holds configuration for the account summary command.
type SummaryConfig struct {
	MaxConcurrentRequests int `yaml:"maxConcurrentRequests"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// MetricsConfig holds configuration for the metrics textfile.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfilePath"`
}

// OutputConfig holds configuration for result rendering.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig loads configuration from a YAML file. An empty path yields Default().
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		logrus.Debug("No configuration file given, using built-in defaults.")
		return Default(), nil
	}

	logrus.Debugf("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logrus.Debug("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Network.Identifier == "" {
		cfg.Network.Identifier = DefaultNetwork
	}
	if cfg.Invest.GasLimit == 0 {
		cfg.Invest.GasLimit = DefaultInvestGasLimit
		logrus.Debugf("Invest.GasLimit not set, defaulting to %d", cfg.Invest.GasLimit)
	}
	if cfg.Invest.Policy == "" {
		cfg.Invest.Policy = PolicyFireAndForget
	}
	if cfg.RpcClient.DefaultTimeoutMs <= 0 {
		cfg.RpcClient.DefaultTimeoutMs = 30000
	}
	if cfg.RpcClient.ConnectTimeoutMs <= 0 {
		cfg.RpcClient.ConnectTimeoutMs = 10000
	}
	if cfg.RpcClient.ReceiptPollIntervalMs <= 0 {
		cfg.RpcClient.ReceiptPollIntervalMs = 2000
	}
	if cfg.RpcClient.GasPriceCacheTTLSeconds <= 0 {
		cfg.RpcClient.GasPriceCacheTTLSeconds = 15
	}
	if cfg.RpcClient.RateLimit > 0 && cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 1
		logrus.Debugf("RpcClient.BurstLimit not set, defaulting to %d", cfg.RpcClient.BurstLimit)
	}
	if cfg.Summary.MaxConcurrentRequests <= 0 {
		cfg.Summary.MaxConcurrentRequests = 3
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = OutputText
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Invest.Policy {
	case PolicyFireAndForget, PolicyAwaitApproval:
	default:
		return fmt.Errorf("unknown invest policy %q (expected %s or %s)", c.Invest.Policy, PolicyFireAndForget, PolicyAwaitApproval)
	}
	switch strings.ToLower(c.Output.Format) {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q (expected %s or %s)", c.Output.Format, OutputText, OutputJSON)
	}
	if c.RpcClient.RateLimit < 0 {
		return fmt.Errorf("rpcClient.rateLimit must not be negative, got %d", c.RpcClient.RateLimit)
	}
	return nil
}

// ApplyNetwork overlays the configured endpoint, chain id and contract addresses on a known network.
func (c *Config) ApplyNetwork(def entity.NetworkDefinition) entity.NetworkDefinition {
	if c.Network.Endpoint != "" {
		logrus.Debugf("Overriding RPC endpoint of network %s", def.Identifier)
		def.PrimaryRPCURL = c.Network.Endpoint
		def.FallbackRPCURLs = nil
	}
	if len(c.Network.FallbackEndpoints) > 0 {
		def.FallbackRPCURLs = append([]string(nil), c.Network.FallbackEndpoints...)
	}
	if c.Network.ChainID != 0 {
		def.ChainID = c.Network.ChainID
	}
	if c.Contracts.WETH != "" {
		def.Contracts.WETH = c.Contracts.WETH
	}
	if c.Contracts.SCM != "" {
		def.Contracts.SCM = c.Contracts.SCM
	}
	if c.Contracts.ICO != "" {
		def.Contracts.ICO = c.Contracts.ICO
	}
	return def
}

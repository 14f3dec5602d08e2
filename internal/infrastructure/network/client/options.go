package client

import (
	"time"

	"scm_client/internal/app/port"
	"scm_client/internal/config"
	"scm_client/internal/pkg/metrics"
)

// OptionsFromConfig converts the rpcClient section of the configuration into client options.
func OptionsFromConfig(cfg *config.Config, rpcMetrics *metrics.RPCMetrics, logger port.Logger) Options {
	return Options{
		ConnectionTimeout:   time.Duration(cfg.RpcClient.ConnectTimeoutMs) * time.Millisecond,
		RPCCallTimeout:      time.Duration(cfg.RpcClient.DefaultTimeoutMs) * time.Millisecond,
		RateLimit:           cfg.RpcClient.RateLimit,
		BurstLimit:          cfg.RpcClient.BurstLimit,
		ReceiptPollInterval: time.Duration(cfg.RpcClient.ReceiptPollIntervalMs) * time.Millisecond,
		GasPriceCacheTTL:    time.Duration(cfg.RpcClient.GasPriceCacheTTLSeconds) * time.Second,
		Metrics:             rpcMetrics,
		Logger:              logger,
	}
}

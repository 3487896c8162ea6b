package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	gwconfig "github.com/synnergy-network/rpc-gateway/internal/config"
	"github.com/synnergy-network/rpc-gateway/internal/gateway"
	"github.com/synnergy-network/rpc-gateway/internal/httpapi"
	"github.com/synnergy-network/rpc-gateway/internal/metrics"
	"github.com/synnergy-network/rpc-gateway/internal/monitor"
	"github.com/synnergy-network/rpc-gateway/internal/project"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
	"github.com/synnergy-network/rpc-gateway/internal/ratelimit"
	"github.com/synnergy-network/rpc-gateway/internal/registry"
	"github.com/synnergy-network/rpc-gateway/internal/weight"
)

// version and commit are set via -ldflags at build time; when not set they
// keep their defaults "dev"/"unknown" for local runs.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	_ = godotenv.Load() // .env is optional; missing file is not an error

	root := &cobra.Command{
		Use:   "gateway",
		Short: "multi-provider blockchain RPC gateway",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the gateway HTTP and WebSocket servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", gwconfig.EnvOrDefault("RPC_GATEWAY_CONFIG", "config.yaml"), "path to the gateway config file")
	return cmd
}

func runServe(configPath string) error {
	log := newLogger()

	cfg, err := gwconfig.Load(configPath, gwconfig.EnvOrDefault("RPC_GATEWAY_ENV", ""))
	if err != nil {
		log.WithError(err).Error("failed to load config")
		return fmt.Errorf("config error: %w", err)
	}
	if lvl, lerr := logrus.ParseLevel(cfg.Logging.Level); lerr == nil {
		log.SetLevel(lvl)
	}

	w := weight.New()
	providerConfigs := cfg.ToRegistryConfig()
	reg := registry.Build(providerConfigs, w)
	ex := gateway.New(reg, buildAdapters(providerConfigs))

	limiterCfg := ratelimit.Config{
		Capacity:   cfg.RateLimit.Capacity,
		RatePerSec: cfg.RateLimit.RatePerSec,
		Allowlist:  cfg.RateLimit.Allowlist,
	}
	if limiterCfg.Capacity == 0 {
		limiterCfg = ratelimit.DefaultConfig()
	}
	limiter := ratelimit.New(limiterCfg)

	registerer := prometheus.NewRegistry()
	interval := time.Duration(cfg.Monitor.IntervalSeconds) * time.Second
	mon := monitor.New(reg, log, interval, registerer)
	httpMetrics := metrics.NewHTTP(registerer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Run(ctx)

	validator := project.NewStatic() // deployments back this with a real billing/entitlement service

	srv := &httpapi.Server{
		Executor:  ex,
		Registry:  reg,
		Limiter:   limiter,
		Validator: validator,
		Log:       log,
		HTTP:      httpMetrics,
		Gatherer:  registerer,
		Version:   version,
		Commit:    commit,
		Features:  []string{"proxy", "websocket", "admin"},
	}

	publicSrv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: httpapi.NewRouter(srv)}
	adminSrv := &http.Server{Addr: cfg.Server.AdminAddr, Handler: httpapi.NewAdminRouter(reg)}

	go func() {
		log.WithField("addr", publicSrv.Addr).Info("public gateway listening")
		if err := publicSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("public server failed")
		}
	}()
	go func() {
		log.WithField("addr", adminSrv.Addr).Info("admin interface listening")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("admin server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = publicSrv.Shutdown(shutdownCtx)
	_ = adminSrv.Shutdown(shutdownCtx)
	return nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	return log
}

func buildAdapters(providerConfigs []registry.ProviderConfig) map[provider.Kind]provider.Adapter {
	adapters := make(map[provider.Kind]provider.Adapter, len(providerConfigs))
	for _, pc := range providerConfigs {
		var served []chain.ID
		for _, cc := range pc.Chains {
			served = append(served, cc.Chain)
		}
		adapters[pc.Kind] = provider.NewGatewayFor(pc.Kind, served)
	}
	return adapters
}

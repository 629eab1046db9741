package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"briteverify/internal/platform/config"
	"briteverify/internal/platform/logger"
	"briteverify/pkg/briteverify"
	"briteverify/pkg/platform/circuit"
)

// app carries what every subcommand shares: configuration, the logger, the
// output settings and the metrics registry.
type app struct {
	out      io.Writer
	output   string
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry

	// built on first use so every client of one run shares them
	metrics *briteverify.Metrics
	breaker *circuit.Breaker
}

func newApp(out io.Writer) *app {
	return &app{out: out, logger: logger.Discard(), registry: prometheus.NewRegistry()}
}

func newRootCmd(out io.Writer) *cobra.Command {
	return newApp(out).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {

	root := &cobra.Command{
		Use:   "briteverify",
		Short: "Verify contacts and manage bulk lists with the BriteVerify API",
		Long: `briteverify talks to the BriteVerify real-time (v1) and bulk (v3) APIs.

Configuration comes from the environment (and a .env file when present):
  BRITEVERIFY_API_KEY, BRITEVERIFY_V1_URL, BRITEVERIFY_V3_URL, BRITEVERIFY_RETRY,
  BRITEVERIFY_TIMEOUT, BRITEVERIFY_PAGE_CONCURRENCY, BRITEVERIFY_BREAKER_FAILURES,
  BRITEVERIFY_BREAKER_COOLDOWN, LOG_LEVEL, LOG_FORMAT,
  REDIS_URL, DATABASE_URL, RESULTS_CACHE_TTL, KAFKA_BROKERS, KAFKA_TOPIC.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.output != "json" && a.output != "yaml" {
				return fmt.Errorf("--output must be json or yaml, got %q", a.output)
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = logger.New(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		a.verifyCmd(),
		a.balanceCmd(),
		a.listsCmd(),
		a.listCmd(),
		a.createListCmd(),
		a.terminateCmd(),
		a.startCmd(),
		a.deleteCmd(),
		a.resultsCmd(),
		a.mockServerCmd(),
	)
	return root
}

// client builds an API client from configuration. Clients of one run share the
// metrics registry and the circuit breaker.
func (a *app) client(opts ...briteverify.Option) (*briteverify.Client, error) {
	if a.metrics == nil {
		a.metrics = briteverify.NewMetrics(a.registry)
	}
	base := []briteverify.Option{
		briteverify.WithV1BaseURL(a.cfg.API.V1BaseURL),
		briteverify.WithV3BaseURL(a.cfg.API.V3BaseURL),
		briteverify.WithRetry(a.cfg.API.Retry),
		briteverify.WithTimeout(a.cfg.API.Timeout),
		briteverify.WithPageConcurrency(a.cfg.API.PageConcurrency),
		briteverify.WithLogger(a.logger),
		briteverify.WithMetrics(a.metrics),
	}
	if a.cfg.API.BreakerFailures > 0 {
		if a.breaker == nil {
			a.breaker = circuit.New("briteverify",
				circuit.WithFailureThreshold(a.cfg.API.BreakerFailures),
				circuit.WithCooldown(a.cfg.API.BreakerCooldown),
			)
		}
		base = append(base, briteverify.WithCircuitBreaker(a.breaker))
	}
	return briteverify.New(a.cfg.API.Key, append(base, opts...)...)
}

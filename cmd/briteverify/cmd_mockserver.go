package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"briteverify/internal/mockapi"
	"briteverify/internal/platform/httpserver"
	"briteverify/internal/platform/metrics"
)

func (a *app) mockServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory fake of the BriteVerify API",
		Long: `Serve the v1 and v3 APIs from memory for local development.

The server listens on MOCK_API_ADDR and accepts MOCK_API_KEY. Prometheus
metrics are served on /metrics, on METRICS_ADDR when it is set.
MOCK_API_RATE_LIMIT_EVERY answers every Nth request with 429.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serveMock(cmd.Context())
		},
	}
}

// serveMock runs until ctx is canceled, then drains in-flight requests.
func (a *app) serveMock(ctx context.Context) error {
	reg := a.registry
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api := mockapi.New(
		mockapi.WithAPIKey(a.cfg.Server.APIKey),
		mockapi.WithRateLimitEvery(a.cfg.Server.RateLimitEvery, 0),
		mockapi.WithLogger(a.logger),
		mockapi.WithMetrics(metrics.New(reg)),
	)
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	servers := []*http.Server{}
	if a.cfg.Server.MetricsAddr != "" {
		servers = append(servers,
			httpserver.New(a.cfg.Server.Addr, api.Router()),
			httpserver.New(a.cfg.Server.MetricsAddr, metricsHandler),
		)
	} else {
		mux := chi.NewRouter()
		mux.Handle("/metrics", metricsHandler)
		mux.Mount("/", api.Router())
		servers = append(servers, httpserver.New(a.cfg.Server.Addr, mux))
	}

	return httpserver.Run(ctx, a.logger, httpserver.ShutdownTimeout, servers...)
}

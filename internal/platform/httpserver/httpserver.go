// Package httpserver runs the HTTP listeners of the mock API.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 5 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// New builds a server for addr. Slow clients are cut off after the header timeout.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Run serves every server until ctx is canceled or one of them fails, then shuts
// them all down, giving in-flight requests up to grace to finish.
func Run(ctx context.Context, logger *slog.Logger, grace time.Duration, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.InfoContext(ctx, "starting http server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		logger.InfoContext(ctx, "http servers stopped", "count", len(servers))
		return errors.Join(errs...)
	})
	return g.Wait()
}

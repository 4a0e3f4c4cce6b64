package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpLayer "vehicle-tax/http"
	"vehicle-tax/repository"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the estimate HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	svc, cache, closeCache := a.newTaxService()
	defer func() {
		if err := closeCache(); err != nil {
			a.logger.Warn().Err(err).Msg("close cache")
		}
	}()

	var ping func(context.Context) error
	if rc, ok := cache.(*repository.RedisCache); ok {
		ping = rc.Ping
	}

	rateLimiter := httpLayer.NewRateLimiter(a.cfg.RateLimitCapacity, a.cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterDeps{
		Service:     svc,
		RateLimiter: rateLimiter,
		InFlight:    httpLayer.NewInFlightLimiter(),
		Metrics:     httpLayer.NewMetrics(),
		Logger:      a.logger,
		Ping:        ping,
	})

	server := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: a.cfg.AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", server.Addr).Str("tables", a.tables.Name()).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("server failed")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("server shutdown")
		return err
	}
	a.logger.Info().Msg("server exited")
	return nil
}

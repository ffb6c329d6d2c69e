package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stellar-txkit/internal/handler"
	"github.com/stellar-txkit/internal/horizon"
	"github.com/stellar-txkit/internal/middleware"
	"github.com/stellar-txkit/internal/sep10"
	"github.com/stellar-txkit/internal/signing"
	"github.com/stellar-txkit/internal/stellartoml"
)

const shutdownGracePeriod = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the transaction tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.routerOptions()
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", a.cfg.Port),
				Handler:      handler.NewRouter(opts),
				ReadTimeout:  a.cfg.ReadTimeout,
				WriteTimeout: a.cfg.WriteTimeout,
				IdleTimeout:  a.cfg.IdleTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", srv.Addr).
					Str("network", a.cfg.Network().Passphrase()).
					Bool("signing", opts.Signer != nil).
					Bool("web_auth", opts.WebAuth != nil).
					Msg("starting server")
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}

func (a *app) routerOptions() (handler.RouterOptions, error) {
	cfg := a.cfg
	n := cfg.Network()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := handler.RouterOptions{
		Version:     version,
		Network:     n,
		APIToken:    cfg.APIToken,
		AuthLimiter: middleware.NewAuthAttemptLimiter(0, 0, 0),
		TOML:        stellartoml.NewResolver(nil),
		CORSOrigins: cfg.CORSOrigins,
		Registry:    registry,
	}
	if cfg.RateLimitMax > 0 {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	if cfg.SigningSecretKey == "" {
		return opts, nil
	}
	signer, err := signing.NewSigner(cfg.SigningSecretKey, n)
	if err != nil {
		return opts, err
	}
	opts.Signer = signer
	if cfg.APIToken == "" {
		log.Warn().Msg("API_TOKEN is not set, POST /transactions/sign is open to any client")
	}

	if cfg.WebAuthEnabled() {
		opts.URIKey = cfg.Signer()
		opts.HomeDomain = cfg.HomeDomain
		opts.WebAuth, err = sep10.NewServer(sep10.ServerConfig{
			Key:           cfg.Signer(),
			HomeDomain:    cfg.HomeDomain,
			WebAuthDomain: cfg.WebAuthDomain,
			Network:       n,
			Timeout:       cfg.ChallengeTimeout,
			Signers:       handler.HorizonSigners(horizon.NewAccountLoader(a.horizonClient())),
		})
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

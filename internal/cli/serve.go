// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - HTTP server command with config hot reload.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/fiber/internal/config"
	"github.com/jeranaias/fiber/internal/server"
)

func newServeCommand(rt *runtime) *cobra.Command {
	var (
		port        int
		host        string
		noWatch     bool
		corsOrigins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API for the browser client",
		Long: `Starts an HTTP server with a streaming chat endpoint (POST /api/chat)
and a health check (GET /health).

While serving, edits to config.toml change the model and the rate limit
without a restart.`,
		Example: `  fiber serve
  fiber serve --port 8080 --host 0.0.0.0
  fiber serve --cors-origin https://notes.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				rt.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				rt.cfg.Server.Host = host
			}
			return rt.serve(cmd.Context(), corsOrigins, !noWatch)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "port to listen on (env FIBER_PORT)")
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "interface to listen on")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload config.toml on change")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "browser origins allowed to call the API (default: localhost)")
	return cmd
}

// newServer builds the API server from the loaded config. Empty
// corsOrigins keeps the localhost default.
func (rt *runtime) newServer(corsOrigins []string) *server.Server {
	cfg := rt.cfg
	srv := server.NewServer(rt.app, server.Options{
		Addr:             cfg.Addr(),
		RateLimitPerHour: cfg.Server.RateLimitPerHour,
		ReadTimeout:      time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		ShutdownTimeout:  time.Duration(cfg.Server.ShutdownTimeoutSecs) * time.Second,
		Version:          Version,
		Logger:           rt.logger,
	}).WithHealthChecker(rt.client)

	if len(corsOrigins) > 0 {
		cors := server.DefaultCORSConfig()
		cors.AllowedOrigins = corsOrigins
		srv.WithCORS(cors)
	}
	return srv
}

func (rt *runtime) serve(ctx context.Context, corsOrigins []string, watch bool) error {
	cfg := rt.cfg
	srv := rt.newServer(corsOrigins)

	if err := srv.Listen(); err != nil {
		return NewCommandError("serve", "listen", "could not bind "+cfg.Addr(), err)
	}
	rt.printer.Success(fmt.Sprintf("Fiber is listening on http://%s", srv.Addr()))
	rt.printer.Dim(fmt.Sprintf("Model %s, %d requests per hour per client. Press Ctrl-C to stop.",
		rt.client.Model(), srv.RateLimit()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if watch {
		w, err := config.NewWatcher(rt.cfgPath, rt.logger)
		if err != nil {
			rt.logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			w.Prepare = func(c *config.Config) { c.ApplyOverrides(rt.v) }
			g.Go(func() error {
				return w.Run(ctx, func(c *config.Config) { rt.reload(srv, c) })
			})
		}
	}

	err := g.Wait()
	rt.printer.Warning("Server stopped")
	return err
}

// reload applies the settings that can change while serving.
func (rt *runtime) reload(srv *server.Server, c *config.Config) {
	if c.Ollama.Model != rt.client.Model() {
		rt.logger.Info("model changed", zap.String("from", rt.client.Model()), zap.String("to", c.Ollama.Model))
		rt.client.SetModel(c.Ollama.Model)
		rt.printer.Info("Model changed to " + c.Ollama.Model)
	}
	if c.Server.RateLimitPerHour != srv.RateLimit() {
		rt.logger.Info("rate limit changed", zap.Int("per_hour", c.Server.RateLimitPerHour))
		srv.SetRateLimit(c.Server.RateLimitPerHour)
		rt.printer.Info(fmt.Sprintf("Rate limit changed to %d requests per hour", c.Server.RateLimitPerHour))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/myflix/internal/server"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// SandboxServe runs the in-memory API server until SIGINT or SIGTERM.
func (r *Runner) SandboxServe(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if addr := cmd.String("addr"); addr != "" {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("invalid --addr %q: %w", addr, err)
		}
		cfg.Host = host
		if cfg.Port, err = strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid port in --addr %q: %w", addr, err)
		}
	}

	srv, err := server.New(cfg, r.logger.WithPrefix("sandbox"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("Sandbox API listening on http://%s\n", cfg.Addr())
	r.writePlain("Point the client at it with %s=http://%s\n", shared.APIURLEnv, cfg.Addr())

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	r.logger.Info("sandbox stopped")
	return nil
}

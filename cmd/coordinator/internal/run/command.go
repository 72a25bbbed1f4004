// Package run implements the `coordinator run` subcommand: load config,
// bind the transport, and drive the routing loop until a signal or a
// self-handled shut_down stops it.
package run

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leco-dev/coordinator/pkg/config"
	"github.com/leco-dev/coordinator/pkg/coordinator"
	"github.com/leco-dev/coordinator/pkg/housekeeping"
	"github.com/leco-dev/coordinator/pkg/logger"
	"github.com/leco-dev/coordinator/pkg/transport"
)

// NewRunCommand builds the `run` subcommand.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the LECO coordinator",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCmd()
		},
	}
	return cmd
}

func runCmd() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	router := transport.NewRouter()
	c := coordinator.New(cfg.Name, router, coordinator.WithThresholds(cfg.PingThreshold, cfg.EvictionThreshold))
	housekeeper := housekeeping.New(cfg.HousekeepingCron, c.Directory())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Port != 0 {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := router.Bind(ctx, addr); err != nil {
			return fmt.Errorf("binding transport on %s: %w", addr, err)
		}
		logger.InfoCF("coordinator", "listening", map[string]any{"name": cfg.Name, "addr": addr})
	}

	go func() {
		if err := housekeeper.Run(ctx); err != nil {
			logger.InfoCF("housekeeping", "stopped", map[string]any{"reason": err.Error()})
		}
	}()

	if err := c.Run(ctx); err != nil {
		logger.InfoCF("coordinator", "stopped", map[string]any{"reason": err.Error()})
	}
	return nil
}

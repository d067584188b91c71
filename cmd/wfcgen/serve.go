package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wfcgen/wfcgen/config"
	"github.com/wfcgen/wfcgen/host"
	"github.com/wfcgen/wfcgen/metrics"
)

func newServeCmd() *cobra.Command {
	var addr string
	var maxSessions int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the websocket host protocol for interactive generation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefaults()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}

			reg := prometheus.NewRegistry()
			rec := metrics.New(reg)
			mgr, err := host.NewManager(maxSessions, logger, rec)
			if err != nil {
				return err
			}

			hostCfg := host.DefaultConfig()
			hostCfg.MetricsRegistry = reg
			srv := host.NewServer(addr, mgr, hostCfg, logger)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config's listen_addr)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 256, "maximum concurrent sessions held in memory")
	return cmd
}

// loadConfigOrDefaults loads config.Load but tolerates a missing
// catalog_path, since `serve` accepts its catalog per-session via the
// `init` message rather than at startup.
func loadConfigOrDefaults() (config.Config, error) {
	cfg := config.Default()
	if configPath == "" {
		return cfg, nil
	}
	loaded, err := config.Load(configPath)
	if err != nil {
		var invalid *config.ErrInvalid
		if errors.As(err, &invalid) && invalid.Field == "catalog_path" {
			return cfg, nil
		}
		return config.Config{}, err
	}
	return loaded, nil
}

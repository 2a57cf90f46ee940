package main

import (
	"context"
	"fmt"
	"time"

	"dm-chat/internal/config"
	"dm-chat/internal/metrics"
	"dm-chat/internal/session"
	"dm-chat/internal/transport"
	"dm-chat/internal/utils"
	"dm-chat/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const healthProbeTimeout = 3 * time.Second

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "dm-chat",
	Short:         "Chat with a remote dungeon master from the browser or the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(loaded.Log.Level, loaded.Log.Format); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("dm-chat: %v", err)
	}
}

// newSession resolves the DM base URL once and builds the controller that
// every presentation shares.
func newSession(ctx context.Context, cfg *config.Config) (*session.Controller, *prometheus.Registry, error) {
	baseURL, err := cfg.API.ResolveBaseURL()
	if err != nil {
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	client, err := transport.NewClient(baseURL, utils.NewHTTPClient(cfg.API.Timeout), m)
	if err != nil {
		return nil, nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	if err := client.Health(probeCtx); err != nil {
		logger.Warnf("DM service at %s is not answering yet: %v", baseURL, err)
	} else {
		logger.Infof("DM service reachable at %s", baseURL)
	}

	ctrl, err := session.NewController(client, m)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, registry, nil
}

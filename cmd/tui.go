package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dm-chat/internal/tui"
	"dm-chat/pkg/logger"

	"github.com/spf13/cobra"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Chat in the terminal",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs here; logs are discarded when empty")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// stdout belongs to the terminal UI
	var out io.Writer = io.Discard
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger.SetOutput(out)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, _, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	return tui.Run(ctx, ctrl, cfg.UI.Title)
}

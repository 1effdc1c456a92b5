package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/domain"
	"github.com/JaimeStill/courier/internal/infrastructure"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "courier",
		Short: "Classify documents and route them to processing handlers",
		Long: `courier detects the format and intent of an input document, routes it to
the email or structured-data handler, and records every step in a shared
ledger keyed by thread id.

Examples:
  # Classify and process a file
  courier process inbox/complaint.eml

  # Process raw text
  courier process --raw "Subject: Late order ..."

  # Process a directory concurrently
  courier batch inbox/

  # Inspect a thread
  courier logs --thread 0b6f...
  courier context 0b6f...`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				os.Setenv(config.EnvCourierConfig, configPath)
			}
			if logLevel != "" {
				os.Setenv(config.EnvCourierLogLevel, logLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.toml when present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newProcessCmd(),
		newBatchCmd(),
		newLogsCmd(),
		newContextCmd(),
		newServeCmd(),
	)

	return root
}

// app is the started infrastructure and domain shared by every command.
type app struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *domain.Domain
}

// openApp loads configuration, starts infrastructure, and brings the
// ledger schema up to date. Logs go to the command's stderr.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	infra, err := infrastructure.NewWithWriter(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}

	dom := domain.New(cfg, infra)
	if err := dom.Migrate(); err != nil {
		infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		return nil, err
	}

	return &app{cfg: cfg, infra: infra, domain: dom}, nil
}

func (a *app) close() {
	if err := a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration()); err != nil {
		a.infra.Logger.Error("shutdown failed", "error", err)
	}
}

func exactThread(cmd *cobra.Command, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("requires a thread id")
	}
	return nil
}

// Package cmd defines and implements the CLI commands for the jobharvest
// executable. Each pipeline stage is its own subcommand so stages can be
// rerun independently.
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/config"
	"github.com/quangtd/jobharvest/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobharvest",
		Short: "Harvests Vietnamese job boards into an analyzable skill dataset.",
		Long: `jobharvest walks configured job listing sites, persists raw postings as
append-only JSON Lines logs, and refines them through the normalize, enrich,
and flatten stages into a flat (job, skill) table.`,
		SilenceUsage: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			logger, err = logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	cmd.AddCommand(newHarvestCmd())
	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newEnrichCmd())
	cmd.AddCommand(newFlattenCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// sourceNames returns the configured source names in a stable order.
func sourceNames() []string {
	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

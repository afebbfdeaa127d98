package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/export"
)

func newFlattenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flatten",
		Short: "Merge skills into jobs and export the tabular datasets",
		RunE: func(_ *cobra.Command, _ []string) error {
			rows, err := export.NewRunner(logger).Run(export.Paths{
				Normalized: cfg.NormalizedLog(),
				Skills:     cfg.SkillsLog(),
				Merged:     cfg.MergedLog(),
				FlatJSONL:  cfg.FlatLog(),
				FlatCSV:    cfg.FlatCSV(),
				Dashboard:  cfg.Paths.DashboardFile,
			})
			if err != nil {
				return err
			}
			logger.Info("flatten complete",
				zap.Int("skill_rows", rows),
				zap.String("csv", cfg.FlatCSV()),
				zap.String("dashboard", cfg.Paths.DashboardFile))
			return nil
		},
	}
}

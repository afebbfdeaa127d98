package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/normalize"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Normalize the raw logs into one cleaned dataset",
		RunE: func(_ *cobra.Command, _ []string) error {
			var inputs []string
			for _, name := range sourceNames() {
				path := cfg.RawLog(name)
				if _, err := os.Stat(path); err != nil {
					logger.Warn("raw log missing, skipping",
						zap.String("source", name),
						zap.String("path", path))
					continue
				}
				inputs = append(inputs, path)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no raw logs found under %s; run harvest first", cfg.Paths.RawDir)
			}

			count, err := normalize.NewRunner(logger).Run(inputs, cfg.NormalizedLog())
			if err != nil {
				return err
			}
			logger.Info("normalization complete",
				zap.Int("jobs", count),
				zap.String("output", cfg.NormalizedLog()))
			return nil
		},
	}
}

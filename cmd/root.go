package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "alignops",
	Short: "Reverse pipeline scheduling and candidate funnel tracking",
	Long:  "Works backward from staffing targets to per-stage hiring deadlines, tracks live candidate occupancy against the plan, and reports funnel health.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sanireport",
	Short: "School sanitation analytical report pipeline",
	Long:  "Joins the UNICEF school-sanitation indicator with per-country socio-economic metadata, derives five chart views, and renders an HTML report with insight notes.",
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

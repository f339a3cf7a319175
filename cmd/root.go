package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tradewatch/ipscreen/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ipscreen",
	Short: "Multi-signal IP infringement risk screening",
	Long:  "Screens bills of materials, product images, and listing text against reference export data and brand imagery, cross-validates the findings, and produces a risk report.",
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

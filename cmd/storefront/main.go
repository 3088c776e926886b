package main

import (
	"fmt"
	"os"

	"github.com/Nivash8098/E-Commerece-Website/internal/config"
	"github.com/Nivash8098/E-Commerece-Website/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "GenCart storefront service",
	Long: `storefront serves the GenCart shopping API: catalog browsing, per-session
carts, the checkout wizard, order tracking, seller uploads and the shopping assistant.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		log, err = logger.New(cfg.Logger.Mode, cfg.Logger.Level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

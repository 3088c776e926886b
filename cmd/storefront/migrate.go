package main

import (
	"github.com/Nivash8098/E-Commerece-Website/internal/journal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply order journal migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := journal.Open(cfg.Storage.OrderStoreDriver, cfg.Storage.OrderStoreDSN, log)
		if err != nil {
			return err
		}
		defer j.Close()

		if err := j.RunMigrations(); err != nil {
			return err
		}
		log.Info("order journal is up to date", zap.String("driver", cfg.Storage.OrderStoreDriver))
		return nil
	},
}

package main

import (
	"github.com/sangkips/billgen-api/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed the admin user, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := migrate(cfg, db); err != nil {
			return err
		}

		log := logger.WithComponent("migrate")
		log.Info().Msg("migrations applied")
		return nil
	},
}

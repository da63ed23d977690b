package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Create or update all MySQL tables the platform needs. Statements are idempotent, so re-running is safe.",
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) {
	_, svcs, cleanup := mustCreateServices()
	defer cleanup()

	if err := svcs.store.Migrate(context.Background()); err != nil {
		logrus.WithError(err).Fatal("Migration failed")
	}
	logrus.Info("Migration complete")
}

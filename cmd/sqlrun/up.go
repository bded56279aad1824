package main

import (
	"context"

	"github.com/loykin/sqlrun"
	"github.com/loykin/sqlrun/internal/common"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Converge the store schema and seed baseline data",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := resolveConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		st, res, err := sqlrun.Initialize(ctx, sqlrun.Config{
			Store:      doc.Store,
			MigrateDir: doc.MigrateDir,
		})
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		logger := common.GetLogger()
		for _, a := range res.Applied {
			if a.Err != nil {
				logger.Warn("migration did not complete", "migration", a.Name, "steps", a.StepsApplied, "error", a.Err)
			}
		}
		if res.SeedErr != nil {
			logger.Warn("seeding did not complete", "error", res.SeedErr)
		}
		return nil
	},
}

package main

import (
	"fmt"

	"github.com/loykin/sqlrun"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Scaffold a new migration directory (timestamp-based name)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := resolveConfig()
		if err != nil {
			return err
		}

		name := "migration"
		if len(args) > 0 {
			name = args[0]
		}

		p, err := sqlrun.CreateMigration(sqlrun.CreateOptions{Name: name, Dir: doc.MigrateDir})
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

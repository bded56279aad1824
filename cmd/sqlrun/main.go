package main

import (
	"os"
	"strings"

	"github.com/loykin/sqlrun/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "sqlrun",
	Short: "Bootstrap a SQLite schema, apply pending SQL migrations and seed baseline data",
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", "")
	v.SetDefault("dsn", "file:./data/app.db")
	v.SetDefault("migrate_dir", "./migrations")

	// Environment variables support: SQLRUN_CONFIG, SQLRUN_DSN, ...
	v.SetEnvPrefix("SQLRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Bind flags via Cobra and then bind to Viper
	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to a config yaml")
	rootCmd.PersistentFlags().String("dsn", v.GetString("dsn"), "store connection string (file:<path>)")
	rootCmd.PersistentFlags().String("migrate-dir", v.GetString("migrate_dir"), "migration catalog root directory")

	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("dsn", rootCmd.PersistentFlags().Lookup("dsn"))
	_ = v.BindPFlag("migrate_dir", rootCmd.PersistentFlags().Lookup("migrate-dir"))

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(createCmd)
}

// resolveConfig merges the optional config document with viper values;
// flags and environment win over file defaults only when explicitly set.
func resolveConfig() (ConfigDoc, error) {
	v := viper.GetViper()
	doc := ConfigDoc{}
	configPath := strings.TrimSpace(v.GetString("config"))
	if configPath != "" {
		if err := doc.Load(configPath); err != nil {
			return doc, err
		}
	}
	if doc.Store.DSN == "" {
		doc.Store.DSN = v.GetString("dsn")
	}
	if doc.MigrateDir == "" {
		doc.MigrateDir = v.GetString("migrate_dir")
	}
	doc.ConfigureLogging()
	return doc, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		common.GetLogger().Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

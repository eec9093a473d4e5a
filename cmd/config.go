package cmd

import (
	"db-sync/internal/migrate"

	"github.com/spf13/viper"
)

// loadConfig collapses the viper state (flag > config file > env >
// default) into the single immutable config handed to the workflows.
func loadConfig() migrate.Config {
	return migrate.Config{
		Host:     viper.GetString("db.host"),
		User:     viper.GetString("db.user"),
		Password: viper.GetString("db.password"),
		Name:     viper.GetString("db.name"),

		SchemaDir:    viper.GetString("schema.dir"),
		SnapshotFile: viper.GetString("schema.snapshot"),
		PendingFile:  viper.GetString("schema.pending"),
	}
}

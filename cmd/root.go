package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:   "db-sync",
	Short: "A declarative schema migration tool",
	Long: `db-sync reconciles a running PostgreSQL database with the schema
declared as SQL files in the application tree.

Tasks:
  sync [noprompt]   diff app schema to live db & apply changes, use for dev primarily
  pending           diff stored prod snapshot & save to file, used for prod primarily

The live database is selected via the DB_HOST, DB_USER, DB_PASS and
DB_NAME environment variables (defaults: localhost, test, pass, dev).`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("No task given")
			return
		}
		fmt.Println("No such task")
	},
}

func Execute() {
	// An interrupt aborts in-flight queries; scratch databases are still
	// dropped on the way out (see internal/tempdb).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-sync.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-sync")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	viper.BindEnv("db.host", "DB_HOST")
	viper.BindEnv("db.user", "DB_USER")
	viper.BindEnv("db.password", "DB_PASS")
	viper.BindEnv("db.name", "DB_NAME")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.user", "test")
	viper.SetDefault("db.password", "pass")
	viper.SetDefault("db.name", "dev")

	viper.SetDefault("schema.dir", filepath.Join("db", "models"))
	viper.SetDefault("schema.snapshot", filepath.Join("migrations", "production.dump.sql"))
	viper.SetDefault("schema.pending", filepath.Join("migrations", "pending.sql"))

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

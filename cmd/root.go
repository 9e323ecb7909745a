/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/josephgoksu/taskapi/internal/logger"
	"github.com/josephgoksu/taskapi/store"
	"github.com/josephgoksu/taskapi/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "1.0.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskapi",
	Short: "taskapi serves a small task list over a JSON HTTP API.",
	Long: `taskapi keeps a list of tasks in a single document (JSON, YAML or TOML) or a
SQLite database and exposes create, read, update, delete and filter operations
over HTTP.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.CommandPath())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)
	logger.SetVersion(version)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskapi.yaml or $HOME/.taskapi.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringP("file", "f", "task.json", "task document (or database) path")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("data.file", rootCmd.PersistentFlags().Lookup("file"))
}

// GetStore opens the task store selected by data.backend. The returned
// close function must be called once the store is no longer needed.
func GetStore(cfg *types.AppConfig) (store.TaskStore, func() error, error) {
	switch cfg.Data.Backend {
	case "sqlite":
		s, err := store.NewSQLiteTaskStore(cfg.Data.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store at %s: %w", cfg.Data.File, err)
		}
		return s, s.Close, nil
	case "file", "":
		s, err := store.NewFileTaskStore(afero.NewOsFs(), cfg.Data.File, store.FileOptions{
			Format: cfg.Data.Format,
			Lock:   cfg.Data.Lock,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize store at %s: %w", cfg.Data.File, err)
		}
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown data backend %q", cfg.Data.Backend)
	}
}

// describeStore is the one-line store summary printed by serve and init.
func describeStore(s store.TaskStore) string {
	switch st := s.(type) {
	case *store.FileTaskStore:
		return fmt.Sprintf("%s (%s)", st.Path(), st.Format())
	case *store.SQLiteTaskStore:
		return fmt.Sprintf("%s (sqlite)", st.Path())
	default:
		return fmt.Sprintf("%T", s)
	}
}

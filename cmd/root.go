package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/config"
	"github.com/pable/go-match-stats/internal/logging"
)

// localUser owns the CLI's own roster and saved matches in the database.
const localUser = "local"

var (
	dbPath     string
	configPath string
	endpoint   string
	token      string
	logLevel   string
	userID     string

	cfg    config.Config
	appCfg config.App
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "matchstats",
	Short: "Football match statistics tool",
	Long: `Aggregate saved football matches into overview, form, opponent, goal and
player statistics, manage the roster, and serve the user-matches and
user-stats endpoints.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to SQLite database (env MATCHSTATS_DB)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "matchstats.json", "app config JSON (team defaults, branding)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "functions base URL to load matches from (env CLOUD_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token for --endpoint (env CLOUD_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", localUser, "user whose local roster and matches to use")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup merges the environment under explicitly set flags and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("db") && os.Getenv("MATCHSTATS_DB") != "" {
		dbPath = cfg.DBPath
	}
	if !flags.Changed("endpoint") {
		endpoint = cfg.CloudEndpoint
	}
	if !flags.Changed("token") {
		token = cfg.CloudToken
	}
	if !flags.Changed("log-level") {
		logLevel = cfg.LogLevel
	}
	logger = logging.New(logLevel, cfg.LogFormat, os.Stderr)

	appCfg, err = config.LoadApp(configPath)
	if err != nil {
		return err
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/daybrief/internal/briefing"
	"github.com/joescharf/daybrief/internal/feedback"
	"github.com/joescharf/daybrief/internal/output"
	"github.com/joescharf/daybrief/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "daybrief",
	Short: "Daily briefing from your coding session logs",
	Long: `daybrief turns local coding-session logs into a morning briefing.
It parses session transcripts, surfaces unresolved questions, blockers,
and recurring todos, folds in pre-fetched GitHub activity, and ranks it
all into a start-here action list that adapts to your feedback.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return briefingRun(cmd)
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/daybrief/config.yaml)")
	rootCmd.Flags().IntP("window", "w", 0, "Look-back window in days (overrides window_days)")
	rootCmd.Flags().Bool("no-archive", false, "Skip archiving the briefing to the database")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "daybrief")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DAYBRIEF")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "daybrief")

	viper.SetDefault("data_dir", defaultConfigDir)
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "daybrief.db"))
	viper.SetDefault("logs_dir", filepath.Join(home, ".claude", "projects"))
	viper.SetDefault("github_activity", "")
	viper.SetDefault("window_days", 1)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// Initialize store lazily — only when commands actually need it.
	// This allows config/version commands to run without a db.
}

// briefingRun handles `daybrief` with no subcommand: build, render, archive.
func briefingRun(cmd *cobra.Command) error {
	b := newBuilder()
	if w, _ := cmd.Flags().GetInt("window"); w > 0 {
		b.WindowDays = w
	}

	ui.VerboseLog("scanning %s (window: %dd)", b.LogsDir, b.WindowDays)

	brief, err := b.Build()
	if err != nil {
		return err
	}

	renderBriefing(brief)

	if noArchive, _ := cmd.Flags().GetBool("no-archive"); noArchive {
		return nil
	}
	if dryRun {
		ui.DryRunMsg("Would archive briefing %s", brief.ID)
		return nil
	}

	s, err := getStore()
	if err != nil {
		return err
	}
	if err := s.SaveBriefing(cmd.Context(), brief); err != nil {
		return fmt.Errorf("archive briefing: %w", err)
	}
	ui.VerboseLog("archived briefing %s", brief.ID)
	return nil
}

// newBuilder assembles a briefing builder from the effective config.
func newBuilder() *briefing.Builder {
	return &briefing.Builder{
		LogsDir:      viper.GetString("logs_dir"),
		ActivityPath: viper.GetString("github_activity"),
		WindowDays:   viper.GetInt("window_days"),
		Feedback:     getFeedback(),
		Now:          time.Now().UTC(),
	}
}

// getFeedback returns the feedback store rooted at the data directory.
func getFeedback() *feedback.Store {
	return feedback.NewStore(viper.GetString("data_dir"))
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/xalt/visitcal/internal/auth"
	"github.com/xalt/visitcal/internal/config"
	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/jira"
	"github.com/xalt/visitcal/internal/logging"
	"github.com/xalt/visitcal/internal/store"
	"github.com/xalt/visitcal/internal/tui"
)

var (
	// CLI flags
	configFlag  string
	urlFlag     string
	projectFlag string
	viewFlag    string
	verboseFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "visitcal",
		Short: "Terminal calendar for Jira visit issues",
		Long: `visitcal is a terminal calendar for site visits tracked in Jira.

It searches the configured projects for visit issues and lays them out
on a month or week grid with keyboard navigation.

Authentication:
  1. Config file: set email and api_token in config.yaml
  2. Environment variables: set JIRA_EMAIL and JIRA_API_TOKEN

The API token must have read access to the visit projects.`,
		RunE: run,
	}

	// Define CLI flags
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file path. Defaults to the user config directory.")
	rootCmd.Flags().StringVar(&urlFlag, "url", "", "Jira site URL, e.g. https://example.atlassian.net. Overrides the config file.")
	rootCmd.Flags().StringVar(&projectFlag, "project", "", "Project key to show visits for. Skips the project picker.")
	rootCmd.Flags().StringVar(&viewFlag, "view", "", "Initial view: month, week or fullweek.")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging on stderr.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	configPath := configFlag
	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if verboseFlag || cfg.Verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	baseURL := cfg.BaseURL
	if urlFlag != "" {
		baseURL = urlFlag
	}
	if baseURL == "" {
		return fmt.Errorf("no Jira site configured; set base_url in %s or pass --url", configPath)
	}

	// Resolve credentials (config file, then environment)
	creds, err := auth.GetCredentials(cfg.Credentials())
	if err != nil {
		return err
	}

	client, err := jira.New(baseURL, creds)
	if err != nil {
		return fmt.Errorf("failed to create Jira client: %w", err)
	}

	// Load the persisted calendar settings into the store
	settingsPath, err := cfg.ResolveSettingsPath()
	if err != nil {
		return err
	}
	settingsFile := store.NewSettingsFile(settingsPath)

	s := store.New()
	s.SetSettings(settingsFile.Load())

	view := cfg.View()
	if viewFlag != "" {
		switch domain.ViewMode(viewFlag) {
		case domain.ViewMonth, domain.ViewWeek, domain.ViewFullWeek:
			view = domain.ViewMode(viewFlag)
		default:
			return fmt.Errorf("unknown view %q (expected month, week or fullweek)", viewFlag)
		}
	}

	ctx := context.Background()

	app := tui.NewAppModel(client, s, settingsFile, ctx, projectFlag, view)

	// Run Bubble Tea program
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/cc-convo/internal/config"
	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

var version = "dev"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	claudeDir  string
	jsonOut    bool
	noColor    bool
	sinceHours uint
	sinceDays  uint
	until      string

	colorEnabled bool
}

var global globalOptions

func main() {
	rootCmd := &cobra.Command{
		Use:     "cc-convo",
		Short:   "Extract, search, and export Claude local conversations",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			global.colorEnabled = !global.noColor && term.IsTerminal(int(os.Stdout.Fd()))
			if !global.colorEnabled {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&global.claudeDir, "claude-dir", "", "Claude projects directory (default ~/.claude/projects)")
	pf.BoolVar(&global.jsonOut, "json", false, "Emit machine-readable JSON on stdout")
	pf.BoolVar(&global.noColor, "no-color", false, "Disable colorized output")
	pf.UintVar(&global.sinceHours, "since-hours", 0, "Only sessions modified in the last N hours")
	pf.UintVar(&global.sinceDays, "since-days", 0, "Only sessions modified in the last N days")
	pf.StringVar(&global.until, "until", "", "Upper bound mtime filter (RFC3339)")
	rootCmd.MarkFlagsMutuallyExclusive("since-hours", "since-days")

	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(hiddenListCmd())
	rootCmd.AddCommand(hiddenViewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// claudeDir resolves the transcript root: flag, then config file, then the
// built-in default.
func claudeDir() (string, error) {
	if global.claudeDir != "" {
		return config.ExpandPath(global.claudeDir)
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.ClaudeDir, nil
}

// outputDir resolves an export/doctor output directory the same way.
func outputDir(flagValue string) (string, error) {
	if flagValue != "" {
		return config.ExpandPath(flagValue)
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.OutputDir, nil
}

// timeWindow validates the persistent time-filter flags before any file I/O.
func timeWindow(cmd *cobra.Command) (scan.TimeWindow, error) {
	var window scan.TimeWindow

	if cmd.Flags().Changed("since-hours") {
		if global.sinceHours == 0 {
			return window, fmt.Errorf("--since-hours must be > 0")
		}
		window.Since = time.Now().UTC().Add(-time.Duration(global.sinceHours) * time.Hour)
	}
	if cmd.Flags().Changed("since-days") {
		if global.sinceDays == 0 {
			return window, fmt.Errorf("--since-days must be > 0")
		}
		window.Since = time.Now().UTC().AddDate(0, 0, -int(global.sinceDays))
	}
	if global.until != "" {
		until, err := time.Parse(time.RFC3339, global.until)
		if err != nil {
			return window, fmt.Errorf("invalid --until timestamp %q: %w", global.until, err)
		}
		window.Until = until.UTC()
	}
	return window, nil
}

// discoverSessions is the shared discovery entry for every subcommand.
func discoverSessions(cmd *cobra.Command) ([]scan.Session, error) {
	dir, err := claudeDir()
	if err != nil {
		return nil, err
	}
	window, err := timeWindow(cmd)
	if err != nil {
		return nil, err
	}
	return scan.Discover(dir, window)
}

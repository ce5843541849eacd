// Package cmd implements the tauri-browse CLI: a WebDriver client for Tauri
// apps that keeps per-session page state (refs, last snapshot) on disk so
// independent invocations can act on elements seen by earlier ones.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/config"
	"github.com/fakeyudi/tauri-browse/internal/session"
)

// Global flags, applied on top of the merged configuration.
var (
	flagSession string
	flagDriver  string
	flagDisplay string
	flagTimeout int
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "tauri-browse",
	Short: "WebDriver CLI for Tauri apps via tauri-driver",
	Long: `tauri-browse drives a Tauri application through tauri-driver's WebDriver
endpoint. Sessions persist between invocations: take a snapshot to get @e refs
for interactive elements, then click, fill, and diff against them from later
commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load and merge config layers: defaults, global file, project file,
		// environment (.env included), then flags.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		flags := &config.Config{
			Driver:         flagDriver,
			Display:        flagDisplay,
			TimeoutSeconds: flagTimeout,
		}
		cfg = config.Merge(global, project, config.FromEnv(), flags)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error; cobra already
// printed the single-line diagnostic to stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSession, "session", session.DefaultName, "session name")
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "", "WebDriver URL (default "+config.DefaultDriver+")")
	rootCmd.PersistentFlags().StringVar(&flagDisplay, "display", "", "X display for screenshots")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "per-request timeout in seconds")
}

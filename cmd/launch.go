package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/session"
)

var launchCmd = &cobra.Command{
	Use:   "launch <binary>",
	Short: "Launch a Tauri app via WebDriver and start a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		binary, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(binary); err != nil {
			return fmt.Errorf("binary not found: %s", binary)
		}

		store, err := newStore()
		if err != nil {
			return err
		}

		client := newClient()
		ctx := cmd.Context()
		sid, err := client.NewSession(ctx, binary)
		if err != nil {
			return err
		}

		st := session.NewState(flagSession, sid)
		st.Display = flagDisplay
		if err := store.Save(st); err != nil {
			return err
		}
		cmd.Printf("Session started: %s\n", sid)

		// Give the webview a moment to finish its first load before reporting
		// where it landed.
		time.Sleep(2 * time.Second)
		if url, err := client.URL(ctx, sid); err == nil {
			cmd.Printf("URL: %s\n", url)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

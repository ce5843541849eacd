package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

var (
	snapshotInteractive bool
	snapshotCursor      bool
	snapshotScope       string
	snapshotJSON        bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "List interactive elements with @refs",
	Long: `Snapshot walks the page in document order, tags each interactive element
with a durable marker, and prints one line per element with a fresh @e ref.
Every snapshot starts a new ref epoch: earlier refs become stale.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		client := newClient()

		var snap *snapshot.Snapshot
		_, err = store.Update(flagSession, func(st *session.State) error {
			b := snapshot.NewBuilder(client, st.DriverSessionID)
			s, err := b.Build(cmd.Context(), st, snapshot.Options{
				Scope:         snapshotScope,
				IncludeCursor: snapshotCursor,
			})
			if err != nil {
				return err
			}
			snap = s
			return nil
		})
		if err != nil {
			return err
		}

		if snapshotJSON {
			data, err := snap.JSON()
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}
		if text := snap.Text(); text != "" {
			cmd.Println(text)
		}
		return nil
	},
}

func init() {
	snapshotCmd.Flags().BoolVarP(&snapshotInteractive, "interactive", "i", false, "interactive elements only (default behavior; kept for compatibility)")
	snapshotCmd.Flags().BoolVarP(&snapshotCursor, "cursor", "C", false, "also include cursor-interactive elements")
	snapshotCmd.Flags().StringVarP(&snapshotScope, "scope", "s", "", "limit to a CSS selector's subtree")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(snapshotCmd)
}

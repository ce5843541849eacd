package cmd

import (
	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the session and remove its state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		st, err := store.Load(flagSession)
		if err != nil {
			return err
		}

		// Best effort: the remote session may already be gone.
		_ = newClient().DeleteSession(cmd.Context(), st.DriverSessionID)

		if err := store.Delete(flagSession); err != nil {
			return err
		}
		cmd.Println("Session closed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

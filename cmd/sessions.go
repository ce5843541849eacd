package cmd

import (
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		infos, err := store.List()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			cmd.Println("No active sessions.")
			return nil
		}
		for _, info := range infos {
			marker := ""
			if info.Name == flagSession {
				marker = " *"
			}
			if info.Err != nil {
				cmd.Printf("  %s%s (corrupt: %v)\n", info.Name, marker, info.Err)
				continue
			}
			cmd.Printf("  %s%s (%s)\n", info.Name, marker, info.DriverSessionID)
		}
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

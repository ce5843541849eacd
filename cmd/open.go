package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/webdriver"
)

// navigate runs a navigation-causing protocol call under the session lock and
// starts a new ref epoch: all previously minted tokens become stale.
func navigate(cmd *cobra.Command, fn func(ctx context.Context, c *webdriver.Client, st *session.State) error) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	client := newClient()
	_, err = store.Update(flagSession, func(st *session.State) error {
		if err := fn(cmd.Context(), client, st); err != nil {
			return err
		}
		st.ResetRefs()
		return nil
	})
	return err
}

var openCmd = &cobra.Command{
	Use:     "open <url>",
	Aliases: []string{"goto", "navigate"},
	Short:   "Navigate to a URL",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(cmd, func(ctx context.Context, c *webdriver.Client, st *session.State) error {
			if err := c.Navigate(ctx, st.DriverSessionID, args[0]); err != nil {
				return err
			}
			cmd.Printf("Navigated to %s\n", args[0])
			return nil
		})
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the current page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(cmd, func(ctx context.Context, c *webdriver.Client, st *session.State) error {
			if err := c.Refresh(ctx, st.DriverSessionID); err != nil {
				return err
			}
			cmd.Println("Reloaded.")
			return nil
		})
	},
}

var backCmd = &cobra.Command{
	Use:   "back",
	Short: "Go back in history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(cmd, func(ctx context.Context, c *webdriver.Client, st *session.State) error {
			if err := c.Back(ctx, st.DriverSessionID); err != nil {
				return err
			}
			cmd.Println("Went back.")
			return nil
		})
	},
}

var forwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Go forward in history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return navigate(cmd, func(ctx context.Context, c *webdriver.Client, st *session.State) error {
			if err := c.Forward(ctx, st.DriverSessionID); err != nil {
				return err
			}
			cmd.Println("Went forward.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(backCmd)
	rootCmd.AddCommand(forwardCmd)
}

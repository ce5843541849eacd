package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/locator"
)

var getCmd = &cobra.Command{
	Use:   "get <text|url|title> [@ref|selector]",
	Short: "Read element text, page URL, or page title",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		st, err := store.Load(flagSession)
		if err != nil {
			return err
		}
		client := newClient()
		ctx := cmd.Context()

		switch args[0] {
		case "url":
			url, err := client.URL(ctx, st.DriverSessionID)
			if err != nil {
				return err
			}
			cmd.Println(url)
		case "title":
			title, err := client.Title(ctx, st.DriverSessionID)
			if err != nil {
				return err
			}
			cmd.Println(title)
		case "text":
			if len(args) < 2 {
				return cmd.Usage()
			}
			loc, err := locator.Resolve(ctx, client, st, args[1], locator.Opts{FirstMatch: true})
			if err != nil {
				return err
			}
			text, err := client.ElementText(ctx, st.DriverSessionID, loc.ElementID)
			if err != nil {
				return err
			}
			cmd.Println(text)
		default:
			return cmd.Usage()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

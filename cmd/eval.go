package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var evalStdin bool

var evalCmd = &cobra.Command{
	Use:   "eval [js]",
	Short: "Execute JavaScript in the webview",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var script string
		switch {
		case evalStdin:
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			script = string(data)
		case len(args) == 1:
			script = args[0]
		default:
			return fmt.Errorf("usage: tauri-browse eval <js> [--stdin]")
		}

		store, err := newStore()
		if err != nil {
			return err
		}
		st, err := store.Load(flagSession)
		if err != nil {
			return err
		}

		var result json.RawMessage
		client := newClient()
		if err := client.ExecuteSync(cmd.Context(), st.DriverSessionID, script, nil, &result); err != nil {
			return err
		}
		if len(result) == 0 || string(result) == "null" {
			return nil
		}

		// Strings print bare; everything else prints as indented JSON.
		var s string
		if json.Unmarshal(result, &s) == nil {
			cmd.Println(s)
			return nil
		}
		var pretty any
		if err := json.Unmarshal(result, &pretty); err != nil {
			cmd.Println(string(result))
			return nil
		}
		out, _ := json.MarshalIndent(pretty, "", "  ")
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	evalCmd.Flags().BoolVar(&evalStdin, "stdin", false, "read JavaScript from stdin")
	rootCmd.AddCommand(evalCmd)
}

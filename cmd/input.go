package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/locator"
	"github.com/fakeyudi/tauri-browse/internal/webdriver"
)

var pressCmd = &cobra.Command{
	Use:   "press <key>",
	Short: "Press a keyboard key",
	Args:  cobra.ExactArgs(1),
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
		if err := client.PressKey(cmd.Context(), st.DriverSessionID, webdriver.KeyValue(args[0])); err != nil {
			return err
		}
		cmd.Printf("Pressed: %s\n", args[0])
		return nil
	},
}

var scrollDeltas = map[string][2]int{
	"up":    {0, -1},
	"down":  {0, 1},
	"left":  {-1, 0},
	"right": {1, 0},
}

var scrollCmd = &cobra.Command{
	Use:   "scroll <up|down|left|right> <amount>",
	Short: "Scroll the page by a pixel amount",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := strings.ToLower(args[0])
		delta, ok := scrollDeltas[dir]
		if !ok {
			return fmt.Errorf("unknown direction %q: use up/down/left/right", args[0])
		}
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}

		store, err := newStore()
		if err != nil {
			return err
		}
		st, err := store.Load(flagSession)
		if err != nil {
			return err
		}
		client := newClient()
		script := fmt.Sprintf("window.scrollBy(%d, %d)", delta[0]*amount, delta[1]*amount)
		if err := client.ExecuteSync(cmd.Context(), st.DriverSessionID, script, nil, nil); err != nil {
			return err
		}
		cmd.Printf("Scrolled %s %dpx.\n", dir, amount)
		return nil
	},
}

// highlightScript flashes a red outline for three seconds without touching
// layout.
const highlightScript = `
const el = document.querySelector(arguments[0]);
if (!el) throw new Error('Element not found: ' + arguments[0]);
const orig = el.style.outline;
el.style.outline = '3px solid red';
el.style.outlineOffset = '2px';
setTimeout(() => {
    el.style.outline = orig;
    el.style.outlineOffset = '';
}, 3000);
return true;
`

var highlightCmd = &cobra.Command{
	Use:   "highlight <@ref|selector>",
	Short: "Visually highlight an element",
	Args:  cobra.ExactArgs(1),
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
		loc, err := locator.Resolve(ctx, client, st, args[0], locator.Opts{FirstMatch: true})
		if err != nil {
			return err
		}
		if err := client.ExecuteSync(ctx, st.DriverSessionID, highlightScript, []any{loc.Selector}, nil); err != nil {
			return err
		}
		cmd.Println("Highlighted for 3s.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pressCmd)
	rootCmd.AddCommand(scrollCmd)
	rootCmd.AddCommand(highlightCmd)
}

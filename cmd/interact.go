package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/locator"
	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/webdriver"
)

// interactFirst opts interaction commands into first-match semantics when a
// raw selector matches several elements.
var interactFirst bool

// interact resolves target and runs one element interaction under the
// session lock, starting a new ref epoch if the interaction navigated.
func interact(cmd *cobra.Command, target string, fn func(ctx context.Context, c *webdriver.Client, st *session.State, loc locator.Locator) error) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	client := newClient()
	_, err = store.Update(flagSession, func(st *session.State) error {
		ctx := cmd.Context()
		loc, err := locator.Resolve(ctx, client, st, target, locator.Opts{
			RequireUnique: true,
			FirstMatch:    interactFirst,
		})
		if err != nil {
			return err
		}
		_, err = urlGuard(ctx, client, st, func() error {
			return fn(ctx, client, st, loc)
		})
		return err
	})
	return err
}

var clickCmd = &cobra.Command{
	Use:   "click <@ref|selector>",
	Short: "Click an element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(cmd, args[0], func(ctx context.Context, c *webdriver.Client, st *session.State, loc locator.Locator) error {
			if err := c.Click(ctx, st.DriverSessionID, loc.ElementID); err != nil {
				return err
			}
			cmd.Println("Clicked.")
			return nil
		})
	},
}

var fillCmd = &cobra.Command{
	Use:   "fill <@ref|selector> <text>",
	Short: "Clear and type into an element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(cmd, args[0], func(ctx context.Context, c *webdriver.Client, st *session.State, loc locator.Locator) error {
			if err := c.Clear(ctx, st.DriverSessionID, loc.ElementID); err != nil {
				return err
			}
			if err := c.SendKeys(ctx, st.DriverSessionID, loc.ElementID, args[1]); err != nil {
				return err
			}
			cmd.Println("Filled.")
			return nil
		})
	},
}

var typeCmd = &cobra.Command{
	Use:   "type <@ref|selector> <text>",
	Short: "Type into an element without clearing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(cmd, args[0], func(ctx context.Context, c *webdriver.Client, st *session.State, loc locator.Locator) error {
			if err := c.SendKeys(ctx, st.DriverSessionID, loc.ElementID, args[1]); err != nil {
				return err
			}
			cmd.Println("Typed.")
			return nil
		})
	},
}

// selectScript picks a <select> option by visible text or value and fires a
// change event so framework listeners see it.
const selectScript = `
const sel = document.querySelector(arguments[0]);
if (!sel) throw new Error('Element not found: ' + arguments[0]);
const opt = Array.from(sel.options).find(
    (o) => o.text === arguments[1] || o.value === arguments[1]
);
if (!opt) throw new Error('Option not found: ' + arguments[1]);
sel.value = opt.value;
sel.dispatchEvent(new Event('change', { bubbles: true }));
return opt.text;
`

var selectCmd = &cobra.Command{
	Use:   "select <@ref|selector> <option>",
	Short: "Select a dropdown option by text or value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(cmd, args[0], func(ctx context.Context, c *webdriver.Client, st *session.State, loc locator.Locator) error {
			var picked string
			if err := c.ExecuteSync(ctx, st.DriverSessionID, selectScript, []any{loc.Selector, args[1]}, &picked); err != nil {
				return err
			}
			cmd.Printf("Selected: %s\n", picked)
			return nil
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <@ref|selector>",
	Short: "Toggle a checkbox",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(cmd, args[0], func(ctx context.Context, c *webdriver.Client, st *session.State, loc locator.Locator) error {
			if err := c.Click(ctx, st.DriverSessionID, loc.ElementID); err != nil {
				return err
			}
			cmd.Println("Toggled.")
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{clickCmd, fillCmd, typeCmd, selectCmd, checkCmd} {
		c.Flags().BoolVar(&interactFirst, "first", false, "act on the first match when a selector is ambiguous")
		rootCmd.AddCommand(c)
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/locator"
	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/webdriver"
)

var (
	findName  string
	findExact bool
	findIndex int
)

var findCmd = &cobra.Command{
	Use:   "find <strategy> <value> [action] [text]",
	Short: "Locate elements semantically and optionally act on one",
	Long: `Find locates elements by a semantic strategy instead of a CSS selector:

  text, label, role, placeholder, testid, alt, title, first, last, nth

Without an action it lists the matches in document order. With an action
(click, fill, type, check, highlight) it acts on the first match.`,
	Args: cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := locator.ParseKind(args[0])
		if err != nil {
			return err
		}
		q := locator.Query{
			Kind:       kind,
			Value:      args[1],
			Name:       findName,
			Exact:      findExact,
			Index:      findIndex,
			TestIDAttr: cfg.TestIDAttr,
		}
		if kind == locator.KindNth && findIndex < 1 {
			return fmt.Errorf("nth requires --index (1-based)")
		}

		store, err := newStore()
		if err != nil {
			return err
		}
		client := newClient()

		if len(args) == 2 {
			st, err := store.Load(flagSession)
			if err != nil {
				return err
			}
			cands, err := locator.Match(cmd.Context(), client, st.DriverSessionID, q)
			if err != nil {
				return err
			}
			for _, c := range cands {
				if c.Name != "" {
					cmd.Printf("%s %q\n", c.Role, c.Name)
				} else {
					cmd.Println(c.Role)
				}
			}
			return nil
		}

		action := args[2]
		var text string
		if len(args) == 4 {
			text = args[3]
		}
		if (action == "fill" || action == "type") && text == "" {
			return fmt.Errorf("%s requires a text argument", action)
		}

		_, err = store.Update(flagSession, func(st *session.State) error {
			ctx := cmd.Context()
			cands, err := locator.Match(ctx, client, st.DriverSessionID, q)
			if err != nil {
				return err
			}
			loc, err := locator.Resolve(ctx, client, st, cands[0].Selector(), locator.Opts{FirstMatch: true})
			if err != nil {
				return err
			}
			_, err = urlGuard(ctx, client, st, func() error {
				return findAction(ctx, cmd, client, st, loc, action, text)
			})
			return err
		})
		return err
	},
}

func findAction(ctx context.Context, cmd *cobra.Command, c *webdriver.Client, st *session.State, loc locator.Locator, action, text string) error {
	switch action {
	case "click", "check":
		if err := c.Click(ctx, st.DriverSessionID, loc.ElementID); err != nil {
			return err
		}
		cmd.Println("Clicked.")
	case "fill":
		if err := c.Clear(ctx, st.DriverSessionID, loc.ElementID); err != nil {
			return err
		}
		if err := c.SendKeys(ctx, st.DriverSessionID, loc.ElementID, text); err != nil {
			return err
		}
		cmd.Println("Filled.")
	case "type":
		if err := c.SendKeys(ctx, st.DriverSessionID, loc.ElementID, text); err != nil {
			return err
		}
		cmd.Println("Typed.")
	case "highlight":
		if err := c.ExecuteSync(ctx, st.DriverSessionID, highlightScript, []any{loc.Selector}, nil); err != nil {
			return err
		}
		cmd.Println("Highlighted for 3s.")
	default:
		return fmt.Errorf("unknown action %q: use click/fill/type/check/highlight", action)
	}
	return nil
}

func init() {
	findCmd.Flags().StringVar(&findName, "name", "", "accessible-name filter for role queries")
	findCmd.Flags().BoolVar(&findExact, "exact", false, "exact match instead of substring")
	findCmd.Flags().IntVar(&findIndex, "index", 0, "1-based index for nth queries")
	rootCmd.AddCommand(findCmd)
}

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/locator"
	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/webdriver"
)

const waitPoll = 250 * time.Millisecond

var (
	waitURL  string
	waitLoad bool
	waitFn   string
	waitGone bool
)

var waitCmd = &cobra.Command{
	Use:   "wait [@ref|selector|ms]",
	Short: "Wait for an element, URL, load settle, or predicate",
	Long: `Wait blocks until a condition holds, polling every 250ms up to the
configured timeout:

  wait 500                 sleep 500ms
  wait "#result"           element exists
  wait @e3 --gone          element no longer exists
  wait --url "/dashboard"  current URL contains the substring
  wait --load              document complete and quiet for 500ms
  wait --fn "return window.ready === true"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && waitURL == "" && !waitLoad && waitFn == "" {
			if ms, err := strconv.Atoi(args[0]); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
				return nil
			}
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

		deadline := time.Now().Add(time.Duration(cfg.TimeoutSeconds) * time.Second)
		ctx := cmd.Context()

		var cond func() (bool, error)
		switch {
		case waitURL != "":
			cond = func() (bool, error) {
				url, err := client.URL(ctx, st.DriverSessionID)
				if err != nil {
					return false, err
				}
				return strings.Contains(url, waitURL), nil
			}
		case waitLoad:
			return waitForLoad(ctx, client, st, deadline, cmd)
		case waitFn != "":
			cond = func() (bool, error) {
				var ok bool
				if err := client.ExecuteSync(ctx, st.DriverSessionID, waitFn, nil, &ok); err != nil {
					return false, err
				}
				return ok, nil
			}
		case len(args) == 1:
			sel, err := waitSelector(st, args[0])
			if err != nil {
				return err
			}
			cond = func() (bool, error) {
				ids, err := client.FindElements(ctx, st.DriverSessionID, sel)
				if err != nil {
					return false, err
				}
				if waitGone {
					return len(ids) == 0, nil
				}
				return len(ids) > 0, nil
			}
		default:
			return fmt.Errorf("nothing to wait for: pass a target, --url, --load, or --fn")
		}

		for {
			ok, err := cond()
			if err != nil {
				return err
			}
			if ok {
				cmd.Println("Condition met.")
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("wait timed out after %ds", cfg.TimeoutSeconds)
			}
			time.Sleep(waitPoll)
		}
	},
}

// waitSelector turns a wait target into a CSS selector. Refs resolve through
// their durable marker so waiting on a ref works even while the element is
// detached, which FindElement-based resolution cannot do.
func waitSelector(st *session.State, target string) (string, error) {
	if !strings.HasPrefix(target, "@") {
		return target, nil
	}
	marker, err := st.ResolveRef(target)
	if err != nil {
		return "", err
	}
	return locator.MarkerSelector(marker), nil
}

// waitForLoad waits for document.readyState === "complete" and then for the
// DOM to hold still for 500ms, approximating network-idle.
func waitForLoad(ctx context.Context, client *webdriver.Client, st *session.State, deadline time.Time, cmd *cobra.Command) error {
	const script = `return document.readyState`
	const countScript = `return document.getElementsByTagName('*').length`

	for {
		var state string
		if err := client.ExecuteSync(ctx, st.DriverSessionID, script, nil, &state); err != nil {
			return err
		}
		if state == "complete" {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wait --load timed out after %ds", cfg.TimeoutSeconds)
		}
		time.Sleep(waitPoll)
	}

	var prev int
	if err := client.ExecuteSync(ctx, st.DriverSessionID, countScript, nil, &prev); err != nil {
		return err
	}
	for {
		time.Sleep(500 * time.Millisecond)
		var cur int
		if err := client.ExecuteSync(ctx, st.DriverSessionID, countScript, nil, &cur); err != nil {
			return err
		}
		if cur == prev {
			cmd.Println("Loaded.")
			return nil
		}
		prev = cur
		if time.Now().After(deadline) {
			return fmt.Errorf("wait --load timed out after %ds", cfg.TimeoutSeconds)
		}
	}
}

func init() {
	waitCmd.Flags().StringVar(&waitURL, "url", "", "wait until the URL contains this substring")
	waitCmd.Flags().BoolVar(&waitLoad, "load", false, "wait for the page to finish loading and settle")
	waitCmd.Flags().StringVar(&waitFn, "fn", "", "wait until this JavaScript returns true")
	waitCmd.Flags().BoolVar(&waitGone, "gone", false, "wait for the target to disappear")
	rootCmd.AddCommand(waitCmd)
}

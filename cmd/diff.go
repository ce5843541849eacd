package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/diff"
	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

var (
	diffBaseline   string
	diffOutput     string
	diffScreenshot bool
	diffSelector   string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare snapshots, screenshots, or two URLs",
}

var diffSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Diff the current element snapshot against the last one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		client := newClient()

		var result diff.Result
		_, err = store.Update(flagSession, func(st *session.State) error {
			baseline := st.LastSnapshot
			if diffBaseline != "" {
				data, err := os.ReadFile(diffBaseline)
				if err != nil {
					return err
				}
				baseline = string(data)
			} else if baseline == "" {
				return diff.ErrNoBaseline
			}

			snap, err := snapshot.NewBuilder(client, st.DriverSessionID).Build(cmd.Context(), st, snapshot.Options{})
			if err != nil {
				return err
			}
			result = diff.Text(baseline, snap.Text())
			return nil
		})
		if err != nil {
			return err
		}
		printDiff(cmd, result)
		return nil
	},
}

var diffScreenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Pixel-diff the current view against a baseline PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if diffBaseline == "" {
			return fmt.Errorf("diff screenshot requires --baseline")
		}
		store, err := newStore()
		if err != nil {
			return err
		}
		st, err := store.Load(flagSession)
		if err != nil {
			return err
		}

		base, err := diff.LoadPNG(diffBaseline)
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp("", "tb-diff-*.png")
		if err != nil {
			return err
		}
		tmpName := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpName)

		client := newClient()
		shot := captureFor(st, client)
		if err := shot.Capture(cmd.Context(), tmpName); err != nil {
			return err
		}
		cur, err := diff.LoadPNG(tmpName)
		if err != nil {
			return err
		}

		res, err := diff.Images(base, cur)
		if err != nil {
			return err
		}
		cmd.Printf("Mismatch: %.2f%% (%d of %d pixels)\n", res.MismatchPct, res.DiffPixels, res.TotalPixels)
		if diffOutput != "" {
			if err := diff.SavePNG(diffOutput, res.Annotated); err != nil {
				return err
			}
			cmd.Printf("Annotated diff: %s\n", diffOutput)
		}
		return nil
	},
}

var diffURLCmd = &cobra.Command{
	Use:   "url <url-a> <url-b>",
	Short: "Navigate to two URLs in turn and diff their snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		client := newClient()

		var textResult diff.Result
		var imgResult *diff.ImageResult
		_, err = store.Update(flagSession, func(st *session.State) error {
			ctx := cmd.Context()
			opts := snapshot.Options{Scope: diffSelector}

			visit := func(url, shotPath string) (string, error) {
				if err := client.Navigate(ctx, st.DriverSessionID, url); err != nil {
					return "", err
				}
				st.ResetRefs()
				snap, err := snapshot.NewBuilder(client, st.DriverSessionID).Build(ctx, st, opts)
				if err != nil {
					return "", err
				}
				if shotPath != "" {
					if err := captureFor(st, client).Capture(ctx, shotPath); err != nil {
						return "", err
					}
				}
				return snap.Text(), nil
			}

			var shotA, shotB string
			if diffScreenshot {
				dir, err := os.MkdirTemp("", "tb-urldiff-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(dir)
				shotA = dir + "/a.png"
				shotB = dir + "/b.png"
			}

			textA, err := visit(args[0], shotA)
			if err != nil {
				return err
			}
			textB, err := visit(args[1], shotB)
			if err != nil {
				return err
			}
			textResult = diff.Text(textA, textB)

			if diffScreenshot {
				a, err := diff.LoadPNG(shotA)
				if err != nil {
					return err
				}
				b, err := diff.LoadPNG(shotB)
				if err != nil {
					return err
				}
				imgResult, err = diff.Images(a, b)
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		printDiff(cmd, textResult)
		if imgResult != nil {
			cmd.Printf("Pixel mismatch: %.2f%% (%d of %d pixels)\n",
				imgResult.MismatchPct, imgResult.DiffPixels, imgResult.TotalPixels)
			if diffOutput != "" {
				if err := diff.SavePNG(diffOutput, imgResult.Annotated); err != nil {
					return err
				}
				cmd.Printf("Annotated diff: %s\n", diffOutput)
			}
		}
		return nil
	},
}

var (
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// printDiff renders the edit script, coloring additions and removals when
// stdout is a terminal.
func printDiff(cmd *cobra.Command, r diff.Result) {
	if !r.Changed() {
		cmd.Println("No changes.")
		return
	}
	color := stdoutIsTerminal()
	for _, l := range r.Lines {
		switch l.Op {
		case diff.Removed:
			line := "- " + l.Text
			if color {
				line = removedStyle.Render(line)
			}
			cmd.Println(line)
		case diff.Added:
			line := "+ " + l.Text
			if color {
				line = addedStyle.Render(line)
			}
			cmd.Println(line)
		default:
			cmd.Println(l.Text)
		}
	}
}

func init() {
	diffSnapshotCmd.Flags().StringVar(&diffBaseline, "baseline", "", "baseline snapshot text file")
	diffScreenshotCmd.Flags().StringVar(&diffBaseline, "baseline", "", "baseline PNG")
	diffScreenshotCmd.Flags().StringVar(&diffOutput, "output", "", "write the annotated pixel diff here")
	diffURLCmd.Flags().BoolVar(&diffScreenshot, "screenshot", false, "also pixel-diff screenshots of the two pages")
	diffURLCmd.Flags().StringVar(&diffSelector, "selector", "", "limit snapshots to a CSS selector's subtree")
	diffURLCmd.Flags().StringVar(&diffOutput, "output", "", "write the annotated pixel diff here")

	diffCmd.AddCommand(diffSnapshotCmd)
	diffCmd.AddCommand(diffScreenshotCmd)
	diffCmd.AddCommand(diffURLCmd)
	rootCmd.AddCommand(diffCmd)
}

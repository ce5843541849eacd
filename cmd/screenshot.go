package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/capture"
	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

var (
	screenshotAnnotate bool
	screenshotFull     bool
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot [path]",
	Short: "Capture a screenshot of the app window",
	Long: `Screenshot captures the app window to a PNG. With a display it uses the
external capture utility against the X root window; otherwise it falls back
to the driver's screenshot endpoint.

--annotate takes a fresh element snapshot first and overlays numbered badges
matching the printed @e refs. --full scrolls through the page and stitches
the segments vertically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))
		if len(args) == 1 {
			path = args[0]
		}

		store, err := newStore()
		if err != nil {
			return err
		}
		client := newClient()

		var snap *snapshot.Snapshot
		_, err = store.Update(flagSession, func(st *session.State) error {
			ctx := cmd.Context()
			shot := captureFor(st, client)

			if screenshotAnnotate {
				s, err := snapshot.NewBuilder(client, st.DriverSessionID).Build(ctx, st, snapshot.Options{})
				if err != nil {
					return err
				}
				snap = s
			}

			if screenshotFull {
				if err := shot.CaptureFull(ctx, path); err != nil {
					return err
				}
			} else if err := shot.Capture(ctx, path); err != nil {
				return err
			}

			if snap != nil {
				if err := capture.AnnotateFile(path, snap.Elements); err != nil {
					return err
				}
			}
			st.LastScreenshot = path
			return nil
		})
		if err != nil {
			return err
		}

		if snap != nil {
			if text := snap.Text(); text != "" {
				cmd.Println(text)
			}
		}
		cmd.Printf("Saved: %s\n", path)
		return nil
	},
}

func init() {
	screenshotCmd.Flags().BoolVarP(&screenshotAnnotate, "annotate", "a", false, "overlay numbered badges on interactive elements")
	screenshotCmd.Flags().BoolVar(&screenshotFull, "full", false, "capture the full scrollable page")
	rootCmd.AddCommand(screenshotCmd)
}

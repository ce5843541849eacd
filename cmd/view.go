package cmd

import (
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/tui"
)

var (
	viewPlain  bool
	viewFollow bool
)

// stdoutIsTerminal is a seam for tests.
var stdoutIsTerminal = func() bool { return term.IsTerminal(os.Stdout.Fd()) }

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Inspect the session's state, last snapshot, and ref table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		st, err := store.Load(flagSession)
		if err != nil {
			return err
		}

		// Degrade to the plain rendering when piped.
		if viewPlain || !stdoutIsTerminal() {
			printState(cmd, st)
			return nil
		}
		path, err := session.StatePath(flagSession)
		if err != nil {
			return err
		}
		return tui.Run(st, path, viewFollow)
	},
}

// printState writes a plain-text summary to stdout.
func printState(cmd *cobra.Command, st *session.State) {
	cmd.Println("## Session")
	cmd.Printf("  Name:            %s\n", st.Name)
	cmd.Printf("  Driver session:  %s\n", st.DriverSessionID)
	cmd.Printf("  Epoch:           %d\n", st.Epoch)
	if st.Display != "" {
		cmd.Printf("  Display:         %s\n", st.Display)
	}
	if !st.LastSnapshotAt.IsZero() {
		cmd.Printf("  Last snapshot:   %s\n", st.LastSnapshotAt.Format("2006-01-02 15:04:05 MST"))
	}
	if st.LastScreenshot != "" {
		cmd.Printf("  Last screenshot: %s\n", st.LastScreenshot)
	}
	cmd.Println()

	cmd.Println("## Last Snapshot")
	if st.LastSnapshot == "" {
		cmd.Println("  (none)")
	} else {
		for _, line := range strings.Split(strings.TrimSuffix(st.LastSnapshot, "\n"), "\n") {
			cmd.Printf("  %s\n", line)
		}
	}
	cmd.Println()

	cmd.Println("## Refs")
	if len(st.Refs) == 0 {
		cmd.Println("  (none)")
		return
	}
	tokens := make([]string, 0, len(st.Refs))
	for tok := range st.Refs {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) < len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	for _, tok := range tokens {
		cmd.Printf("  %-6s %s\n", tok, st.Refs[tok].Marker)
	}
}

func init() {
	viewCmd.Flags().BoolVar(&viewPlain, "plain", false, "plain text output instead of TUI")
	viewCmd.Flags().BoolVar(&viewFollow, "follow", false, "reload live as the state file changes")
	rootCmd.AddCommand(viewCmd)
}

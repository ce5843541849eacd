package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tauri-browse/internal/webdriver"
)

// pageState is a saved browser-side state: cookies plus localStorage,
// restorable into any session pointed at the same app.
type pageState struct {
	SavedAt      time.Time          `json:"saved_at"`
	URL          string             `json:"url,omitempty"`
	Cookies      []webdriver.Cookie `json:"cookies"`
	LocalStorage map[string]string  `json:"local_storage"`
}

const readStorageScript = `
const out = {};
for (let i = 0; i < localStorage.length; i++) {
    const k = localStorage.key(i);
    out[k] = localStorage.getItem(k);
}
return out;
`

const writeStorageScript = `
const data = arguments[0];
for (const k of Object.keys(data)) {
    localStorage.setItem(k, data[k]);
}
return true;
`

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Save and restore browser state (cookies, localStorage)",
}

// statesDir resolves where saved page states live: the configured override,
// or the XDG data directory next to the session files.
func statesDir() (string, error) {
	if cfg.StateDir != "" {
		return cfg.StateDir, nil
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "tauri-browse", "states"), nil
}

func statePath(name string) (string, error) {
	if strings.ContainsAny(name, "/\\") || name == "" {
		return "", fmt.Errorf("invalid state name %q", name)
	}
	dir, err := statesDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

var stateSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current cookies and localStorage under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath(args[0])
		if err != nil {
			return err
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
		ctx := cmd.Context()

		cookies, err := client.Cookies(ctx, st.DriverSessionID)
		if err != nil {
			return err
		}
		var storage map[string]string
		if err := client.ExecuteSync(ctx, st.DriverSessionID, readStorageScript, nil, &storage); err != nil {
			return err
		}
		url, _ := client.URL(ctx, st.DriverSessionID)

		ps := pageState{SavedAt: time.Now().UTC(), URL: url, Cookies: cookies, LocalStorage: storage}
		data, err := json.MarshalIndent(ps, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
		cmd.Printf("Saved state %q (%d cookies, %d storage keys).\n", args[0], len(ps.Cookies), len(ps.LocalStorage))
		return nil
	},
}

var stateLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Restore saved cookies and localStorage into the current page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no saved state %q", args[0])
			}
			return err
		}
		var ps pageState
		if err := json.Unmarshal(data, &ps); err != nil {
			return fmt.Errorf("corrupt state file %s: %w", path, err)
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
		ctx := cmd.Context()

		for _, c := range ps.Cookies {
			if err := client.AddCookie(ctx, st.DriverSessionID, c); err != nil {
				return fmt.Errorf("restoring cookie %q: %w", c.Name, err)
			}
		}
		if len(ps.LocalStorage) > 0 {
			if err := client.ExecuteSync(ctx, st.DriverSessionID, writeStorageScript, []any{ps.LocalStorage}, nil); err != nil {
				return err
			}
		}
		cmd.Printf("Restored state %q. Reload the page to pick it up.\n", args[0])
		return nil
	},
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved states",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := statesDir()
		if err != nil {
			return err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				cmd.Println("No saved states.")
				return nil
			}
			return err
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			names = append(names, strings.TrimSuffix(e.Name(), ".json"))
		}
		if len(names) == 0 {
			cmd.Println("No saved states.")
			return nil
		}
		sort.Strings(names)
		for _, n := range names {
			cmd.Println(n)
		}
		return nil
	},
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the page's cookies and localStorage",
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
		client := newClient()
		ctx := cmd.Context()

		if err := client.DeleteCookies(ctx, st.DriverSessionID); err != nil {
			return err
		}
		if err := client.ExecuteSync(ctx, st.DriverSessionID,
			"localStorage.clear(); sessionStorage.clear(); return true", nil, nil); err != nil {
			return err
		}
		cmd.Println("Cleared cookies and storage.")
		return nil
	},
}

func init() {
	stateCmd.AddCommand(stateSaveCmd)
	stateCmd.AddCommand(stateLoadCmd)
	stateCmd.AddCommand(stateListCmd)
	stateCmd.AddCommand(stateClearCmd)
	rootCmd.AddCommand(stateCmd)
}

package cmd

import (
	"context"
	"time"

	"github.com/fakeyudi/tauri-browse/internal/capture"
	"github.com/fakeyudi/tauri-browse/internal/config"
	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/webdriver"
)

// newStore is swapped in tests to point at a temp directory.
var newStore = session.NewStore

// newClient builds the protocol client from the merged configuration.
func newClient() *webdriver.Client {
	return webdriver.New(cfg.Driver, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

// sessionDisplay resolves the display for capture: the session's stored
// override wins over config and auto-detection.
func sessionDisplay(st *session.State) string {
	if st != nil && st.Display != "" {
		return st.Display
	}
	return config.ResolveDisplay(cfg, nil)
}

// captureFor builds a Capturer using the session's resolved display.
func captureFor(st *session.State, c *webdriver.Client) *capture.Capturer {
	return capture.New(sessionDisplay(st), c, st.DriverSessionID)
}

// urlGuard detects whether fn caused a navigation by comparing the page URL
// before and after. A changed URL starts a new ref epoch: token-to-element
// identity is only meaningful relative to one page instance.
func urlGuard(ctx context.Context, c *webdriver.Client, st *session.State, fn func() error) (navigated bool, err error) {
	before, berr := c.URL(ctx, st.DriverSessionID)
	if err := fn(); err != nil {
		return false, err
	}
	after, aerr := c.URL(ctx, st.DriverSessionID)
	if berr != nil || aerr != nil {
		// Can't tell; leave the epoch alone rather than guess.
		return false, nil
	}
	if before != after {
		st.ResetRefs()
		return true, nil
	}
	return false, nil
}

// Package locator turns user-facing element references — @e tokens, raw CSS
// selectors, or semantic queries — into live element locators for the next
// protocol command.
package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fakeyudi/tauri-browse/internal/session"
	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

// ErrNoMatch is returned when a selector or semantic query resolves to zero
// elements.
var ErrNoMatch = errors.New("no matching element")

// AmbiguousError is returned when an operation that needs exactly one target
// matched several, and the caller did not opt into first-match semantics.
type AmbiguousError struct {
	Target string
	Count  int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous target %q: %d elements match (use a ref or a more specific selector)", e.Target, e.Count)
}

// Finder locates elements by CSS selector. Satisfied by *webdriver.Client.
type Finder interface {
	FindElements(ctx context.Context, sid, selector string) ([]string, error)
}

// Locator is a resolved, live element reference.
type Locator struct {
	Selector  string // selector that re-finds the element
	ElementID string // protocol element id, valid for this invocation only
}

// Opts controls selector resolution strictness.
type Opts struct {
	RequireUnique bool // fail with AmbiguousError on multiple matches
	FirstMatch    bool // explicit opt-in to first-match semantics
}

// MarkerSelector returns the targeted query that re-finds an element by its
// durable marker.
func MarkerSelector(marker string) string {
	return fmt.Sprintf("[%s=%q]", snapshot.MarkerAttr, marker)
}

// Resolve accepts a ref token (@eN) or a raw CSS selector and produces a live
// locator.
//
// Tokens go through the session ref table and are re-located with a single
// marker query, not a re-scan; a marker missing from the live page means the
// element was removed or replaced and fails as a stale ref. Raw selectors
// pass through unchanged.
func Resolve(ctx context.Context, f Finder, st *session.State, target string, opts Opts) (Locator, error) {
	if strings.HasPrefix(target, "@e") {
		marker, err := st.ResolveRef(target)
		if err != nil {
			return Locator{}, err
		}
		sel := MarkerSelector(marker)
		ids, err := f.FindElements(ctx, st.DriverSessionID, sel)
		if err != nil {
			return Locator{}, err
		}
		if len(ids) == 0 {
			// Token is current but the element is gone from the page.
			return Locator{}, &session.StaleRefError{Token: target, Epoch: st.Epoch}
		}
		return Locator{Selector: sel, ElementID: ids[0]}, nil
	}

	ids, err := f.FindElements(ctx, st.DriverSessionID, target)
	if err != nil {
		return Locator{}, err
	}
	if len(ids) == 0 {
		return Locator{}, fmt.Errorf("%w: selector %q", ErrNoMatch, target)
	}
	if len(ids) > 1 && opts.RequireUnique && !opts.FirstMatch {
		return Locator{}, &AmbiguousError{Target: target, Count: len(ids)}
	}
	return Locator{Selector: target, ElementID: ids[0]}, nil
}

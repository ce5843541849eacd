package session_test

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/tauri-browse/internal/session"
)

func TestMintRefSequence(t *testing.T) {
	st := session.NewState("default", "sid-1")
	for i := 1; i <= 5; i++ {
		tok := st.MintRef(fmt.Sprintf("m-%d", i))
		want := fmt.Sprintf("@e%d", i)
		if tok != want {
			t.Errorf("mint %d: got %q, want %q", i, tok, want)
		}
	}
}

func TestResolveRefReturnsMarker(t *testing.T) {
	st := session.NewState("default", "sid-1")
	tok := st.MintRef("abc123-7")
	marker, err := st.ResolveRef(tok)
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if marker != "abc123-7" {
		t.Errorf("got marker %q, want abc123-7", marker)
	}
}

func TestResolveUnknownRefIsStale(t *testing.T) {
	st := session.NewState("default", "sid-1")
	_, err := st.ResolveRef("@e1")
	var stale *session.StaleRefError
	if !errors.As(err, &stale) {
		t.Fatalf("got %v, want StaleRefError", err)
	}
	if stale.Token != "@e1" {
		t.Errorf("stale token = %q, want @e1", stale.Token)
	}
}

// Tokens minted before a reset never resolve afterwards, even when the same
// token text has been minted again for a different element.
func TestResetRefsInvalidatesOldEpoch(t *testing.T) {
	st := session.NewState("default", "sid-1")
	tok := st.MintRef("old-marker")

	st.ResetRefs()

	if _, err := st.ResolveRef(tok); err == nil {
		t.Fatal("ref from old epoch resolved after reset")
	}

	// Re-mint @e1 for a different element; it must resolve to the new marker.
	tok2 := st.MintRef("new-marker")
	if tok2 != "@e1" {
		t.Fatalf("numbering did not restart: got %q", tok2)
	}
	marker, err := st.ResolveRef(tok2)
	if err != nil {
		t.Fatalf("ResolveRef after re-mint: %v", err)
	}
	if marker != "new-marker" {
		t.Errorf("got marker %q, want new-marker", marker)
	}
}

func TestResetRefsBumpsEpoch(t *testing.T) {
	st := session.NewState("default", "sid-1")
	before := st.Epoch
	st.ResetRefs()
	if st.Epoch != before+1 {
		t.Errorf("epoch = %d, want %d", st.Epoch, before+1)
	}
	if len(st.Refs) != 0 {
		t.Errorf("refs not cleared: %d entries", len(st.Refs))
	}
}

// Property: within one epoch every minted token resolves to its own marker;
// after any number of resets none of the earlier tokens resolve.
func TestRefLifecycleProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		st := session.NewState("default", "sid-1")

		n := rapid.IntRange(1, 20).Draw(rt, "mints")
		markers := make(map[string]string, n)
		for i := 0; i < n; i++ {
			m := fmt.Sprintf("marker-%d", i)
			markers[st.MintRef(m)] = m
		}
		for tok, want := range markers {
			got, err := st.ResolveRef(tok)
			if err != nil {
				rt.Fatalf("ResolveRef(%s): %v", tok, err)
			}
			if got != want {
				rt.Errorf("ResolveRef(%s) = %q, want %q", tok, got, want)
			}
		}

		resets := rapid.IntRange(1, 3).Draw(rt, "resets")
		for i := 0; i < resets; i++ {
			st.ResetRefs()
		}
		for tok := range markers {
			if _, err := st.ResolveRef(tok); err == nil {
				rt.Errorf("ResolveRef(%s) succeeded across %d resets", tok, resets)
			}
		}
	})
}

package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/tauri-browse/internal/session"
)

func newTestStore(t testing.TB) session.Store {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// Property: any state saved comes back identical through a load, including
// the full ref table.
func TestStateRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	rapid.Check(t, func(rt *rapid.T) {
		store, err := session.NewStore()
		if err != nil {
			rt.Fatalf("NewStore: %v", err)
		}

		st := session.NewState("default", rapid.StringMatching(`[a-f0-9-]{8,36}`).Draw(rt, "sid"))
		st.Display = rapid.SampledFrom([]string{"", ":0", ":99"}).Draw(rt, "display")
		n := rapid.IntRange(0, 10).Draw(rt, "refs")
		for i := 0; i < n; i++ {
			st.MintRef(rapid.StringMatching(`[a-z0-9]{4,12}-[0-9]{1,3}`).Draw(rt, "marker"))
		}
		st.LastSnapshot = rapid.StringN(0, 200, -1).Draw(rt, "snapshot")

		if err := store.Save(st); err != nil {
			rt.Fatalf("Save: %v", err)
		}
		loaded, err := store.Load("default")
		if err != nil {
			rt.Fatalf("Load: %v", err)
		}

		if loaded.DriverSessionID != st.DriverSessionID {
			rt.Errorf("session id: got %q, want %q", loaded.DriverSessionID, st.DriverSessionID)
		}
		if loaded.Epoch != st.Epoch {
			rt.Errorf("epoch: got %d, want %d", loaded.Epoch, st.Epoch)
		}
		if loaded.NextRef != st.NextRef {
			rt.Errorf("next ref: got %d, want %d", loaded.NextRef, st.NextRef)
		}
		if len(loaded.Refs) != len(st.Refs) {
			rt.Fatalf("refs: got %d entries, want %d", len(loaded.Refs), len(st.Refs))
		}
		for tok, entry := range st.Refs {
			if loaded.Refs[tok] != entry {
				rt.Errorf("ref %s: got %+v, want %+v", tok, loaded.Refs[tok], entry)
			}
		}
		if loaded.LastSnapshot != st.LastSnapshot {
			rt.Errorf("last snapshot mismatch")
		}
	})
}

func TestLoadMissingSession(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("default")
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestUpdateMissingSession(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Update("default", func(*session.State) error { return nil })
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestUpdatePersistsMutation(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(session.NewState("default", "sid-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated, err := store.Update("default", func(st *session.State) error {
		st.MintRef("m-1")
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Refs) != 1 {
		t.Fatalf("updated state has %d refs, want 1", len(updated.Refs))
	}

	loaded, err := store.Load("default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := loaded.ResolveRef("@e1"); err != nil {
		t.Errorf("minted ref not persisted: %v", err)
	}
}

func TestUpdateErrorDiscardsMutation(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(session.NewState("default", "sid-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	boom := errors.New("boom")
	_, err := store.Update("default", func(st *session.State) error {
		st.MintRef("m-1")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	loaded, err := store.Load("default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Refs) != 0 {
		t.Errorf("failed update persisted %d refs", len(loaded.Refs))
	}
}

// Corrupt state files are surfaced, never silently overwritten or skipped.
func TestCorruptStateSurfaced(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	dir := filepath.Join(tmp, "tauri-browse", "sessions")
	if err := os.WriteFile(filepath.Join(dir, "default.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err = store.Load("default")
	var corrupt *session.CorruptStateError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Load: got %v, want CorruptStateError", err)
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("List reported %d sessions, want 1", len(infos))
	}
	if infos[0].Err == nil {
		t.Error("List did not report the corrupt file")
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(session.NewState("default", "sid-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete("default"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load("default"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound after delete", err)
	}
	// Deleting again is not an error.
	if err := store.Delete("default"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestInvalidSessionNames(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"", "../escape", "a/b", "with space"} {
		if _, err := store.Load(name); err == nil {
			t.Errorf("Load(%q) accepted an invalid name", name)
		}
	}
}

func TestListSortsByName(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.Save(session.NewState(name, "sid-"+name)); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}
	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(infos) != len(want) {
		t.Fatalf("List returned %d sessions, want %d", len(infos), len(want))
	}
	for i, w := range want {
		if infos[i].Name != w {
			t.Errorf("infos[%d].Name = %q, want %q", i, infos[i].Name, w)
		}
	}
}

// Package snapshot builds ref-tagged accessibility snapshots of the current
// page: it runs the in-page tagging script, assigns @e tokens in document
// order, and renders the result as text or structured JSON.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/tauri-browse/internal/session"
)

// Executor runs a script in the remote page. Satisfied by *webdriver.Client.
type Executor interface {
	ExecuteSync(ctx context.Context, sid, script string, args []any, out any) error
}

// Options selects what a snapshot covers.
type Options struct {
	Scope         string // CSS selector limiting the walk; "" means whole document
	IncludeCursor bool   // also include cursor:pointer elements
}

// Snapshot is an ordered sequence of element descriptors plus the metadata
// it was built with.
type Snapshot struct {
	Scope         string
	IncludeCursor bool
	Epoch         int
	Elements      []Descriptor
}

// Text renders the snapshot's deterministic one-line-per-element form.
// Building twice without an intervening page mutation yields byte-identical
// output, which the diff engine relies on.
func (s *Snapshot) Text() string {
	lines := make([]string, len(s.Elements))
	for i, d := range s.Elements {
		lines[i] = d.Line()
	}
	return strings.Join(lines, "\n")
}

// JSON renders the structured form: one record per descriptor with the same
// fields as named attributes.
func (s *Snapshot) JSON() ([]byte, error) {
	return json.MarshalIndent(s.Elements, "", "  ")
}

// ScopeError is returned when the scope selector matches nothing.
type ScopeError struct {
	Selector string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("scope selector matched nothing: %q", e.Selector)
}

// Builder builds snapshots for one remote session.
type Builder struct {
	Exec      Executor
	SessionID string

	// now is stubbed in tests.
	now func() time.Time
}

// NewBuilder returns a Builder that executes page scripts through exec.
func NewBuilder(exec Executor, sessionID string) *Builder {
	return &Builder{Exec: exec, SessionID: sessionID, now: time.Now}
}

// Build takes a snapshot. Every snapshot call is its own epoch-defining
// event: the session's ref table is reset first and tokens restart at @e1.
// That trades cross-call token stability for predictable numbering — a
// deliberate choice, kept for compatibility with existing workflows.
// On success the session's ref table and last-snapshot cache are updated;
// the caller persists the state.
func (b *Builder) Build(ctx context.Context, st *session.State, opts Options) (*Snapshot, error) {
	st.ResetRefs()

	// Fresh mint prefix per epoch keeps newly written markers distinct from
	// markers left in the DOM by earlier epochs.
	prefix := strings.SplitN(uuid.NewString(), "-", 2)[0]

	query := InteractiveQuery
	if opts.IncludeCursor {
		query = CursorQuery
	}

	var res struct {
		Found    bool         `json:"found"`
		Elements []RawElement `json:"elements"`
	}
	args := []any{opts.Scope, query, opts.IncludeCursor, InteractiveQuery, prefix}
	if err := b.Exec.ExecuteSync(ctx, b.SessionID, tagScript, args, &res); err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, &ScopeError{Selector: opts.Scope}
	}

	snap := &Snapshot{
		Scope:         opts.Scope,
		IncludeCursor: opts.IncludeCursor,
		Epoch:         st.Epoch,
		Elements:      make([]Descriptor, 0, len(res.Elements)),
	}
	for _, raw := range res.Elements {
		d := describe(raw)
		d.Ref = st.MintRef(raw.Marker)
		snap.Elements = append(snap.Elements, d)
	}

	now := b.now
	if now == nil {
		now = time.Now
	}
	st.LastSnapshot = snap.Text()
	st.LastSnapshotAt = now()
	return snap, nil
}

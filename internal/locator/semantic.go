package locator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

// Kind is a semantic query strategy.
type Kind string

const (
	KindText        Kind = "text"
	KindLabel       Kind = "label"
	KindRole        Kind = "role"
	KindPlaceholder Kind = "placeholder"
	KindTestID      Kind = "testid"
	KindAlt         Kind = "alt"
	KindTitle       Kind = "title"
	KindFirst       Kind = "first"
	KindLast        Kind = "last"
	KindNth         Kind = "nth"
)

// ParseKind validates a user-supplied strategy name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindText, KindLabel, KindRole, KindPlaceholder, KindTestID,
		KindAlt, KindTitle, KindFirst, KindLast, KindNth:
		return k, nil
	}
	return "", fmt.Errorf("unknown find strategy %q", s)
}

// Query is a semantic element query.
type Query struct {
	Kind  Kind
	Value string
	Name  string // accessible-name substring filter, role queries only
	Exact bool   // exact instead of substring matching (text, label)
	Index int    // 1-indexed, nth queries only

	TestIDAttr string // attribute queried by testid; default data-testid
}

func (q Query) String() string {
	s := string(q.Kind) + "=" + q.Value
	if q.Name != "" {
		s += fmt.Sprintf(", name=%q", q.Name)
	}
	if q.Kind == KindNth {
		s += fmt.Sprintf(" [%d]", q.Index)
	}
	return s
}

// Candidate is one semantic match, tagged with a durable marker so it can be
// acted on by marker selector.
type Candidate struct {
	Marker string
	Role   string
	Name   string
}

// Selector returns the targeted query that re-finds the candidate.
func (c Candidate) Selector() string {
	return MarkerSelector(c.Marker)
}

// Match resolves a semantic query to its candidate set, in document order.
// When the caller needs a single target, the first candidate is the match:
// document order is the documented tie-break for every kind other than
// first/last/nth, which select positionally.
func Match(ctx context.Context, exec snapshot.Executor, sid string, q Query) ([]Candidate, error) {
	extra := ""
	switch q.Kind {
	case KindRole:
		extra = snapshot.RoleSelector(q.Value)
	case KindTestID:
		extra = q.TestIDAttr
		if extra == "" {
			extra = "data-testid"
		}
	}

	prefix := "f" + strings.SplitN(uuid.NewString(), "-", 2)[0]

	var raws []snapshot.RawElement
	args := []any{string(q.Kind), q.Value, prefix, extra, q.Exact}
	if err := exec.ExecuteSync(ctx, sid, findScript, args, &raws); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, r := range raws {
		if !q.accepts(r) {
			continue
		}
		out = append(out, Candidate{Marker: r.Marker, Role: r.ComputedRole(), Name: r.AccessibleName()})
	}

	switch q.Kind {
	case KindFirst:
		if len(out) > 1 {
			out = out[:1]
		}
	case KindLast:
		if len(out) > 1 {
			out = out[len(out)-1:]
		}
	case KindNth:
		if q.Index < 1 || q.Index > len(out) {
			return nil, fmt.Errorf("%w: %s has %d matches", ErrNoMatch, q, len(out))
		}
		out = out[q.Index-1 : q.Index]
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, q)
	}
	return out, nil
}

// accepts applies the Go-side filters the page script cannot compute:
// implicit roles and accessible-name narrowing. Text and label matching,
// including exactness, happens in the page against the full text — the
// reported text field is truncated for display and must not be re-checked.
func (q Query) accepts(r snapshot.RawElement) bool {
	if q.Kind != KindRole {
		return true
	}
	if r.ComputedRole() != q.Value {
		return false
	}
	if q.Name != "" {
		return strings.Contains(r.AccessibleName(), q.Name)
	}
	return true
}

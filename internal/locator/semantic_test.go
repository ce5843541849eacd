package locator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

// fakeExec returns canned raw elements for every find script run.
type fakeExec struct {
	raws     []snapshot.RawElement
	lastArgs []any
}

func (f *fakeExec) ExecuteSync(ctx context.Context, sid, script string, args []any, out any) error {
	f.lastArgs = args
	data, err := json.Marshal(f.raws)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func TestMatchRoleWithName(t *testing.T) {
	exec := &fakeExec{raws: []snapshot.RawElement{
		{Tag: "button", Text: "Cancel", Marker: "f1-1"},
		{Tag: "button", Text: "Submit", Marker: "f1-2"},
		{Tag: "a", HasHref: true, Text: "Submit page", Marker: "f1-3"},
	}}

	cands, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindRole, Value: "button", Name: "Submit"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
	if cands[0].Marker != "f1-2" {
		t.Errorf("picked marker %q, want f1-2", cands[0].Marker)
	}
	if cands[0].Role != "button" || cands[0].Name != "Submit" {
		t.Errorf("candidate = %+v", cands[0])
	}
}

func TestMatchRoleFiltersComputedRole(t *testing.T) {
	// The link carries role=button explicitly; the div does not.
	exec := &fakeExec{raws: []snapshot.RawElement{
		{Tag: "a", HasHref: true, Role: "button", Text: "Go", Marker: "f2-1"},
		{Tag: "div", Text: "Go", Marker: "f2-2"},
	}}

	cands, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindRole, Value: "button"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(cands) != 1 || cands[0].Marker != "f2-1" {
		t.Errorf("candidates = %+v, want only the explicit role=button element", cands)
	}
}

func TestMatchTextExactReachesPage(t *testing.T) {
	exec := &fakeExec{raws: []snapshot.RawElement{
		{Tag: "button", Text: "Save", Marker: "f3-1"},
	}}

	cands, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindText, Value: "Save", Exact: true})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(cands) != 1 || cands[0].Marker != "f3-1" {
		t.Errorf("exact match returned %+v", cands)
	}
	// Exactness is decided in the page, where the full text lives.
	if got := exec.lastArgs[4]; got != true {
		t.Errorf("script received exact=%v, want true", got)
	}

	if _, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindText, Value: "Save"}); err != nil {
		t.Fatalf("Match substring: %v", err)
	}
	if got := exec.lastArgs[4]; got != false {
		t.Errorf("script received exact=%v, want false", got)
	}
}

// An element the page matched must survive even when the match lies past the
// 80-character display truncation of the reported text.
func TestMatchTextBeyondTruncation(t *testing.T) {
	long := strings.Repeat("x", 80) // what the script reports for a 200-char element
	exec := &fakeExec{raws: []snapshot.RawElement{
		{Tag: "button", Text: long, Marker: "f6-1"},
	}}

	cands, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindText, Value: "Delete account"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(cands) != 1 || cands[0].Marker != "f6-1" {
		t.Errorf("candidates = %+v", cands)
	}
}

// Elements labelled via aria-labelledby report neither labelText nor
// ariaLabel; the page's verdict still stands, exact or not.
func TestMatchLabelledByElementAccepted(t *testing.T) {
	exec := &fakeExec{raws: []snapshot.RawElement{
		{Tag: "input", Type: "text", Marker: "f7-1"},
	}}

	for _, exact := range []bool{false, true} {
		cands, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindLabel, Value: "Email", Exact: exact})
		if err != nil {
			t.Fatalf("Match exact=%v: %v", exact, err)
		}
		if len(cands) != 1 || cands[0].Marker != "f7-1" {
			t.Errorf("exact=%v candidates = %+v", exact, cands)
		}
	}
}

func TestMatchPositional(t *testing.T) {
	exec := &fakeExec{raws: []snapshot.RawElement{
		{Tag: "li", Text: "one", Marker: "f4-1"},
		{Tag: "li", Text: "two", Marker: "f4-2"},
		{Tag: "li", Text: "three", Marker: "f4-3"},
	}}

	first, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindFirst, Value: "li"})
	if err != nil {
		t.Fatalf("Match first: %v", err)
	}
	if len(first) != 1 || first[0].Marker != "f4-1" {
		t.Errorf("first = %+v", first)
	}

	last, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindLast, Value: "li"})
	if err != nil {
		t.Fatalf("Match last: %v", err)
	}
	if len(last) != 1 || last[0].Marker != "f4-3" {
		t.Errorf("last = %+v", last)
	}

	nth, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindNth, Value: "li", Index: 2})
	if err != nil {
		t.Fatalf("Match nth: %v", err)
	}
	if len(nth) != 1 || nth[0].Marker != "f4-2" {
		t.Errorf("nth(2) = %+v", nth)
	}

	if _, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindNth, Value: "li", Index: 4}); !errors.Is(err, ErrNoMatch) {
		t.Errorf("nth out of range: got %v, want ErrNoMatch", err)
	}
}

func TestMatchNoCandidates(t *testing.T) {
	exec := &fakeExec{}
	_, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindText, Value: "nope"})
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("got %v, want ErrNoMatch", err)
	}
}

func TestMatchTestIDAttrOverride(t *testing.T) {
	exec := &fakeExec{raws: []snapshot.RawElement{{Tag: "div", Marker: "f5-1"}}}
	_, err := Match(context.Background(), exec, "sid-1", Query{Kind: KindTestID, Value: "login", TestIDAttr: "data-qa"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if got := exec.lastArgs[3]; got != "data-qa" {
		t.Errorf("script received attr %v, want data-qa", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"text", "label", "role", "placeholder", "testid", "alt", "title", "first", "last", "nth"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("xpath"); err == nil {
		t.Error("ParseKind accepted an unknown strategy")
	}
}

package diff

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestTextIdenticalUnchanged(t *testing.T) {
	a := "@e1 button \"Submit\"\n@e2 textbox \"Email\""
	r := Text(a, a)
	if r.Changed() {
		t.Fatalf("identical inputs reported changes:\n%s", r)
	}
	for _, l := range r.Lines {
		if l.Op != Unchanged {
			t.Errorf("line %q has op %d, want Unchanged", l.Text, l.Op)
		}
	}
}

// A line present only in the baseline shows up as removed, prefixed "-".
func TestTextRemovedLine(t *testing.T) {
	a := "@e1 button \"Submit\"\n@e2 textbox \"Email\"\n@e3 link \"Help\""
	b := "@e1 button \"Submit\"\n@e2 textbox \"Email\""
	r := Text(a, b)
	if !r.Changed() {
		t.Fatal("expected changes")
	}
	want := "@e1 button \"Submit\"\n@e2 textbox \"Email\"\n- @e3 link \"Help\""
	if got := r.String(); got != want {
		t.Errorf("String():\ngot  %q\nwant %q", got, want)
	}
}

// At a divergence point deletions come before insertions.
func TestTextDeletionsBeforeInsertions(t *testing.T) {
	r := Text("old line", "new line")
	if len(r.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(r.Lines))
	}
	if r.Lines[0].Op != Removed || r.Lines[0].Text != "old line" {
		t.Errorf("first line = %+v, want removed old line", r.Lines[0])
	}
	if r.Lines[1].Op != Added || r.Lines[1].Text != "new line" {
		t.Errorf("second line = %+v, want added new line", r.Lines[1])
	}
}

func TestTextEmptyInputs(t *testing.T) {
	if r := Text("", ""); r.Changed() {
		t.Error("two empty inputs reported changes")
	}
	r := Text("", "a\nb")
	adds := 0
	for _, l := range r.Lines {
		if l.Op == Added {
			adds++
		}
	}
	if adds != 2 {
		t.Errorf("empty baseline: %d added lines, want 2", adds)
	}
}

// Property: applying the edit script to A reproduces B.
func TestTextApplyRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.SliceOfN(rapid.SampledFrom([]string{
			"@e1 button \"Submit\"",
			"@e2 textbox \"Email\"",
			"@e3 link \"Help\"",
			"@e4 checkbox \"Terms\" [checked]",
			"@e5 combobox \"Country\"",
		}), 0, 8)
		a := strings.Join(gen.Draw(rt, "a"), "\n")
		b := strings.Join(gen.Draw(rt, "b"), "\n")

		r := Text(a, b)
		got, err := Apply(a, r)
		if err != nil {
			rt.Fatalf("Apply: %v", err)
		}
		want := strings.Join(splitLines(b), "\n")
		if got != want {
			rt.Errorf("Apply(a, Text(a,b)):\ngot  %q\nwant %q", got, want)
		}
	})
}

// Property: the script never contains more lines than the two inputs
// combined, and unchanged lines appear in both.
func TestTextScriptShape(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z @"]{0,20}`), 0, 10)
		a := strings.Join(lines.Draw(rt, "a"), "\n")
		b := strings.Join(lines.Draw(rt, "b"), "\n")

		r := Text(a, b)
		if n, limit := len(r.Lines), len(splitLines(a))+len(splitLines(b)); n > limit {
			rt.Errorf("script has %d lines, inputs only %d", n, limit)
		}
		for _, l := range r.Lines {
			if l.Op == Unchanged {
				if !strings.Contains(a, l.Text) || !strings.Contains(b, l.Text) {
					rt.Errorf("unchanged line %q missing from an input", l.Text)
				}
			}
		}
	})
}

func TestApplyWrongInputFails(t *testing.T) {
	r := Text("a\nb", "a\nc")
	if _, err := Apply("x\ny", r); err == nil {
		t.Error("Apply accepted a mismatched input")
	}
}

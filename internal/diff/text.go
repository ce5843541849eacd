// Package diff computes structural diffs between snapshot texts and
// pixel-level diffs between raster images. Results are ephemeral: printed or
// written on demand, never persisted.
package diff

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoBaseline is returned when a diff against the last snapshot is
// requested but no snapshot has been cached this session.
var ErrNoBaseline = errors.New("no baseline snapshot: run 'tauri-browse snapshot -i' first")

// Op classifies one line of a text diff.
type Op int

const (
	Unchanged Op = iota
	Removed
	Added
)

// Line is one record of a text diff edit script.
type Line struct {
	Op   Op
	Text string
}

// Result is a line-oriented edit script turning text A into text B.
type Result struct {
	Lines []Line
}

// Changed reports whether the script contains any addition or removal.
func (r Result) Changed() bool {
	for _, l := range r.Lines {
		if l.Op != Unchanged {
			return true
		}
	}
	return false
}

// String renders the diff: removed lines prefixed "-", added lines prefixed
// "+", unchanged lines unprefixed.
func (r Result) String() string {
	var sb strings.Builder
	for i, l := range r.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch l.Op {
		case Removed:
			sb.WriteString("- ")
		case Added:
			sb.WriteString("+ ")
		}
		sb.WriteString(l.Text)
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Text computes a minimal line edit script between a and b using the classic
// longest-common-subsequence backtrack. At each divergence point deletions
// come before insertions, following unified-diff convention. Identical
// inputs always produce an identical, all-unchanged script.
func Text(a, b string) Result {
	al := splitLines(a)
	bl := splitLines(b)

	// lcs[i][j] = length of the LCS of al[i:] and bl[j:].
	lcs := make([][]int, len(al)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(bl)+1)
	}
	for i := len(al) - 1; i >= 0; i-- {
		for j := len(bl) - 1; j >= 0; j-- {
			if al[i] == bl[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var out []Line
	i, j := 0, 0
	for i < len(al) && j < len(bl) {
		switch {
		case al[i] == bl[j]:
			out = append(out, Line{Op: Unchanged, Text: al[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			out = append(out, Line{Op: Removed, Text: al[i]})
			i++
		default:
			out = append(out, Line{Op: Added, Text: bl[j]})
			j++
		}
	}
	for ; i < len(al); i++ {
		out = append(out, Line{Op: Removed, Text: al[i]})
	}
	for ; j < len(bl); j++ {
		out = append(out, Line{Op: Added, Text: bl[j]})
	}
	return Result{Lines: out}
}

// Apply replays an edit script against a, reproducing the text it was
// computed towards. It verifies that unchanged and removed records still
// match a, so a script applied to the wrong input fails loudly.
func Apply(a string, r Result) (string, error) {
	al := splitLines(a)
	var out []string
	i := 0
	for _, l := range r.Lines {
		switch l.Op {
		case Unchanged, Removed:
			if i >= len(al) || al[i] != l.Text {
				return "", fmt.Errorf("edit script does not match input at line %d", i+1)
			}
			if l.Op == Unchanged {
				out = append(out, l.Text)
			}
			i++
		case Added:
			out = append(out, l.Text)
		}
	}
	if i != len(al) {
		return "", fmt.Errorf("edit script leaves %d input lines unconsumed", len(al)-i)
	}
	return strings.Join(out, "\n"), nil
}

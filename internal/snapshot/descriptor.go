package snapshot

import "strings"

// Rect is an element's bounding box in viewport coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RawElement is the raw per-element fact set the tagging script reports.
// Role and accessible name are computed from it on the Go side so the
// derivation stays a pure, testable function.
type RawElement struct {
	Tag         string `json:"tag"`
	Type        string `json:"type"`
	Role        string `json:"role"` // explicit role attribute, may be ""
	HasHref     bool   `json:"hasHref"`
	AriaLabel   string `json:"ariaLabel"`
	LabelText   string `json:"labelText"` // text of an explicitly associated <label>
	Placeholder string `json:"placeholder"`
	Text        string `json:"text"` // rendered text content, trimmed
	Title       string `json:"title"`
	Alt         string `json:"alt"`
	Value       string `json:"value"`
	Disabled    bool   `json:"disabled"`
	Checked     bool   `json:"checked"`
	Checkable   bool   `json:"checkable"`
	Editable    bool   `json:"editable"`
	Marker      string `json:"marker"`
	Rect        Rect   `json:"rect"`
}

// ComputedRole returns the element's role: the explicit role attribute when
// present and non-empty, otherwise the implicit role for its shape.
func (r RawElement) ComputedRole() string {
	if r.Role != "" {
		return r.Role
	}
	return ImplicitRole(r.Tag, r.Type, r.HasHref)
}

// AccessibleName computes the element's accessible name. Resolution order:
// explicit label association, aria-label, placeholder, visible text content,
// title, alt — first non-empty wins.
func (r RawElement) AccessibleName() string {
	for _, s := range []string{r.LabelText, r.AriaLabel, r.Placeholder, r.Text, r.Title, r.Alt} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Descriptor is one element of a snapshot: its assigned ref token, computed
// role and accessible name, interaction affordances, and the durable marker
// that survives into the next invocation.
type Descriptor struct {
	Ref      string `json:"ref"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
	Checked  bool   `json:"checked,omitempty"`
	Editable bool   `json:"editable,omitempty"`
	Marker   string `json:"marker"`
	Rect     Rect   `json:"rect"`

	checkable bool
}

// Line renders the descriptor's one-line text form:
// @e<N> <role> "<name>" with affordances appended.
func (d Descriptor) Line() string {
	var sb strings.Builder
	sb.WriteString(d.Ref)
	sb.WriteByte(' ')
	sb.WriteString(d.Role)
	if d.Name != "" {
		sb.WriteString(" \"")
		sb.WriteString(d.Name)
		sb.WriteString("\"")
	}
	if d.Value != "" {
		sb.WriteString(" value=\"")
		sb.WriteString(d.Value)
		sb.WriteString("\"")
	}
	if d.Checked {
		sb.WriteString(" [checked]")
	}
	if d.Disabled {
		sb.WriteString(" [disabled]")
	}
	return sb.String()
}

// describe derives a Descriptor (sans ref token) from raw element facts.
func describe(raw RawElement) Descriptor {
	return Descriptor{
		Role:      raw.ComputedRole(),
		Name:      raw.AccessibleName(),
		Value:     raw.Value,
		Disabled:  raw.Disabled,
		Checked:   raw.Checkable && raw.Checked,
		Editable:  raw.Editable,
		Marker:    raw.Marker,
		Rect:      raw.Rect,
		checkable: raw.Checkable,
	}
}

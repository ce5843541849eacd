package snapshot

import "testing"

func TestAccessibleNameOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  RawElement
		want string
	}{
		{"label wins over everything", RawElement{LabelText: "Email", AriaLabel: "e", Placeholder: "p", Text: "t"}, "Email"},
		{"aria-label next", RawElement{AriaLabel: "Close", Text: "x"}, "Close"},
		{"placeholder next", RawElement{Placeholder: "Search…", Text: "t"}, "Search…"},
		{"text next", RawElement{Text: "Submit", Title: "ti"}, "Submit"},
		{"title next", RawElement{Title: "Help", Alt: "a"}, "Help"},
		{"alt last", RawElement{Alt: "Logo"}, "Logo"},
		{"whitespace is not a name", RawElement{Text: "   ", Title: "Help"}, "Help"},
		{"empty", RawElement{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.raw.AccessibleName(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptorLine(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			"button",
			Descriptor{Ref: "@e1", Role: "button", Name: "Submit"},
			`@e1 button "Submit"`,
		},
		{
			"disabled textbox",
			Descriptor{Ref: "@e2", Role: "textbox", Name: "Email", Disabled: true},
			`@e2 textbox "Email" [disabled]`,
		},
		{
			"value and checked",
			Descriptor{Ref: "@e3", Role: "checkbox", Name: "Terms", Value: "on", Checked: true},
			`@e3 checkbox "Terms" value="on" [checked]`,
		},
		{
			"nameless",
			Descriptor{Ref: "@e4", Role: "separator"},
			"@e4 separator",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Line(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeCheckedRequiresCheckable(t *testing.T) {
	d := describe(RawElement{Tag: "input", Type: "text", Checked: true})
	if d.Checked {
		t.Error("non-checkable element reported as checked")
	}
	d = describe(RawElement{Tag: "input", Type: "checkbox", Checkable: true, Checked: true})
	if !d.Checked {
		t.Error("checked checkbox not reported as checked")
	}
}

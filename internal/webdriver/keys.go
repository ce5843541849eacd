package webdriver

import "strings"

// specialKeys maps human key names to WebDriver key codepoints.
var specialKeys = map[string]string{
	"enter":      "\uE007",
	"return":     "\uE007",
	"tab":        "\uE004",
	"escape":     "\uE00C",
	"esc":        "\uE00C",
	"backspace":  "\uE003",
	"delete":     "\uE017",
	"space":      "\uE00D",
	"arrowup":    "\uE013",
	"up":         "\uE013",
	"arrowdown":  "\uE015",
	"down":       "\uE015",
	"arrowleft":  "\uE012",
	"left":       "\uE012",
	"arrowright": "\uE014",
	"right":      "\uE014",
	"home":       "\uE011",
	"end":        "\uE010",
	"pageup":     "\uE00E",
	"pagedown":   "\uE00F",
}

// KeyValue translates a key name like "Enter" to its WebDriver codepoint.
// Unrecognized names are returned unchanged so plain characters still work.
func KeyValue(name string) string {
	if v, ok := specialKeys[strings.ToLower(name)]; ok {
		return v
	}
	return name
}

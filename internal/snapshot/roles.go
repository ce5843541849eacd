package snapshot

// Role inference is a pure lookup from element shape (tag, type attribute,
// href presence) to an ARIA role. The mapping is enumerated exhaustively;
// anything unmapped is "generic". An explicit role attribute always wins and
// is applied by the caller before consulting this table.

// textInputTypes are the input types that present as a textbox.
var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"email":    true,
	"password": true,
	"search":   true,
	"tel":      true,
	"url":      true,
}

// ImplicitRole returns the implicit ARIA role for an element shape.
func ImplicitRole(tag, typ string, hasHref bool) string {
	switch tag {
	case "a":
		if hasHref {
			return "link"
		}
		return "generic"
	case "button":
		return "button"
	case "input":
		switch {
		case textInputTypes[typ]:
			return "textbox"
		case typ == "checkbox":
			return "checkbox"
		case typ == "radio":
			return "radio"
		case typ == "range":
			return "slider"
		case typ == "number":
			return "spinbutton"
		case typ == "submit", typ == "button", typ == "reset", typ == "image":
			return "button"
		default:
			return "generic"
		}
	case "textarea":
		return "textbox"
	case "select":
		return "combobox"
	case "option":
		return "option"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	case "img":
		return "img"
	case "ul", "ol":
		return "list"
	case "li":
		return "listitem"
	case "table":
		return "table"
	case "tr":
		return "row"
	case "td":
		return "cell"
	case "th":
		return "columnheader"
	case "nav":
		return "navigation"
	case "main":
		return "main"
	case "form":
		return "form"
	case "header":
		return "banner"
	case "footer":
		return "contentinfo"
	case "aside":
		return "complementary"
	case "section":
		return "region"
	case "dialog":
		return "dialog"
	case "hr":
		return "separator"
	case "progress":
		return "progressbar"
	case "summary":
		return "button"
	default:
		return "generic"
	}
}

// implicitSelectors maps a role to the CSS selector matching its implicit
// instances, for semantic role queries. Inverse of ImplicitRole for the
// roles worth querying by.
var implicitSelectors = map[string]string{
	"link":          "a[href]",
	"button":        "button,input[type=submit],input[type=button],input[type=reset],input[type=image],summary",
	"textbox":       "textarea,input:not([type]),input[type=text],input[type=email],input[type=password],input[type=search],input[type=tel],input[type=url]",
	"checkbox":      "input[type=checkbox]",
	"radio":         "input[type=radio]",
	"slider":        "input[type=range]",
	"spinbutton":    "input[type=number]",
	"combobox":      "select",
	"option":        "option",
	"heading":       "h1,h2,h3,h4,h5,h6",
	"img":           "img",
	"list":          "ul,ol",
	"listitem":      "li",
	"table":         "table",
	"row":           "tr",
	"cell":          "td",
	"columnheader":  "th",
	"navigation":    "nav",
	"main":          "main",
	"form":          "form",
	"banner":        "header",
	"contentinfo":   "footer",
	"complementary": "aside",
	"region":        "section",
	"dialog":        "dialog",
	"separator":     "hr",
	"progressbar":   "progress",
}

// RoleSelector returns the CSS selector for a role's implicit instances, or
// "" when the role has none worth enumerating.
func RoleSelector(role string) string {
	return implicitSelectors[role]
}

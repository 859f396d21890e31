package markers

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// RenderTitle applies a spoken title style to its text: "upper" and
// "lower" fold the whole string, "full" title-cases each word. Unknown
// styles leave the text as spoken.
func RenderTitle(title, titleType string) string {
	title = strings.TrimSpace(title)
	switch strings.ToLower(strings.TrimSpace(titleType)) {
	case "upper":
		return strings.ToUpper(title)
	case "lower":
		return strings.ToLower(title)
	case "full":
		return titleCaser.String(title)
	default:
		return title
	}
}

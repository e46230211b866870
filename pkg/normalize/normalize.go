// Package normalize cleans raw Reddit text for tabular output.
// It strips URLs and Reddit markdown characters without touching the
// semantic content of the text.
package normalize

import (
	"regexp"
	"strings"
)

var (
	urlPattern        = regexp.MustCompile(`http\S+`)
	markupPattern     = regexp.MustCompile(`[\[\]()*#>]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean removes URL-shaped tokens and Reddit markup characters from text,
// then collapses whitespace runs to single spaces and trims the result.
// URL removal runs first so that dangling spacing left behind by a
// stripped URL is folded by the whitespace pass.
func Clean(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = markupPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

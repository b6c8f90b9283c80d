package shortcuts

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reQuotes  = regexp.MustCompile(`[']+`)
	reInvalid = regexp.MustCompile(`[^-a-z0-9]+`)
	reDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify reduces text to lower-case ASCII letters, digits and single
// dashes. With convertInteger, an all-digit result is prefixed "num-" so
// it cannot be mistaken for a localized string id.
func Slugify(text string, convertInteger bool) string {
	text = html.UnescapeString(text)
	text = fold(text)
	text = reQuotes.ReplaceAllString(text, "")
	text = strings.ToLower(text)
	text = reInvalid.ReplaceAllString(text, "-")
	text = reDashes.ReplaceAllString(text, "-")
	text = strings.Trim(text, "-")
	if convertInteger && text != "" && strings.Trim(text, "0123456789") == "" {
		text = "num-" + text
	}
	return text
}

// fold strips diacritics: é becomes e.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

package view

import (
	"strings"

	"github.com/beevik/etree"
)

const hasContent = "library.hascontent("

// MediaTypeFromCondition extracts X from a lone Library.HasContent(X)
// predicate. Negated or combined conditions yield nothing.
func MediaTypeFromCondition(expr string) (string, bool) {
	if strings.ContainsAny(expr, "+|") {
		return "", false
	}
	e := strings.TrimSpace(expr)
	lower := strings.ToLower(e)
	if !strings.HasPrefix(lower, hasContent) {
		return "", false
	}
	rest := lower[len(hasContent):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return "", false
	}
	mt := strings.TrimSpace(rest[:end])
	if mt == "" {
		return "", false
	}
	return mt, true
}

// MediaType infers the media type of a parsed root element: the content
// element when present, else the visible condition.
func MediaType(root *etree.Element) (string, bool) {
	if el := root.SelectElement("content"); el != nil {
		mt := el.Text()
		return mt, mt != ""
	}
	if attr := root.SelectAttr("visible"); attr != nil {
		return MediaTypeFromCondition(attr.Value)
	}
	return "", false
}

package writeback

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
)

// ValidationError contains structured information about a syntax error.
type ValidationError struct {
	FilePath string
	Line     int // 1-indexed, 0 when unknown
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
}

// Validate parses content as XML and returns a *ValidationError if it is
// not a well-formed document with a single root element. Files that are
// not .xml pass through without validation (returns nil).
func Validate(content []byte, filePath string) error {
	if !strings.EqualFold(path.Ext(filePath), ".xml") {
		return nil // not a document we own
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		ve := &ValidationError{FilePath: filePath, Message: err.Error()}
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			ve.Line = syn.Line
			ve.Message = syn.Msg
		}
		return ve
	}
	if doc.Root() == nil {
		return &ValidationError{FilePath: filePath, Message: "document has no root element"}
	}
	return nil
}

// Package linter reports problems in library view definitions that the
// node resolver would otherwise skip or silently work around.
package linter

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/agentic-research/shortcuts/internal/view"
	"github.com/beevik/etree"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

type Diagnostic struct {
	File    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.File, d.Message)
}

// Lint checks one view document. name is only used to tell folder views
// (index.xml) from leaf views and to label diagnostics.
func Lint(content []byte, name string) []Diagnostic {
	diag := func(format string, args ...any) Diagnostic {
		return Diagnostic{File: name, Message: fmt.Sprintf(format, args...)}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return []Diagnostic{diag("malformed: %v", err)}
	}
	root := doc.Root()
	if root == nil {
		return []Diagnostic{diag("no root element")}
	}

	var diags []Diagnostic
	if root.Tag != "node" {
		diags = append(diags, diag("root element is <%s>, want <node>", root.Tag))
	}

	// Rule 1: a view without a label is skipped.
	if el := root.SelectElement("label"); el == nil {
		diags = append(diags, diag("missing <label>"))
	} else if strings.TrimSpace(el.Text()) == "" {
		diags = append(diags, diag("empty <label>"))
	}

	// Rule 2: order must be an integer.
	if attr := root.SelectAttr("order"); attr != nil {
		if _, err := strconv.Atoi(strings.TrimSpace(attr.Value)); err != nil {
			diags = append(diags, diag("order %q is not an integer", attr.Value))
		}
	}

	// Rule 3: folder views navigate to their directory.
	if path.Base(name) == view.IndexFile && root.SelectElement("path") != nil {
		diags = append(diags, diag("<path> is ignored on folder views"))
	}

	// Rule 4: media type inference.
	if el := root.SelectElement("content"); el != nil {
		if el.Text() == "" {
			diags = append(diags, diag("empty <content> sets no media type"))
		}
	} else if attr := root.SelectAttr("visible"); attr != nil {
		if _, ok := view.MediaTypeFromCondition(attr.Value); !ok && strings.Contains(strings.ToLower(attr.Value), "library.hascontent") {
			diags = append(diags, diag("media type cannot be inferred from visible=%q, add <content>", attr.Value))
		}
	}
	return diags
}

// LintDir lints every .xml view below dir and reports explicit orders that
// collide within one directory.
func LintDir(fsys billy.Filesystem, dir string) ([]Diagnostic, error) {
	var diags []Diagnostic
	orders := make(map[string]map[int]string) // dir -> order -> first file

	err := util.Walk(fsys, dir, func(name string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || !strings.HasSuffix(name, ".xml") {
			return nil
		}
		b, err := util.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		diags = append(diags, Lint(b, name)...)

		order, ok := explicitOrder(b)
		if !ok {
			return nil
		}
		// index.xml orders its folder among the folder's siblings
		scope := path.Dir(name)
		if path.Base(name) == view.IndexFile {
			scope = path.Dir(scope)
		}
		if orders[scope] == nil {
			orders[scope] = make(map[int]string)
		}
		if first, taken := orders[scope][order]; taken {
			diags = append(diags, Diagnostic{
				File:    name,
				Message: fmt.Sprintf("order %d also used by %s, one of them will be shifted", order, first),
			})
			return nil
		}
		orders[scope][order] = name
		return nil
	})
	if err != nil {
		return diags, err
	}

	slices.SortStableFunc(diags, func(a, b Diagnostic) int { return strings.Compare(a.File, b.File) })
	return diags, nil
}

func explicitOrder(content []byte) (int, bool) {
	doc := etree.NewDocument()
	if doc.ReadFromBytes(content) != nil || doc.Root() == nil {
		return 0, false
	}
	attr := doc.Root().SelectAttr("order")
	if attr == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(attr.Value))
	return n, err == nil
}

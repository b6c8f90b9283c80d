// Package view parses library view definition documents into descriptors.
package view

import (
	"errors"
	"fmt"
	"path"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/condition"
	"github.com/beevik/etree"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// IndexFile is the name of a folder's own view definition.
const IndexFile = "index.xml"

var (
	ErrMissingLabel = errors.New("view has no label")
	ErrNoRoot       = errors.New("view has no root element")
)

// Status is the outcome class of one parse attempt.
type Status int

const (
	StatusParsed Status = iota
	// StatusHidden means the visible condition evaluated false.
	StatusHidden
	// StatusIgnored means an index.xml was offered as a leaf view.
	StatusIgnored
	// StatusFailed means the document could not be read or was invalid.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusHidden:
		return "hidden"
	case StatusIgnored:
		return "ignored"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request describes one document to parse.
type Request struct {
	// Path of the document inside the filesystem.
	Path string
	// Folder marks a directory-level index.xml.
	Folder bool
	// Target is the folder reference for folders and the default content
	// path for leaf views.
	Target string
}

// Ordinals hands out display positions. nodes.Set implements it.
type Ordinals interface {
	Explicit(order string) (int, error)
	Synthetic() int
}

// Outcome is the result of Parse. Descriptor is set only for StatusParsed.
type Outcome struct {
	Descriptor *api.Descriptor
	Status     Status
	Err        error
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// Parse reads req.Path from fsys and resolves it into a descriptor.
//
// The ordinal is claimed before the visible condition is evaluated, so a
// hidden unordered view still uses up a synthetic ordinal.
func Parse(fsys billy.Basic, req Request, ords Ordinals, cond condition.Evaluator) Outcome {
	if !req.Folder && path.Base(req.Path) == IndexFile {
		return Outcome{Status: StatusIgnored}
	}

	root, err := Root(fsys, req.Path)
	if err != nil {
		return failed(err)
	}

	ordinal, orig := 0, api.Unordered
	if attr := root.SelectAttr("order"); attr != nil {
		ordinal, err = ords.Explicit(attr.Value)
		if err != nil {
			return failed(fmt.Errorf("parse %s: %w", req.Path, err))
		}
		orig = attr.Value
	} else {
		ordinal = ords.Synthetic()
	}

	d := &api.Descriptor{
		Ordinal:         ordinal,
		OriginalOrdinal: orig,
		Source:          req.Path,
	}

	if attr := root.SelectAttr("visible"); attr != nil && !cond.Visible(attr.Value) {
		return Outcome{Status: StatusHidden}
	}
	d.MediaType, d.HasMediaType = MediaType(root)

	label := root.SelectElement("label")
	if label == nil {
		return failed(fmt.Errorf("parse %s: %w", req.Path, ErrMissingLabel))
	}
	d.Label = label.Text()
	if icon := root.SelectElement("icon"); icon != nil {
		d.Icon = icon.Text()
	}

	if req.Folder {
		d.Kind = api.KindFolder
		d.Target = req.Target
		return Outcome{Descriptor: d, Status: StatusParsed}
	}

	d.Target = req.Target
	if p := root.SelectElement("path"); p != nil {
		d.Target = p.Text()
	}
	d.Kind = api.KindItem
	if root.SelectElement("group") != nil {
		d.Kind = api.KindGrouped
	}
	return Outcome{Descriptor: d, Status: StatusParsed}
}

// Root reads name and returns its root element.
func Root(fsys billy.Basic, name string) (*etree.Element, error) {
	b, err := util.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse %s: %w", name, ErrNoRoot)
	}
	return root, nil
}

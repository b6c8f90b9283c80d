// Package ingest walks library view directories into ordered node sets.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/condition"
	"github.com/agentic-research/shortcuts/internal/nodes"
	"github.com/agentic-research/shortcuts/internal/view"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
)

// ErrListDirectory is returned when a directory cannot be enumerated.
var ErrListDirectory = errors.New("cannot list directory")

// Engine drives node resolution over one library hierarchy.
type Engine struct {
	FS   billy.Filesystem
	Cond condition.Evaluator
	Log  *log.Logger
}

func NewEngine(fs billy.Filesystem, cond condition.Evaluator, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cond == nil {
		cond = condition.Constant(true)
	}
	return &Engine{FS: fs, Cond: cond, Log: logger}
}

// ListNodes resolves the immediate children of dir. Subdirectories holding
// an index.xml become folders targeting <prefix>/<name>/, .xml files
// become leaf views targeting <prefix>/<file>.
//
// Explicit ordinals do not depend on listing order. Synthetic ones do:
// folders are handed out first, then files, each in name order.
func (e *Engine) ListNodes(dir, prefix string) (*nodes.Set, error) {
	entries, err := e.FS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrListDirectory, dir, err)
	}

	var dirs, files []os.FileInfo
	for _, fi := range entries {
		if fi.IsDir() {
			dirs = append(dirs, fi)
		} else {
			files = append(files, fi)
		}
	}
	byName := func(a, b os.FileInfo) int { return strings.Compare(a.Name(), b.Name()) }
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)

	prefix = strings.TrimSuffix(prefix, "/")
	set := nodes.NewSet()

	for _, d := range dirs {
		index := path.Join(dir, d.Name(), view.IndexFile)
		if _, err := e.FS.Stat(index); err != nil {
			continue
		}
		e.add(set, view.Request{
			Path:   index,
			Folder: true,
			Target: prefix + "/" + d.Name() + "/",
		})
	}
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".xml") {
			continue
		}
		e.add(set, view.Request{
			Path:   path.Join(dir, f.Name()),
			Target: prefix + "/" + f.Name(),
		})
	}

	if len(set.Skipped()) > 0 {
		e.Log.Debug("listed nodes", "dir", dir, "labels", set.Labels(), "skipped", set.SkippedBy())
	}
	return set, nil
}

func (e *Engine) add(set *nodes.Set, req view.Request) {
	out := view.Parse(e.FS, req, set, e.Cond)
	switch out.Status {
	case view.StatusParsed:
		set.Add(out.Descriptor)
	case view.StatusFailed:
		e.Log.Warn("skipping view", "file", req.Path, "err", out.Err)
		set.Skip(nodes.Skip{Path: req.Path, Reason: out.Status.String(), Err: out.Err})
	default:
		set.Skip(nodes.Skip{Path: req.Path, Reason: out.Status.String()})
	}
}

// Tree is a node set with the resolved contents of each of its folders.
type Tree struct {
	Dir      string
	Nodes    *nodes.Set
	Children map[int]*Tree // keyed by the folder's ordinal
}

// ListTree resolves dir and every folder below it. Each level gets its own
// set, so synthetic ordinals restart at -1 per folder.
func (e *Engine) ListTree(dir, prefix string) (*Tree, error) {
	set, err := e.ListNodes(dir, prefix)
	if err != nil {
		return nil, err
	}
	t := &Tree{Dir: dir, Nodes: set, Children: make(map[int]*Tree)}
	for _, d := range set.Descriptors() {
		if d.Kind != api.KindFolder {
			continue
		}
		child, err := e.ListTree(path.Dir(d.Source), d.Target)
		if err != nil {
			return nil, err
		}
		t.Children[d.Ordinal] = child
	}
	return t, nil
}

// Walk visits every descriptor of t depth first, in ordinal order.
func (t *Tree) Walk(fn func(depth int, d *api.Descriptor)) {
	t.walk(0, fn)
}

func (t *Tree) walk(depth int, fn func(int, *api.Descriptor)) {
	for _, d := range t.Nodes.Descriptors() {
		fn(depth, d)
		if child, ok := t.Children[d.Ordinal]; ok {
			child.walk(depth+1, fn)
		}
	}
}

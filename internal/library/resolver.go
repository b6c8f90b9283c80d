// Package library locates view definitions for logical library paths across
// the user-custom and system-default hierarchies.
package library

import (
	"io"
	"strings"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/view"
	"github.com/beevik/etree"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
)

// Resolver searches User before System. Each filesystem is rooted at a
// library directory holding video/ and music/.
type Resolver struct {
	User   billy.Filesystem
	System billy.Filesystem
	Log    *log.Logger
}

func NewResolver(user, system billy.Filesystem, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{User: user, System: system, Log: logger}
}

// candidate is a file found in one of the hierarchies.
type candidate struct {
	fs   billy.Filesystem
	name string
}

func isFile(fs billy.Filesystem, name string) bool {
	if fs == nil {
		return false
	}
	fi, err := fs.Stat(name)
	return err == nil && !fi.IsDir()
}

// first returns the first existing (fs, name) pair.
func first(pairs ...candidate) *candidate {
	for _, c := range pairs {
		if isFile(c.fs, c.name) {
			return &c
		}
	}
	return nil
}

// nodeFileForVisibility picks the index slot first and lets an existing
// leaf file replace it.
func (r *Resolver) nodeFileForVisibility(loc Location) *candidate {
	node := first(
		candidate{r.User, loc.IndexFile()},
		candidate{r.System, loc.IndexFile()},
	)
	if leaf := first(
		candidate{r.User, loc.LeafFile()},
		candidate{r.System, loc.LeafFile()},
	); leaf != nil {
		node = leaf
	}
	return node
}

func (r *Resolver) nodeFileForMediaType(loc Location) *candidate {
	return first(
		candidate{r.User, loc.IndexFile()},
		candidate{r.User, loc.LeafFile()},
		candidate{r.System, loc.IndexFile()},
		candidate{r.System, loc.LeafFile()},
	)
}

func (r *Resolver) parentFile(loc Location) *candidate {
	parent, ok := loc.Parent()
	if !ok {
		return nil
	}
	return first(
		candidate{r.User, parent.IndexFile()},
		candidate{r.System, parent.IndexFile()},
	)
}

func (r *Resolver) root(c *candidate) *etree.Element {
	if c == nil {
		return nil
	}
	root, err := view.Root(c.fs, c.name)
	if err != nil {
		r.Log.Debug("skipping unreadable view", "file", c.name, "err", err)
		return nil
	}
	return root
}

// Visibility returns the visible condition of the view behind p, falling
// back to its parent folder. It returns "" when neither has one.
func (r *Resolver) Visibility(p string) string {
	loc, ok := Normalize(p)
	if !ok {
		return ""
	}
	for _, c := range []*candidate{r.nodeFileForVisibility(loc), r.parentFile(loc)} {
		root := r.root(c)
		if root == nil {
			continue
		}
		if attr := root.SelectAttr("visible"); attr != nil {
			return attr.Value
		}
	}
	return ""
}

// MediaType returns the media type of the view behind p, falling back to
// its parent folder. It returns api.UnknownMediaType when undecidable.
func (r *Resolver) MediaType(p string) string {
	loc, ok := Normalize(p)
	if !ok {
		return api.UnknownMediaType
	}
	for _, c := range []*candidate{r.nodeFileForMediaType(loc), r.parentFile(loc)} {
		root := r.root(c)
		if root == nil {
			continue
		}
		if mt, ok := view.MediaType(root); ok {
			return mt
		}
	}
	return api.UnknownMediaType
}

// IsGrouped reports whether the leaf view named by p declares a <group>.
// p is a view path with one trailing separator, e.g.
// library://video/movies/genres.xml/.
func (r *Resolver) IsGrouped(p string) bool {
	rest, lib, ok := cutRoot(p)
	if !ok {
		return false
	}
	name := lib + strings.TrimSuffix(rest, "/")
	root := r.root(first(
		candidate{r.User, name},
		candidate{r.System, name},
	))
	return root != nil && root.SelectElement("group") != nil
}

// Root returns the hierarchy that should be listed for lib: the user one
// when it carries that library, else the system one.
func (r *Resolver) Root(lib string) billy.Filesystem {
	if r.User != nil {
		if fi, err := r.User.Stat(lib); err == nil && fi.IsDir() {
			return r.User
		}
	}
	return r.System
}

package library

import (
	"path"
	"strings"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/view"
)

// Library directory names under a library root.
const (
	Video = "video"
	Music = "music"
)

var legacySchemes = []struct{ from, to string }{
	{"videodb://", api.VideoRoot + "/"},
	{"musicdb://", api.MusicRoot + "/"},
}

// Location is a logical library path split into its library and the
// slash-free path relative to that library.
type Location struct {
	Library string
	Rel     string
}

// Normalize rewrites legacy schemes, drops a trailing .xml or .xml/ and
// splits the result. ok is false for paths outside both libraries.
func Normalize(p string) (loc Location, ok bool) {
	for _, s := range legacySchemes {
		p = strings.Replace(p, s.from, s.to, 1)
	}
	switch {
	case strings.HasSuffix(p, ".xml/"):
		p = strings.TrimSuffix(p, ".xml/")
	case strings.HasSuffix(p, ".xml"):
		p = strings.TrimSuffix(p, ".xml")
	}

	rest, lib, found := cutRoot(p)
	if !found {
		return Location{}, false
	}
	return Location{Library: lib, Rel: strings.Trim(rest, "/")}, true
}

func cutRoot(p string) (rest, lib string, ok bool) {
	if rest, ok := strings.CutPrefix(p, api.VideoRoot); ok {
		return rest, Video, true
	}
	if rest, ok := strings.CutPrefix(p, api.MusicRoot); ok {
		return rest, Music, true
	}
	return "", "", false
}

// String renders the canonical library:// form with a trailing slash.
func (l Location) String() string {
	if l.Rel == "" {
		return "library://" + l.Library + "/"
	}
	return "library://" + l.Library + "/" + l.Rel + "/"
}

// Dir is the location's directory inside a library root.
func (l Location) Dir() string {
	return path.Join(l.Library, l.Rel)
}

// IndexFile is the folder view candidate: <rel>/index.xml.
func (l Location) IndexFile() string {
	return path.Join(l.Dir(), view.IndexFile)
}

// LeafFile is the leaf view candidate: <rel>.xml.
func (l Location) LeafFile() string {
	return l.Dir() + ".xml"
}

// Parent returns the location with its last segment removed. The library
// itself has no parent.
func (l Location) Parent() (Location, bool) {
	if l.Rel == "" {
		return Location{}, false
	}
	dir := path.Dir(l.Rel)
	if dir == "." {
		dir = ""
	}
	return Location{Library: l.Library, Rel: dir}, true
}

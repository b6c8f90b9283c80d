package menu

import (
	"fmt"
	"strings"

	"github.com/agentic-research/shortcuts/internal/rpc"
)

// PicturesWindow is the window id of the pictures browser.
const PicturesWindow = "10002"

// Action is a labelled command a shortcut can run.
type Action struct {
	Label   string
	Command string
}

// ActivateWindow opens path in window.
func ActivateWindow(window, path string) string {
	return fmt.Sprintf("ActivateWindow(%s,%s,return)", window, path)
}

// Actions lists what a shortcut to req could do. node holds one action per
// browsable sub-directory in entries.
func Actions(req Request, entries []rpc.Entry) (actions, node []Action) {
	actions = []Action{{Label: "Go to", Command: ActivateWindow(req.Window, req.Path)}}

	for _, e := range entries {
		if e.IsDir() {
			node = append(node, Action{Label: e.Label, Command: ActivateWindow(req.Window, e.File)})
		}
	}

	if req.Content == "albums" {
		actions = append(actions, Action{
			Label:   "Play",
			Command: fmt.Sprintf("RunScript(script.skinshortcuts,type=launchalbum&album=%s)", ExtractID(req.Path)),
		})
	}
	if req.Window == PicturesWindow {
		actions = append(actions,
			Action{"Slideshow", fmt.Sprintf("SlideShow(%s,notrandom)", req.Path)},
			Action{"Slideshow (random)", fmt.Sprintf("SlideShow(%s,random)", req.Path)},
			Action{"Slideshow (recursive)", fmt.Sprintf("SlideShow(%s,recursive,notrandom)", req.Path)},
			Action{"Slideshow (recursive, random)", fmt.Sprintf("SlideShow(%s,recursive,random)", req.Path)},
		)
	}
	if strings.HasSuffix(req.Path, ".xsp") {
		actions = append(actions, Action{"Play", fmt.Sprintf("PlayMedia(%s)", req.Path)})
	}
	return actions, node
}

// ExtractID returns the last path segment of path, ignoring any query
// string and trailing slash: musicdb://albums/42/?x=1 gives 42.
func ExtractID(path string) string {
	if i := strings.LastIndex(path, "?"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

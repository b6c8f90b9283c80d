// Package menu adds library locations to the user's menus.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/rpc"
	"github.com/agentic-research/shortcuts/internal/shortcuts"
	"github.com/charmbracelet/log"
)

// ErrCancelled is returned when the chooser declines a selection.
var ErrCancelled = errors.New("cancelled")

// Lister lists a directory through the host.
type Lister interface {
	ListDirectory(ctx context.Context, dir string) ([]rpc.Entry, error)
}

// Documents loads and stores menu documents.
type Documents interface {
	Fetch(group string) (*shortcuts.Menu, error)
	Save(m *shortcuts.Menu) error
}

// ReloadSignal tells the host its menu is stale.
type ReloadSignal interface {
	RequestReload() error
}

// Option is one place a new shortcut can go.
type Option struct {
	Label string
	Icon  string
	Group string
	// Autofill also writes a submenu of the location's sub-directories.
	Autofill bool
}

// Chooser makes the selections a dialog would. A negative index cancels.
type Chooser interface {
	ChooseMenu(options []Option) (int, error)
	ChooseAction(actions []Action) (int, error)
}

// Fixed is a Chooser with preset answers.
type Fixed struct {
	Menu   int
	Action int
}

func (f Fixed) ChooseMenu([]Option) (int, error)   { return f.Menu, nil }
func (f Fixed) ChooseAction([]Action) (int, error) { return f.Action, nil }

// Request describes the location to add.
type Request struct {
	Path    string
	Label   string
	Icon    string
	Content string
	Window  string
}

// Result describes what Add wrote.
type Result struct {
	Group   string
	LabelID string
	Action  string
	Submenu bool
}

// Adder runs the add-to-menu workflow.
type Adder struct {
	Lister  Lister
	Docs    Documents
	Chooser Chooser
	Signal  ReloadSignal // optional
	Log     *log.Logger
}

func (a *Adder) logger() *log.Logger {
	if a.Log == nil {
		return log.New(io.Discard)
	}
	return a.Log
}

// Options lists the menus a shortcut can be added to: the main menu, the
// main menu with an autofilled submenu when the location has
// sub-directories, then the submenu of every existing main menu entry.
func (a *Adder) Options(main *shortcuts.Menu, isNode bool) []Option {
	opts := []Option{{Label: "Main menu", Group: api.MainMenu}}
	if isNode {
		opts = append(opts, Option{Label: "Main menu + autofill submenu", Group: api.MainMenu, Autofill: true})
	}
	var ids shortcuts.LabelIDs
	for _, sc := range main.Shortcuts() {
		opts = append(opts, Option{Label: sc.Label, Icon: sc.Icon, Group: ids.Allocate(sc.Label, sc.Action)})
	}
	return opts
}

// Add lists req.Path, lets the chooser pick a menu and an action, appends
// the shortcut and signals a reload.
func (a *Adder) Add(ctx context.Context, req Request) (*Result, error) {
	lg := a.logger()
	lg.Debug("adding to menu", "path", req.Path, "label", req.Label, "content", req.Content, "window", req.Window)

	entries, err := a.Lister.ListDirectory(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", req.Path, err)
	}
	actions, node := Actions(req, entries)
	isNode := len(node) > 0

	main, err := a.Docs.Fetch(api.MainMenu)
	if err != nil {
		return nil, err
	}
	opts := a.Options(main, isNode)
	choice, err := a.Chooser.ChooseMenu(opts)
	if err != nil {
		return nil, err
	}
	if choice < 0 || choice >= len(opts) {
		return nil, ErrCancelled
	}
	opt := opts[choice]

	if opt.Autofill {
		actions = append(actions, node...)
	}
	action := actions[0]
	if len(actions) > 1 {
		i, err := a.Chooser.ChooseAction(actions)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(actions) {
			return nil, ErrCancelled
		}
		action = actions[i]
	}

	target, err := a.Docs.Fetch(opt.Group)
	if err != nil {
		return nil, err
	}
	var ids shortcuts.LabelIDs
	for _, sc := range target.Shortcuts() {
		ids.Allocate(sc.Label, sc.Action)
	}
	labelID := ids.Allocate(req.Label, action.Command)

	target.Append(shortcuts.Shortcut{
		Label:  req.Label,
		Label2: shortcuts.CustomLabel2,
		Icon:   req.Icon,
		Action: action.Command,
	})
	if err := a.Docs.Save(target); err != nil {
		return nil, err
	}

	res := &Result{Group: opt.Group, LabelID: labelID, Action: action.Command}
	if opt.Autofill {
		sub := shortcuts.NewMenu(labelID)
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			sub.Append(shortcuts.Shortcut{
				Label:  e.Label,
				Label2: shortcuts.CustomLabel2,
				Icon:   e.Thumbnail,
				Action: ActivateWindow(req.Window, e.File),
			})
		}
		if err := a.Docs.Save(sub); err != nil {
			return nil, err
		}
		res.Submenu = true
	}

	if a.Signal != nil {
		if err := a.Signal.RequestReload(); err != nil {
			return nil, fmt.Errorf("request reload: %w", err)
		}
	}
	lg.Info("added shortcut", "group", res.Group, "label_id", res.LabelID, "submenu", res.Submenu)
	return res, nil
}

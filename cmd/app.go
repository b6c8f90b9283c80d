package cmd

import (
	"fmt"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/control"
	"github.com/agentic-research/shortcuts/internal/ingest"
	"github.com/agentic-research/shortcuts/internal/library"
	"github.com/agentic-research/shortcuts/internal/props"
	"github.com/agentic-research/shortcuts/internal/shortcuts"
	"github.com/agentic-research/shortcuts/internal/store"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

func (a *app) resolver() *library.Resolver {
	return library.NewResolver(
		osfs.New(a.cfg.UserLibrary()),
		osfs.New(a.cfg.SystemLibrary()),
		a.log,
	)
}

func (a *app) documents() *shortcuts.Store {
	var skin billy.Filesystem
	if a.cfg.SkinDir != "" {
		skin = osfs.New(a.cfg.SkinDir)
	}
	return shortcuts.NewStore(osfs.New(a.cfg.DataDir), skin, a.log)
}

// walker resolves p to the hierarchy carrying its library and returns an
// engine over it with the directory and target prefix to list.
func (a *app) walker(p string) (*ingest.Engine, string, string, error) {
	loc, ok := library.Normalize(p)
	if !ok {
		return nil, "", "", fmt.Errorf("not a library path: %q", p)
	}
	fs := a.resolver().Root(loc.Library)
	return ingest.NewEngine(fs, a.cfg.Evaluator(), a.log), loc.Dir(), loc.String(), nil
}

// requirements merges the skin's requirement edges with the configured
// ones. Skin edges come first.
func (a *app) requirements(docs *shortcuts.Store) ([]api.Requirement, error) {
	ov, err := docs.Overrides()
	if err != nil {
		return nil, err
	}
	return append(ov.Requirements, a.cfg.PropertyRequirements()...), nil
}

// session is an open property store plus the reload control block.
type session struct {
	merger *props.Merger
	db     *store.SQLite
	ctl    *control.Controller
}

func (s *session) Close() error {
	var first error
	if s.ctl != nil {
		if err := s.ctl.Close(); err != nil {
			first = err
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *app) openSession() (*session, error) {
	docs := a.documents()
	reqs, err := a.requirements(docs)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(a.cfg.Database)
	if err != nil {
		return nil, err
	}
	ctl, err := control.OpenOrCreate(a.cfg.ControlFile)
	if err != nil {
		_ = db.Close() // best-effort cleanup
		return nil, err
	}
	return &session{
		merger: &props.Merger{
			Store:        db,
			Defaults:     docs,
			Requirements: reqs,
			Menus:        docs,
			Signal:       ctl,
			Log:          a.log,
		},
		db:  db,
		ctl: ctl,
	}, nil
}

// Package shortcuts reads and writes the menu documents and skin overrides
// that the property and menu workflows operate on.
package shortcuts

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agentic-research/shortcuts/internal/writeback"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Store resolves group documents from the user data directory first and
// the skin's shipped defaults second. Writes always go to Data.
type Store struct {
	Data billy.Filesystem
	Skin billy.Filesystem // may be nil
	Log  *log.Logger
}

func NewStore(data, skin billy.Filesystem, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{Data: data, Skin: skin, Log: logger}
}

// Filename is the storage name of group's document.
func Filename(group string) string {
	return Slugify(group, true) + ".DATA.xml"
}

func readOptional(fsys billy.Filesystem, name string) ([]byte, bool, error) {
	if fsys == nil {
		return nil, false, nil
	}
	b, err := util.ReadFile(fsys, name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", name, err)
	}
	return b, true, nil
}

// Fetch loads group's document. A group with no document anywhere yields
// an empty menu.
func (s *Store) Fetch(group string) (*Menu, error) {
	name := Filename(group)
	for _, fsys := range []billy.Filesystem{s.Data, s.Skin} {
		b, ok, err := readOptional(fsys, name)
		if err != nil {
			return nil, err
		}
		if ok {
			return ParseMenu(group, b)
		}
	}
	s.Log.Debug("no menu document, starting empty", "group", group)
	return NewMenu(group), nil
}

// Save writes m to the data directory.
func (s *Store) Save(m *Menu) error {
	b, err := m.Bytes()
	if err != nil {
		return fmt.Errorf("render menu %s: %w", m.Group, err)
	}
	name := Filename(m.Group)
	if err := writeback.Validate(b, name); err != nil {
		return fmt.Errorf("render menu %s: %w", m.Group, err)
	}
	if err := writeback.WriteFile(s.Data, name, b); err != nil {
		return err
	}
	s.Log.Debug("wrote menu", "group", m.Group, "shortcuts", m.Len())
	return nil
}

// Rewrite copies group's current document into the data directory, which
// is what makes stored properties take effect.
func (s *Store) Rewrite(group string) error {
	m, err := s.Fetch(group)
	if err != nil {
		return err
	}
	return s.Save(m)
}

// LabelIDs returns the ids of group's entries, allocated in document order.
func (s *Store) LabelIDs(group string) ([]string, error) {
	m, err := s.Fetch(group)
	if err != nil {
		return nil, err
	}
	var ids LabelIDs
	var out []string
	for _, sc := range m.Shortcuts() {
		out = append(out, ids.Allocate(sc.Label, sc.Action))
	}
	return out, nil
}

package props

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/store"
	"github.com/charmbracelet/log"
)

// ErrMismatchedChange means a change names more properties than it has
// values or entry ids for.
var ErrMismatchedChange = errors.New("properties, values and entry ids do not line up")

// RecordStore persists the whole flat override set. Load returns
// store.ErrNoProperties when nothing was ever written.
type RecordStore interface {
	Load(ctx context.Context) ([]api.Record, error)
	Replace(ctx context.Context, records []api.Record) error
}

// DefaultSource supplies the skin's comprehensive defaults.
type DefaultSource interface {
	DefaultProperties() ([]api.Record, error)
}

// MenuWriter re-serializes a group's menu document.
type MenuWriter interface {
	Rewrite(group string) error
}

// ReloadSignal tells the host its menu is stale.
type ReloadSignal interface {
	RequestReload() error
}

// Change is one bulk property request. Values pair with Properties by
// position. EntryIDs holds either one shared id or one id per property.
type Change struct {
	Properties []string
	Values     []string
	EntryIDs   []string
	Group      string
}

func splitField(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

// ParseChange splits |-separated fields. An empty value field is one empty
// value when properties are given. ::INFO:: in values stands for $INFO,
// which cannot be passed through the host's script arguments.
func ParseChange(properties, values, labelIDs, group string) Change {
	c := Change{
		Properties: splitField(properties),
		EntryIDs:   splitField(labelIDs),
		Group:      group,
	}
	values = strings.ReplaceAll(values, "::INFO::", "$INFO")
	if len(c.Properties) > 0 {
		c.Values = strings.Split(values, "|")
	}
	return c
}

// Summary is the confirmation text shown before a change is applied.
func Summary(c Change) string {
	if len(c.Properties) == 0 || len(c.Values) == 0 {
		return ""
	}
	msg := fmt.Sprintf("Set %s property to %s?", c.Properties[0], c.Values[0])
	switch n := len(c.Properties) - 1; {
	case n == 1:
		msg += "[CR](and 1 other property)"
	case n > 1:
		msg += fmt.Sprintf("[CR](and %d other properties)", n)
	}
	return msg
}

// Merger applies changes to the stored override table.
type Merger struct {
	Store        RecordStore
	Defaults     DefaultSource
	Requirements []api.Requirement
	Menus        MenuWriter   // optional
	Signal       ReloadSignal // optional
	Log          *log.Logger
}

func (m *Merger) logger() *log.Logger {
	if m.Log == nil {
		return log.New(io.Discard)
	}
	return m.Log
}

func (m *Merger) base(ctx context.Context) ([]api.Record, error) {
	current, err := m.Store.Load(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, store.ErrNoProperties) {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	if m.Defaults == nil {
		return nil, nil
	}
	defaults, err := m.Defaults.DefaultProperties()
	if err != nil {
		return nil, fmt.Errorf("load default properties: %w", err)
	}
	return defaults, nil
}

// Apply merges c into the stored table and persists the full result. A
// change without properties or entry ids is ignored.
//
// Requirements are checked after each individual assignment, in their
// declared order, against the entry that was just written.
func (m *Merger) Apply(ctx context.Context, c Change) error {
	if len(c.Properties) == 0 || len(c.EntryIDs) == 0 {
		return nil
	}
	if len(c.Values) < len(c.Properties) ||
		(len(c.EntryIDs) != 1 && len(c.EntryIDs) < len(c.Properties)) {
		return fmt.Errorf("%w: %d properties, %d values, %d entry ids",
			ErrMismatchedChange, len(c.Properties), len(c.Values), len(c.EntryIDs))
	}
	group := c.Group
	if group == "" {
		group = api.MainMenu
	}
	lg := m.logger()

	records, err := m.base(ctx)
	if err != nil {
		return err
	}
	table := FromRecords(records)
	table.Ensure(group)

	for i, prop := range c.Properties {
		labelID := c.EntryIDs[0]
		if len(c.EntryIDs) != 1 {
			labelID = c.EntryIDs[i]
		}
		lg.Debug("setting property", "group", group, "label_id", labelID, "property", prop, "value", c.Values[i])
		table.Set(group, labelID, prop, c.Values[i])
		for _, removed := range table.Prune(group, labelID, m.Requirements) {
			lg.Debug("removing property with unmet requirement", "label_id", labelID, "property", removed)
		}
	}

	flat := table.Records()
	if err := m.Store.Replace(ctx, flat); err != nil {
		return fmt.Errorf("save properties: %w", err)
	}

	// Stored properties only apply once the group's document lives in the
	// data directory.
	if m.Menus != nil {
		if err := m.Menus.Rewrite(group); err != nil {
			return fmt.Errorf("rewrite menu %s: %w", group, err)
		}
	}
	if m.Signal != nil {
		if err := m.Signal.RequestReload(); err != nil {
			return fmt.Errorf("request reload: %w", err)
		}
	}
	lg.Info("properties updated", "group", group, "records", len(flat))
	return nil
}

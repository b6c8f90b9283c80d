// Package props merges requested property changes into the stored
// override table.
package props

import (
	"slices"

	"github.com/agentic-research/shortcuts/api"
)

// Entry maps property name to value for one menu entry.
type Entry map[string]string

// Group maps label id to entry.
type Group map[string]Entry

// Table maps group to its entries.
type Table map[string]Group

// FromRecords rebuilds a table. Records without a value still create their
// group and entry but contribute no property.
func FromRecords(records []api.Record) Table {
	t := make(Table)
	for _, r := range records {
		e := t.entry(r.Group, r.LabelID)
		if r.Value != nil {
			e[r.Property] = *r.Value
		}
	}
	return t
}

func (t Table) entry(group, labelID string) Entry {
	g, ok := t[group]
	if !ok {
		g = make(Group)
		t[group] = g
	}
	e, ok := g[labelID]
	if !ok {
		e = make(Entry)
		g[labelID] = e
	}
	return e
}

// Ensure creates group if it is missing.
func (t Table) Ensure(group string) {
	if _, ok := t[group]; !ok {
		t[group] = make(Group)
	}
}

// Set assigns one property.
func (t Table) Set(group, labelID, property, value string) {
	t.entry(group, labelID)[property] = value
}

// Get looks one property up.
func (t Table) Get(group, labelID, property string) (string, bool) {
	v, ok := t[group][labelID][property]
	return v, ok
}

// Prune makes one ordered pass over reqs and drops each property of the
// entry whose required property is absent at that point in the pass. A
// removal can only affect edges that come later in reqs.
func (t Table) Prune(group, labelID string, reqs []api.Requirement) []string {
	e := t[group][labelID]
	if e == nil {
		return nil
	}
	var removed []string
	for _, r := range reqs {
		if _, ok := e[r.Property]; !ok {
			continue
		}
		if _, ok := e[r.Requires]; ok {
			continue
		}
		delete(e, r.Property)
		removed = append(removed, r.Property)
	}
	return removed
}

// Records flattens the table ordered by group, label id and property.
func (t Table) Records() []api.Record {
	out := []api.Record{}
	for _, group := range sortedKeys(t) {
		for _, label := range sortedKeys(t[group]) {
			e := t[group][label]
			for _, prop := range sortedKeys(e) {
				out = append(out, api.NewRecord(group, label, prop, e[prop]))
			}
		}
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

package props

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/control"
	"github.com/agentic-research/shortcuts/internal/shortcuts"
	"github.com/agentic-research/shortcuts/internal/store"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	records []api.Record
	written bool
	saves   int
	loadErr error
}

func (s *memStore) Load(context.Context) ([]api.Record, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if !s.written {
		return nil, store.ErrNoProperties
	}
	return s.records, nil
}

func (s *memStore) Replace(_ context.Context, records []api.Record) error {
	s.records = records
	s.written = true
	s.saves++
	return nil
}

type staticDefaults []api.Record

func (d staticDefaults) DefaultProperties() ([]api.Record, error) { return d, nil }

type menuRecorder struct{ groups []string }

func (m *menuRecorder) Rewrite(group string) error {
	m.groups = append(m.groups, group)
	return nil
}

func value(t *testing.T, records []api.Record, group, label, prop string) (string, bool) {
	t.Helper()
	for _, r := range records {
		if r.Group == group && r.LabelID == label && r.Property == prop {
			require.NotNil(t, r.Value)
			return *r.Value, true
		}
	}
	return "", false
}

func TestTable_FromRecordsDropsUnset(t *testing.T) {
	table := FromRecords([]api.Record{
		api.NewRecord("mainmenu", "movies", "icon", "m.png"),
		{Group: "mainmenu", LabelID: "movies", Property: "widget", Value: nil},
		{Group: "music", LabelID: "artists", Property: "widget", Value: nil},
	})
	_, ok := table.Get("mainmenu", "movies", "widget")
	assert.False(t, ok)
	v, ok := table.Get("mainmenu", "movies", "icon")
	assert.True(t, ok)
	assert.Equal(t, "m.png", v)
	assert.Contains(t, table, "music")
	assert.Len(t, table.Records(), 1)
}

func TestTable_PruneIsOrderedSinglePass(t *testing.T) {
	table := make(Table)
	table.Set("g", "e", "c", "1")
	table.Set("g", "e", "b", "1")

	// c requires b, b requires a: b goes, c stays because its edge was
	// already checked when b was removed.
	reqs := []api.Requirement{{Property: "c", Requires: "b"}, {Property: "b", Requires: "a"}}
	assert.Equal(t, []string{"b"}, table.Prune("g", "e", reqs))
	_, ok := table.Get("g", "e", "c")
	assert.True(t, ok)

	// In the other order the removal cascades.
	table.Set("g", "e", "b", "1")
	reqs = []api.Requirement{{Property: "b", Requires: "a"}, {Property: "c", Requires: "b"}}
	assert.Equal(t, []string{"b", "c"}, table.Prune("g", "e", reqs))

	assert.Nil(t, table.Prune("g", "missing", reqs))
}

func TestTable_RecordsSorted(t *testing.T) {
	table := make(Table)
	table.Set("b", "y", "p2", "1")
	table.Set("a", "z", "p1", "2")
	table.Set("b", "x", "p1", "3")
	got := table.Records()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "b"}, []string{got[0].Group, got[1].Group, got[2].Group})
	assert.Equal(t, "x", got[1].LabelID)
}

func TestMerger_DefaultsAsBase(t *testing.T) {
	s := &memStore{}
	m := &Merger{
		Store: s,
		Defaults: staticDefaults{
			api.NewRecord("mainmenu", "movies", "widget", "recentmovies"),
			api.NewRecord("mainmenu", "tvshows", "widget", "recentepisodes"),
		},
	}

	require.NoError(t, m.Apply(context.Background(), Change{
		Properties: []string{"background"},
		Values:     []string{"movies.jpg"},
		EntryIDs:   []string{"movies"},
	}))

	v, ok := value(t, s.records, "mainmenu", "tvshows", "widget")
	assert.True(t, ok)
	assert.Equal(t, "recentepisodes", v)
	v, ok = value(t, s.records, "mainmenu", "movies", "background")
	assert.True(t, ok)
	assert.Equal(t, "movies.jpg", v)
}

func TestMerger_Idempotent(t *testing.T) {
	s := &memStore{}
	m := &Merger{Store: s, Defaults: staticDefaults{api.NewRecord("movies", "genres", "icon", "g.png")}}
	c := Change{Properties: []string{"widget"}, Values: []string{"w"}, EntryIDs: []string{"movies"}, Group: "mainmenu"}

	require.NoError(t, m.Apply(context.Background(), c))
	first := append([]api.Record(nil), s.records...)
	require.NoError(t, m.Apply(context.Background(), c))
	assert.Equal(t, first, s.records)
	assert.Equal(t, 2, s.saves)
}

func TestMerger_DependencyPruning(t *testing.T) {
	s := &memStore{written: true}
	m := &Merger{Store: s, Requirements: []api.Requirement{{Property: "widgetName", Requires: "widget"}}}

	require.NoError(t, m.Apply(context.Background(), Change{
		Properties: []string{"widgetName"},
		Values:     []string{"Recent"},
		EntryIDs:   []string{"movies"},
	}))
	_, ok := value(t, s.records, "mainmenu", "movies", "widgetName")
	assert.False(t, ok)

	// Setting the requirement first keeps the dependent.
	require.NoError(t, m.Apply(context.Background(), Change{
		Properties: []string{"widget", "widgetName"},
		Values:     []string{"recentmovies", "Recent"},
		EntryIDs:   []string{"movies"},
	}))
	v, ok := value(t, s.records, "mainmenu", "movies", "widgetName")
	assert.True(t, ok)
	assert.Equal(t, "Recent", v)
}

func TestMerger_PerPropertyEntryIDsAndOtherGroupsKept(t *testing.T) {
	s := &memStore{written: true, records: []api.Record{
		api.NewRecord("movies", "genres", "icon", "g.png"),
	}}
	menus := &menuRecorder{}
	var flag control.Flag
	m := &Merger{Store: s, Menus: menus, Signal: &flag}

	require.NoError(t, m.Apply(context.Background(), Change{
		Properties: []string{"icon", "icon"},
		Values:     []string{"a.png", "b.png"},
		EntryIDs:   []string{"movies", "tvshows"},
		Group:      "mainmenu",
	}))

	v, _ := value(t, s.records, "mainmenu", "movies", "icon")
	assert.Equal(t, "a.png", v)
	v, _ = value(t, s.records, "mainmenu", "tvshows", "icon")
	assert.Equal(t, "b.png", v)
	v, _ = value(t, s.records, "movies", "genres", "icon")
	assert.Equal(t, "g.png", v)

	assert.Equal(t, []string{"mainmenu"}, menus.groups)
	assert.True(t, flag.ReloadRequested())
}

func TestMerger_NoOpAndErrors(t *testing.T) {
	s := &memStore{}
	m := &Merger{Store: s}
	ctx := context.Background()

	require.NoError(t, m.Apply(ctx, Change{EntryIDs: []string{"movies"}}))
	require.NoError(t, m.Apply(ctx, Change{Properties: []string{"icon"}, Values: []string{"x"}}))
	assert.Equal(t, 0, s.saves)

	err := m.Apply(ctx, Change{Properties: []string{"a", "b"}, Values: []string{"1"}, EntryIDs: []string{"e"}})
	assert.ErrorIs(t, err, ErrMismatchedChange)
	err = m.Apply(ctx, Change{Properties: []string{"a", "b", "c"}, Values: []string{"1", "2", "3"}, EntryIDs: []string{"e", "f"}})
	assert.ErrorIs(t, err, ErrMismatchedChange)

	boom := errors.New("disk on fire")
	m.Store = &memStore{loadErr: boom}
	err = m.Apply(ctx, Change{Properties: []string{"a"}, Values: []string{"1"}, EntryIDs: []string{"e"}})
	assert.ErrorIs(t, err, boom)
}

func TestParseChangeAndSummary(t *testing.T) {
	c := ParseChange("widget|widgetName", "::INFO::Movies|Recent", "movies", "")
	assert.Equal(t, []string{"widget", "widgetName"}, c.Properties)
	assert.Equal(t, []string{"$INFOMovies", "Recent"}, c.Values)
	assert.Equal(t, []string{"movies"}, c.EntryIDs)
	assert.Equal(t, "Set widget property to $INFOMovies?[CR](and 1 other property)", Summary(c))

	c = ParseChange("a|b|c", "1|2|3", "x", "g")
	assert.Equal(t, "Set a property to 1?[CR](and 2 other properties)", Summary(c))
	assert.Equal(t, "Set a property to 1?", Summary(ParseChange("a", "1", "x", "")))

	blank := ParseChange("widget", "", "movies", "")
	assert.Equal(t, []string{""}, blank.Values)

	empty := ParseChange("", "", "", "")
	assert.Nil(t, empty.Properties)
	assert.Nil(t, empty.EntryIDs)
	assert.Equal(t, "", Summary(empty))
}

func TestMerger_WithSQLiteAndMenuDocuments(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "properties.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	data := memfs.New()
	skin := memfs.New()
	require.NoError(t, util.WriteFile(skin, "overrides.xml", []byte(`<overrides>
  <propertydefault labelID="movies" property="widget">recentmovies</propertydefault>
  <property property="widgetName" requires="widget"/>
</overrides>`), 0o644))
	require.NoError(t, util.WriteFile(skin, "mainmenu.DATA.xml",
		[]byte(`<shortcuts><shortcut><label>Movies</label><action>a</action></shortcut></shortcuts>`), 0o644))

	docs := shortcuts.NewStore(data, skin, nil)
	o, err := docs.Overrides()
	require.NoError(t, err)
	var flag control.Flag
	m := &Merger{Store: db, Defaults: docs, Requirements: o.Requirements, Menus: docs, Signal: &flag}

	require.NoError(t, m.Apply(ctx, ParseChange("widgetName", "Recent Movies", "movies", "")))

	records, err := db.Load(ctx)
	require.NoError(t, err)
	v, ok := value(t, records, "mainmenu", "movies", "widget")
	assert.True(t, ok)
	assert.Equal(t, "recentmovies", v)
	v, ok = value(t, records, "mainmenu", "movies", "widgetName")
	assert.True(t, ok)
	assert.Equal(t, "Recent Movies", v)

	_, err = data.Stat("mainmenu.DATA.xml")
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), flag.Generation())
}

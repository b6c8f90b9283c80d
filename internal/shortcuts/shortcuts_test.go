package shortcuts

import (
	"testing"

	"github.com/agentic-research/shortcuts/api"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in      string
		convert bool
		want    string
	}{
		{"Movies", false, "movies"},
		{"Recently Added Movies", false, "recently-added-movies"},
		{"Director's Cut", false, "directors-cut"},
		{"Café & Crème", false, "cafe-creme"},
		{"Rock &amp; Roll", false, "rock-roll"},
		{"--TV   Shows--", false, "tv-shows"},
		{"12345", true, "num-12345"},
		{"12345", false, "12345"},
		{"mainmenu", true, "mainmenu"},
		{"", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, tt.convert))
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "mainmenu.DATA.xml", Filename("mainmenu"))
	assert.Equal(t, "num-32001.DATA.xml", Filename("32001"))
	assert.Equal(t, "my-movies.DATA.xml", Filename("My Movies"))
}

func TestLabelIDs_Dedupe(t *testing.T) {
	var ids LabelIDs
	assert.Equal(t, "movies", ids.Allocate("Movies", "ActivateWindow(Videos)"))
	assert.Equal(t, "movies-1", ids.Allocate("Movies", "ActivateWindow(Videos)"))
	assert.Equal(t, "movies-2", ids.Allocate("movies", ""))
	assert.Equal(t, "activatewindow-music", ids.Allocate("", "ActivateWindow(Music)"))
	assert.Equal(t, "shortcut", ids.Allocate("", ""))

	var fresh LabelIDs
	assert.Equal(t, "movies", fresh.Allocate("Movies", ""))
}

func TestMenu_AppendAndRoundTrip(t *testing.T) {
	m := NewMenu("mainmenu")
	m.Append(Shortcut{Label: "Movies", Label2: CustomLabel2, Icon: "movies.png", Action: "ActivateWindow(Videos,videodb://movies/,return)"})
	m.Append(Shortcut{Label: "Music", Action: "ActivateWindow(Music)"})
	require.Equal(t, 2, m.Len())

	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(b), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(b), "<label2>32024</label2>")

	back, err := ParseMenu("mainmenu", b)
	require.NoError(t, err)
	got := back.Shortcuts()
	require.Len(t, got, 2)
	assert.Equal(t, "Movies", got[0].Label)
	assert.Equal(t, "movies.png", got[0].Icon)
	assert.Equal(t, "", got[0].Thumb)
	assert.Equal(t, "ActivateWindow(Music)", got[1].Action)
}

func TestParseMenu_Invalid(t *testing.T) {
	_, err := ParseMenu("g", []byte("<shortcuts><shortcut"))
	assert.Error(t, err)
	_, err = ParseMenu("g", []byte(""))
	assert.Error(t, err)
}

func TestStore_FetchPrecedence(t *testing.T) {
	data := memfs.New()
	skin := memfs.New()
	require.NoError(t, util.WriteFile(skin, "mainmenu.DATA.xml",
		[]byte(`<shortcuts><shortcut><label>Skin</label><action>a</action></shortcut></shortcuts>`), 0o644))
	s := NewStore(data, skin, nil)

	m, err := s.Fetch("mainmenu")
	require.NoError(t, err)
	assert.Equal(t, "Skin", m.Shortcuts()[0].Label)

	require.NoError(t, util.WriteFile(data, "mainmenu.DATA.xml",
		[]byte(`<shortcuts><shortcut><label>User</label><action>a</action></shortcut></shortcuts>`), 0o644))
	m, err = s.Fetch("mainmenu")
	require.NoError(t, err)
	assert.Equal(t, "User", m.Shortcuts()[0].Label)

	m, err = s.Fetch("nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestStore_RewriteCopiesSkinDocument(t *testing.T) {
	data := memfs.New()
	skin := memfs.New()
	require.NoError(t, util.WriteFile(skin, "movies.DATA.xml",
		[]byte(`<shortcuts><shortcut><label>Genres</label><action>x</action></shortcut></shortcuts>`), 0o644))
	s := NewStore(data, skin, nil)

	require.NoError(t, s.Rewrite("movies"))
	b, err := util.ReadFile(data, "movies.DATA.xml")
	require.NoError(t, err)
	assert.Contains(t, string(b), "<label>Genres</label>")
}

func TestStore_LabelIDs(t *testing.T) {
	data := memfs.New()
	require.NoError(t, util.WriteFile(data, "mainmenu.DATA.xml", []byte(`<shortcuts>
  <shortcut><label>Movies</label><action>a</action></shortcut>
  <shortcut><label>Movies</label><action>b</action></shortcut>
  <shortcut><label>TV Shows</label><action>c</action></shortcut>
</shortcuts>`), 0o644))

	ids, err := NewStore(data, nil, nil).LabelIDs("mainmenu")
	require.NoError(t, err)
	assert.Equal(t, []string{"movies", "movies-1", "tv-shows"}, ids)
}

func TestParseOverrides(t *testing.T) {
	o, err := ParseOverrides([]byte(`<overrides>
  <propertydefault group="mainmenu" labelID="movies" property="widget">recentmovies</propertydefault>
  <propertydefault labelID="tvshows" property="background">tv.jpg</propertydefault>
  <propertydefault labelID="broken">ignored</propertydefault>
  <property property="widgetName" requires="widget"/>
  <propertySettings property="widgetPath" requires="widget"/>
  <property property="orphan"/>
</overrides>`))
	require.NoError(t, err)

	assert.Equal(t, []api.Record{
		api.NewRecord("mainmenu", "movies", "widget", "recentmovies"),
		api.NewRecord("mainmenu", "tvshows", "background", "tv.jpg"),
	}, o.Defaults)
	assert.Equal(t, []api.Requirement{
		{Property: "widgetName", Requires: "widget"},
		{Property: "widgetPath", Requires: "widget"},
	}, o.Requirements)
}

func TestStore_OverridesMissingFile(t *testing.T) {
	s := NewStore(memfs.New(), memfs.New(), nil)
	defaults, err := s.DefaultProperties()
	require.NoError(t, err)
	assert.Empty(t, defaults)

	s = NewStore(memfs.New(), nil, nil)
	o, err := s.Overrides()
	require.NoError(t, err)
	assert.Empty(t, o.Requirements)
}

package writeback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_WellFormed(t *testing.T) {
	src := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<shortcuts>
  <shortcut><label>Movies</label></shortcut>
</shortcuts>
`)
	assert.NoError(t, Validate(src, "mainmenu.DATA.xml"))
}

func TestValidate_Broken(t *testing.T) {
	src := []byte("<shortcuts>\n  <shortcut><label>Movies</label\n")
	err := Validate(src, "mainmenu.DATA.xml")
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "mainmenu.DATA.xml", ve.FilePath)
	assert.NotEmpty(t, ve.Message)
	assert.Contains(t, ve.Error(), "mainmenu.DATA.xml")
}

func TestValidate_NoRoot(t *testing.T) {
	err := Validate([]byte(`<?xml version="1.0"?>`), "empty.xml")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "document has no root element", ve.Message)
	assert.Equal(t, "empty.xml: document has no root element", ve.Error())
}

func TestValidate_OtherFilesPassThrough(t *testing.T) {
	assert.NoError(t, Validate([]byte("<<<"), "notes.txt"))
	assert.NoError(t, Validate([]byte("<<<"), "reload.ctl"))
}

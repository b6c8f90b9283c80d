package control

import (
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockSize(t *testing.T) {
	assert.Equal(t, uintptr(ControlSize), unsafe.Sizeof(Block{}))
}

func TestController_ReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "shortcuts.ctl")

	c, err := OpenOrCreate(path)
	require.NoError(t, err)
	assert.False(t, c.ReloadRequested())
	assert.Equal(t, uint64(0), c.Generation())

	require.NoError(t, c.RequestReload())
	assert.True(t, c.ReloadRequested())
	assert.Equal(t, uint64(1), c.Generation())
	require.NoError(t, c.Close())

	// A second process sees the pending reload.
	other, err := OpenOrCreate(path)
	require.NoError(t, err)
	defer func() { _ = other.Close() }()
	assert.True(t, other.ReloadRequested())
	assert.Equal(t, uint64(1), other.Generation())

	other.ClearReload()
	assert.False(t, other.ReloadRequested())
	assert.Equal(t, uint64(1), other.Generation())
}

func TestController_InvalidMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ctl")
	garbage := make([]byte, ControlSize)
	copy(garbage, "nope")
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	_, err := OpenOrCreate(path)
	assert.ErrorIs(t, err, ErrInvalidMagic)
	assert.ErrorContains(t, err, "65706f6e")

	// the file is left as it was
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, garbage, b)
}

func TestController_InvalidMagicAllOnes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.ctl")
	garbage := make([]byte, ControlSize)
	for i := range garbage {
		garbage[i] = 0xFF
	}
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	c, err := OpenOrCreate(path)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrInvalidMagic)
	assert.ErrorContains(t, err, "ffffffff")

	// a good control file still opens afterwards
	good, err := OpenOrCreate(filepath.Join(t.TempDir(), "good.ctl"))
	require.NoError(t, err)
	require.NoError(t, good.Close())
}

func TestFlag(t *testing.T) {
	var f Flag
	assert.False(t, f.ReloadRequested())
	require.NoError(t, f.RequestReload())
	require.NoError(t, f.RequestReload())
	assert.True(t, f.ReloadRequested())
	assert.Equal(t, uint64(2), f.Generation())
	f.ClearReload()
	assert.False(t, f.ReloadRequested())
}

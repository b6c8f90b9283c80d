package control

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	ControlSize = 4096       // 1 page
	Magic       = 0x534B5343 // 'SKSC'
)

// ErrInvalidMagic is returned for an existing file that is not a control
// block.
var ErrInvalidMagic = errors.New("invalid magic")

// Block represents the memory-mapped control file.
// It must match the C layout exactly for interoperability.
type Block struct {
	Magic      uint32
	Version    uint32
	Generation uint64 // Atomic, bumped on every reload request
	Reload     uint32 // Atomic, 1 while the host menu is stale
	Padding    [ControlSize - 20]byte
}

// Controller manages the memory-mapped control file the host shell polls
// to decide whether its menu must be rebuilt.
type Controller struct {
	path string
	file *os.File
	data []byte
	ptr  *Block
}

// OpenOrCreate opens or creates a control file at the given path.
func OpenOrCreate(path string) (*Controller, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open control file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	if info.Size() < ControlSize {
		if err := f.Truncate(ControlSize); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("truncate: %w", err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, ControlSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap: %w", err)
	}

	ptr := (*Block)(unsafe.Pointer(&data[0]))

	// Initialize if new
	if ptr.Magic == 0 {
		ptr.Magic = Magic
		ptr.Version = 1
	} else if m := ptr.Magic; m != Magic {
		// ptr is invalid once data is unmapped
		_ = unix.Munmap(data)
		_ = f.Close()
		return nil, fmt.Errorf("%w: %x", ErrInvalidMagic, m)
	}

	return &Controller{
		path: path,
		file: f,
		data: data,
		ptr:  ptr,
	}, nil
}

// Path returns the control file location.
func (c *Controller) Path() string { return c.path }

// Generation returns the number of reload requests seen so far.
func (c *Controller) Generation() uint64 {
	return atomic.LoadUint64(&c.ptr.Generation)
}

// RequestReload marks the menu stale.
func (c *Controller) RequestReload() error {
	atomic.StoreUint32(&c.ptr.Reload, 1)
	// Memory barrier before generation update (Go atomic handles this)
	atomic.AddUint64(&c.ptr.Generation, 1)
	return unix.Msync(c.data, unix.MS_ASYNC)
}

// ReloadRequested reports whether a reload is pending.
func (c *Controller) ReloadRequested() bool {
	return atomic.LoadUint32(&c.ptr.Reload) == 1
}

// ClearReload acknowledges a pending reload. The host calls this after it
// has rebuilt its menu.
func (c *Controller) ClearReload() {
	atomic.StoreUint32(&c.ptr.Reload, 0)
}

// Close unmaps and closes the control file.
func (c *Controller) Close() error {
	if err := unix.Munmap(c.data); err != nil {
		return err
	}
	return c.file.Close()
}

// Flag is an in-process reload signal for callers without a control file.
type Flag struct {
	reload     atomic.Bool
	generation atomic.Uint64
}

func (f *Flag) RequestReload() error {
	f.reload.Store(true)
	f.generation.Add(1)
	return nil
}

func (f *Flag) ReloadRequested() bool { return f.reload.Load() }
func (f *Flag) ClearReload()          { f.reload.Store(false) }
func (f *Flag) Generation() uint64    { return f.generation.Load() }

// Signal is implemented by Controller and Flag.
type Signal interface {
	RequestReload() error
	ReloadRequested() bool
	ClearReload()
	Generation() uint64
}

// Interface compliance
var (
	_ Signal = (*Controller)(nil)
	_ Signal = (*Flag)(nil)
)

// Package rom holds the binary resource a profile is resolved against.
package rom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Header layout of a GBA cartridge image.
const (
	GameCodeOffset = 0xAC
	GameCodeLength = 4
	VersionOffset  = 0xBC
)

var (
	ErrTooSmall = errors.New("rom: image too small for header")
	ErrClosed   = errors.New("rom: image closed")
)

// Key identifies a title by its 4-byte game code and 1-byte version.
type Key struct {
	Code    string
	Version uint8
}

// String returns the document form of the key, e.g. "BPEE_00".
func (k Key) String() string {
	return fmt.Sprintf("%s_%02X", k.Code, k.Version)
}

// ROM is an owned, read-only image. The buffer is released by Close; after
// that every accessor reports ErrClosed.
type ROM struct {
	mu   sync.RWMutex
	data []byte
	key  Key
	once sync.Once
}

// New takes ownership of data. The caller must not modify data afterwards.
func New(data []byte) (*ROM, error) {
	if len(data) <= VersionOffset {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}
	code := data[GameCodeOffset : GameCodeOffset+GameCodeLength]
	return &ROM{
		data: data,
		key:  Key{Code: string(code), Version: data[VersionOffset]},
	}, nil
}

// Open reads the image at path.
func Open(path string) (*ROM, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rom %s: %w", path, err)
	}
	r, err := New(b)
	if err != nil {
		return nil, fmt.Errorf("open rom %s: %w", path, err)
	}
	return r, nil
}

// Key returns the lookup key read from the header.
func (r *ROM) Key() Key { return r.key }

// Len returns the image length, or 0 once closed.
func (r *ROM) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// ReadAt implements io.ReaderAt over the image.
func (r *ROM) ReadAt(p []byte, off int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.data == nil {
		return 0, ErrClosed
	}
	if off < 0 || off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Closed reports whether Close has released the image.
func (r *ROM) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data == nil
}

// Close releases the buffer. It is safe to call more than once.
func (r *ROM) Close() error {
	r.once.Do(func() {
		r.mu.Lock()
		r.data = nil
		r.mu.Unlock()
	})
	return nil
}

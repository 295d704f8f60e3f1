//go:build linux

package hardware

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/brianhealey/gmux/internal/models"
)

// DevPort is the real port driver. It reads and writes I/O ports through
// the /dev/port character device, where the file offset is the port number.
// A 32-bit access is four consecutive byte accesses, least significant first.
type DevPort struct {
	mu      sync.Mutex
	path    string
	fd      int
	limiter *rate.Limiter
}

// NewDevPort creates a driver for the given device path. maxOpsPerSec <= 0
// selects DefaultMaxOpsPerSec.
func NewDevPort(path string, maxOpsPerSec int) *DevPort {
	if path == "" {
		path = DefaultDevice
	}
	if maxOpsPerSec <= 0 {
		maxOpsPerSec = DefaultMaxOpsPerSec
	}
	return &DevPort{
		path:    path,
		fd:      -1,
		limiter: rate.NewLimiter(rate.Limit(maxOpsPerSec), opsBurst),
	}
}

func (d *DevPort) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd >= 0 {
		return nil
	}
	fd, err := unix.Open(d.path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return openError(d.path, err)
	}
	d.fd = fd
	slog.Debug("devport: opened", "path", d.path)
	return nil
}

// openError maps a failed open to PrivilegeDenied when the kernel refused
// access, and to a hardware error otherwise.
func openError(path string, err error) error {
	if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
		return models.ErrPrivilegeDenied(fmt.Errorf("open %s: %w", path, err))
	}
	return models.ErrHardware("open "+path, err)
}

func (d *DevPort) Read8(ctx context.Context, port Port) (uint8, error) {
	var buf [1]byte
	if err := d.pread(ctx, port, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *DevPort) Read32(ctx context.Context, port Port) (uint32, error) {
	var buf [4]byte
	if err := d.pread(ctx, port, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (d *DevPort) Write8(ctx context.Context, port Port, val uint8) error {
	return d.pwrite(ctx, port, []byte{val})
}

func (d *DevPort) Write32(ctx context.Context, port Port, val uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], val)
	return d.pwrite(ctx, port, buf[:])
}

func (d *DevPort) pread(ctx context.Context, port Port, buf []byte) error {
	if err := d.limiter.WaitN(ctx, len(buf)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return fmt.Errorf("devport: driver not initialized")
	}
	n, err := unix.Pread(d.fd, buf, int64(port))
	if err != nil {
		return models.ErrHardware(fmt.Sprintf("read port 0x%03x", port), err)
	}
	if n != len(buf) {
		return models.ErrHardware(fmt.Sprintf("read port 0x%03x", port), fmt.Errorf("short read: %d of %d bytes", n, len(buf)))
	}
	return nil
}

func (d *DevPort) pwrite(ctx context.Context, port Port, buf []byte) error {
	if err := d.limiter.WaitN(ctx, len(buf)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return fmt.Errorf("devport: driver not initialized")
	}
	n, err := unix.Pwrite(d.fd, buf, int64(port))
	if err != nil {
		return models.ErrHardware(fmt.Sprintf("write port 0x%03x", port), err)
	}
	if n != len(buf) {
		return models.ErrHardware(fmt.Sprintf("write port 0x%03x", port), fmt.Errorf("short write: %d of %d bytes", n, len(buf)))
	}
	return nil
}

// Close releases the device file descriptor.
func (d *DevPort) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// Halt implements conn.Resource.
func (d *DevPort) Halt() error { return d.Close() }

func (d *DevPort) IsReal() bool { return true }

func (d *DevPort) String() string { return d.path }

var _ Driver = (*DevPort)(nil)

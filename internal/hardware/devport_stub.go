//go:build !linux

package hardware

import (
	"context"
	"errors"
)

var errUnsupported = errors.New("devport: I/O port access is only implemented on linux")

// DevPort is unavailable on this platform; Init always fails.
type DevPort struct {
	path string
}

func NewDevPort(path string, maxOpsPerSec int) *DevPort {
	if path == "" {
		path = DefaultDevice
	}
	return &DevPort{path: path}
}

func (d *DevPort) Init(ctx context.Context) error { return errUnsupported }

func (d *DevPort) Read8(ctx context.Context, port Port) (uint8, error) { return 0, errUnsupported }

func (d *DevPort) Read32(ctx context.Context, port Port) (uint32, error) { return 0, errUnsupported }

func (d *DevPort) Write8(ctx context.Context, port Port, val uint8) error { return errUnsupported }

func (d *DevPort) Write32(ctx context.Context, port Port, val uint32) error { return errUnsupported }

func (d *DevPort) Close() error { return nil }

func (d *DevPort) Halt() error { return nil }

func (d *DevPort) IsReal() bool { return true }

func (d *DevPort) String() string { return d.path }

var _ Driver = (*DevPort)(nil)

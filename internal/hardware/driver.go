// Package hardware provides port-level access to the gmux chip. It defines
// the Driver interface implemented by the /dev/port driver and by the
// in-memory Mock, the register map with its two addressing layouts, chip
// profile detection and the diagnostic register dump.
package hardware

import (
	"context"

	"periph.io/x/conn/v3"
)

// Port is an x86 I/O port address.
type Port = uint16

// Driver is the port access capability handed to the brightness and power
// code. Implementations are used from a single goroutine per invocation.
// Every driver is also a periph conn.Resource; Halt releases the handle like
// Close.
type Driver interface {
	conn.Resource

	// Init acquires the privileged I/O handle. Must be called before any other method.
	Init(ctx context.Context) error

	// Read8 reads one byte from port.
	Read8(ctx context.Context, port Port) (uint8, error)

	// Read32 reads a little-endian 32-bit value starting at port.
	Read32(ctx context.Context, port Port) (uint32, error)

	// Write8 writes one byte to port.
	Write8(ctx context.Context, port Port, val uint8) error

	// Write32 writes a little-endian 32-bit value starting at port.
	Write32(ctx context.Context, port Port, val uint32) error

	// Close releases the I/O handle. Safe to call more than once.
	Close() error

	// IsReal returns true for a real hardware driver, false for a mock.
	IsReal() bool
}

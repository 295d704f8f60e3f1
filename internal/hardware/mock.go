package hardware

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brianhealey/gmux/internal/models"
)

var (
	errMockRead  = errors.New("mock: read failure configured")
	errMockWrite = errors.New("mock: write failure configured")
)

// Access is one recorded port operation on a Mock.
type Access struct {
	Write bool
	Width int // 8 or 32
	Port  Port
	Value uint32
}

func (a Access) String() string {
	op := "read"
	if a.Write {
		op = "write"
	}
	if a.Width == 8 {
		return fmt.Sprintf("%s8 0x%03x=0x%02x", op, a.Port, a.Value)
	}
	return fmt.Sprintf("%s32 0x%03x=0x%08x", op, a.Port, a.Value)
}

// Mock is an in-memory register bank standing in for the gmux chip.
// Registers are byte addressed like /dev/port, so a 32-bit access touches
// four consecutive ports, little-endian.
type Mock struct {
	mu        sync.Mutex
	regs      map[Port]uint8
	pinned    map[Port]bool
	log       []Access
	failInit  error
	failRead  bool
	failWrite bool
	closed    bool
}

// Values the mock powers up with: chip 1.9.35, both GPUs powered, display and
// DDC on the integrated GPU in either layout, brightness at 50%.
const (
	mockMaxBrightness = 0x24EC4
	mockBrightness    = 0x12762
)

// NewMock creates a mock register bank with power-on defaults.
func NewMock() *Mock {
	m := &Mock{
		regs:   make(map[Port]uint8),
		pinned: make(map[Port]bool),
	}
	m.regs[PortVersionMajor] = 1
	m.regs[PortVersionMinor] = 9
	m.regs[PortVersionRelease] = 35
	m.store32(Port710, DisplayIntegrated)
	m.store32(Port728, DisplayIntegrated)
	m.regs[Port724] = DGPUPowerOn
	m.regs[Port750] = DGPUPowerOn
	m.regs[PortIntegratedPow] = 1
	m.store32(PortMaxBrightness, mockMaxBrightness)
	m.store32(PortBrightness, mockBrightness)
	return m
}

// SetFailInit makes Init return err.
func (m *Mock) SetFailInit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failInit = err
}

// SetFailWrite configures the mock to fail all write operations.
func (m *Mock) SetFailWrite(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = fail
}

// SetFailRead configures the mock to fail all read operations.
func (m *Mock) SetFailRead(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = fail
}

// Pin sets a 32-bit register and makes it ignore later writes, simulating a
// latch that does not follow commands.
func (m *Mock) Pin(port Port, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store32(port, val)
	for i := Port(0); i < 4; i++ {
		m.pinned[port+i] = true
	}
}

func (m *Mock) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failInit
}

func (m *Mock) Read8(ctx context.Context, port Port) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return 0, models.ErrHardware(fmt.Sprintf("read port 0x%03x", port), errMockRead)
	}
	v := m.regs[port]
	m.log = append(m.log, Access{Width: 8, Port: port, Value: uint32(v)})
	return v, nil
}

func (m *Mock) Read32(ctx context.Context, port Port) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return 0, models.ErrHardware(fmt.Sprintf("read port 0x%03x", port), errMockRead)
	}
	v := m.load32(port)
	m.log = append(m.log, Access{Width: 32, Port: port, Value: v})
	return v, nil
}

func (m *Mock) Write8(ctx context.Context, port Port, val uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return models.ErrHardware(fmt.Sprintf("write port 0x%03x", port), errMockWrite)
	}
	m.log = append(m.log, Access{Write: true, Width: 8, Port: port, Value: uint32(val)})
	if !m.pinned[port] {
		m.regs[port] = val
	}
	return nil
}

func (m *Mock) Write32(ctx context.Context, port Port, val uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return models.ErrHardware(fmt.Sprintf("write port 0x%03x", port), errMockWrite)
	}
	m.log = append(m.log, Access{Write: true, Width: 32, Port: port, Value: val})
	for i := Port(0); i < 4; i++ {
		if !m.pinned[port+i] {
			m.regs[port+i] = uint8(val >> (8 * i))
		}
	}
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Mock) Halt() error { return m.Close() }

func (m *Mock) IsReal() bool {
	return false
}

func (m *Mock) String() string { return "mock" }

// Closed reports whether Close has been called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GetReg8 returns a register byte for testing purposes.
func (m *Mock) GetReg8(port Port) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[port]
}

// GetReg32 returns a 32-bit register value for testing purposes.
func (m *Mock) GetReg32(port Port) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load32(port)
}

// SetReg8 sets a register byte without recording an access.
func (m *Mock) SetReg8(port Port, val uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[port] = val
}

// SetReg32 sets a 32-bit register without recording an access.
func (m *Mock) SetReg32(port Port, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store32(port, val)
}

// Accesses returns the recorded port operations in order.
func (m *Mock) Accesses() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Access, len(m.log))
	copy(out, m.log)
	return out
}

// Writes returns only the recorded write operations, in order.
func (m *Mock) Writes() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Access
	for _, a := range m.log {
		if a.Write {
			out = append(out, a)
		}
	}
	return out
}

// ResetLog clears the access log.
func (m *Mock) ResetLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = nil
}

func (m *Mock) load32(port Port) uint32 {
	var v uint32
	for i := Port(0); i < 4; i++ {
		v |= uint32(m.regs[port+i]) << (8 * i)
	}
	return v
}

func (m *Mock) store32(port Port, val uint32) {
	for i := Port(0); i < 4; i++ {
		m.regs[port+i] = uint8(val >> (8 * i))
	}
}

var _ Driver = (*Mock)(nil)

package hardware

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
)

// DumpRegister is one named register in a dump. Dword is only meaningful
// when HasDword is set.
type DumpRegister struct {
	Port     Port
	Byte     uint8
	Dword    uint32
	HasDword bool
}

// ScanEntry is a port in the scanned window that returned data.
type ScanEntry struct {
	Port  Port
	Byte  uint8
	Dword uint32
}

// RegisterDump is a snapshot of every known gmux register plus a scan of the
// whole register window.
type RegisterDump struct {
	Version       [3]uint8
	Switch        []DumpRegister
	MaxBrightness uint32
	Brightness    uint32
	Scan          []ScanEntry
}

// switchPorts are dumped in this order; the mux ports are shown at both widths.
var switchPorts = []struct {
	port  Port
	dword bool
}{
	{Port710, true},
	{Port724, false},
	{Port728, true},
	{PortIntegratedPow, false},
	{Port750, false},
}

// Scan values that mean "nothing here".
var emptyScanValues = []uint32{0x00000000, 0xffffffff}

// ReadDump reads all registers. It only reads, so it is safe on any family.
func ReadDump(ctx context.Context, drv Driver) (*RegisterDump, error) {
	d := &RegisterDump{}
	for i, p := range []Port{PortVersionMajor, PortVersionMinor, PortVersionRelease} {
		v, err := drv.Read8(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("dump: port 0x%03x: %w", p, err)
		}
		d.Version[i] = v
	}

	for _, sp := range switchPorts {
		r := DumpRegister{Port: sp.port, HasDword: sp.dword}
		b, err := drv.Read8(ctx, sp.port)
		if err != nil {
			return nil, fmt.Errorf("dump: port 0x%03x: %w", sp.port, err)
		}
		r.Byte = b
		if sp.dword {
			if r.Dword, err = drv.Read32(ctx, sp.port); err != nil {
				return nil, fmt.Errorf("dump: port 0x%03x: %w", sp.port, err)
			}
		}
		d.Switch = append(d.Switch, r)
	}

	var err error
	if d.MaxBrightness, err = drv.Read32(ctx, PortMaxBrightness); err != nil {
		return nil, fmt.Errorf("dump: max brightness: %w", err)
	}
	if d.Brightness, err = drv.Read32(ctx, PortBrightness); err != nil {
		return nil, fmt.Errorf("dump: brightness: %w", err)
	}

	for p := ScanStart; p < ScanEnd; p += 4 {
		dw, err := drv.Read32(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("dump: scan 0x%03x: %w", p, err)
		}
		b, err := drv.Read8(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("dump: scan 0x%03x: %w", p, err)
		}
		if slices.Contains(emptyScanValues, dw) {
			continue
		}
		d.Scan = append(d.Scan, ScanEntry{Port: p, Byte: b, Dword: dw})
	}
	return d, nil
}

// WriteTo renders the dump as the classic gmux register listing.
func (d *RegisterDump) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString("=== Gmux Register Dump ===\n\n")
	sb.WriteString("Version registers:\n")
	fmt.Fprintf(&sb, "  0x704 (major):   0x%02x\n", d.Version[0])
	fmt.Fprintf(&sb, "  0x705 (minor):   0x%02x\n", d.Version[1])
	fmt.Fprintf(&sb, "  0x706 (release): 0x%02x\n", d.Version[2])

	sb.WriteString("\nSwitch registers (standard addresses):\n")
	for _, r := range d.Switch {
		if r.HasDword {
			fmt.Fprintf(&sb, "  0x%03x: 0x%02x (byte) / 0x%08x (dword)\n", r.Port, r.Byte, r.Dword)
		} else {
			fmt.Fprintf(&sb, "  0x%03x: 0x%02x\n", r.Port, r.Byte)
		}
	}

	sb.WriteString("\nBrightness registers:\n")
	fmt.Fprintf(&sb, "  0x770 (max): 0x%08x\n", d.MaxBrightness)
	fmt.Fprintf(&sb, "  0x774 (cur): 0x%08x\n", d.Brightness)

	fmt.Fprintf(&sb, "\nScanning for interesting values (0x%03x-0x%03x):\n", ScanStart, ScanEnd-1)
	for _, e := range d.Scan {
		fmt.Fprintf(&sb, "  0x%03x: byte=0x%02x dword=0x%08x\n", e.Port, e.Byte, e.Dword)
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

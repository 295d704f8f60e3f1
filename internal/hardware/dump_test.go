package hardware_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/brianhealey/gmux/internal/hardware"
)

func TestReadDump_Mock(t *testing.T) {
	m := hardware.NewMock()
	d, err := hardware.ReadDump(context.Background(), m)
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	if d.Version != [3]uint8{1, 9, 35} {
		t.Errorf("Version = %v, want [1 9 35]", d.Version)
	}
	if d.MaxBrightness != 0x24EC4 {
		t.Errorf("MaxBrightness = 0x%x", d.MaxBrightness)
	}
	if len(d.Switch) != 5 {
		t.Fatalf("Switch has %d registers, want 5", len(d.Switch))
	}

	// The scan only reports ports that are neither 0 nor all ones.
	m.SetReg32(0x7f0, 0xffffffff)
	d, err = hardware.ReadDump(context.Background(), m)
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	var ports []hardware.Port
	for _, e := range d.Scan {
		if e.Dword == 0 || e.Dword == 0xffffffff {
			t.Errorf("scan reported empty port 0x%03x=0x%08x", e.Port, e.Dword)
		}
		ports = append(ports, e.Port)
	}
	want := []hardware.Port{0x704, 0x710, 0x724, 0x728, 0x740, 0x750, 0x770, 0x774}
	if len(ports) != len(want) {
		t.Fatalf("scan ports = %x, want %x", ports, want)
	}
	for i := range want {
		if ports[i] != want[i] {
			t.Errorf("scan[%d] = 0x%03x, want 0x%03x", i, ports[i], want[i])
		}
	}
}

func TestReadDump_DoesNotWrite(t *testing.T) {
	m := hardware.NewMock()
	if _, err := hardware.ReadDump(context.Background(), m); err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	if w := m.Writes(); len(w) != 0 {
		t.Errorf("ReadDump wrote to hardware: %v", w)
	}
}

func TestRegisterDump_WriteTo(t *testing.T) {
	m := hardware.NewMock()
	d, err := hardware.ReadDump(context.Background(), m)
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d", n, buf.Len())
	}
	out := buf.String()
	for _, want := range []string{
		"=== Gmux Register Dump ===",
		"  0x705 (minor):   0x09\n",
		"  0x728: 0x02 (byte) / 0x00000002 (dword)\n",
		"  0x724: 0x01\n",
		"  0x770 (max): 0x00024ec4\n",
		"  0x774: byte=0x62 dword=0x00012762\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %q\n%s", want, out)
		}
	}
}

func TestReadDump_ReadFailure(t *testing.T) {
	m := hardware.NewMock()
	m.SetFailRead(true)
	if _, err := hardware.ReadDump(context.Background(), m); err == nil {
		t.Error("ReadDump with failing reads: expected error")
	}
}

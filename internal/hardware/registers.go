package hardware

import (
	"fmt"
	"strings"
)

// Register addresses of the gmux chip.
const (
	PortVersionMajor   Port = 0x704
	PortVersionMinor   Port = 0x705
	PortVersionRelease Port = 0x706
	Port710            Port = 0x710 // display switch (standard) / DDC switch (alternate)
	Port724            Port = 0x724 // discrete GPU power (alternate) / scratch
	Port728            Port = 0x728 // DDC switch (standard) / display switch (alternate)
	PortIntegratedPow  Port = 0x740
	Port750            Port = 0x750 // discrete GPU power (standard)
	PortMaxBrightness  Port = 0x770 // read-only
	PortBrightness     Port = 0x774

	// Range scanned by the register dump.
	ScanStart Port = 0x700
	ScanEnd   Port = 0x800
)

// Register values written by the power sequencer. Bit 0 of the display and
// DDC mux registers selects the GPU: 0 = integrated, 1 = discrete.
const (
	MuxDiscreteBit           = 0x1
	DDCIntegrated     uint8  = 0x00
	DisplayIntegrated uint32 = 0x02
	DGPUPowerOff      uint8  = 0x00
	DGPUPowerOn       uint8  = 0x01
)

// Layout is the set of switch and power ports used by one chip family.
type Layout struct {
	Name            string
	SwitchDisplay   Port // 32-bit access
	SwitchDDC       Port // 8-bit access
	DiscretePower   Port
	IntegratedPower Port
}

// The two known addressing families.
var (
	StandardLayout = Layout{
		Name:            "standard",
		SwitchDisplay:   Port710,
		SwitchDDC:       Port728,
		DiscretePower:   Port750,
		IntegratedPower: PortIntegratedPow,
	}
	AlternateLayout = Layout{
		Name:            "alternate",
		SwitchDisplay:   Port728,
		SwitchDDC:       Port710,
		DiscretePower:   Port724,
		IntegratedPower: PortIntegratedPow,
	}
)

// Layouts lists the supported families in a stable order.
var Layouts = []Layout{StandardLayout, AlternateLayout}

// LayoutByName returns the layout for a family name (case-insensitive).
func LayoutByName(name string) (Layout, error) {
	for _, l := range Layouts {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("unknown gmux family %q (want standard or alternate)", name)
}

// MuxIsDiscrete reports whether a mux register value routes to the discrete GPU.
func MuxIsDiscrete(v uint32) bool {
	return v&MuxDiscreteBit != 0
}

// PortName returns the symbolic name of a register in the given layout, or
// its hex address when it has no role there.
func (l Layout) PortName(p Port) string {
	switch p {
	case l.SwitchDisplay:
		return "display switch"
	case l.SwitchDDC:
		return "DDC switch"
	case l.DiscretePower:
		return "discrete power"
	case l.IntegratedPower:
		return "integrated power"
	case PortMaxBrightness:
		return "max brightness"
	case PortBrightness:
		return "brightness"
	}
	return fmt.Sprintf("0x%03x", p)
}

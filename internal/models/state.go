// Package models defines the data structures shared by the gmux tools:
// brightness readings, conversion modes, GPU power commands and the
// sampled power state of the multiplexer.
package models

import "fmt"

// BrightnessReading is a raw brightness register value together with the
// calibrated maximum it is measured against. Raw never exceeds Max.
type BrightnessReading struct {
	Raw uint32
	Max uint32
}

// ModeKind selects how a ConversionMode value is interpreted.
type ModeKind uint8

const (
	ModeAbsolute ModeKind = iota // Value is a target percentage, 0..100
	ModeRelative                 // Value is a signed percentage delta, -100..100
)

func (k ModeKind) String() string {
	switch k {
	case ModeAbsolute:
		return "absolute"
	case ModeRelative:
		return "relative"
	default:
		return "unknown"
	}
}

// ConversionMode is a parsed brightness request.
type ConversionMode struct {
	Kind  ModeKind
	Value int32
}

// Absolute returns a request to set brightness to percent.
func Absolute(percent int32) ConversionMode {
	return ConversionMode{Kind: ModeAbsolute, Value: percent}
}

// Relative returns a request to move brightness by delta percent.
func Relative(delta int32) ConversionMode {
	return ConversionMode{Kind: ModeRelative, Value: delta}
}

func (m ConversionMode) String() string {
	if m.Kind == ModeRelative {
		return fmt.Sprintf("%+d%%", m.Value)
	}
	return fmt.Sprintf("%d%%", m.Value)
}

// GPUPowerCommand is the only input accepted by the power sequencer.
type GPUPowerCommand uint8

const (
	PowerOff GPUPowerCommand = iota
	PowerOn
)

func (c GPUPowerCommand) String() string {
	switch c {
	case PowerOff:
		return "off"
	case PowerOn:
		return "on"
	default:
		return fmt.Sprintf("GPUPowerCommand(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the known commands.
func (c GPUPowerCommand) Valid() bool {
	return c == PowerOff || c == PowerOn
}

// PowerState is a snapshot of the four multiplexer registers sampled at one
// point in time. The raw register values are kept for status output.
type PowerState struct {
	DiscretePower   bool
	IntegratedPower bool
	DisplayDiscrete bool // display mux bit 0
	DDCDiscrete     bool // DDC mux bit 0

	DiscretePowerReg   uint8
	IntegratedPowerReg uint8
	DisplayReg         uint32
	DDCReg             uint8
}

// Info describes the tool, the machine and the detected chip.
type Info struct {
	Version       string // gmux tool version
	Hostname      string
	Vendor        string
	Product       string
	ChipVersion   string
	Family        string
	Driver        string // "/dev/port" or "mock"
	Mock          bool
	MaxBrightness uint32
}

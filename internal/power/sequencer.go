// Package power sequences discrete GPU power changes on the gmux chip so the
// display is never left routed to a GPU that is being switched off.
package power

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianhealey/gmux/internal/hardware"
	"github.com/brianhealey/gmux/internal/models"
)

// Delays are the mandatory waits between register writes.
type Delays struct {
	// Settle follows each mux or power write while powering off.
	Settle time.Duration
	// PowerOn follows the power-on write.
	PowerOn time.Duration
}

// DefaultDelays are the timings the chip is known to need.
var DefaultDelays = Delays{
	Settle:  100 * time.Millisecond,
	PowerOn: 500 * time.Millisecond,
}

// Sequencer runs power-off and power-on sequences against one layout.
type Sequencer struct {
	drv    hardware.Driver
	layout hardware.Layout
	delays Delays
	sleep  func(time.Duration)
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithDelays overrides the default delays.
func WithDelays(d Delays) Option {
	return func(s *Sequencer) { s.delays = d }
}

// WithSleep replaces time.Sleep, for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Sequencer) { s.sleep = fn }
}

// New creates a Sequencer for the given driver and layout.
func New(drv hardware.Driver, layout hardware.Layout, opts ...Option) *Sequencer {
	s := &Sequencer{
		drv:    drv,
		layout: layout,
		delays: DefaultDelays,
		sleep:  time.Sleep,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Delays returns the delays in effect.
func (s *Sequencer) Delays() Delays { return s.delays }

// Run executes cmd and returns the power state sampled afterwards. An
// invalid command is rejected before any port is touched. Once started a
// sequence runs to completion or first error; cancelling ctx does not
// interrupt it.
func (s *Sequencer) Run(ctx context.Context, cmd models.GPUPowerCommand) (models.PowerState, error) {
	if !cmd.Valid() {
		return models.PowerState{}, models.ErrInputValidation(cmd.String(), "unknown GPU power command")
	}
	ctx = context.WithoutCancel(ctx)

	var err error
	switch cmd {
	case models.PowerOff:
		err = s.powerOff(ctx)
	case models.PowerOn:
		err = s.powerOn(ctx)
	}
	if err != nil {
		return models.PowerState{}, err
	}
	return s.Status(ctx)
}

func (s *Sequencer) powerOff(ctx context.Context) error {
	l := s.layout

	slog.Debug("power: switching DDC to integrated", portAttr(l, l.SwitchDDC))
	if err := s.drv.Write8(ctx, l.SwitchDDC, hardware.DDCIntegrated); err != nil {
		return fmt.Errorf("switch DDC: %w", err)
	}
	s.sleep(s.delays.Settle)

	slog.Debug("power: switching display to integrated", portAttr(l, l.SwitchDisplay))
	if err := s.drv.Write32(ctx, l.SwitchDisplay, hardware.DisplayIntegrated); err != nil {
		return fmt.Errorf("switch display: %w", err)
	}
	s.sleep(s.delays.Settle)

	disp, err := s.drv.Read32(ctx, l.SwitchDisplay)
	if err != nil {
		return fmt.Errorf("verify display switch: %w", err)
	}
	if hardware.MuxIsDiscrete(disp) {
		slog.Warn("power: display mux did not follow, leaving discrete GPU powered",
			portAttr(l, l.SwitchDisplay), "value", fmt.Sprintf("0x%08x", disp))
		return models.ErrDisplayStillRouted
	}

	slog.Debug("power: cutting discrete GPU power", portAttr(l, l.DiscretePower))
	if err := s.drv.Write8(ctx, l.DiscretePower, hardware.DGPUPowerOff); err != nil {
		return fmt.Errorf("power off discrete GPU: %w", err)
	}
	s.sleep(s.delays.Settle)
	return nil
}

func (s *Sequencer) powerOn(ctx context.Context) error {
	l := s.layout

	slog.Debug("power: powering on discrete GPU", portAttr(l, l.DiscretePower))
	if err := s.drv.Write8(ctx, l.DiscretePower, hardware.DGPUPowerOn); err != nil {
		return fmt.Errorf("power on discrete GPU: %w", err)
	}
	s.sleep(s.delays.PowerOn)
	return nil
}

// portAttr names a port by its role in the layout, with its address.
func portAttr(l hardware.Layout, p hardware.Port) slog.Attr {
	return slog.String("port", fmt.Sprintf("%s (0x%03x)", l.PortName(p), p))
}

// Status samples the discrete power, integrated power, display mux and DDC
// mux registers, in that order.
func (s *Sequencer) Status(ctx context.Context) (models.PowerState, error) {
	l := s.layout
	var st models.PowerState
	var err error

	if st.DiscretePowerReg, err = s.drv.Read8(ctx, l.DiscretePower); err != nil {
		return models.PowerState{}, fmt.Errorf("read discrete power: %w", err)
	}
	if st.IntegratedPowerReg, err = s.drv.Read8(ctx, l.IntegratedPower); err != nil {
		return models.PowerState{}, fmt.Errorf("read integrated power: %w", err)
	}
	if st.DisplayReg, err = s.drv.Read32(ctx, l.SwitchDisplay); err != nil {
		return models.PowerState{}, fmt.Errorf("read display switch: %w", err)
	}
	if st.DDCReg, err = s.drv.Read8(ctx, l.SwitchDDC); err != nil {
		return models.PowerState{}, fmt.Errorf("read DDC switch: %w", err)
	}

	st.DiscretePower = st.DiscretePowerReg != 0
	st.IntegratedPower = st.IntegratedPowerReg != 0
	st.DisplayDiscrete = hardware.MuxIsDiscrete(st.DisplayReg)
	st.DDCDiscrete = hardware.MuxIsDiscrete(uint32(st.DDCReg))
	return st, nil
}
